package photo

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/photobooth/pkg/errors"
	"github.com/matzehuels/photobooth/pkg/observability"
)

// Source is one user-selected file.
type Source interface {
	Name() string
	Open() (io.ReadCloser, error)
}

type fileSource string

func (f fileSource) Name() string                 { return filepath.Base(string(f)) }
func (f fileSource) Open() (io.ReadCloser, error) { return os.Open(string(f)) }

// File returns a Source reading from a path on disk.
func File(path string) Source { return fileSource(path) }

// Files returns one Source per path, in order.
func Files(paths ...string) []Source {
	out := make([]Source, len(paths))
	for i, p := range paths {
		out[i] = File(p)
	}
	return out
}

type bytesSource struct {
	name string
	data []byte
}

func (b bytesSource) Name() string                 { return b.name }
func (b bytesSource) Open() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(b.data)), nil }

// Bytes returns a Source over an in-memory encoded image.
func Bytes(name string, data []byte) Source { return bytesSource{name: name, data: data} }

// Failure describes one file of a batch that could not be decoded.
type Failure struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Err   error  `json:"-"`
}

// Message returns the user-facing reason of the failure.
func (f Failure) Message() string { return errors.UserMessage(f.Err) }

// Batch is the outcome of decoding a multi-file selection.
type Batch struct {
	// Photos holds the decoded photos in original selection order.
	Photos []*Photo
	// Failures lists files that could not be decoded, by selection index.
	Failures []Failure
}

// Err joins all failures into one error, or returns nil.
func (b Batch) Err() error {
	if len(b.Failures) == 0 {
		return nil
	}
	f := b.Failures[0]
	if len(b.Failures) == 1 {
		return errors.Wrap(errors.ErrCodeDecodeFailure, f.Err, "file %d (%s)", f.Index+1, f.Name)
	}
	return errors.Wrap(errors.ErrCodeDecodeFailure, f.Err, "%d files failed, first: file %d (%s)",
		len(b.Failures), f.Index+1, f.Name)
}

// DecodeBatch decodes all sources concurrently with at most limit decodes
// in flight (limit <= 0 uses GOMAXPROCS). It returns only after every
// decode has finished. A cancelled context marks not-yet-started files as
// failed.
func DecodeBatch(ctx context.Context, srcs []Source, limit int) Batch {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	start := time.Now()
	observability.Pipeline().OnDecodeStart(ctx, len(srcs))

	photos := make([]*Photo, len(srcs))
	errs := make([]error, len(srcs))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, src := range srcs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = errors.Wrap(errors.ErrCodeDecodeFailure, err, "decode %s", src.Name())
				return nil
			}
			photos[i], errs[i] = decodeSource(src)
			return nil
		})
	}
	_ = g.Wait()

	var b Batch
	for i, src := range srcs {
		if errs[i] != nil {
			b.Failures = append(b.Failures, Failure{
				Index: i,
				Name:  errors.SanitizeFileName(src.Name(), i),
				Err:   errs[i],
			})
			continue
		}
		b.Photos = append(b.Photos, photos[i])
	}
	observability.Pipeline().OnDecodeComplete(ctx, len(b.Photos), len(b.Failures), time.Since(start))
	return b
}

func decodeSource(src Source) (*Photo, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecodeFailure, err, "open %s", src.Name())
	}
	defer rc.Close()
	return Decode(rc, src.Name())
}
