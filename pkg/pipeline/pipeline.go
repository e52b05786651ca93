// Package pipeline provides the decode → compose → export pipeline.
//
// This package implements the complete collage pipeline used by the CLI,
// the editor and the HTTP server. By centralizing it, every entry point
// caches and encodes artifacts the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Decode: load photo files concurrently into a fresh session
//  2. Compose: rasterize the session snapshot onto the frame canvas
//  3. Export: encode the raster as PNG, PDF or a print page
//
// Exported artifacts are cached under a content key derived from the frame,
// canvas, photo hashes and slot transforms.
//
// # Usage
//
// Render a job file:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	job, err := pipeline.LoadJob("job.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, job)
//	png := result.Artifacts[sink.FormatPNG]
//
// Export a live session:
//
//	artifacts, err := runner.Export(ctx, sess.Snapshot(), []sink.Format{sink.FormatPDF})
package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/photobooth/pkg/config"
	"github.com/matzehuels/photobooth/pkg/errors"
	"github.com/matzehuels/photobooth/pkg/frame"
	"github.com/matzehuels/photobooth/pkg/photo"
	"github.com/matzehuels/photobooth/pkg/session"
	"github.com/matzehuels/photobooth/pkg/sink"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultDecodeLimit bounds concurrent photo decodes per job.
	DefaultDecodeLimit = 4

	// DefaultTTL is how long exported artifacts stay cached.
	DefaultTTL = 24 * time.Hour

	// DefaultThumbSize is the edge length of gallery thumbnails.
	DefaultThumbSize = 160
)

// =============================================================================
// Job - Declarative Render Request
// =============================================================================

// Job describes one collage render. It is the schema of render job files.
type Job struct {
	Frame   int        `json:"frame" toml:"frame" yaml:"frame"`
	Width   int        `json:"width,omitempty" toml:"width" yaml:"width"`
	Height  int        `json:"height,omitempty" toml:"height" yaml:"height"`
	Photos  []string   `json:"photos" toml:"photos" yaml:"photos"`
	Slots   []SlotEdit `json:"slots,omitempty" toml:"slots" yaml:"slots"`
	Formats []string   `json:"formats,omitempty" toml:"formats" yaml:"formats"`
	Output  string     `json:"output,omitempty" toml:"output" yaml:"output"`
}

// SlotEdit adjusts the transform of one filled slot.
type SlotEdit struct {
	Slot int     `json:"slot" toml:"slot" yaml:"slot"`
	Zoom float64 `json:"zoom,omitempty" toml:"zoom" yaml:"zoom"` // delta added to 1.0
	PanX float64 `json:"pan_x,omitempty" toml:"pan_x" yaml:"pan_x"`
	PanY float64 `json:"pan_y,omitempty" toml:"pan_y" yaml:"pan_y"`
}

// SetDefaults fills unset fields.
func (j *Job) SetDefaults() {
	if j.Frame == 0 {
		j.Frame = frame.DefaultID
	}
	if j.Width == 0 && j.Height == 0 {
		j.Width, j.Height = frame.DefaultWidth, frame.DefaultHeight
	}
	if len(j.Formats) == 0 {
		j.Formats = []string{string(sink.FormatPNG)}
	}
}

// Validate checks the job against the frame catalog.
func (j *Job) Validate() error {
	def, err := frame.Get(j.Frame)
	if err != nil {
		return err
	}
	if j.Width <= 0 || j.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas must be positive, got %dx%d", j.Width, j.Height)
	}
	if _, err := j.ParsedFormats(); err != nil {
		return err
	}
	for _, e := range j.Slots {
		if e.Slot < 0 || e.Slot >= def.Slots {
			return errors.New(errors.ErrCodeSlotOutOfRange, "slot %d out of range for frame %d (%d slots)", e.Slot, def.ID, def.Slots)
		}
	}
	return nil
}

// ParsedFormats returns the job's formats as sink formats.
func (j *Job) ParsedFormats() ([]sink.Format, error) {
	return sink.ParseFormats(strings.Join(j.Formats, ","))
}

// LoadJob reads a TOML or YAML job file. Relative photo and output paths
// are resolved against the job file's directory.
func LoadJob(path string) (Job, error) {
	var job Job
	data, err := os.ReadFile(path)
	if err != nil {
		return job, errors.Wrap(errors.ErrCodeNotFound, err, "read job %s", path)
	}
	if err := config.Decode(data, filepath.Ext(path), &job); err != nil {
		return job, err
	}
	base := filepath.Dir(path)
	for i, p := range job.Photos {
		job.Photos[i] = resolve(base, p)
	}
	if job.Output != "" {
		job.Output = resolve(base, job.Output)
	}
	job.SetDefaults()
	return job, job.Validate()
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Snapshot is the composed session state.
	Snapshot session.Snapshot

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[sink.Format][]byte

	// Failures lists photos that could not be decoded.
	Failures []photo.Failure

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Photos     int
	DecodeTime time.Duration
	ExportTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	ExportHit bool // Whether all artifacts came from cache
}
