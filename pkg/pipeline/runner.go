package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/photobooth/pkg/cache"
	"github.com/matzehuels/photobooth/pkg/compose"
	"github.com/matzehuels/photobooth/pkg/errors"
	"github.com/matzehuels/photobooth/pkg/frame"
	"github.com/matzehuels/photobooth/pkg/observability"
	"github.com/matzehuels/photobooth/pkg/photo"
	"github.com/matzehuels/photobooth/pkg/session"
	"github.com/matzehuels/photobooth/pkg/sink"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the editor and the server share this to avoid duplicating
// caching logic.
//
// The Runner holds no per-render state. Multiple goroutines can safely use
// the same Runner; identical concurrent exports are rendered once.
type Runner struct {
	Cache      cache.Cache
	Keyer      cache.Keyer
	Logger     *log.Logger
	TTL        time.Duration
	Compositor *compose.Compositor

	group singleflight.Group
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:      c,
		Keyer:      keyer,
		Logger:     logger,
		TTL:        DefaultTTL,
		Compositor: compose.New(),
	}
}

// Stage names a step of Execute.
type Stage string

const (
	StageDecode Stage = "decode"
	StageEdit   Stage = "edit"
	StageExport Stage = "export"
)

// ProgressFunc is called when Execute enters a stage. n is the number of
// photos, slot edits or formats the stage works on.
type ProgressFunc func(stage Stage, n int)

// Execute runs the complete decode → compose → export pipeline for a job.
// Photos that fail to decode are reported in the result; the job fails only
// when none of its photos could be decoded.
func (r *Runner) Execute(ctx context.Context, job Job) (*Result, error) {
	return r.ExecuteWithProgress(ctx, job, nil)
}

// ExecuteWithProgress is Execute with a stage callback.
func (r *Runner) ExecuteWithProgress(ctx context.Context, job Job, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(Stage, int) {}
	}
	job.SetDefaults()
	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job: %w", err)
	}
	formats, _ := job.ParsedFormats()

	sess := session.New(
		session.WithFrame(frame.MustGet(job.Frame)),
		session.WithCanvas(job.Width, job.Height),
		session.WithDecodeLimit(DefaultDecodeLimit),
	)
	result := &Result{}

	// Stage 1: Decode
	progress(StageDecode, len(job.Photos))
	decodeStart := time.Now()
	up, err := sess.Upload(ctx, photo.Files(job.Photos...), session.NoSlot)
	if err != nil {
		return nil, fmt.Errorf("place photos: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result.Failures = up.Failures
	result.Stats.DecodeTime = time.Since(decodeStart)
	result.Stats.Photos = len(up.Added)
	for _, f := range up.Failures {
		r.Logger.Warn("skipped photo", "file", f.Name, "reason", f.Message())
	}
	if len(job.Photos) > 0 && len(up.Added) == 0 {
		return nil, photo.Batch{Failures: up.Failures}.Err()
	}
	if extra := len(up.Added) - sess.Snapshot().Frame.Slots; extra > 0 {
		r.Logger.Warn("frame is full, extra photos ignored", "frame", job.Frame, "ignored", extra)
	}
	r.Logger.Info("decoded photos",
		"photos", len(up.Added),
		"failed", len(up.Failures),
		"duration", result.Stats.DecodeTime)

	// Stage 2: Slot edits
	if len(job.Slots) > 0 {
		progress(StageEdit, len(job.Slots))
	}
	for _, e := range job.Slots {
		if err := r.applyEdit(sess, e); err != nil {
			return nil, fmt.Errorf("slot %d: %w", e.Slot, err)
		}
	}

	// Stage 3: Compose and export
	progress(StageExport, len(formats))
	exportStart := time.Now()
	result.Snapshot = sess.Snapshot()
	artifacts, hit, err := r.ExportWithCacheInfo(ctx, result.Snapshot, formats)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = hit

	r.Logger.Info("exported collage",
		"frame", result.Snapshot.Frame.ID,
		"formats", formats,
		"cached", hit,
		"duration", result.Stats.ExportTime)

	return result, nil
}

func (r *Runner) applyEdit(sess *session.Session, e SlotEdit) error {
	if e.Zoom != 0 {
		if err := sess.SetZoom(e.Slot, e.Zoom); err != nil {
			return err
		}
	}
	if e.PanX != 0 || e.PanY != 0 {
		return sess.Pan(e.Slot, e.PanX, e.PanY)
	}
	return nil
}

// Compose rasterizes a snapshot.
func (r *Runner) Compose(ctx context.Context, snap session.Snapshot) (*image.RGBA, error) {
	return r.Compositor.Render(ctx, snap.Frame, snap.Canvas.X, snap.Canvas.Y, snap.Slots())
}

// RenderFunc adapts the runner for a [session.Recomposer].
func (r *Runner) RenderFunc() session.RenderFunc {
	return func(ctx context.Context, snap session.Snapshot) (image.Image, error) {
		img, err := r.Compose(ctx, snap)
		if err != nil {
			return nil, err
		}
		return img, nil
	}
}

// ExportWithCacheInfo encodes a snapshot in every requested format with
// caching and reports whether all artifacts came from the cache.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, snap session.Snapshot, formats []sink.Format) (map[sink.Format][]byte, bool, error) {
	if len(formats) == 0 {
		formats = []sink.Format{sink.FormatPNG}
	}
	names := formatNames(formats)
	start := time.Now()
	observability.Pipeline().OnExportStart(ctx, names)

	artifacts, hit, err := r.export(ctx, snap, formats)
	observability.Pipeline().OnExportComplete(ctx, names, time.Since(start), err)
	return artifacts, hit, err
}

// Export is a convenience wrapper that calls ExportWithCacheInfo and discards the cache hit info.
func (r *Runner) Export(ctx context.Context, snap session.Snapshot, formats []sink.Format) (map[sink.Format][]byte, error) {
	artifacts, _, err := r.ExportWithCacheInfo(ctx, snap, formats)
	return artifacts, err
}

func (r *Runner) export(ctx context.Context, snap session.Snapshot, formats []sink.Format) (map[sink.Format][]byte, bool, error) {
	artifacts := make(map[sink.Format][]byte, len(formats))
	for _, f := range formats {
		if data, ok := r.cached(ctx, r.artifactKey(snap, f)); ok {
			artifacts[f] = data
		}
	}
	if len(artifacts) == len(formats) {
		return artifacts, true, nil
	}

	// Identical concurrent requests share one raster and PNG encoding.
	v, err, _ := r.group.Do(r.artifactKey(snap, sink.FormatPNG), func() (any, error) {
		img, err := r.Compose(ctx, snap)
		if err != nil {
			return nil, err
		}
		png, err := sink.RenderPNG(img)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
		}
		return rendered{img: img, png: png}, nil
	})
	if err != nil {
		return nil, false, err
	}
	out := v.(rendered)

	for _, f := range formats {
		if _, ok := artifacts[f]; ok {
			continue
		}
		data, err := sink.Render(out.img, out.png, f)
		if err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", f)
		}
		artifacts[f] = data
		r.store(ctx, r.artifactKey(snap, f), data)
	}
	return artifacts, false, nil
}

func (r *Runner) cached(ctx context.Context, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, key)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, key)
	return data, true
}

func (r *Runner) store(ctx context.Context, key string, data []byte) {
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
}

type rendered struct {
	img image.Image
	png []byte
}

// Thumbnail returns a cached PNG thumbnail of p fitting size×size.
func (r *Runner) Thumbnail(ctx context.Context, p *photo.Photo, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultThumbSize
	}
	key := r.Keyer.ThumbKey(p.Hash, size)
	if data, ok := r.cached(ctx, key); ok {
		return data, nil
	}
	data, err := sink.RenderPNG(photo.Thumbnail(p, size, size))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode thumbnail")
	}
	r.store(ctx, key, data)
	return data, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) artifactKey(snap session.Snapshot, f sink.Format) string {
	return r.Keyer.ArtifactKey(ArtifactKeyOpts(snap, f))
}

// ArtifactKeyOpts returns the cache key inputs of a snapshot export.
func ArtifactKeyOpts(snap session.Snapshot, f sink.Format) cache.ArtifactKeyOpts {
	slots := make([]cache.SlotKey, len(snap.Assignment))
	for i, lib := range snap.Assignment {
		t := snap.Transform(i)
		slots[i] = cache.SlotKey{
			Photo: snap.Library[lib].Hash,
			Zoom:  t.Zoom,
			X:     t.Offset.X,
			Y:     t.Offset.Y,
		}
	}
	return cache.ArtifactKeyOpts{
		FrameID: snap.Frame.ID,
		Width:   snap.Canvas.X,
		Height:  snap.Canvas.Y,
		Slots:   slots,
		Format:  string(f),
	}
}

func formatNames(formats []sink.Format) []string {
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = string(f)
	}
	return out
}
