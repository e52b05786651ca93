package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/photobooth/pkg/config"
	"github.com/matzehuels/photobooth/pkg/errors"
	"github.com/matzehuels/photobooth/pkg/frame"
	"github.com/matzehuels/photobooth/pkg/pipeline"
	"github.com/matzehuels/photobooth/pkg/sink"
)

// defaultOutput is the output base name when neither -o nor the job names one.
const defaultOutput = "collage"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	job     string   // job file (.toml, .yaml)
	frameID int      // frame id
	width   int      // portrait canvas width
	height  int      // portrait canvas height
	output  string   // output file (single format) or base path (multiple)
	formats string   // comma-separated output formats
	zooms   []string // SLOT=DELTA
	pans    []string // SLOT=DX,DY
	noCache bool     // bypass the artifact cache
}

// renderCommand creates the render command for composing a collage.
// Flags override values from the job file; positional photos replace the
// job's photo list.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [photos...]",
		Short: "Compose photos into a frame and export the collage",
		Long: `Compose photos into a frame and export the collage as PNG, PDF or a printable HTML page.

Photos fill the frame's slots in order. Each slot can be zoomed and panned:

  photobooth render -f 9 --zoom 0=0.5 --pan 0=20,-10 a.jpg b.jpg c.jpg d.jpg

A job file describes the same thing declaratively:

  photobooth render --job wedding.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			job, err := buildJob(cmd, cfg, &opts, args)
			if err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runRender(ctx, cmd, cfg, job, opts.noCache)
		},
	}

	cmd.Flags().StringVar(&opts.job, "job", "", "render job file (.toml, .yaml)")
	cmd.Flags().IntVarP(&opts.frameID, "frame", "f", 0, "frame id (see 'photobooth frames')")
	cmd.Flags().IntVar(&opts.width, "width", 0, "portrait canvas width (landscape frames use the transpose)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "portrait canvas height")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&opts.formats, "format", "", "output format(s): png (default), pdf, html (comma-separated)")
	cmd.Flags().StringArrayVar(&opts.zooms, "zoom", nil, "zoom delta for a slot, SLOT=DELTA (repeatable)")
	cmd.Flags().StringArrayVar(&opts.pans, "pan", nil, "pan offset for a slot, SLOT=DX,DY (repeatable)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// buildJob merges the job file, the config defaults and the flags.
func buildJob(cmd *cobra.Command, cfg config.Config, opts *renderOpts, photos []string) (pipeline.Job, error) {
	var job pipeline.Job
	if opts.job != "" {
		j, err := pipeline.LoadJob(opts.job)
		if err != nil {
			return job, err
		}
		job = j
	} else {
		job.Frame = cfg.Booth.Frame
		job.Width, job.Height = cfg.Canvas.Width, cfg.Canvas.Height
	}

	flags := cmd.Flags()
	if flags.Changed("frame") {
		job.Frame = opts.frameID
	}
	if flags.Changed("width") {
		job.Width = opts.width
	}
	if flags.Changed("height") {
		job.Height = opts.height
	}
	if opts.output != "" {
		job.Output = opts.output
	}
	if opts.formats != "" {
		formats, err := sink.ParseFormats(opts.formats)
		if err != nil {
			return job, err
		}
		job.Formats = job.Formats[:0]
		for _, f := range formats {
			job.Formats = append(job.Formats, string(f))
		}
	}
	if len(photos) > 0 {
		job.Photos = photos
	}
	edits, err := parseSlotEdits(opts.zooms, opts.pans)
	if err != nil {
		return job, err
	}
	job.Slots = mergeSlotEdits(job.Slots, edits)

	if len(job.Photos) == 0 {
		return job, errors.New(errors.ErrCodeInvalidInput, "no photos given")
	}
	job.SetDefaults()
	return job, job.Validate()
}

// runRender executes the job and writes one file per format.
func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, cfg config.Config, job pipeline.Job, noCache bool) error {
	logger := loggerFromContext(ctx)
	runner := c.newRunner(ctx, cfg, noCache)
	defer runner.Close()

	def := frame.MustGet(job.Frame)
	logger.Debug("rendering", "frame", def.String(), "photos", len(job.Photos), "formats", job.Formats)

	prog := newProgress(logger)
	spinner := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Preparing %s...", def.Name))
	spinner.Start()
	result, err := runner.ExecuteWithProgress(ctx, job, spinner.Stage(def))
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done("Rendered " + def.Name)

	formats, _ := job.ParsedFormats()
	paths := outputPaths(job.Output, formats)
	files := make([]string, 0, len(formats))
	for _, f := range formats {
		if err := writeOutput(paths[f], result.Artifacts[f]); err != nil {
			return err
		}
		files = append(files, paths[f])
	}

	p := out(cmd)
	p.skipped(result.Failures)
	p.collage("Rendered", result.Snapshot, result.CacheInfo.ExportHit, files)
	return nil
}

// outputPaths maps each format to its output file. A single format uses
// base verbatim when it carries an extension; otherwise the format's
// extension replaces whatever base has.
func outputPaths(base string, formats []sink.Format) map[sink.Format]string {
	if base == "" {
		base = defaultOutput
	}
	paths := make(map[sink.Format]string, len(formats))
	if len(formats) == 1 && filepath.Ext(base) != "" {
		paths[formats[0]] = base
		return paths
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	for _, f := range formats {
		paths[f] = stem + f.Ext()
	}
	return paths
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// Slot Edit Flags
// =============================================================================

// parseSlotEdits parses --zoom SLOT=DELTA and --pan SLOT=DX,DY flags.
// Edits for the same slot are merged; the result is ordered by first
// mention.
func parseSlotEdits(zooms, pans []string) ([]pipeline.SlotEdit, error) {
	var edits []pipeline.SlotEdit
	at := func(slot int) *pipeline.SlotEdit {
		for i := range edits {
			if edits[i].Slot == slot {
				return &edits[i]
			}
		}
		edits = append(edits, pipeline.SlotEdit{Slot: slot})
		return &edits[len(edits)-1]
	}

	for _, z := range zooms {
		slot, val, err := splitSlotFlag("zoom", z)
		if err != nil {
			return nil, err
		}
		delta, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid --zoom %q: delta must be a number", z)
		}
		at(slot).Zoom += delta
	}

	for _, p := range pans {
		slot, val, err := splitSlotFlag("pan", p)
		if err != nil {
			return nil, err
		}
		xs, ys, ok := strings.Cut(val, ",")
		dx, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		dy, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if !ok || errX != nil || errY != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid --pan %q: want SLOT=DX,DY", p)
		}
		e := at(slot)
		e.PanX += dx
		e.PanY += dy
	}
	return edits, nil
}

func splitSlotFlag(name, s string) (int, string, error) {
	k, v, ok := strings.Cut(s, "=")
	if !ok {
		return 0, "", errors.New(errors.ErrCodeInvalidInput, "invalid --%s %q: missing '='", name, s)
	}
	slot, err := strconv.Atoi(strings.TrimSpace(k))
	if err != nil || slot < 0 {
		return 0, "", errors.New(errors.ErrCodeInvalidInput, "invalid --%s %q: slot must be a non-negative integer", name, s)
	}
	return slot, strings.TrimSpace(v), nil
}

// mergeSlotEdits appends flag edits after the job's own edits. Both are
// applied in order, so deltas accumulate.
func mergeSlotEdits(job, flags []pipeline.SlotEdit) []pipeline.SlotEdit {
	if len(flags) == 0 {
		return job
	}
	out := make([]pipeline.SlotEdit, 0, len(job)+len(flags))
	out = append(out, job...)
	return append(out, flags...)
}
