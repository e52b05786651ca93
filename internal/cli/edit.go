package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/photobooth/pkg/frame"
	"github.com/matzehuels/photobooth/pkg/photo"
	"github.com/matzehuels/photobooth/pkg/pipeline"
	"github.com/matzehuels/photobooth/pkg/session"
)

// editCommand creates the interactive editor command.
func (c *CLI) editCommand() *cobra.Command {
	var (
		frameID int
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "edit [photos...]",
		Short: "Arrange, zoom and pan photos interactively",
		Long: `Open an interactive terminal editor over a new session.

The photos are loaded into the session library and fill the frame's slots in
order. Select a slot with tab, zoom with +/-, pan with the arrow keys and
press s to export the collage to the output file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("frame") {
				frameID = cfg.Booth.Frame
			}
			def, err := frame.Get(frameID)
			if err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), c.Logger)

			sess := session.New(
				session.WithFrame(def),
				session.WithCanvas(cfg.Canvas.Width, cfg.Canvas.Height),
				session.WithDecodeLimit(pipeline.DefaultDecodeLimit),
			)
			p := out(cmd)
			spinner := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Decoding %d photos...", len(args)))
			spinner.Start()
			up, err := sess.Upload(ctx, photo.Files(args...), session.NoSlot)
			spinner.Stop()
			if err != nil {
				return err
			}
			p.skipped(up.Failures)
			if len(up.Added) == 0 {
				return photo.Batch{Failures: up.Failures}.Err()
			}

			runner := c.newRunner(ctx, cfg, noCache)
			defer runner.Close()

			prog := tea.NewProgram(NewEditorModel(ctx, sess, runner, output), tea.WithContext(ctx))
			finalModel, err := prog.Run()
			if err != nil {
				return err
			}

			fm, ok := finalModel.(EditorModel)
			if !ok || len(fm.Saved) == 0 {
				p.detail("Nothing saved")
				return nil
			}
			p.collage("Saved", fm.Session.Snapshot(), false, fm.Saved)
			return nil
		},
	}

	cmd.Flags().IntVarP(&frameID, "frame", "f", frame.DefaultID, "frame id")
	cmd.Flags().StringVarP(&output, "output", "o", defaultOutput+".png", "output file; the extension selects png, pdf or html")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}
