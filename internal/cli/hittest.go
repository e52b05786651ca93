package cli

import (
	"fmt"
	"image"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/photobooth/pkg/errors"
	"github.com/matzehuels/photobooth/pkg/frame"
	"github.com/matzehuels/photobooth/pkg/layout"
)

// hittestCommand creates the hittest command, which reports the slot under
// a canvas point.
func (c *CLI) hittestCommand() *cobra.Command {
	var (
		frameID       int
		width, height int
	)

	cmd := &cobra.Command{
		Use:   "hittest X Y",
		Short: "Report which slot contains a canvas point",
		Long: `Report which slot of a frame contains the canvas point (X, Y).

Coordinates are canvas pixels with the origin at the top-left corner. A point
on a shared boundary belongs to the slot with the higher index.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("frame") {
				frameID = cfg.Booth.Frame
			}
			if !cmd.Flags().Changed("width") {
				width = cfg.Canvas.Width
			}
			if !cmd.Flags().Changed("height") {
				height = cfg.Canvas.Height
			}
			p, err := parsePoint(args[0], args[1])
			if err != nil {
				return err
			}
			return runHitTest(out(cmd), frameID, width, height, p)
		},
	}

	cmd.Flags().IntVarP(&frameID, "frame", "f", frame.DefaultID, "frame id")
	cmd.Flags().IntVar(&width, "width", frame.DefaultWidth, "portrait canvas width")
	cmd.Flags().IntVar(&height, "height", frame.DefaultHeight, "portrait canvas height")

	return cmd
}

func runHitTest(pr printer, frameID, width, height int, p image.Point) error {
	def, err := frame.Get(frameID)
	if err != nil {
		return err
	}
	w, h := def.Canvas(width, height)
	slot, err := layout.HitTest(def, p, w, h)
	if err != nil {
		return err
	}
	rect, err := layout.SlotRect(def, slot, w, h)
	if err != nil {
		return err
	}

	pr.field("Frame", def.String())
	pr.field("Canvas", fmt.Sprintf("%dx%d", w, h))
	pr.field("Point", p.String())
	pr.field("Slot", StyleNumber.Render(strconv.Itoa(slot)))
	pr.field("Rect", rect.String())
	return nil
}

func parsePoint(xs, ys string) (image.Point, error) {
	x, errX := strconv.Atoi(xs)
	y, errY := strconv.Atoi(ys)
	if errX != nil || errY != nil {
		return image.Point{}, errors.New(errors.ErrCodeInvalidInput, "coordinates must be integers, got %q %q", xs, ys)
	}
	return image.Pt(x, y), nil
}
