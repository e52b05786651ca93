package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/photobooth/pkg/compose"
	"github.com/matzehuels/photobooth/pkg/frame"
	"github.com/matzehuels/photobooth/pkg/sink"
)

// framesCommand creates the frames command listing the catalog.
func (c *CLI) framesCommand() *cobra.Command {
	var previews string

	cmd := &cobra.Command{
		Use:   "frames",
		Short: "List the available frames",
		Long: `List the predefined frames with their slot count, geometry and orientation.

With --previews, a thumbnail of every frame is written to the given directory
as frame-<id>.png.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs := frame.List()
			p := out(cmd)
			p.println(framesTable(defs))

			if previews == "" {
				p.hint("Render a collage", appName+" render -f 9 a.jpg b.jpg c.jpg d.jpg")
				return nil
			}
			paths, err := writePreviews(defs, previews)
			if err != nil {
				return err
			}
			p.success("Wrote %d previews", len(paths))
			p.detail("Directory: %s", previews)
			return nil
		},
	}

	cmd.Flags().StringVar(&previews, "previews", "", "write preview thumbnails to this directory")

	return cmd
}

// framesTable renders the catalog as a bordered table.
func framesTable(defs []frame.Definition) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "NAME", "SLOTS", "GEOMETRY", "ORIENTATION").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col == 0 || col == 2 {
				return cell.Foreground(colorCyan)
			}
			return cell
		})

	for _, d := range defs {
		t.Row(strconv.Itoa(d.ID), d.Name, strconv.Itoa(d.Slots), string(d.Kind), string(d.Orientation))
	}
	return t.Render()
}

// writePreviews renders a default-size preview of every frame into dir.
func writePreviews(defs []frame.Definition, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create preview dir: %w", err)
	}
	paths := make([]string, 0, len(defs))
	for _, d := range defs {
		img, err := compose.Preview(d, 0, 0)
		if err != nil {
			return paths, fmt.Errorf("preview frame %d: %w", d.ID, err)
		}
		data, err := sink.RenderPNG(img)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, fmt.Sprintf("frame-%d.png", d.ID))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
