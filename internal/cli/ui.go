package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/photobooth/pkg/errors"
	"github.com/matzehuels/photobooth/pkg/frame"
	"github.com/matzehuels/photobooth/pkg/photo"
	"github.com/matzehuels/photobooth/pkg/session"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for frame names and other emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleNumber for slot indices and counts.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)
)

var (
	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// FormatError renders err as a one-line, user-facing error message.
func FormatError(err error) string {
	return styleIconError.Render(iconError) + " " + errors.UserMessage(err)
}

// =============================================================================
// Printer
// =============================================================================

// printer writes styled status lines for a command.
type printer struct {
	w io.Writer
}

// out returns a printer over the command's standard output.
func out(cmd *cobra.Command) printer { return printer{w: cmd.OutOrStdout()} }

func (p printer) println(s string) { fmt.Fprintln(p.w, s) }

func (p printer) success(format string, args ...any) {
	p.println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func (p printer) warn(format string, args ...any) {
	p.println(styleIconWarning.Render(iconWarning) + " " + styleIconWarning.Render(fmt.Sprintf(format, args...)))
}

func (p printer) info(format string, args ...any) {
	p.println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

func (p printer) detail(format string, args ...any) {
	p.println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func (p printer) file(path string) {
	p.println("  " + StyleDim.Render(iconArrow) + " " + styleValue.Render(path))
}

func (p printer) field(key, value string) {
	p.println(styleKey.Render(key) + " " + styleValue.Render(value))
}

func (p printer) hint(description, cmd string) {
	p.println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Collage Output
// =============================================================================

// skipped warns about every photo that failed to decode.
func (p printer) skipped(failures []photo.Failure) {
	for _, f := range failures {
		p.warn("Skipped %s: %s", f.Name, f.Message())
	}
}

// collage prints what was exported: the frame, a fill line and the files.
func (p printer) collage(verb string, snap session.Snapshot, cached bool, paths []string) {
	p.success("%s %s", verb, StyleHighlight.Render(snap.Frame.String()))
	p.println("  " + fillLine(snap.Frame, len(snap.Library), len(snap.Assignment), cached))
	for _, path := range paths {
		p.file(path)
	}
}

// fillLine summarizes how a frame was filled, e.g.
// "4 photos · 3/4 slots · cached".
func fillLine(def frame.Definition, photos, filled int, cached bool) string {
	parts := []string{
		fmt.Sprintf("%d photos", photos),
		fmt.Sprintf("%d/%d slots", filled, def.Slots),
	}
	if unused := photos - filled; unused > 0 {
		parts = append(parts, fmt.Sprintf("%d unused", unused))
	}
	sep := StyleDim.Render(" · ")
	line := StyleDim.Render(strings.Join(parts, " · "))
	if cached {
		return line + sep + styleCached.Render("cached")
	}
	return line + sep + StyleDim.Render("fresh")
}
