package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/photobooth/pkg/errors"
	"github.com/matzehuels/photobooth/pkg/frame"
	"github.com/matzehuels/photobooth/pkg/pipeline"
	"github.com/matzehuels/photobooth/pkg/session"
	"github.com/matzehuels/photobooth/pkg/sink"
)

// Editor step sizes.
const (
	zoomStep = 0.1
	panStep  = 10.0
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// EditorModel - Interactive slot editor
// =============================================================================

// savedMsg reports the outcome of an export started with "s".
type savedMsg struct {
	paths []string
	err   error
}

// EditorModel is the bubbletea model for editing a session in the terminal.
// Every key maps to one session operation; the session is the only state
// besides the slot cursor.
type EditorModel struct {
	Session *session.Session
	Cursor  int
	Saved   []string

	ctx    context.Context
	runner *pipeline.Runner
	output string
	status string
	err    error
	saving bool
}

// NewEditorModel creates an editor over sess. Saving writes to output,
// whose extension selects the format.
func NewEditorModel(ctx context.Context, sess *session.Session, runner *pipeline.Runner, output string) EditorModel {
	return EditorModel{
		Session: sess,
		ctx:     ctx,
		runner:  runner,
		output:  output,
	}
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.Saved = append(m.Saved, msg.paths...)
		m.status = "saved " + strings.Join(msg.paths, ", ")
		return m, nil

	case tea.KeyMsg:
		m.err = nil
		m.status = ""
		snap := m.Session.Snapshot()

		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "n":
			m.Cursor = (m.Cursor + 1) % snap.Frame.Slots
		case "shift+tab", "p":
			m.Cursor = (m.Cursor + snap.Frame.Slots - 1) % snap.Frame.Slots
		case "+", "=":
			m.err = m.Session.SetZoom(m.Cursor, zoomStep)
		case "-", "_":
			m.err = m.Session.SetZoom(m.Cursor, -zoomStep)
		case "up", "k":
			m.err = m.Session.Pan(m.Cursor, 0, -panStep)
		case "down", "j":
			m.err = m.Session.Pan(m.Cursor, 0, panStep)
		case "left", "h":
			m.err = m.Session.Pan(m.Cursor, -panStep, 0)
		case "right", "l":
			m.err = m.Session.Pan(m.Cursor, panStep, 0)
		case "r":
			m.err = m.Session.ResetTransform(m.Cursor)
		case "a":
			m.err = m.cyclePhoto(snap)
		case "x", "delete", "backspace":
			m.err = m.Session.RemoveSlot(m.Cursor)
		case "f":
			m.err = m.stepFrame(snap, 1)
		case "F":
			m.err = m.stepFrame(snap, -1)
		case "s":
			if m.saving {
				return m, nil
			}
			m.saving = true
			m.status = "saving..."
			return m, m.save(snap)
		}
	}
	return m, nil
}

// cyclePhoto assigns the next library photo to the cursor slot.
func (m *EditorModel) cyclePhoto(snap session.Snapshot) error {
	if len(snap.Library) == 0 {
		return errors.New(errors.ErrCodePhotoNotFound, "no photos loaded")
	}
	next := 0
	if m.Cursor < len(snap.Assignment) {
		next = (snap.Assignment[m.Cursor] + 1) % len(snap.Library)
	}
	return m.Session.AssignToSlot(m.Cursor, next)
}

// stepFrame switches to the neighbouring frame in catalog order.
func (m *EditorModel) stepFrame(snap session.Snapshot, dir int) error {
	defs := frame.List()
	i := 0
	for j, d := range defs {
		if d.ID == snap.Frame.ID {
			i = j
			break
		}
	}
	next := defs[(i+dir+len(defs))%len(defs)]
	if err := m.Session.SelectFrame(next.ID); err != nil {
		return err
	}
	if m.Cursor >= next.Slots {
		m.Cursor = next.Slots - 1
	}
	return nil
}

// save exports snap in the background.
func (m EditorModel) save(snap session.Snapshot) tea.Cmd {
	ctx, runner, output := m.ctx, m.runner, m.output
	return func() tea.Msg {
		f := formatForPath(output)
		artifacts, err := runner.Export(ctx, snap, []sink.Format{f})
		if err != nil {
			return savedMsg{err: err}
		}
		path := outputPaths(output, []sink.Format{f})[f]
		if err := writeOutput(path, artifacts[f]); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{paths: []string{path}}
	}
}

// formatForPath picks the export format from a file extension, defaulting
// to PNG.
func formatForPath(path string) sink.Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return sink.FormatPNG
	}
	formats, err := sink.ParseFormats(ext)
	if err != nil {
		return sink.FormatPNG
	}
	return formats[0]
}

func (m EditorModel) View() string {
	var b strings.Builder
	snap := m.Session.Snapshot()

	b.WriteString(StyleTitle.Render("Photobooth Editor"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%s · %d slots · %dx%d canvas · %d photos loaded",
		snap.Frame.String(), snap.Frame.Slots, snap.Canvas.X, snap.Canvas.Y, len(snap.Library))))
	b.WriteString("\n\n")

	rows := make([][]string, 0, snap.Frame.Slots)
	for i := 0; i < snap.Frame.Slots; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		name, zoom, pan := "—", "—", "—"
		if i < len(snap.Assignment) {
			name = snap.Library[snap.Assignment[i]].Name
			t := snap.Transforms[i]
			zoom = strconv.FormatFloat(t.Zoom, 'f', 1, 64) + "x"
			pan = fmt.Sprintf("%+.0f,%+.0f", t.Offset.X, t.Offset.Y)
		}
		rows = append(rows, []string{cursor, strconv.Itoa(i), name, zoom, pan})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Slot", "Photo", "Zoom", "Pan").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			switch {
			case row == m.Cursor:
				return listSelectedStyle
			case row >= len(snap.Assignment):
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + errors.UserMessage(m.err))
	case m.status != "":
		b.WriteString(styleIconInfo.Render(iconInfo) + " " + m.status)
	}
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render("tab: next slot  a: photo  +/-: zoom  arrows: pan  r: reset  x: remove"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("f/F: frame  s: save  q: quit"))
	b.WriteString("\n")

	return b.String()
}
