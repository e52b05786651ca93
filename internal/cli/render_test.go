package cli

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/photobooth/pkg/errors"
	"github.com/matzehuels/photobooth/pkg/pipeline"
	"github.com/matzehuels/photobooth/pkg/sink"
)

func writePhoto(t *testing.T, dir, name string, c color.Color) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := imaging.Save(imaging.New(40, 30, c), path); err != nil {
		t.Fatalf("save %s: %v", name, err)
	}
	return path
}

func TestParseSlotEdits(t *testing.T) {
	tests := []struct {
		name  string
		zooms []string
		pans  []string
		want  []pipeline.SlotEdit
	}{
		{"none", nil, nil, nil},
		{"zoom", []string{"0=0.5"}, nil, []pipeline.SlotEdit{{Slot: 0, Zoom: 0.5}}},
		{"pan", nil, []string{"2=10,-5"}, []pipeline.SlotEdit{{Slot: 2, PanX: 10, PanY: -5}}},
		{
			"merged by slot",
			[]string{"1=0.2", "0=-0.1", "1=0.3"},
			[]string{"0= 4, 6"},
			[]pipeline.SlotEdit{{Slot: 1, Zoom: 0.5}, {Slot: 0, Zoom: -0.1, PanX: 4, PanY: 6}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSlotEdits(tt.zooms, tt.pans)
			if err != nil {
				t.Fatalf("parseSlotEdits() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseSlotEdits() = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("parseSlotEdits()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseSlotEditsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		zooms []string
		pans  []string
	}{
		{"missing equals", []string{"0.5"}, nil},
		{"negative slot", []string{"-1=0.5"}, nil},
		{"bad delta", []string{"0=big"}, nil},
		{"pan missing y", nil, []string{"0=10"}},
		{"pan not numeric", nil, []string{"0=a,b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSlotEdits(tt.zooms, tt.pans)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("parseSlotEdits(%v, %v) error = %v, want INVALID_INPUT", tt.zooms, tt.pans, err)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	png := []sink.Format{sink.FormatPNG}
	both := []sink.Format{sink.FormatPNG, sink.FormatPDF}

	tests := []struct {
		name    string
		base    string
		formats []sink.Format
		want    map[sink.Format]string
	}{
		{"default", "", png, map[sink.Format]string{sink.FormatPNG: "collage.png"}},
		{"explicit file", "out/strip.jpeg", png, map[sink.Format]string{sink.FormatPNG: "out/strip.jpeg"}},
		{"no extension", "strip", png, map[sink.Format]string{sink.FormatPNG: "strip.png"}},
		{"multiple", "out/strip.png", both, map[sink.Format]string{
			sink.FormatPNG: "out/strip.png",
			sink.FormatPDF: "out/strip.pdf",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.base, tt.formats)
			for f, want := range tt.want {
				if got[f] != want {
					t.Errorf("outputPaths(%q)[%s] = %q, want %q", tt.base, f, got[f], want)
				}
			}
		})
	}
}

func TestBuildJobFlagsOverrideJobFile(t *testing.T) {
	dir := t.TempDir()
	writePhoto(t, dir, "a.png", color.White)
	jobPath := filepath.Join(dir, "job.toml")
	job := `frame = 9
photos = ["a.png"]
formats = ["pdf"]

[[slots]]
slot = 0
zoom = 0.5
`
	if err := os.WriteFile(jobPath, []byte(job), 0o644); err != nil {
		t.Fatal(err)
	}

	c := quietCLI()
	cmd := c.renderCommand()
	if err := cmd.ParseFlags([]string{"--job", jobPath, "-f", "6", "--format", "png", "--zoom", "0=0.25"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatal(err)
	}

	var opts renderOpts
	opts.job, _ = cmd.Flags().GetString("job")
	opts.frameID, _ = cmd.Flags().GetInt("frame")
	opts.formats, _ = cmd.Flags().GetString("format")
	opts.zooms, _ = cmd.Flags().GetStringArray("zoom")

	got, err := buildJob(cmd, cfg, &opts, nil)
	if err != nil {
		t.Fatalf("buildJob() error: %v", err)
	}
	if got.Frame != 6 {
		t.Errorf("job.Frame = %d, want 6", got.Frame)
	}
	if len(got.Formats) != 1 || got.Formats[0] != "png" {
		t.Errorf("job.Formats = %v, want [png]", got.Formats)
	}
	if len(got.Slots) != 2 || got.Slots[0].Zoom != 0.5 || got.Slots[1].Zoom != 0.25 {
		t.Errorf("job.Slots = %+v, want job edit then flag edit", got.Slots)
	}
	if got.Photos[0] != filepath.Join(dir, "a.png") {
		t.Errorf("job.Photos[0] = %q, want path relative to job file", got.Photos[0])
	}
}

func TestBuildJobNoPhotos(t *testing.T) {
	c := quietCLI()
	cmd := c.renderCommand()
	cfg, _ := c.loadConfig()

	_, err := buildJob(cmd, cfg, &renderOpts{}, nil)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("buildJob() error = %v, want INVALID_INPUT", err)
	}
}

func TestRenderCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	a := writePhoto(t, dir, "a.png", color.NRGBA{R: 255, A: 255})
	b := writePhoto(t, dir, "b.png", color.NRGBA{B: 255, A: 255})
	out := filepath.Join(dir, "out", "strip")

	root := quietCLI().RootCommand()
	root.SetArgs([]string{"render", "-f", "11", "--width", "60", "--height", "90",
		"--format", "png,pdf", "-o", out, "--no-cache", a, b})
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	if err := root.Execute(); err != nil {
		t.Fatalf("render error: %v", err)
	}
	for _, want := range []string{"2 photos", "2/2 slots", "fresh", out + ".png", out + ".pdf"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("render output = %q, want it to contain %q", stdout.String(), want)
		}
	}

	img, err := imaging.Open(out + ".png")
	if err != nil {
		t.Fatalf("open rendered png: %v", err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 60, 90) {
		t.Errorf("rendered bounds = %v, want 60x90", got)
	}
	r, _, _, _ := img.At(30, 20).RGBA()
	if r>>8 != 255 {
		t.Errorf("top slot red = %d, want 255", r>>8)
	}

	pdf, err := os.ReadFile(out + ".pdf")
	if err != nil {
		t.Fatalf("read rendered pdf: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Error("rendered pdf lacks %PDF- header")
	}
}

func TestRenderCommandAllPhotosFail(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	bad := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	root := quietCLI().RootCommand()
	root.SetArgs([]string{"render", "--no-cache", "-o", filepath.Join(dir, "x.png"), bad})
	root.SetErr(&bytes.Buffer{})
	err := root.Execute()
	if !errors.Is(err, errors.ErrCodeDecodeFailure) {
		t.Errorf("render error = %v, want DECODE_FAILURE", err)
	}
}
