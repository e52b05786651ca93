package sink

import (
	"bytes"
	"encoding/base64"
	"html/template"
	"time"
)

// HTMLOption configures the print page.
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	title string
	delay time.Duration
}

// WithTitle sets the document title (default "Print Photo").
func WithTitle(title string) HTMLOption {
	return func(r *htmlRenderer) { r.title = title }
}

// WithPrintDelay sets how long after load the print dialog opens
// (default 200ms).
func WithPrintDelay(d time.Duration) HTMLOption {
	return func(r *htmlRenderer) { r.delay = d }
}

var printTmpl = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; }
img { max-width: 100%; max-height: 100vh; }
@media print { @page { margin: 0; } body { height: auto; } }
</style>
</head>
<body>
<img src="{{.Src}}" alt="collage">
<script>
window.onload = function () { setTimeout(function () { window.print(); }, {{.DelayMS}}); };
</script>
</body>
</html>
`))

// PrintPage returns an HTML document showing the PNG centered and
// opening the platform print dialog shortly after load.
func PrintPage(png []byte, opts ...HTMLOption) ([]byte, error) {
	r := htmlRenderer{title: "Print Photo", delay: 200 * time.Millisecond}
	for _, opt := range opts {
		opt(&r)
	}
	var buf bytes.Buffer
	err := printTmpl.Execute(&buf, struct {
		Title   string
		Src     template.URL
		DelayMS int64
	}{
		Title:   r.title,
		Src:     template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)),
		DelayMS: r.delay.Milliseconds(),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
