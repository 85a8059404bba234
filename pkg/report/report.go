// Package report renders run results as markdown documents and console
// summaries.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/pkg/errors"

	"github.com/mmichie/slidegen/pkg/pipeline"
)

const (
	GalleryFileName = "slides-images.md"
	LogFileName     = "generation-log.md"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("report").Funcs(template.FuncMap{
	"base": filepath.Base,
	"add1": func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/*.tmpl"))

// LogInfo describes the run a generation log belongs to
type LogInfo struct {
	RunID          string
	Theme          string
	Style          string
	PromptProvider string
	ImageProvider  string
	Time           time.Time
}

// WriteGallery writes slides-images.md into dir, embedding each generated
// image by its filename under the slide title
func WriteGallery(dir string, results []pipeline.GenerationResult) (string, error) {
	return render(filepath.Join(dir, GalleryFileName), "gallery.md.tmpl", results)
}

// WriteLog writes generation-log.md into dir with the prompt or error for
// every slide
func WriteLog(dir string, results []pipeline.GenerationResult, info LogInfo) (string, error) {
	if info.Time.IsZero() {
		info.Time = time.Now()
	}
	data := struct {
		Info    LogInfo
		Tally   string
		Results []pipeline.GenerationResult
	}{info, Tally(results), results}

	return render(filepath.Join(dir, LogFileName), "log.md.tmpl", data)
}

func render(path, name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.Wrapf(err, "error rendering %s", filepath.Base(path))
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", errors.Wrapf(err, "error writing %s", path)
	}
	return path, nil
}

// Successful counts the successful results
func Successful(results []pipeline.GenerationResult) int {
	n := 0
	for _, r := range results {
		if r.Success {
			n++
		}
	}
	return n
}

// Tally returns "X/N successful"
func Tally(results []pipeline.GenerationResult) string {
	return fmt.Sprintf("%d/%d successful", Successful(results), len(results))
}

// PrintResults writes the completion tally and one line per slide. symbols
// selects ✓/✗ markers over OK/FAIL for terminals.
func PrintResults(w io.Writer, results []pipeline.GenerationResult, symbols bool) error {
	ok, fail := "OK", "FAIL"
	if symbols {
		ok, fail = "✓", "✗"
	}

	if _, err := fmt.Fprintf(w, "\nCompleted: %s\n", Tally(results)); err != nil {
		return err
	}
	for _, r := range results {
		var err error
		if r.Success {
			_, err = fmt.Fprintf(w, "%s %s: %s\n", ok, r.Slide.Title, r.ImagePath)
		} else {
			_, err = fmt.Fprintf(w, "%s %s: %s\n", fail, r.Slide.Title, r.Error)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
