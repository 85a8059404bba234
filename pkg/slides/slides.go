// Package slides extracts ordered slide records from title lists, text and
// markdown files, and slide directories.
package slides

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// SlideInfo is one slide to generate a background for
type SlideInfo struct {
	Title string
	Index int
}

// FromTitles trims each title, drops blank ones and indexes the rest
// consecutively from zero
func FromTitles(titles []string) []SlideInfo {
	slides := make([]SlideInfo, 0, len(titles))
	for _, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		slides = append(slides, SlideInfo{Title: title, Index: len(slides)})
	}
	return slides
}

// FromFile reads slide titles from path. Markdown files contribute one slide
// per top-level header; any other file one slide per non-blank line.
func FromFile(path string) ([]SlideInfo, error) {
	content, err := readFile(path)
	if err != nil {
		return nil, err
	}

	if isMarkdown(path) {
		return FromTitles(ExtractHeaders(content)), nil
	}
	return FromTitles(strings.Split(content, "\n")), nil
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrapf(err, "file not found: %s", path)
		}
		return "", errors.Wrapf(err, "error reading %s", path)
	}
	return string(data), nil
}

// ExtractHeaders returns the text of every level-one markdown header
// ("# Title"), ignoring lines inside fenced code blocks
func ExtractHeaders(content string) []string {
	var (
		headers []string
		fence   string
	)

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		if marker := fenceMarker(trimmed); marker != "" {
			switch {
			case fence == "":
				fence = marker
			case marker == fence:
				fence = ""
			}
			continue
		}
		if fence != "" {
			continue
		}

		if len(line) < 2 || line[0] != '#' || (line[1] != ' ' && line[1] != '\t') {
			continue
		}
		if title := strings.TrimSpace(line[1:]); title != "" {
			headers = append(headers, title)
		}
	}

	return headers
}

func fenceMarker(line string) string {
	switch {
	case strings.HasPrefix(line, "```"):
		return "```"
	case strings.HasPrefix(line, "~~~"):
		return "~~~"
	}
	return ""
}
