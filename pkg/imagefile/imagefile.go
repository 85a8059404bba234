// Package imagefile names and writes generated slide backgrounds.
package imagefile

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

const (
	// Extension is appended to every sanitized filename
	Extension = ".png"

	maxFilenameRunes = 50
	placeholder      = "unnamed"
)

var (
	disallowed = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	separators = regexp.MustCompile(`[-\s]+`)
)

// SanitizeFilename turns a slide title into a filesystem-safe stem. The
// result is deterministic, idempotent, at most 50 runes and never empty.
func SanitizeFilename(text string) string {
	name := disallowed.ReplaceAllString(text, "")
	name = separators.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")

	if runes := []rune(name); len(runes) > maxFilenameRunes {
		name = strings.TrimRight(string(runes[:maxFilenameRunes]), "_")
	}

	if name == "" {
		return placeholder
	}
	return name
}

// FilenameFor returns the image filename for a slide title
func FilenameFor(title string) string {
	return SanitizeFilename(title) + Extension
}

// Save decodes data, flattens any transparency onto white and writes it as
// PNG to dir/filename, creating dir if needed. The file is written to a
// temporary name and renamed into place, so concurrent saves of the same
// filename leave one complete image.
func Save(data []byte, filename, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "error creating output directory %s", dir)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", errors.Wrap(err, "error decoding image data")
	}

	flattened := Flatten(img)

	tmp, err := os.CreateTemp(dir, "."+filename+".*.tmp")
	if err != nil {
		return "", errors.Wrapf(err, "error creating temporary file in %s", dir)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := imaging.Encode(tmp, flattened, imaging.PNG); err != nil {
		tmp.Close()
		return "", errors.Wrapf(err, "error encoding %s", filename)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrapf(err, "error writing %s", filename)
	}

	path := filepath.Join(dir, filename)
	if err := os.Rename(tmpName, path); err != nil {
		return "", errors.Wrapf(err, "error saving %s", path)
	}

	return path, nil
}

// Flatten composites img onto an opaque white canvas of the same size
func Flatten(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	canvas := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
}
