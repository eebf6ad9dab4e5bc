package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/go-pdf/fpdf"
)

// A4 page geometry in millimeters.
const (
	portraitPageWidth  = 210.0
	portraitPageHeight = 297.0
	portraitMargin     = 10.0
	portraitSpacing    = 5.0
)

var portraitExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// ErrNoPortraits reports an empty or missing input directory.
var ErrNoPortraits = errors.New("no portrait images found")

// PortraitsPDF lays the images in inputDir out on A4 pages in a columns x
// rows grid, each image aspect-fit and centered in its cell, and returns the
// PDF bytes.
func PortraitsPDF(inputDir string, columns, rows int) ([]byte, error) {
	if columns <= 0 {
		columns = 2
	}
	if rows <= 0 {
		rows = 3
	}

	images, err := listPortraits(inputDir)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, ErrNoPortraits
	}

	availableWidth := portraitPageWidth - 2*portraitMargin - float64(columns-1)*portraitSpacing
	availableHeight := portraitPageHeight - 2*portraitMargin - float64(rows-1)*portraitSpacing
	cellW := availableWidth / float64(columns)
	cellH := availableHeight / float64(rows)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	perPage := columns * rows
	for i, path := range images {
		if i%perPage == 0 {
			pdf.AddPage()
		}
		idx := i % perPage
		col := idx % columns
		row := idx / columns

		x := portraitMargin + float64(col)*(cellW+portraitSpacing)
		y := portraitMargin + float64(row)*(cellH+portraitSpacing)

		w, h, err := imageSize(path)
		if err != nil {
			continue
		}
		aspect := float64(w) / float64(h)
		targetW := cellW
		targetH := cellW / aspect
		if targetH > cellH {
			targetH = cellH
			targetW = cellH * aspect
		}

		pdf.ImageOptions(path,
			x+(cellW-targetW)/2, y+(cellH-targetH)/2,
			targetW, targetH,
			false, fpdf.ImageOptions{}, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render portraits pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func listPortraits(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoPortraits
		}
		return nil, fmt.Errorf("read portraits dir: %w", err)
	}
	var images []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if portraitExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			images = append(images, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}

func imageSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		_ = f.Close()
	}()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
