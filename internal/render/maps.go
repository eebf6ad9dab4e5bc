package render

import (
	"bytes"
	"fmt"
	"math/rand"

	"github.com/fogleman/gg"
)

// Map rendering defaults. Widths and heights are grid cells, not pixels.
const (
	DefaultMapSize = 20
	mapCellPixels  = 32
	mapWallChance  = 0.2
	mapBorderWidth = 20
)

// MapRenderer draws draft location maps: a parchment-toned grid with random
// wall cells and a dark border. Seed fixes the obstacle layout; a zero seed
// gives a different layout per call.
type MapRenderer struct {
	Seed int64
}

// Map renders a width x height grid map and returns PNG bytes. Non-positive
// dimensions fall back to DefaultMapSize.
func (r MapRenderer) Map(width, height int) ([]byte, error) {
	if width <= 0 {
		width = DefaultMapSize
	}
	if height <= 0 {
		height = DefaultMapSize
	}

	var rng *rand.Rand
	if r.Seed != 0 {
		rng = rand.New(rand.NewSource(r.Seed))
	} else {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	imgW := width*mapCellPixels + 2*mapBorderWidth
	imgH := height*mapCellPixels + 2*mapBorderWidth
	dc := gg.NewContext(imgW, imgH)

	// Border frame, then parchment floor.
	dc.SetHexColor("#3b2f23")
	dc.Clear()
	dc.SetHexColor("#c0a080")
	dc.DrawRectangle(float64(mapBorderWidth), float64(mapBorderWidth),
		float64(width*mapCellPixels), float64(height*mapCellPixels))
	dc.Fill()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if rng.Float64() >= mapWallChance {
				continue
			}
			dc.SetHexColor("#704214")
			dc.DrawRectangle(
				float64(mapBorderWidth+x*mapCellPixels),
				float64(mapBorderWidth+y*mapCellPixels),
				mapCellPixels, mapCellPixels)
			dc.Fill()
		}
	}

	// Grid lines over floor and walls.
	dc.SetHexColor("#8a7358")
	dc.SetLineWidth(1)
	for x := 0; x <= width; x++ {
		fx := float64(mapBorderWidth + x*mapCellPixels)
		dc.DrawLine(fx, float64(mapBorderWidth), fx, float64(mapBorderWidth+height*mapCellPixels))
	}
	for y := 0; y <= height; y++ {
		fy := float64(mapBorderWidth + y*mapCellPixels)
		dc.DrawLine(float64(mapBorderWidth), fy, float64(mapBorderWidth+width*mapCellPixels), fy)
	}
	dc.Stroke()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("render map: %w", err)
	}
	return buf.Bytes(), nil
}
