package analysis

import (
	"math"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D is the projection of a trajectory onto two components.
type PhasePortrait2D struct {
	XIndex, YIndex int
	Points         []Point
}

// PhasePortrait projects series onto components xIdx and yIdx. It returns
// nil when either index is outside the series dimension. Non-finite
// states are skipped.
func PhasePortrait(series dynamo.Series, xIdx, yIdx int) *PhasePortrait2D {
	dim := series.Dim()
	if xIdx < 0 || yIdx < 0 || xIdx >= dim || yIdx >= dim {
		return nil
	}

	portrait := &PhasePortrait2D{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]Point, 0, len(series)),
	}
	for _, x := range series {
		if len(x) <= xIdx || len(x) <= yIdx {
			continue
		}
		px, py := x[xIdx], x[yIdx]
		if !finite(px) || !finite(py) {
			continue
		}
		portrait.Points = append(portrait.Points, Point{X: px, Y: py})
	}
	return portrait
}

// PhasePortraitToASCII converts phase portrait to ASCII art.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := blankCanvas(width, height)
	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Axes, where they cross the visible area.
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}
	return renderCanvas(canvas)
}

// PoincareSection holds the points where a trajectory crossed a plane.
type PoincareSection struct {
	Points []Point
}

// PoincareSectionFromSeries records components recordX and recordY
// whenever component crossIdx passes upward through threshold. The
// recorded point is linearly interpolated between the two bracketing
// states.
func PoincareSectionFromSeries(series dynamo.Series, crossIdx int, threshold float64, recordX, recordY int) *PoincareSection {
	dim := series.Dim()
	if crossIdx < 0 || recordX < 0 || recordY < 0 || crossIdx >= dim || recordX >= dim || recordY >= dim {
		return nil
	}

	section := &PoincareSection{Points: make([]Point, 0)}
	for i := 1; i < len(series); i++ {
		prev, curr := series[i-1], series[i]
		if prev[crossIdx] < threshold && curr[crossIdx] >= threshold {
			frac := (threshold - prev[crossIdx]) / (curr[crossIdx] - prev[crossIdx])
			if !finite(frac) {
				frac = 0.5
			}
			section.Points = append(section.Points, Point{
				X: prev[recordX] + frac*(curr[recordX]-prev[recordX]),
				Y: prev[recordY] + frac*(curr[recordY]-prev[recordY]),
			})
		}
	}
	return section
}

// PoincareSectionToASCII converts section data to an ASCII plot.
func PoincareSectionToASCII(section *PoincareSection, width, height int) string {
	if section == nil || len(section.Points) == 0 {
		return "No crossings detected"
	}
	return PhasePortraitToASCII(&PhasePortrait2D{Points: section.Points}, width, height)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
