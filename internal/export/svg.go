// Package export renders trajectories as standalone SVG documents.
package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/san-kum/chaoslab/internal/analysis"
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/viz"
)

type Options struct {
	Width, Height int
	Stroke        string
	// Dots draws each state as a point instead of joining them. Maps
	// jump around the attractor, so a path is unreadable for them.
	Dots bool
}

func DefaultOptions() Options {
	return Options{Width: 800, Height: 600, Stroke: "#00ffcc"}
}

// SeriesToSVG plots components xIdx and yIdx of series.
func SeriesToSVG(w io.Writer, series dynamo.Series, xIdx, yIdx int, opts Options) error {
	portrait := analysis.PhasePortrait(series, xIdx, yIdx)
	if portrait == nil {
		return fmt.Errorf("%w: components %d and %d of a %d-dimensional series", dynamo.ErrDimensionMismatch, xIdx, yIdx, series.Dim())
	}
	if len(portrait.Points) == 0 {
		return dynamo.ErrEmptySeries
	}
	points := portrait.Points

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
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
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	width, height := float64(opts.Width), float64(opts.Height)
	toScreen := func(p analysis.Point) (float64, float64) {
		return (p.X - minX) / rangeX * width, height - (p.Y-minY)/rangeY*height
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, opts.Width, opts.Height, opts.Width, opts.Height)

	if opts.Dots {
		fmt.Fprintf(bw, "<g fill=\"%s\">\n", opts.Stroke)
		for _, p := range points {
			x, y := toScreen(p)
			fmt.Fprintf(bw, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"1\"/>\n", x, y)
		}
		bw.WriteString("</g>\n")
	} else {
		fmt.Fprintf(bw, `<path fill="none" stroke="%s" stroke-width="1" d="M`, opts.Stroke)
		for i, p := range points {
			x, y := toScreen(p)
			if i == 0 {
				fmt.Fprintf(bw, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(bw, " L%.1f,%.1f", x, y)
			}
		}
		bw.WriteString("\"/>\n")
	}
	bw.WriteString("</svg>\n")
	return bw.Flush()
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(w io.Writer, canvas *viz.Canvas, scale float64) error {
	if canvas == nil {
		return nil
	}
	sw, sh := canvas.Dots()
	width := float64(sw) * scale
	height := float64(sh) * scale

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	dotBits := [4][2]rune{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	radius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			pattern := canvas.Grid[row][col] - 0x2800
			if pattern <= 0 {
				continue
			}
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&dotBits[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(bw, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, radius)
					}
				}
			}
		}
	}

	bw.WriteString("</g>\n</svg>\n")
	return bw.Flush()
}
