package analysis

import (
	"context"
	"math"
	"strings"

	"github.com/san-kum/chaoslab/internal/chaos"
	"github.com/san-kum/chaoslab/internal/dynamo"
)

// BifurcationPoint holds the distinct long-run values of one state
// component at a single parameter value.
type BifurcationPoint struct {
	Param  float64
	Values []float64
}

// Bifurcation sweeps param over [min, max] in steps evenly spaced values.
// For each value the system runs transient iterations from x0 and then
// records the distinct values of component index over record iterations.
// Parameter values are evaluated in parallel; results are in sweep order.
func Bifurcation(
	ctx context.Context,
	sys chaos.Guarded,
	param string,
	min, max float64,
	steps int,
	index int,
	x0 any,
	transient, record int,
) ([]BifurcationPoint, error) {
	if steps <= 0 {
		return []BifurcationPoint{}, nil
	}
	spacing := 0.0
	if steps > 1 {
		spacing = (max - min) / float64(steps-1)
	}

	return dynamo.Sweep(ctx, steps, 0, func(ctx context.Context, i int) (BifurcationPoint, error) {
		value := min + float64(i)*spacing
		c := sys.Configure(map[string]any{param: value})
		x, _ := c.Normalize(x0)

		for t := 0; t < transient; t++ {
			if t%1024 == 0 {
				if err := ctx.Err(); err != nil {
					return BifurcationPoint{}, err
				}
			}
			x, _ = c.Advance(x)
		}

		values := make([]float64, 0, 16)
		seen := make(map[int64]bool)
		for t := 0; t < record; t++ {
			x, _ = c.Advance(x)
			if index < 0 || index >= len(x) {
				continue
			}
			v := x[index]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			key := int64(math.Round(v * 1000))
			if !seen[key] {
				seen[key] = true
				values = append(values, v)
			}
		}
		return BifurcationPoint{Param: value, Values: values}, nil
	})
}

// BifurcationToASCII converts bifurcation data to ASCII art.
func BifurcationToASCII(data []BifurcationPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var minVal, maxVal float64
	foundFirst := false
	for _, p := range data {
		for _, v := range p.Values {
			if !foundFirst {
				minVal, maxVal = v, v
				foundFirst = true
				continue
			}
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}
	if !foundFirst {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := blankCanvas(width, height)
	for i, p := range data {
		col := i * width / len(data)
		if col >= width {
			col = width - 1
		}
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
			}
		}
	}
	return renderCanvas(canvas)
}

func blankCanvas(width, height int) [][]rune {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}
	return canvas
}

func renderCanvas(canvas [][]rune) string {
	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
