package viz

import (
	"math"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// ScenePoints lifts a trajectory into a unit cube centered on the origin.
// Three or more components are shown as (x, z, y) so the third component
// points up. Two components lie flat in the z=0 plane and a scalar map is
// drawn as its return map (x[t], x[t+1]). Non-finite states are dropped.
func ScenePoints(series dynamo.Series) []Vec3 {
	raw := make([]Vec3, 0, len(series))
	switch dim := series.Dim(); {
	case dim >= 3:
		for _, x := range series {
			if len(x) >= 3 {
				raw = append(raw, Vec3{x[0], x[2], x[1]})
			}
		}
	case dim == 2:
		for _, x := range series {
			if len(x) >= 2 {
				raw = append(raw, Vec3{x[0], x[1], 0})
			}
		}
	case dim == 1:
		for i := 1; i < len(series); i++ {
			if len(series[i-1]) > 0 && len(series[i]) > 0 {
				raw = append(raw, Vec3{series[i-1][0], series[i][0], 0})
			}
		}
	}

	pts := raw[:0]
	for _, p := range raw {
		if finiteVec(p) {
			pts = append(pts, p)
		}
	}
	if len(pts) == 0 {
		return pts
	}

	lo, hi := pts[0], pts[0]
	for _, p := range pts {
		lo = Vec3{math.Min(lo.X, p.X), math.Min(lo.Y, p.Y), math.Min(lo.Z, p.Z)}
		hi = Vec3{math.Max(hi.X, p.X), math.Max(hi.Y, p.Y), math.Max(hi.Z, p.Z)}
	}
	center := lo.Add(hi).Scale(0.5)
	half := math.Max(hi.X-lo.X, math.Max(hi.Y-lo.Y, hi.Z-lo.Z)) / 2
	if half == 0 {
		half = 1
	}

	out := make([]Vec3, len(pts))
	for i, p := range pts {
		out[i] = p.Sub(center).Scale(1 / half)
	}
	return out
}

func finiteVec(v Vec3) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// DrawScatter plots unit-scaled points orthographically, ignoring Z.
func DrawScatter(cv *Canvas, pts []Vec3) {
	sw, sh := cv.Dots()
	for _, p := range pts {
		x := int((p.X + 1) / 2 * float64(sw-1))
		y := int((1 - (p.Y+1)/2) * float64(sh-1))
		cv.Set(x, y)
	}
}

// RenderAttractor draws series on a fresh w x h canvas. Flows are joined
// into a path through the camera; maps are scattered.
func RenderAttractor(series dynamo.Series, w, h int, cam *Camera) string {
	cv := NewCanvas(w, h)
	drawSeries(cv, series, cam)
	return cv.String()
}

func drawSeries(cv *Canvas, series dynamo.Series, cam *Camera) {
	pts := ScenePoints(series)
	if series.Dim() >= 3 && cam != nil {
		DrawPath(cv, cam, pts)
		return
	}
	DrawScatter(cv, pts)
}
