package viz

import (
	"math"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Camera projects a unit-scaled scene onto the canvas with perspective.
type Camera struct {
	Distance         float64
	RotX, RotY, RotZ float64
	Zoom             float64
	// Spin is added to RotY on every Advance.
	Spin float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 5, RotX: -0.3, Zoom: 1.0, Spin: 0.005}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }
func (c *Camera) Advance()          { c.RotY += c.Spin }

// RotatePoint rotates p about the X, then Y, then Z axis.
func (c *Camera) RotatePoint(p Vec3) Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project maps p to dot coordinates on a sw x sh grid. The last result
// is false for points behind the camera or off screen.
func (c *Camera) Project(p Vec3, sw, sh int) (int, int, bool) {
	rot := c.RotatePoint(p).Scale(c.Zoom)
	if rot.Z >= c.Distance-0.1 {
		return 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z)
	minDim := math.Min(float64(sw), float64(sh))
	pScale := minDim / 3.0
	sx := int(rot.X*scale*pScale) + sw/2
	sy := int(-rot.Y*scale*pScale) + sh/2
	return sx, sy, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// DrawPath projects consecutive points and joins them with lines.
// Segments with an endpoint behind the camera are skipped.
func DrawPath(cv *Canvas, cam *Camera, pts []Vec3) {
	if cv == nil || cam == nil {
		return
	}
	sw, sh := cv.Dots()
	px, py, pok := 0, 0, false
	for i, p := range pts {
		x, y, ok := cam.Project(p, sw, sh)
		if !ok && !inFront(cam, p) {
			pok = false
			continue
		}
		if i > 0 && pok {
			cv.DrawLine(px, py, x, y)
		} else {
			cv.Set(x, y)
		}
		px, py, pok = x, y, true
	}
}

func inFront(cam *Camera, p Vec3) bool {
	return cam.RotatePoint(p).Scale(cam.Zoom).Z < cam.Distance-0.1
}
