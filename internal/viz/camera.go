package viz

import "math"

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Camera views the scene from a fixed distance along +Z after rotating it.
// Scene coordinates are divided by Extent, so the region |p| <= Extent fills
// the screen at Zoom 1.
type Camera struct {
	RotX, RotY float64
	Zoom       float64
	Distance   float64
	Extent     float64
}

// DefaultTilt looks down on the equatorial plane from slightly above it.
const DefaultTilt = math.Pi/2 - 0.35

func NewCamera(extent float64) *Camera {
	if extent <= 0 {
		extent = 1
	}
	return &Camera{RotX: DefaultTilt, Zoom: 1, Distance: 4, Extent: extent}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(20, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.05, c.Zoom/1.2) }

func (c *Camera) rotate(p Vec3) Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	return p
}

// Project maps p onto a sw×sh pixel screen. ok is false when p is behind
// the camera; points off screen are returned as is for the canvas to clip.
func (c *Camera) Project(p Vec3, sw, sh int) (x, y int, ok bool) {
	rot := c.rotate(p.Scale(c.Zoom / c.Extent))
	if rot.Z >= c.Distance-0.1 {
		return 0, 0, false
	}
	persp := c.Distance / (c.Distance - rot.Z)
	half := 0.45 * float64(min(sw, sh))
	x = int(math.Round(rot.X*persp*half)) + sw/2
	y = int(math.Round(-rot.Y*persp*half)) + sh/2
	return x, y, true
}
