package render

import (
	"image/color"
	"math"

	"github.com/jakecoffman/cp"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
)

// Canvas is the part of a surface the debug drawer needs.
type Canvas interface {
	FillCircle(center cp.Vector, radius float64, c color.Color)
	StrokeLine(a, b cp.Vector, width float64, c color.Color)
}

// DebugDrawer draws a Chipmunk space onto a canvas, scaling meters to
// pixels.
type DebugDrawer struct {
	Canvas         Canvas
	PixelsPerMeter float64
	LineWidth      float64
}

func NewDebugDrawer(c Canvas, pixelsPerMeter float64) *DebugDrawer {
	return &DebugDrawer{Canvas: c, PixelsPerMeter: pixelsPerMeter, LineWidth: 1}
}

func (d *DebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *DebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *DebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *DebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *DebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	d.Canvas.FillCircle(d.scale(pos), size/2, toNRGBA(fill))
}

func (d *DebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_CONSTRAINTS
}

func (d *DebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *DebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape.Body().GetType() == cp.BODY_STATIC {
		return cp.FColor{R: 0.3, G: 0.3, B: 0.3, A: 0.8}
	}
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *DebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *DebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *DebugDrawer) Data() interface{} {
	return nil
}

func (d *DebugDrawer) scale(v cp.Vector) cp.Vector {
	return v.Mult(d.PixelsPerMeter)
}

func (d *DebugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	d.Canvas.StrokeLine(d.scale(a), d.scale(b), d.LineWidth, toNRGBA(c))
}

func (d *DebugDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := 0; i < len(verts); i++ {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *DebugDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}
