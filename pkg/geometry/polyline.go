package geometry

import "math"

// PolylineLength returns the total length of the polyline through points.
func PolylineLength(points []Point2D) float64 {
	if len(points) < 2 {
		return 0
	}
	var total float64
	for i := 0; i < len(points)-1; i++ {
		total += points[i].Distance(points[i+1])
	}
	return total
}

// PointOnPolyline returns the position at parameter t in [0,1] along the
// polyline, treating every segment as covering an equal share of t. This
// matches how arrow paths are walked for zigzag sampling: cheap, and close
// enough for annotation-length segments.
func PointOnPolyline(points []Point2D, t float64) Point2D {
	switch len(points) {
	case 0:
		return Point2D{}
	case 1:
		return points[0]
	case 2:
		return points[0].Lerp(points[1], t)
	}
	segments := float64(len(points) - 1)
	scaled := t * segments
	idx := int(scaled)
	if idx >= len(points)-1 {
		return points[len(points)-1]
	}
	if idx < 0 {
		idx = 0
	}
	return points[idx].Lerp(points[idx+1], scaled-float64(idx))
}

// PolylineDirection returns the unit tangent of the polyline at parameter t,
// estimated by central difference. Falls back to +X for degenerate input.
func PolylineDirection(points []Point2D, t float64) Point2D {
	if len(points) == 2 {
		d := points[1].Sub(points[0])
		length := math.Hypot(d.X, d.Y)
		if length > 0 {
			return d.Scale(1 / length)
		}
		return Point2D{X: 1}
	}
	p1 := PointOnPolyline(points, math.Max(0, t-0.01))
	p2 := PointOnPolyline(points, math.Min(1, t+0.01))
	d := p2.Sub(p1)
	length := math.Hypot(d.X, d.Y)
	if length > 0 {
		return d.Scale(1 / length)
	}
	return Point2D{X: 1}
}

// WalkPolyline returns the position after travelling dist along the polyline
// from its start, clamped to the final point.
func WalkPolyline(points []Point2D, dist float64) Point2D {
	if len(points) == 0 {
		return Point2D{}
	}
	if dist <= 0 {
		return points[0]
	}
	remaining := dist
	for i := 0; i < len(points)-1; i++ {
		seg := points[i].Distance(points[i+1])
		if remaining <= seg && seg > 0 {
			return points[i].Lerp(points[i+1], remaining/seg)
		}
		remaining -= seg
	}
	return points[len(points)-1]
}

// QuadraticPoint evaluates a quadratic Bezier at parameter t.
func QuadraticPoint(p0, ctrl, p1 Point2D, t float64) Point2D {
	u := 1 - t
	return Point2D{
		X: u*u*p0.X + 2*u*t*ctrl.X + t*t*p1.X,
		Y: u*u*p0.Y + 2*u*t*ctrl.Y + t*t*p1.Y,
	}
}
