package outline

// maxFlattenDepth bounds the subdivision of a single segment to 2^16 pieces.
const maxFlattenDepth = 16

// FlattenQuad appends a polyline approximation of the quadratic Bézier
// (p0, p1, p2) to dst. p0 itself is not appended. Every emitted point lies on
// the curve and the polyline stays within tol of it.
func FlattenQuad(dst []Point, p0, p1, p2 Point, tol float64) []Point {
	return flattenQuad(dst, p0, p1, p2, 16*tol*tol, 0)
}

// The distance between B(t) and the chord parametrisation L(t) is
// 2t(1-t)|p1-(p0+p2)/2|, at most |2p1-p0-p2|/4.
func flattenQuad(dst []Point, p0, p1, p2 Point, limit float64, depth int) []Point {
	d := p1.Mul(2).Sub(p0).Sub(p2)
	if depth >= maxFlattenDepth || d.X*d.X+d.Y*d.Y <= limit {
		return append(dst, p2)
	}
	p01 := p0.Lerp(p1, 0.5)
	p12 := p1.Lerp(p2, 0.5)
	m := p01.Lerp(p12, 0.5)
	dst = flattenQuad(dst, p0, p01, m, limit, depth+1)
	return flattenQuad(dst, m, p12, p2, limit, depth+1)
}

// FlattenCubic appends a polyline approximation of the cubic Bézier
// (p0, p1, p2, p3) to dst. p0 itself is not appended.
func FlattenCubic(dst []Point, p0, p1, p2, p3 Point, tol float64) []Point {
	return flattenCubic(dst, p0, p1, p2, p3, 16*tol*tol, 0)
}

// B(t)-L(t) = t(1-t)((1-t)u + tv) with u = 3p1-2p0-p3 and v = 3p2-p0-2p3, so
// per axis the deviation is at most max(|u|,|v|)/4.
func flattenCubic(dst []Point, p0, p1, p2, p3 Point, limit float64, depth int) []Point {
	u := p1.Mul(3).Sub(p0.Mul(2)).Sub(p3)
	v := p2.Mul(3).Sub(p0).Sub(p3.Mul(2))
	flat := max(u.X*u.X, v.X*v.X) + max(u.Y*u.Y, v.Y*v.Y)
	if depth >= maxFlattenDepth || flat <= limit {
		return append(dst, p3)
	}
	p01 := p0.Lerp(p1, 0.5)
	p12 := p1.Lerp(p2, 0.5)
	p23 := p2.Lerp(p3, 0.5)
	p012 := p01.Lerp(p12, 0.5)
	p123 := p12.Lerp(p23, 0.5)
	m := p012.Lerp(p123, 0.5)
	dst = flattenCubic(dst, p0, p01, p012, m, limit, depth+1)
	return flattenCubic(dst, m, p123, p23, p3, limit, depth+1)
}
