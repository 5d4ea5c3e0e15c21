// Copyright (c) 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edwards25519

import (
	"errors"

	"github.com/go-curve/ed25519core/field"
)

// A Point is a point on the edwards25519 curve, represented internally in
// extended projective coordinates (X:Y:Z:T) where x = X/Z, y = Y/Z, and
// x*y = T/Z.
//
// The zero value is NOT a valid Point, and methods and functions are
// allowed to panic if called on it, analogously to a nil pointer.
// Always use NewIdentityPoint, NewGeneratorPoint, SetBytes, or another
// Point method to get a valid Point: the type never implicitly
// initializes itself.
type Point struct {
	x, y, z, t field.Element

	// initialized is set when the Point is ready to be used; it protects
	// against the most common mistake of using the zero value. It is not
	// a security boundary: a caller can still construct an uninitialized
	// Point with an composite literal, and we rely on the panic from
	// checkInitialized to catch that during development and testing.
	initialized bool
}

// Comparing Points with the == operator is not safe, since equivalent
// points can be represented by different Z values. Use Equal instead.

func checkInitialized(points ...*Point) {
	for _, p := range points {
		if !p.initialized {
			panic("edwards25519: use of uninitialized Point")
		}
	}
}

// Zero sets v to the identity point (0, 1, 1, 0), and returns it.
func (v *Point) Zero() *Point {
	v.x.Zero()
	v.y.One()
	v.z.One()
	v.t.Zero()
	v.initialized = true
	return v
}

// NewIdentityPoint returns a new Point set to the identity.
func NewIdentityPoint() *Point {
	return (&Point{}).Zero()
}

// NewGeneratorPoint returns a new Point set to the canonical generator.
func NewGeneratorPoint() *Point {
	return (&Point{}).Set(projP3ToPoint(B))
}

func pointToProjP3(v *Point) *ProjP3 {
	checkInitialized(v)
	return &ProjP3{X: v.x, Y: v.y, Z: v.z, T: v.t}
}

func projP3ToPoint(p *ProjP3) *Point {
	return &Point{x: p.X, y: p.Y, z: p.Z, t: p.T, initialized: true}
}

// Set sets v = u, and returns v.
func (v *Point) Set(u *Point) *Point {
	checkInitialized(u)
	*v = *u
	return v
}

func (v *Point) fromP1xP1(p *ProjP1xP1) *Point {
	*v = *projP3ToPoint(new(ProjP3).FromP1xP1(p))
	return v
}

func (v *Point) fromP2(p *ProjP2) *Point {
	*v = *projP3ToPoint(new(ProjP3).FromP2(p))
	return v
}

// SetBytes sets v = x, where x is a 32-byte encoding of v as specified in
// RFC 8032, Section 5.1.2. If x does not represent a valid point on the
// curve, SetBytes returns nil and an error, and the receiver is unchanged.
//
// Note that SetBytes accepts all non-canonical encodings of valid points;
// that is, y values in [2^255-19, 2^255) are accepted, as the spec requires.
func (v *Point) SetBytes(x []byte) (*Point, error) {
	if len(x) != 32 {
		return nil, errors.New("edwards25519: invalid point encoding length")
	}

	y, err := new(field.Element).SetBytes(x)
	if err != nil {
		return nil, errors.New("edwards25519: invalid point encoding")
	}
	signBit := int(x[31] >> 7)

	one := new(field.Element).One()
	var yy, u, vv field.Element
	yy.Square(y)
	u.Subtract(&yy, one)                // u = y² - 1
	vv.Multiply(&yy, D).Add(&vv, one) // v = dy² + 1

	xx, wasSquare := new(field.Element).SqrtRatio(&u, &vv)
	if wasSquare == 0 {
		return nil, errors.New("edwards25519: invalid point encoding")
	}

	xx.CondNegate(xx, xx.IsNegative()^signBit)

	v.x.Set(xx)
	v.y.Set(y)
	v.z.One()
	v.t.Multiply(xx, y)
	v.initialized = true
	return v, nil
}

// Bytes returns the canonical 32-byte encoding of v, as specified in
// RFC 8032, Section 5.1.2.
func (v *Point) Bytes() []byte {
	var buf [32]byte
	return v.bytes(&buf)
}

func (v *Point) bytes(buf *[32]byte) []byte {
	checkInitialized(v)

	var recip, x, y field.Element
	recip.Invert(&v.z)
	x.Multiply(&v.x, &recip)
	y.Multiply(&v.y, &recip)

	out := y.Bytes()
	out[31] |= byte(x.IsNegative() << 7)
	copy(buf[:], out)
	return buf[:]
}

// Add sets v = p + q, and returns v.
func (v *Point) Add(p, q *Point) *Point {
	checkInitialized(p, q)
	pp, qq := pointToProjP3(p), pointToProjP3(q)
	qCached := new(ProjCached).FromP3(qq)
	result := new(ProjP1xP1).Add(pp, qCached)
	return v.fromP1xP1(result)
}

// Subtract sets v = p - q, and returns v.
func (v *Point) Subtract(p, q *Point) *Point {
	checkInitialized(p, q)
	pp, qq := pointToProjP3(p), pointToProjP3(q)
	qCached := new(ProjCached).FromP3(qq)
	result := new(ProjP1xP1).Sub(pp, qCached)
	return v.fromP1xP1(result)
}

// Negate sets v = -p, and returns v.
func (v *Point) Negate(p *Point) *Point {
	checkInitialized(p)
	pp := pointToProjP3(p)
	neg := new(ProjP3).Neg(pp)
	*v = *projP3ToPoint(neg)
	return v
}

// Double sets v = 2 * p, and returns v.
func (v *Point) Double(p *Point) *Point {
	checkInitialized(p)
	p2 := new(ProjP2).FromP3(pointToProjP3(p))
	result := new(ProjP1xP1).Double(p2)
	return v.fromP1xP1(result)
}

// Equal returns 1 if v is equivalent to u, and 0 otherwise. This check is
// constant-time: it cross-multiplies rather than branching on a
// normalization of either operand.
func (v *Point) Equal(u *Point) int {
	checkInitialized(v, u)
	return pointToProjP3(v).Equal(pointToProjP3(u))
}

// MultByCofactor sets v = 8 * p, and returns v. This clears any component
// of p in the 8-torsion subgroup.
func (v *Point) MultByCofactor(p *Point) *Point {
	checkInitialized(p)
	pp := new(ProjP2).FromP3(pointToProjP3(p))
	result := new(ProjP1xP1).Double(pp)
	pp.FromP1xP1(result)
	result.Double(pp)
	pp.FromP1xP1(result)
	result.Double(pp)
	return v.fromP1xP1(result)
}

// IsSmallOrder reports whether p is in the 8-torsion subgroup, i.e.
// whether [8]p is the identity.
func (v *Point) IsSmallOrder() bool {
	checkInitialized(v)
	var check Point
	check.MultByCofactor(v)
	return check.Equal(NewIdentityPoint()) == 1
}

// IsTorsionFree reports whether p is in the prime-order subgroup, i.e.
// whether [l]p is the identity, where l is the group order. If and only if
// p is the identity or a point on the prime-order subgroup, the multiply
// below yields the identity; otherwise p has a component in the 8-torsion
// subgroup.
func (v *Point) IsTorsionFree() bool {
	checkInitialized(v)
	var check Point
	check.multByPrimeOrder(v)
	return check.Equal(NewIdentityPoint()) == 1
}

// multByPrimeOrder sets v = l*p, and returns v, where l is the prime order
// of the edwards25519 group. The sequence of multiplications and doublings
// below is a fixed addition chain for l, so it runs in data-independent
// time regardless of p.
func (v *Point) multByPrimeOrder(p *Point) *Point {
	var t0, t1, t2, t3, t4, t5, t6, t7, t8, t9, tA, tB, tC = new(Point),
		new(Point), new(Point), new(Point), new(Point), new(Point), new(Point),
		new(Point), new(Point), new(Point), new(Point), new(Point), new(Point)
	p = new(Point).Set(p)

	tA.Add(p, p)
	t4.Add(p, tA)
	t2.Add(p, t4)
	p.Add(tA, t2)
	t1.Add(tA, p)
	t5.Add(t4, t1)
	t3.Add(t1, t1)
	t0.Add(t3, t3)
	t8.Add(p, t0)
	t0.Add(t0, t0)
	t7.Add(t3, t0)
	tB.Add(t4, t7)
	t3.Add(t3, tB)
	t9.Add(t2, t3)
	t6.Add(t2, t9)
	t4.Add(t0, tB)
	t2.Add(t2, t4)
	t8.Add(t8, t2)
	t0.Add(t0, t4)
	t7.Add(t7, t2)
	p.Add(p, t7)
	t1.Add(t1, p)
	tC.Add(t5, t1)
	for s := 0; s < 126; s++ {
		tC.Add(tC, tC)
	}
	tB.Add(tB, tC)
	for s := 0; s < 9; s++ {
		tB.Add(tB, tB)
	}
	tA.Add(tA, tB)
	tA.Add(t1, tA)
	for s := 0; s < 7; s++ {
		tA.Add(tA, tA)
	}
	t9.Add(t9, tA)
	for s := 0; s < 9; s++ {
		t9.Add(t9, t9)
	}
	t9.Add(t1, t9)
	for s := 0; s < 11; s++ {
		t9.Add(t9, t9)
	}
	t8.Add(t8, t9)
	for s := 0; s < 8; s++ {
		t8.Add(t8, t8)
	}
	t7.Add(t7, t8)
	for s := 0; s < 9; s++ {
		t7.Add(t7, t7)
	}
	t6.Add(t6, t7)
	for s := 0; s < 6; s++ {
		t6.Add(t6, t6)
	}
	t5.Add(t5, t6)
	for s := 0; s < 14; s++ {
		t5.Add(t5, t5)
	}
	t4.Add(t4, t5)
	for s := 0; s < 10; s++ {
		t4.Add(t4, t4)
	}
	t3.Add(t3, t4)
	for s := 0; s < 9; s++ {
		t3.Add(t3, t3)
	}
	t2.Add(t2, t3)
	for s := 0; s < 10; s++ {
		t2.Add(t2, t2)
	}
	t1.Add(t1, t2)
	for s := 0; s < 8; s++ {
		t1.Add(t1, t1)
	}
	t0.Add(t0, t1)
	for s := 0; s < 8; s++ {
		t0.Add(t0, t0)
	}
	return v.Add(p, t0)
}

// BytesMontgomery converts v to a point on the birationally-equivalent
// Curve25519 Montgomery curve, and returns its canonical 32-byte u-coordinate
// encoding according to RFC 7748.
//
// Note that BytesMontgomery only encodes the u-coordinate, so v and -v encode
// to the same value. If v is the identity point, BytesMontgomery returns 32
// zero bytes, matching the X25519 function's convention.
func (v *Point) BytesMontgomery() []byte {
	var buf [32]byte
	return v.bytesMontgomery(&buf)
}

func (v *Point) bytesMontgomery(buf *[32]byte) []byte {
	checkInitialized(v)

	// u = (1 + y) / (1 - y) with y = Y/Z, which is (Z+Y)/(Z-Y) after
	// clearing Z.
	var yPlusZ, yMinusZ, invZMinusY, u field.Element
	yPlusZ.Add(&v.z, &v.y)
	yMinusZ.Subtract(&v.z, &v.y)
	invZMinusY.Invert(&yMinusZ)
	u.Multiply(&yPlusZ, &invZMinusY)

	out := u.Bytes()
	copy(buf[:], out)
	return buf[:]
}

// ExtendedCoordinates returns v in extended coordinates (X:Y:Z:T) where
// x = X/Z, y = Y/Z, and xy = T/Z, as in https://eprint.iacr.org/2008/522.
func (v *Point) ExtendedCoordinates() (X, Y, Z, T *field.Element) {
	checkInitialized(v)
	var e [4]field.Element
	X, Y, Z, T = e[0].Set(&v.x), e[1].Set(&v.y), e[2].Set(&v.z), e[3].Set(&v.t)
	return
}

// SetExtendedCoordinates sets v = (X:Y:Z:T) in extended coordinates, where
// x = X/Z, y = Y/Z, and xy = T/Z.
//
// If the coordinates are invalid or don't represent a point on the curve,
// SetExtendedCoordinates returns nil and an error, and the receiver is
// unchanged.
func (v *Point) SetExtendedCoordinates(X, Y, Z, T *field.Element) (*Point, error) {
	if !isOnCurve(X, Y, Z, T) {
		return nil, errors.New("edwards25519: invalid point coordinates")
	}
	v.x.Set(X)
	v.y.Set(Y)
	v.z.Set(Z)
	v.t.Set(T)
	v.initialized = true
	return v, nil
}

func isOnCurve(X, Y, Z, T *field.Element) bool {
	var lhs, rhs field.Element
	XX := new(field.Element).Square(X)
	YY := new(field.Element).Square(Y)
	ZZ := new(field.Element).Square(Z)
	TT := new(field.Element).Square(T)

	// -x² + y² = 1 + dx²y²  <=>  -X² + Y² = Z² + dT²
	lhs.Subtract(YY, XX)
	rhs.Multiply(D, TT).Add(&rhs, ZZ)
	if lhs.Equal(&rhs) != 1 {
		return false
	}

	// xy = T/Z  <=>  XY = TZ
	lhs.Multiply(X, Y)
	rhs.Multiply(T, Z)
	return lhs.Equal(&rhs) == 1
}
