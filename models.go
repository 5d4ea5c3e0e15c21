// Copyright (c) 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edwards25519

import "github.com/go-curve/ed25519core/field"

// This file implements the twisted Edwards curve
//
//	-x^2 + y^2 = 1 + d*x^2*y^2
//
// in extended projective coordinates, following the Hisil-Wong-Carter-Dawson
// (HWCD) formulas. Five point representations are used to keep every
// addition and doubling free of the field inversion that a naive affine
// implementation would require:
//
//   - ProjP2 and ProjP3 are the projective and extended projective models.
//     ProjP3 (X:Y:Z:T) satisfies x=X/Z, y=Y/Z, x*y=T/Z and is the
//     externally visible group element representation.
//   - ProjP1xP1 is the "completed point" model that the addition and
//     doubling formulas compute into, deferring the last two field
//     multiplications until the caller picks which of ProjP2/ProjP3 it
//     needs.
//   - ProjCached and AffineCached precompute the (Y+X, Y-X, Z, 2dT) and
//     (y+x, y-x, 2dxy) tuples the addition law actually consumes, so that
//     the same operand can be added to many different points cheaply.

// feFromLimbs packs radix-2^51 limbs (each below 2^51) into an Element.
func feFromLimbs(limbs ...uint64) *field.Element {
	var buf [32]byte
	for i, l := range limbs {
		for b := 0; b < 51; b++ {
			buf[(51*i+b)/8] |= byte((l>>b)&1) << ((51*i + b) % 8)
		}
	}
	v, _ := new(field.Element).SetBytes(buf[:])
	return v
}

// D is the curve equation constant d = -121665/121666.
var D = feFromLimbs(929955233495203, 466365720129213,
	1662059464998953, 2033849074728123, 1442794654840575)

// d2 is 2*d, used directly by the addition formulas.
var d2 = new(field.Element).Add(D, D)

// ProjP1xP1 is a point in the P1xP1 "completed" model.
type ProjP1xP1 struct {
	X, Y, Z, T field.Element
}

// ProjP2 is a point in the projective (X:Y:Z) model, x=X/Z, y=Y/Z.
type ProjP2 struct {
	X, Y, Z field.Element
}

// ProjP3 is a point in the extended projective (X:Y:Z:T) model,
// x=X/Z, y=Y/Z, x*y=T/Z. This is the canonical internal representation of
// a group element.
type ProjP3 struct {
	X, Y, Z, T field.Element
}

// ProjCached holds the operand tuple (Y+X, Y-X, Z, 2dT) the addition law
// needs from the point being added.
type ProjCached struct {
	YplusX, YminusX, Z, T2d field.Element
}

// AffineCached is the affine (Z=1) analogue of ProjCached, used by the
// fixed-base comb where every table entry already has Z=1.
type AffineCached struct {
	YplusX, YminusX, T2d field.Element
}

// B is the Ed25519 basepoint, in extended projective coordinates.
var B = &ProjP3{
	X: *feFromLimbs(1738742601995546, 1146398526822698, 2070867633025821, 562264141797630, 587772402128613),
	Y: *feFromLimbs(1801439850948184, 1351079888211148, 450359962737049, 900719925474099, 1801439850948198),
	Z: *new(field.Element).One(),
	T: *feFromLimbs(1841354044333475, 16398895984059, 755974180946558, 900171276175154, 1821297809914039),
}

// Constructors.

func (v *ProjP1xP1) Zero() *ProjP1xP1 {
	v.X.Zero()
	v.Y.One()
	v.Z.One()
	v.T.One()
	return v
}

func (v *ProjP2) Zero() *ProjP2 {
	v.X.Zero()
	v.Y.One()
	v.Z.One()
	return v
}

func (v *ProjP3) Zero() *ProjP3 {
	v.X.Zero()
	v.Y.One()
	v.Z.One()
	v.T.Zero()
	return v
}

func (v *ProjCached) Zero() *ProjCached {
	v.YplusX.One()
	v.YminusX.One()
	v.Z.One()
	v.T2d.Zero()
	return v
}

func (v *AffineCached) Zero() *AffineCached {
	v.YplusX.One()
	v.YminusX.One()
	v.T2d.Zero()
	return v
}

func (v *ProjP3) Set(u *ProjP3) *ProjP3 {
	*v = *u
	return v
}

// Conversions.

func (v *ProjP2) FromP1xP1(p *ProjP1xP1) *ProjP2 {
	v.X.Multiply(&p.X, &p.T)
	v.Y.Multiply(&p.Y, &p.Z)
	v.Z.Multiply(&p.Z, &p.T)
	return v
}

func (v *ProjP2) FromP3(p *ProjP3) *ProjP2 {
	v.X.Set(&p.X)
	v.Y.Set(&p.Y)
	v.Z.Set(&p.Z)
	return v
}

func (v *ProjP3) FromP1xP1(p *ProjP1xP1) *ProjP3 {
	v.X.Multiply(&p.X, &p.T)
	v.Y.Multiply(&p.Y, &p.Z)
	v.Z.Multiply(&p.Z, &p.T)
	v.T.Multiply(&p.X, &p.Y)
	return v
}

func (v *ProjP3) FromP2(p *ProjP2) *ProjP3 {
	v.X.Multiply(&p.X, &p.Z)
	v.Y.Multiply(&p.Y, &p.Z)
	v.Z.Square(&p.Z)
	v.T.Multiply(&p.X, &p.Y)
	return v
}

func (v *ProjCached) FromP3(p *ProjP3) *ProjCached {
	v.YplusX.Add(&p.Y, &p.X)
	v.YminusX.Subtract(&p.Y, &p.X)
	v.Z.Set(&p.Z)
	v.T2d.Multiply(&p.T, d2)
	return v
}

func (v *AffineCached) FromP3(p *ProjP3) *AffineCached {
	v.YplusX.Add(&p.Y, &p.X)
	v.YminusX.Subtract(&p.Y, &p.X)
	v.T2d.Multiply(&p.T, d2)

	var invZ field.Element
	invZ.Invert(&p.Z)
	v.YplusX.Multiply(&v.YplusX, &invZ)
	v.YminusX.Multiply(&v.YminusX, &invZ)
	v.T2d.Multiply(&v.T2d, &invZ)
	return v
}

// Addition and subtraction.

func (v *ProjP3) Add(p, q *ProjP3) *ProjP3 {
	result := ProjP1xP1{}
	qCached := ProjCached{}
	qCached.FromP3(q)
	result.Add(p, &qCached)
	v.FromP1xP1(&result)
	return v
}

func (v *ProjP3) Sub(p, q *ProjP3) *ProjP3 {
	result := ProjP1xP1{}
	qCached := ProjCached{}
	qCached.FromP3(q)
	result.Sub(p, &qCached)
	v.FromP1xP1(&result)
	return v
}

func (v *ProjP1xP1) Add(p *ProjP3, q *ProjCached) *ProjP1xP1 {
	var YplusX, YminusX, PP, MM, TT2d, ZZ2 field.Element

	YplusX.Add(&p.Y, &p.X)
	YminusX.Subtract(&p.Y, &p.X)

	PP.Multiply(&YplusX, &q.YplusX)
	MM.Multiply(&YminusX, &q.YminusX)
	TT2d.Multiply(&p.T, &q.T2d)
	ZZ2.Multiply(&p.Z, &q.Z)

	ZZ2.Add(&ZZ2, &ZZ2)

	v.X.Subtract(&PP, &MM)
	v.Y.Add(&PP, &MM)
	v.Z.Add(&ZZ2, &TT2d)
	v.T.Subtract(&ZZ2, &TT2d)
	return v
}

func (v *ProjP1xP1) Sub(p *ProjP3, q *ProjCached) *ProjP1xP1 {
	var YplusX, YminusX, PP, MM, TT2d, ZZ2 field.Element

	YplusX.Add(&p.Y, &p.X)
	YminusX.Subtract(&p.Y, &p.X)

	PP.Multiply(&YplusX, &q.YminusX) // flipped sign
	MM.Multiply(&YminusX, &q.YplusX) // flipped sign
	TT2d.Multiply(&p.T, &q.T2d)
	ZZ2.Multiply(&p.Z, &q.Z)

	ZZ2.Add(&ZZ2, &ZZ2)

	v.X.Subtract(&PP, &MM)
	v.Y.Add(&PP, &MM)
	v.Z.Subtract(&ZZ2, &TT2d) // flipped sign
	v.T.Add(&ZZ2, &TT2d)      // flipped sign
	return v
}

func (v *ProjP1xP1) AddAffine(p *ProjP3, q *AffineCached) *ProjP1xP1 {
	var YplusX, YminusX, PP, MM, TT2d, Z2 field.Element

	YplusX.Add(&p.Y, &p.X)
	YminusX.Subtract(&p.Y, &p.X)

	PP.Multiply(&YplusX, &q.YplusX)
	MM.Multiply(&YminusX, &q.YminusX)
	TT2d.Multiply(&p.T, &q.T2d)

	Z2.Add(&p.Z, &p.Z)

	v.X.Subtract(&PP, &MM)
	v.Y.Add(&PP, &MM)
	v.Z.Add(&Z2, &TT2d)
	v.T.Subtract(&Z2, &TT2d)
	return v
}

func (v *ProjP1xP1) SubAffine(p *ProjP3, q *AffineCached) *ProjP1xP1 {
	var YplusX, YminusX, PP, MM, TT2d, Z2 field.Element

	YplusX.Add(&p.Y, &p.X)
	YminusX.Subtract(&p.Y, &p.X)

	PP.Multiply(&YplusX, &q.YminusX) // flipped sign
	MM.Multiply(&YminusX, &q.YplusX) // flipped sign
	TT2d.Multiply(&p.T, &q.T2d)

	Z2.Add(&p.Z, &p.Z)

	v.X.Subtract(&PP, &MM)
	v.Y.Add(&PP, &MM)
	v.Z.Subtract(&Z2, &TT2d) // flipped sign
	v.T.Add(&Z2, &TT2d)      // flipped sign
	return v
}

// Doubling.

func (v *ProjP1xP1) Double(p *ProjP2) *ProjP1xP1 {
	var XX, YY, ZZ2, XplusYsq field.Element

	XX.Square(&p.X)
	YY.Square(&p.Y)
	ZZ2.Square(&p.Z)
	ZZ2.Add(&ZZ2, &ZZ2)
	XplusYsq.Add(&p.X, &p.Y)
	XplusYsq.Square(&XplusYsq)

	v.Y.Add(&YY, &XX)
	v.Z.Subtract(&YY, &XX)

	v.X.Subtract(&XplusYsq, &v.Y)
	v.T.Subtract(&ZZ2, &v.Z)
	return v
}

// Negation.

func (v *ProjP3) Neg(p *ProjP3) *ProjP3 {
	v.X.Negate(&p.X)
	v.Y.Set(&p.Y)
	v.Z.Set(&p.Z)
	v.T.Negate(&p.T)
	return v
}

// Equal reports whether v and u represent the same group element, in
// projective coordinates that need not have matching Z. The comparison
// cross-multiplies rather than normalizing either operand.
func (v *ProjP3) Equal(u *ProjP3) int {
	var t1, t2, t3, t4 field.Element
	t1.Multiply(&v.X, &u.Z)
	t2.Multiply(&u.X, &v.Z)
	t3.Multiply(&v.Y, &u.Z)
	t4.Multiply(&u.Y, &v.Z)

	return t1.Equal(&t2) & t3.Equal(&t4)
}

// Constant-time operations.

// Select sets v to a if cond == 1 and to b if cond == 0.
func (v *ProjCached) Select(a, b *ProjCached, cond int) *ProjCached {
	v.YplusX.Select(&a.YplusX, &b.YplusX, cond)
	v.YminusX.Select(&a.YminusX, &b.YminusX, cond)
	v.Z.Select(&a.Z, &b.Z, cond)
	v.T2d.Select(&a.T2d, &b.T2d, cond)
	return v
}

// Select sets v to a if cond == 1 and to b if cond == 0.
func (v *AffineCached) Select(a, b *AffineCached, cond int) *AffineCached {
	v.YplusX.Select(&a.YplusX, &b.YplusX, cond)
	v.YminusX.Select(&a.YminusX, &b.YminusX, cond)
	v.T2d.Select(&a.T2d, &b.T2d, cond)
	return v
}

// CondNeg negates v if cond == 1 and leaves it unchanged if cond == 0.
func (v *ProjCached) CondNeg(cond int) *ProjCached {
	v.YplusX.Swap(&v.YminusX, cond)
	v.T2d.CondNegate(&v.T2d, cond)
	return v
}

// CondNeg negates v if cond == 1 and leaves it unchanged if cond == 0.
func (v *AffineCached) CondNeg(cond int) *AffineCached {
	v.YplusX.Swap(&v.YminusX, cond)
	v.T2d.CondNegate(&v.T2d, cond)
	return v
}
