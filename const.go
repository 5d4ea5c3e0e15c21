// Copyright (c) 2019 Henry de Valence. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edwards25519

import "github.com/go-curve/ed25519core/field"

// The eight-torsion subgroup is cyclic of order 8: O, the order-2 point
// (0,-1), the two order-4 points (i,0) and (-i,0) where i = sqrt(-1), and
// four order-8 points. Rather than ship the order-8 points as an opaque
// byte table, they are derived once, here, from the curve equation
//
//	-x^2 + y^2 = 1 + d*x^2*y^2
//
// by solving for a point Q with 2Q = (i, 0). The doubling law sends Q to a
// point with y = 0 exactly when y^2 = -x^2, i.e. y = delta*i*x for
// delta = +-1, and then 2Q = (-delta*i, 0), so delta = -1. Substituting
// y^2 = -x^2 into the curve equation gives
//
//	d*x^4 - 2*x^2 - 1 = 0
//
// a quadratic in x^2 with roots x^2 = (sign*sqrt(1+d) + 1) / d.
// eightTorsionHalf below tries the candidates x^2 = (sign*sqrt(1+d) - delta)
// / d for both signs and both deltas, takes square roots with field.Element's
// SqrtRatio (the u/v square-root-or-fail primitive used for point
// decompression), and keeps the first candidate that passes isOnCurve; only
// the delta = -1 candidates can pass.
func eightTorsionHalf() *Point {
	one := new(field.Element).One()
	dPlusOne := new(field.Element).Add(D, one)

	s, sOk := new(field.Element).SqrtRatio(dPlusOne, one)
	if sOk != 1 {
		panic("edwards25519: 1+d is not a square mod p")
	}

	for _, delta := range [2]int{1, -1} {
		for _, sign := range [2]int{1, -1} {
			num := new(field.Element).Set(s)
			if sign == -1 {
				num.Negate(num)
			}
			deltaElem := new(field.Element).One()
			if delta == -1 {
				deltaElem.Negate(deltaElem)
			}
			num.Subtract(num, deltaElem)

			x, xOk := new(field.Element).SqrtRatio(num, D)
			if xOk != 1 {
				continue
			}

			y := new(field.Element).Multiply(sqrtMinusOne(), x)
			if delta == -1 {
				y.Negate(y)
			}

			t := new(field.Element).Multiply(x, y)
			z := new(field.Element).One()
			if isOnCurve(x, y, z, t) {
				return &Point{x: *x, y: *y, z: *z, t: *t, initialized: true}
			}
		}
	}
	panic("edwards25519: failed to construct an eight-torsion generator")
}

// sqrtMinusOne returns i = sqrt(-1) mod p, computed the same way
// SetBytes does for point decompression.
func sqrtMinusOne() *field.Element {
	one := new(field.Element).One()
	negOne := new(field.Element).Negate(one)
	i, ok := new(field.Element).SqrtRatio(negOne, one)
	if ok != 1 {
		panic("edwards25519: -1 is not a square mod p")
	}
	return i
}

// eightTorsion holds the eight points annihilated by MultByCofactor, built
// once at package initialization time.
var eightTorsion = buildEightTorsion()

func buildEightTorsion() [8]*Point {
	var t [8]*Point
	t[0] = NewIdentityPoint()

	negY := new(field.Element).One()
	negY.Negate(negY)
	order2 := &Point{
		x:           field.Element{},
		y:           *negY,
		z:           *new(field.Element).One(),
		t:           field.Element{},
		initialized: true,
	}
	t[4] = order2

	i := sqrtMinusOne()
	zero := new(field.Element)
	one := new(field.Element).One()
	order4pos := &Point{x: *i, y: *zero, z: *one, t: field.Element{}, initialized: true}
	order4neg := new(Point).Negate(order4pos)
	t[2] = order4pos
	t[6] = order4neg

	q := eightTorsionHalf()
	t[1] = q
	t[7] = new(Point).Negate(q)
	t[3] = new(Point).Add(q, order4pos)
	t[5] = new(Point).Negate(t[3])

	return t
}

// EightTorsion returns the eight points of the eight-torsion subgroup.
// Every element Q satisfies Q.IsSmallOrder() (8*Q = identity).
func EightTorsion() [8]*Point {
	return eightTorsion
}
