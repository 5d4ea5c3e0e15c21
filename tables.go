// Copyright (c) 2019 Henry de Valence. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edwards25519

import "crypto/subtle"

// This file builds the lookup tables the scalar multiplication routines
// consume: a table of the first 8 multiples of a point, for the
// constant-time signed-radix-16 ladder, and width-5/width-8 NAF variants
// for the variable-time multiscalar code.

// ProjLookupTable holds the cached forms of [1]Q, [2]Q, ..., [8]Q, for use
// by the constant-time ct ladder.
type ProjLookupTable struct {
	points [8]ProjCached
}

// AffineLookupTable is the affine analogue of ProjLookupTable, used for the
// fixed basepoint comb where every entry already has Z=1.
type AffineLookupTable struct {
	points [8]AffineCached
}

// NafLookupTable5 holds the cached forms of the odd multiples [1]Q, [3]Q,
// ..., [15]Q, indexed by a width-5 NAF digit.
type NafLookupTable5 struct {
	points [8]ProjCached
}

// NafLookupTable8 is the affine analogue of NafLookupTable5 for a width-8
// NAF, holding the odd multiples [1]Q, [3]Q, ..., [127]Q.
type NafLookupTable8 struct {
	points [64]AffineCached
}

// FromP3 builds a ProjLookupTable of the first 8 multiples of q.
func (v *ProjLookupTable) FromP3(q *ProjP3) *ProjLookupTable {
	v.points[0].FromP3(q)
	for i := 0; i < 7; i++ {
		var sum ProjP1xP1
		var acc ProjP3
		sum.Add(q, &v.points[i])
		acc.FromP1xP1(&sum)
		v.points[i+1].FromP3(&acc)
	}
	return v
}

// SelectInto sets dest to x*Q, for -8 <= x <= 8, in constant time.
func (v *ProjLookupTable) SelectInto(dest *ProjCached, x int8) {
	xNeg := int(byte(x) >> 7)
	xMask := x >> 7
	xAbs := uint8((x + xMask) ^ xMask)

	dest.Zero()
	for j := 1; j <= 8; j++ {
		cond := subtle.ConstantTimeByteEq(xAbs, uint8(j))
		dest.Select(&v.points[j-1], dest, cond)
	}
	dest.CondNeg(xNeg)
}

// FromP3 builds an AffineLookupTable of the first 8 multiples of q.
func (v *AffineLookupTable) FromP3(q *ProjP3) *AffineLookupTable {
	v.points[0].FromP3(q)
	acc := new(ProjP3).Set(q)
	for i := 0; i < 7; i++ {
		var sum ProjP1xP1
		cached := new(ProjCached).FromP3(q)
		sum.Add(acc, cached)
		acc.FromP1xP1(&sum)
		v.points[i+1].FromP3(acc)
	}
	return v
}

// SelectInto sets dest to x*Q, for -8 <= x <= 8, in constant time.
func (v *AffineLookupTable) SelectInto(dest *AffineCached, x int8) {
	xNeg := int(byte(x) >> 7)
	xMask := x >> 7
	xAbs := uint8((x + xMask) ^ xMask)

	dest.Zero()
	for j := 1; j <= 8; j++ {
		cond := subtle.ConstantTimeByteEq(xAbs, uint8(j))
		dest.Select(&v.points[j-1], dest, cond)
	}
	dest.CondNeg(xNeg)
}

// FromP3 builds a NafLookupTable5 of the odd multiples 1Q, 3Q, ..., 15Q.
func (v *NafLookupTable5) FromP3(q *ProjP3) *NafLookupTable5 {
	v.points[0].FromP3(q)

	q2p2 := new(ProjP2).FromP3(q)
	q2p1 := new(ProjP1xP1).Double(q2p2)
	q2 := new(ProjP3).FromP1xP1(q2p1)
	q2Cached := new(ProjCached).FromP3(q2)

	prev := new(ProjP3).Set(q)
	for i := 1; i < 8; i++ {
		var sum ProjP1xP1
		sum.Add(prev, q2Cached)
		prev.FromP1xP1(&sum)
		v.points[i].FromP3(prev)
	}
	return v
}

// SelectInto looks up an entry for an odd digit x with |x| <= 15, in
// variable time; the caller picks the sign.
func (v *NafLookupTable5) SelectInto(dest *ProjCached, x int8) {
	xAbs := x
	if xAbs < 0 {
		xAbs = -xAbs
	}
	*dest = v.points[xAbs/2]
	if x < 0 {
		dest.CondNeg(1)
	}
}

// FromP3 builds a NafLookupTable8 of the odd multiples 1Q, 3Q, ..., 127Q.
func (v *NafLookupTable8) FromP3(q *ProjP3) *NafLookupTable8 {
	v.points[0].FromP3(q)

	q2p2 := new(ProjP2).FromP3(q)
	q2p1 := new(ProjP1xP1).Double(q2p2)
	q2 := new(ProjP3).FromP1xP1(q2p1)
	q2Cached := new(ProjCached).FromP3(q2)

	prev := new(ProjP3).Set(q)
	for i := 1; i < 64; i++ {
		var sum ProjP1xP1
		sum.Add(prev, q2Cached)
		prev.FromP1xP1(&sum)
		v.points[i].FromP3(prev)
	}
	return v
}

// SelectInto looks up an entry for an odd digit x with |x| <= 127, in
// variable time; the caller picks the sign.
func (v *NafLookupTable8) SelectInto(dest *AffineCached, x int8) {
	xAbs := x
	if xAbs < 0 {
		xAbs = -xAbs
	}
	*dest = v.points[xAbs/2]
	if x < 0 {
		dest.CondNeg(1)
	}
}
