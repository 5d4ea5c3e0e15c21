// Copyright (c) 2019 Henry de Valence. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edwards25519

import "github.com/go-curve/ed25519core/scalar"

// pippengerCrossover is the batch size at which VarTimeMultiScalarMult
// switches from the shared-doubling-chain Straus algorithm to Pippenger's
// bucket method. Below the crossover Straus wins because Pippenger's bucket
// bookkeeping costs more than it saves; above it, the windowed buckets
// amortize better. The value is a measured crossover and may need
// retuning on other hardware.
const pippengerCrossover = 190

// MultiScalarMult sets v = sum(scalars[i] * points[i]), and returns v.
//
// Execution time depends only on the lengths of the two slices, which
// must be equal, and not on their values. This is the constant-time
// entry point; it always uses the Straus algorithm.
func (v *Point) MultiScalarMult(scalars []*scalar.Scalar, points []*Point) *Point {
	if len(scalars) != len(points) {
		panic("edwards25519: called MultiScalarMult with different size inputs")
	}
	checkInitialized(points...)

	tables := make([]ProjLookupTable, len(points))
	for i := range tables {
		tables[i].FromP3(pointToProjP3(points[i]))
	}
	digits := make([][64]int8, len(scalars))
	for i := range digits {
		digits[i] = scalars[i].ToRadix16()
	}

	multiple := &ProjCached{}
	tmp1 := &ProjP1xP1{}
	tmp2 := &ProjP2{}
	acc := new(ProjP3).Zero()

	for i := 63; i >= 0; i-- {
		tmp2.FromP3(acc)
		tmp1.Double(tmp2)
		tmp2.FromP1xP1(tmp1)
		tmp1.Double(tmp2)
		tmp2.FromP1xP1(tmp1)
		tmp1.Double(tmp2)
		tmp2.FromP1xP1(tmp1)
		tmp1.Double(tmp2)
		acc.FromP1xP1(tmp1)

		for j := range tables {
			tables[j].SelectInto(multiple, digits[j][i])
			tmp1.Add(acc, multiple)
			acc.FromP1xP1(tmp1)
		}
	}

	*v = *projP3ToPoint(acc)
	return v
}

// VarTimeMultiScalarMult sets v = sum(scalars[i] * points[i]), and returns
// v. Execution time depends on the inputs.
//
// Straus is used below pippengerCrossover scalars; Pippenger's bucket
// method is used at or above it.
func (v *Point) VarTimeMultiScalarMult(scalars []*scalar.Scalar, points []*Point) *Point {
	if len(scalars) != len(points) {
		panic("edwards25519: called VarTimeMultiScalarMult with different size inputs")
	}
	checkInitialized(points...)

	if len(scalars) < pippengerCrossover {
		return v.varTimeStraus(scalars, points)
	}
	return v.varTimePippenger(scalars, points)
}

// varTimeStraus implements a width-5 NAF Straus multiscalar multiplication,
// sharing one doubling chain across every term.
func (v *Point) varTimeStraus(scalars []*scalar.Scalar, points []*Point) *Point {
	tables := make([]NafLookupTable5, len(points))
	for i := range tables {
		tables[i].FromP3(pointToProjP3(points[i]))
	}
	nafs := make([][256]int8, len(scalars))
	for i := range nafs {
		nafs[i] = scalars[i].NonAdjacentForm(5)
	}

	multiple := &ProjCached{}
	tmp1 := &ProjP1xP1{}
	tmp2 := &ProjP2{}
	tmp2.Zero()

	for i := 255; i >= 0; i-- {
		tmp1.Double(tmp2)

		for j := range nafs {
			if nafs[j][i] > 0 {
				v.fromP1xP1(tmp1)
				tables[j].SelectInto(multiple, nafs[j][i])
				tmp1.Add(pointToProjP3(v), multiple)
			} else if nafs[j][i] < 0 {
				v.fromP1xP1(tmp1)
				tables[j].SelectInto(multiple, -nafs[j][i])
				tmp1.Sub(pointToProjP3(v), multiple)
			}
		}

		tmp2.FromP1xP1(tmp1)
	}

	v.fromP2(tmp2)
	return v
}

// pippengerWindowWidth picks the bucket window width for a batch of n
// terms: wider windows pay off only once there are enough terms to fill
// the larger bucket sets.
// The width is capped at 7 so that a signed digit (magnitude up to 2^(w-1))
// always fits in an int8.
func pippengerWindowWidth(n int) uint {
	switch {
	case n >= 800:
		return 7
	case n >= 300:
		return 6
	default:
		return 5
	}
}

// varTimePippenger implements the bucket method: each scalar is split into
// signed base-2^w digits, and for each digit position the points are
// routed into 2^(w-1) buckets by |digit|, subtracting when the digit is
// negative. The buckets are folded into a running window sum, and the
// window sums are combined by scaling by 2^w between windows.
func (v *Point) varTimePippenger(scalars []*scalar.Scalar, points []*Point) *Point {
	w := pippengerWindowWidth(len(points))
	windows := (256 + int(w) - 1) / int(w)
	numBuckets := 1 << (w - 1)

	digitsList := make([][]int8, len(scalars))
	for i := range digitsList {
		digitsList[i] = signedDigits(scalars[i], w, windows)
	}

	total := NewIdentityPoint()
	buckets := make([]*Point, numBuckets)

	for wi := windows - 1; wi >= 0; wi-- {
		if wi != windows-1 {
			for s := uint(0); s < w; s++ {
				total.Double(total)
			}
		}

		for i := range buckets {
			buckets[i] = nil
		}

		for j := range points {
			d := digitsList[j][wi]
			if d == 0 {
				continue
			}
			idx := int(d)
			neg := false
			if idx < 0 {
				idx = -idx
				neg = true
			}
			idx--
			p := points[j]
			if neg {
				p = new(Point).Negate(p)
			}
			if buckets[idx] == nil {
				buckets[idx] = new(Point).Set(p)
			} else {
				buckets[idx] = new(Point).Add(buckets[idx], p)
			}
		}

		windowSum := NewIdentityPoint()
		runningSum := NewIdentityPoint()
		for i := numBuckets - 1; i >= 0; i-- {
			if buckets[i] != nil {
				runningSum.Add(runningSum, buckets[i])
			}
			windowSum.Add(windowSum, runningSum)
		}

		total.Add(total, windowSum)
	}

	*v = *total
	return v
}

// signedDigits splits the scalar into `windows` signed base-2^w digits,
// each in [-2^(w-1), 2^(w-1)], most significant window last isn't
// required here: index i holds the digit for bit position i*w.
func signedDigits(s *scalar.Scalar, w uint, windows int) []int8 {
	enc := s.Bytes()
	// Expand the canonical little-endian encoding into a full bit string
	// and then regroup into base-2^w signed digits, so the bucket method
	// is not tied to a particular native digit width.
	var bitString [256]int8
	for i := range bitString {
		bitString[i] = int8((enc[i/8] >> (i % 8)) & 1)
	}

	// The running sum is kept in int (not int8) until the final assignment:
	// an unreduced w-bit window plus carry can reach 2^w, which overflows
	// int8 for every w this function is called with.
	digits := make([]int8, windows)
	carry := 0
	radix := 1 << w
	half := 1 << (w - 1)
	for wi := 0; wi < windows; wi++ {
		d := 0
		for b := uint(0); b < w; b++ {
			pos := wi*int(w) + int(b)
			if pos < 256 {
				d |= int(bitString[pos]) << b
			}
		}
		d += carry
		if d >= half {
			d -= radix
			carry = 1
		} else {
			carry = 0
		}
		digits[wi] = int8(d)
	}
	return digits
}

// VartimePrecomputedStraus holds per-point width-8 NAF tables for a fixed
// set of static points, so that repeated multiscalar multiplications
// against the same static points (with varying dynamic points and
// scalars) don't repay the table-construction cost every call.
type VartimePrecomputedStraus struct {
	tables []NafLookupTable8
}

// NewVartimePrecomputedStraus builds a VartimePrecomputedStraus over the
// given static points.
func NewVartimePrecomputedStraus(staticPoints []*Point) *VartimePrecomputedStraus {
	checkInitialized(staticPoints...)
	v := &VartimePrecomputedStraus{tables: make([]NafLookupTable8, len(staticPoints))}
	for i := range v.tables {
		v.tables[i].FromP3(pointToProjP3(staticPoints[i]))
	}
	return v
}

// MixedMultiscalarMul sets out = sum(staticScalars[i]*staticPoints[i]) +
// sum(dynamicScalars[i]*dynamicPoints[i]), using the precomputed tables
// for the static terms and building tables on the fly for the dynamic
// ones, and returns out. Execution time depends on the inputs.
func (p *VartimePrecomputedStraus) MixedMultiscalarMul(out *Point, staticScalars []*scalar.Scalar, dynamicScalars []*scalar.Scalar, dynamicPoints []*Point) *Point {
	if len(staticScalars) != len(p.tables) {
		panic("edwards25519: called MixedMultiscalarMul with a static scalar count that doesn't match the stored tables")
	}
	if len(dynamicScalars) != len(dynamicPoints) {
		panic("edwards25519: called MixedMultiscalarMul with different size dynamic inputs")
	}
	checkInitialized(dynamicPoints...)

	dynTables := make([]NafLookupTable5, len(dynamicPoints))
	for i := range dynTables {
		dynTables[i].FromP3(pointToProjP3(dynamicPoints[i]))
	}

	staticNafs := make([][256]int8, len(staticScalars))
	for i := range staticNafs {
		staticNafs[i] = staticScalars[i].NonAdjacentForm(8)
	}
	dynNafs := make([][256]int8, len(dynamicScalars))
	for i := range dynNafs {
		dynNafs[i] = dynamicScalars[i].NonAdjacentForm(5)
	}

	v := NewIdentityPoint()
	tmp1 := &ProjP1xP1{}
	tmp2 := &ProjP2{}
	tmp2.Zero()

	affMultiple := &AffineCached{}
	projMultiple := &ProjCached{}

	for i := 255; i >= 0; i-- {
		tmp1.Double(tmp2)

		for j := range staticNafs {
			if staticNafs[j][i] > 0 {
				v.fromP1xP1(tmp1)
				p.tables[j].SelectInto(affMultiple, staticNafs[j][i])
				tmp1.AddAffine(pointToProjP3(v), affMultiple)
			} else if staticNafs[j][i] < 0 {
				v.fromP1xP1(tmp1)
				p.tables[j].SelectInto(affMultiple, -staticNafs[j][i])
				tmp1.SubAffine(pointToProjP3(v), affMultiple)
			}
		}

		for j := range dynNafs {
			if dynNafs[j][i] > 0 {
				v.fromP1xP1(tmp1)
				dynTables[j].SelectInto(projMultiple, dynNafs[j][i])
				tmp1.Add(pointToProjP3(v), projMultiple)
			} else if dynNafs[j][i] < 0 {
				v.fromP1xP1(tmp1)
				dynTables[j].SelectInto(projMultiple, -dynNafs[j][i])
				tmp1.Sub(pointToProjP3(v), projMultiple)
			}
		}

		tmp2.FromP1xP1(tmp1)
	}

	v.fromP2(tmp2)
	*out = *v
	return out
}
