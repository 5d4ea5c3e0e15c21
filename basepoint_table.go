// Copyright (c) 2019 Henry de Valence. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edwards25519

import "github.com/go-curve/ed25519core/scalar"

// A BasepointTable holds a radix-16 comb of precomputed multiples of a
// fixed point: table[i] holds the 8 multiples of (16^2)^i * P, for
// i = 0..31. Multiplying an arbitrary scalar by the table's point costs 4
// doublings and 64 mixed additions, instead of the ~252 doublings a
// variable-base ladder needs.
type BasepointTable struct {
	tables [32]AffineLookupTable
}

// NewBasepointTable builds a BasepointTable for p. The table is immutable
// once built and safe to share across goroutines without synchronization.
func NewBasepointTable(p *Point) *BasepointTable {
	checkInitialized(p)
	t := new(BasepointTable)

	point := new(ProjP3).Set(pointToProjP3(p))
	for i := 0; i < 32; i++ {
		t.tables[i].FromP3(point)
		// point = (16^2) * point, via eight doublings.
		p2 := new(ProjP2).FromP3(point)
		p1 := new(ProjP1xP1)
		for s := 0; s < 8; s++ {
			p1.Double(p2)
			p2.FromP1xP1(p1)
		}
		point.FromP2(p2)
	}
	return t
}

// ScalarBaseMult sets v = x*B, where B is the point the table was built
// from, and returns v. Execution time depends only on the length of x's
// encoding, not on its value.
func (t *BasepointTable) ScalarBaseMult(v *Point, x *scalar.Scalar) *Point {
	digits := x.ToRadix16()

	multiple := &AffineCached{}
	tmp1 := &ProjP1xP1{}
	tmp2 := &ProjP2{}
	acc := new(ProjP3).Zero()

	// Accumulate the odd-indexed digits first.
	for i := 1; i < 64; i += 2 {
		t.tables[i/2].SelectInto(multiple, digits[i])
		tmp1.AddAffine(acc, multiple)
		acc.FromP1xP1(tmp1)
	}

	// Scale by 16.
	tmp2.FromP3(acc)
	tmp1.Double(tmp2)
	tmp2.FromP1xP1(tmp1)
	tmp1.Double(tmp2)
	tmp2.FromP1xP1(tmp1)
	tmp1.Double(tmp2)
	tmp2.FromP1xP1(tmp1)
	tmp1.Double(tmp2)
	acc.FromP1xP1(tmp1)

	// Accumulate the even-indexed digits.
	for i := 0; i < 64; i += 2 {
		t.tables[i/2].SelectInto(multiple, digits[i])
		tmp1.AddAffine(acc, multiple)
		acc.FromP1xP1(tmp1)
	}

	*v = *projP3ToPoint(acc)
	return v
}

// edwardsBasepointTable is the process-global comb for the Ed25519
// basepoint B. It is built once, during package initialization, and never
// mutated afterward.
var edwardsBasepointTable = func() *BasepointTable {
	return NewBasepointTable(projP3ToPoint(B))
}()

// ScalarBaseMult sets v = x*B, where B is the canonical Ed25519 basepoint,
// and returns v.
func (v *Point) ScalarBaseMult(x *scalar.Scalar) *Point {
	return edwardsBasepointTable.ScalarBaseMult(v, x)
}
