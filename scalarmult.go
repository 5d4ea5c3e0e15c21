// Copyright (c) 2019 Henry de Valence. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edwards25519

import "github.com/go-curve/ed25519core/scalar"

// ScalarMult sets v = x*q, and returns v. Execution time depends only on
// the length of x's encoding (always 32 bytes), not on its value or on q.
func (v *Point) ScalarMult(x *scalar.Scalar, q *Point) *Point {
	checkInitialized(q)

	var table ProjLookupTable
	table.FromP3(pointToProjP3(q))

	digits := x.ToRadix16()

	multiple := &ProjCached{}
	tmp1 := &ProjP1xP1{}
	tmp2 := &ProjP2{}
	acc := new(ProjP3).Zero()

	table.SelectInto(multiple, digits[63])
	tmp1.Add(acc, multiple)
	for i := 62; i >= 0; i-- {
		tmp2.FromP1xP1(tmp1)
		tmp1.Double(tmp2)
		tmp2.FromP1xP1(tmp1)
		tmp1.Double(tmp2)
		tmp2.FromP1xP1(tmp1)
		tmp1.Double(tmp2)
		tmp2.FromP1xP1(tmp1)
		tmp1.Double(tmp2)
		acc.FromP1xP1(tmp1)
		table.SelectInto(multiple, digits[i])
		tmp1.Add(acc, multiple)
	}
	acc.FromP1xP1(tmp1)

	*v = *projP3ToPoint(acc)
	return v
}
