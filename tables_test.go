// Copyright (c) 2019 Henry de Valence. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edwards25519

import "testing"

func TestProjLookupTable(t *testing.T) {
	var table ProjLookupTable
	table.FromP3(B)

	var tmp1, tmp2, tmp3 ProjCached
	table.SelectInto(&tmp1, 6)
	table.SelectInto(&tmp2, -2)
	table.SelectInto(&tmp3, -4)

	// 6 - 2 - 4 == 0, so the three selected multiples of B should sum to
	// the identity.
	var accP1xP1 ProjP1xP1
	var accP3 ProjP3
	accP3.Zero()

	accP1xP1.Add(&accP3, &tmp1)
	accP3.FromP1xP1(&accP1xP1)
	accP1xP1.Add(&accP3, &tmp2)
	accP3.FromP1xP1(&accP1xP1)
	accP1xP1.Add(&accP3, &tmp3)
	accP3.FromP1xP1(&accP1xP1)

	var zero ProjP3
	zero.Zero()
	if accP3.Equal(&zero) != 1 {
		t.Errorf("table.select(6) + table.select(-2) + table.select(-4) != identity")
	}
}

func TestAffineLookupTable(t *testing.T) {
	var table AffineLookupTable
	table.FromP3(B)

	var tmp1, tmp2 AffineCached
	table.SelectInto(&tmp1, 3)
	table.SelectInto(&tmp2, -3)

	var sum ProjP1xP1
	var acc ProjP3
	acc.Zero()
	sum.AddAffine(&acc, &tmp1)
	acc.FromP1xP1(&sum)
	sum.AddAffine(&acc, &tmp2)
	acc.FromP1xP1(&sum)

	var zero ProjP3
	zero.Zero()
	if acc.Equal(&zero) != 1 {
		t.Errorf("table.select(3) + table.select(-3) != identity")
	}
}

func TestNafLookupTable5MatchesRepeatedAddition(t *testing.T) {
	var table NafLookupTable5
	table.FromP3(B)

	var nine, eleven ProjCached
	table.SelectInto(&nine, 9)
	table.SelectInto(&eleven, 11)

	var seven, thirteen ProjCached
	table.SelectInto(&seven, 7)
	table.SelectInto(&thirteen, 13)

	sumA := addCached(&nine, &eleven)
	sumB := addCached(&seven, &thirteen)
	if sumA.Equal(sumB) != 1 {
		t.Errorf("9Q+11Q != 7Q+13Q")
	}
}

// addCached adds two ProjCached multiples of the same base point by going
// through the identity, for use only in tests that just need the sum as a
// ProjP3 to compare against another sum.
func addCached(a, b *ProjCached) *ProjP3 {
	zero := new(ProjP3).Zero()
	var tmp ProjP1xP1
	var acc ProjP3
	tmp.Add(zero, a)
	acc.FromP1xP1(&tmp)
	tmp.Add(&acc, b)
	acc.FromP1xP1(&tmp)
	return &acc
}

func TestNafLookupTable8(t *testing.T) {
	var table NafLookupTable8
	table.FromP3(B)

	var one AffineCached
	table.SelectInto(&one, 1)

	var negOne AffineCached
	table.SelectInto(&negOne, 1)
	negOne.CondNeg(1)

	var sum ProjP1xP1
	var acc ProjP3
	acc.Zero()
	sum.AddAffine(&acc, &one)
	acc.FromP1xP1(&sum)
	sum.AddAffine(&acc, &negOne)
	acc.FromP1xP1(&sum)

	var zero ProjP3
	zero.Zero()
	if acc.Equal(&zero) != 1 {
		t.Errorf("table.select(1) + (-table.select(1)) != identity")
	}
}
