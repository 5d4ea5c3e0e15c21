// Copyright (c) 2019 Henry de Valence. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edwards25519

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/go-curve/ed25519core/scalar"
)

func unhex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad test hex: %v", err)
	}
	return b
}

func mustScalar(t *testing.T, hexBytes string) *scalar.Scalar {
	t.Helper()
	s, err := new(scalar.Scalar).SetCanonicalBytes(unhex(t, hexBytes))
	if err != nil {
		t.Fatalf("bad scalar: %v", err)
	}
	return s
}

const (
	basepointCompressedHex = "5866666666666666666666666666666666666666666666666666666666666666"
	aScalarHex             = "1a0e978a90f6622d3747023f8ad8264da758aa1b88e040d1589e7b7f2376ef09"
	bScalarHex             = "91267acf25c2091ba217747b66f0b32e9df2a56741cfdac456a7d4aab8608a05"
)

func TestBasepointRoundTrip(t *testing.T) {
	raw := unhex(t, basepointCompressedHex)
	p, err := new(Point).SetBytes(raw)
	if err != nil {
		t.Fatalf("decompress basepoint: %v", err)
	}
	if !bytes.Equal(p.Bytes(), raw) {
		t.Errorf("compress(decompress(B)) != B")
	}
	if p.Equal(NewGeneratorPoint()) != 1 {
		t.Errorf("decompressed basepoint != NewGeneratorPoint()")
	}
}

func TestDoubleBasepointViaAddition(t *testing.T) {
	B := NewGeneratorPoint()
	sum := new(Point).Add(B, B)
	want := unhex(t, "c9a3f86aae465f0e5651386451"+"0f399756"+"1fa2c9e85ea21dc2292309f3cd6022")
	if !bytes.Equal(sum.Bytes(), want) {
		t.Errorf("compress(B+B) = %x, want %x", sum.Bytes(), want)
	}
}

func TestSixteenBasepointViaDoubling(t *testing.T) {
	B := NewGeneratorPoint()
	p := new(Point).Set(B)
	for i := 0; i < 4; i++ {
		p.Double(p)
	}
	want := unhex(t, "eb2767c137ab7ad8279c078eff116ab0786ead3a2e0f989f72c37f82f2969670")
	if !bytes.Equal(p.Bytes(), want) {
		t.Errorf("compress(B.mul_by_pow_2(4)) = %x, want %x", p.Bytes(), want)
	}
}

func TestFixedBaseMatchesSpecVector(t *testing.T) {
	a := mustScalar(t, aScalarHex)
	got := new(Point).ScalarBaseMult(a)
	want := unhex(t, "ea27e26053df1b5956f14d5dec3c34c384a269b74cc3803ea8e2e7c9425e40a5")
	if !bytes.Equal(got.Bytes(), want) {
		t.Errorf("compress(A_SCALAR*B) = %x, want %x", got.Bytes(), want)
	}
}

func TestFixedAndVariableBaseAgree(t *testing.T) {
	a := mustScalar(t, aScalarHex)
	fixed := new(Point).ScalarBaseMult(a)
	variable := new(Point).ScalarMult(a, NewGeneratorPoint())
	if fixed.Equal(variable) != 1 {
		t.Errorf("fixed-base and variable-base multiplication disagree")
	}
}

func TestDoubleScalarMultSpecVector(t *testing.T) {
	a := mustScalar(t, aScalarHex)
	b := mustScalar(t, bScalarHex)

	aB := new(Point).ScalarMult(a, NewGeneratorPoint())
	aaB := new(Point).ScalarMult(a, aB)
	bB := new(Point).ScalarMult(b, NewGeneratorPoint())
	sum := new(Point).Add(aaB, bB)

	want := unhex(t, "7dfd6c45af6d6e0eba20371a236459c4c0468343de704b85096ffe354f132b42")
	if !bytes.Equal(sum.Bytes(), want) {
		t.Errorf("compress(A*(A*B)+B*B) = %x, want %x", sum.Bytes(), want)
	}
}

func TestEightTorsion(t *testing.T) {
	identity := NewIdentityPoint()
	for i, q := range EightTorsion() {
		if !q.IsSmallOrder() {
			t.Errorf("EightTorsion()[%d] is not small order", i)
		}
		want := q.Equal(identity) == 1
		if q.IsTorsionFree() != want {
			t.Errorf("EightTorsion()[%d].IsTorsionFree() = %v, want %v", i, q.IsTorsionFree(), want)
		}
	}
}

func TestSignFlipOnDecompression(t *testing.T) {
	raw := unhex(t, basepointCompressedHex)
	flipped := append([]byte(nil), raw...)
	flipped[31] ^= 0x80

	B, err := new(Point).SetBytes(raw)
	if err != nil {
		t.Fatalf("decompress basepoint: %v", err)
	}
	Q, err := new(Point).SetBytes(flipped)
	if err != nil {
		t.Fatalf("decompress sign-flipped basepoint: %v", err)
	}

	negB := new(Point).Negate(B)
	if Q.x.Equal(&negB.x) != 1 || Q.t.Equal(&negB.t) != 1 {
		t.Errorf("sign-flipped decompression did not negate X and T")
	}
	if Q.y.Equal(&B.y) != 1 || Q.z.Equal(&B.z) != 1 {
		t.Errorf("sign-flipped decompression changed Y or Z")
	}
}

func TestAddSubNegateIdentities(t *testing.T) {
	B := NewGeneratorPoint()
	identity := NewIdentityPoint()

	if new(Point).Add(B, identity).Equal(B) != 1 {
		t.Errorf("P + identity != P")
	}
	negB := new(Point).Negate(B)
	if new(Point).Add(B, negB).Equal(identity) != 1 {
		t.Errorf("P + (-P) != identity")
	}
	if new(Point).Double(B).Equal(new(Point).Add(B, B)) != 1 {
		t.Errorf("2*P != P+P")
	}
}

func TestAssociativity(t *testing.T) {
	B := NewGeneratorPoint()
	twoB := new(Point).Add(B, B)

	lhs := new(Point).Add(new(Point).Add(B, twoB), B)
	rhs := new(Point).Add(B, new(Point).Add(twoB, B))
	if lhs.Equal(rhs) != 1 {
		t.Errorf("(P+Q)+R != P+(Q+R)")
	}
}

func TestMontgomeryIdentityException(t *testing.T) {
	u := NewIdentityPoint().BytesMontgomery()
	for _, b := range u {
		if b != 0 {
			t.Errorf("identity.BytesMontgomery() != 0, got %x", u)
			break
		}
	}
}

// TestCtEqualAcrossZScaling checks CT1: ct_eq must hold for two points that
// represent the same affine point but have different projective Z.
func TestCtEqualAcrossZScaling(t *testing.T) {
	a := new(ProjP3).Zero() // (0,1,1,0)
	b := new(ProjP3)
	b.X.Zero()
	b.Y.Add(&a.Y, &a.Y) // 2
	b.Z.Add(&a.Z, &a.Z) // 2
	b.T.Zero()
	if a.Equal(b) != 1 {
		t.Errorf("ct_eq should hold for points differing only in Z scaling")
	}
}

func TestInvalidEncodingsRejected(t *testing.T) {
	if _, err := new(Point).SetBytes(make([]byte, 31)); err == nil {
		t.Errorf("expected a 31-byte encoding to be rejected")
	}
	if _, err := new(Point).SetBytes(make([]byte, 33)); err == nil {
		t.Errorf("expected a 33-byte encoding to be rejected")
	}
}
