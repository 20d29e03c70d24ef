package crypto

import (
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

/*
secp256k1 backed by the decred implementation,
points are kept in affine form (Z = 1) or as the all zero identity.
*/

type secp256k1Curve struct{}

type secp256k1Point struct {
	p secp256k1.JacobianPoint
}

type secp256k1Scalar struct {
	k secp256k1.ModNScalar
}

func newSecp256k1() Curve {
	return secp256k1Curve{}
}

func (secp256k1Curve) Name() string {
	return Secp256k1
}

func (secp256k1Curve) EncodeLen() int {
	return secp256k1.PubKeyBytesLenCompressed
}

func (secp256k1Curve) Identity() Point {
	return &secp256k1Point{}
}

func (c secp256k1Curve) GenerateKey(rand io.Reader) (Scalar, Point, error) {
	var buf [32]byte
	defer zero(buf[:])

	for i := 0; i < maxKeyAttempts; i++ {
		if err := readRandom(rand, buf[:]); err != nil {
			return nil, nil, err
		}

		s := &secp256k1Scalar{}
		// reject anything >= N instead of reducing to keep d uniform
		if overflow := s.k.SetByteSlice(buf[:]); overflow || s.k.IsZero() {
			continue
		}
		return s, c.ScalarBaseMult(s), nil
	}

	return nil, nil, errKeyAttempts
}

func (secp256k1Curve) ScalarFromUint32(v uint32) Scalar {
	s := &secp256k1Scalar{}
	s.k.SetInt(v)
	return s
}

func (c secp256k1Curve) ScalarMult(p Point, k Scalar) Point {
	pp, kk := c.point(p), c.scalar(k)
	if pp.IsIdentity() || kk.IsZero() {
		return c.Identity()
	}

	// work on a copy, points are immutable
	in := pp.p
	var r secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&kk.k, &in, &r)
	return fromJacobian(&r)
}

func (c secp256k1Curve) ScalarBaseMult(k Scalar) Point {
	kk := c.scalar(k)
	if kk.IsZero() {
		return c.Identity()
	}

	var r secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&kk.k, &r)
	return fromJacobian(&r)
}

func (c secp256k1Curve) Add(p, q Point) Point {
	pp, qq := c.point(p), c.point(q)

	var r secp256k1.JacobianPoint
	secp256k1.AddNonConst(&pp.p, &qq.p, &r)
	return fromJacobian(&r)
}

func (c secp256k1Curve) Negate(p Point) Point {
	pp := c.point(p)
	if pp.IsIdentity() {
		return c.Identity()
	}

	r := &secp256k1Point{}
	r.p.Set(&pp.p)
	r.p.Y.Negate(1).Normalize()
	return r
}

func (c secp256k1Curve) Unmarshal(b []byte) (Point, error) {
	if isIdentityEncoding(b) {
		return nil, ErrIdentityPoint
	}
	if len(b) != c.EncodeLen() {
		return nil, fmt.Errorf("%w: %s point must be %d bytes, got %d", ErrInvalidEncoding, Secp256k1, c.EncodeLen(), len(b))
	}
	if b[0] != secp256k1.PubKeyFormatCompressedEven && b[0] != secp256k1.PubKeyFormatCompressedOdd {
		return nil, fmt.Errorf("%w: unexpected prefix %#02x", ErrInvalidEncoding, b[0])
	}

	// ParsePubKey rejects x >= p and x values with no square root
	pk, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}

	r := &secp256k1Point{}
	pk.AsJacobian(&r.p)
	return r, nil
}

func (c secp256k1Curve) point(p Point) *secp256k1Point {
	pp, ok := p.(*secp256k1Point)
	if !ok {
		panic(wrongCurve(Secp256k1, p))
	}
	return pp
}

func (c secp256k1Curve) scalar(k Scalar) *secp256k1Scalar {
	kk, ok := k.(*secp256k1Scalar)
	if !ok {
		panic(wrongCurve(Secp256k1, k))
	}
	return kk
}

// fromJacobian converts the result of a group operation to affine form
func fromJacobian(j *secp256k1.JacobianPoint) *secp256k1Point {
	j.Z.Normalize()
	if j.Z.IsZero() {
		return &secp256k1Point{}
	}
	j.ToAffine()
	return &secp256k1Point{p: *j}
}

func (p *secp256k1Point) Marshal() []byte {
	if p.IsIdentity() {
		return append([]byte(nil), identityEncoding...)
	}
	return secp256k1.NewPublicKey(&p.p.X, &p.p.Y).SerializeCompressed()
}

func (p *secp256k1Point) Equal(q Point) bool {
	qq, ok := q.(*secp256k1Point)
	if !ok {
		return false
	}
	if p.IsIdentity() || qq.IsIdentity() {
		return p.IsIdentity() == qq.IsIdentity()
	}
	return p.p.X.Equals(&qq.p.X) && p.p.Y.Equals(&qq.p.Y)
}

func (p *secp256k1Point) IsIdentity() bool {
	return p.p.Z.IsZero()
}

func (s *secp256k1Scalar) Bytes() []byte {
	b := s.k.Bytes()
	return b[:]
}

func (s *secp256k1Scalar) IsZero() bool {
	return s.k.IsZero()
}

