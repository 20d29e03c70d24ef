package crypto

import (
	"encoding/binary"
	"fmt"
	"io"

	gr "github.com/bwesterb/go-ristretto"
)

// "github.com/bwesterb/go-ristretto"
// same group and encoding as ristretto255, second backend.
type grCurve struct{}

type grPoint struct {
	p gr.Point
}

type grScalar struct {
	s gr.Scalar
}

func newRistrettoGR() Curve {
	return grCurve{}
}

func (grCurve) Name() string {
	return Ristretto255GR
}

func (grCurve) EncodeLen() int {
	return ristrettoEncodeLen
}

func (grCurve) Identity() Point {
	var p grPoint
	p.p.SetZero()
	return &p
}

// GenerateKey returns a secret key scalar
// and a public key ristretto point
func (c grCurve) GenerateKey(rand io.Reader) (Scalar, Point, error) {
	var wide [64]byte
	defer zero(wide[:])

	for i := 0; i < maxKeyAttempts; i++ {
		if err := readRandom(rand, wide[:]); err != nil {
			return nil, nil, err
		}

		s := &grScalar{}
		s.s.SetReduced(&wide)
		if s.IsZero() {
			continue
		}
		return s, c.ScalarBaseMult(s), nil
	}

	return nil, nil, errKeyAttempts
}

func (grCurve) ScalarFromUint32(v uint32) Scalar {
	var buf [32]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	s := &grScalar{}
	s.s.SetBytes(&buf)
	return s
}

func (c grCurve) ScalarMult(p Point, k Scalar) Point {
	pp, kk := c.point(p), c.scalar(k)
	if pp.IsIdentity() || kk.IsZero() {
		return c.Identity()
	}

	r := &grPoint{}
	r.p.ScalarMult(&pp.p, &kk.s)
	return r
}

func (c grCurve) ScalarBaseMult(k Scalar) Point {
	kk := c.scalar(k)
	if kk.IsZero() {
		return c.Identity()
	}

	r := &grPoint{}
	r.p.ScalarMultBase(&kk.s)
	return r
}

func (c grCurve) Add(p, q Point) Point {
	r := &grPoint{}
	r.p.Add(&c.point(p).p, &c.point(q).p)
	return r
}

// Negate computes 0 - p
func (c grCurve) Negate(p Point) Point {
	var zero gr.Point
	zero.SetZero()

	r := &grPoint{}
	r.p.Sub(&zero, &c.point(p).p)
	return r
}

func (grCurve) Unmarshal(b []byte) (Point, error) {
	if isIdentityEncoding(b) {
		return nil, ErrIdentityPoint
	}
	if len(b) != ristrettoEncodeLen {
		return nil, fmt.Errorf("%w: %s point must be %d bytes, got %d", ErrInvalidEncoding, Ristretto255GR, ristrettoEncodeLen, len(b))
	}

	p := &grPoint{}
	if err := p.p.UnmarshalBinary(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	if p.IsIdentity() {
		return nil, ErrIdentityPoint
	}
	return p, nil
}

func (grCurve) point(p Point) *grPoint {
	pp, ok := p.(*grPoint)
	if !ok {
		panic(wrongCurve(Ristretto255GR, p))
	}
	return pp
}

func (grCurve) scalar(k Scalar) *grScalar {
	kk, ok := k.(*grScalar)
	if !ok {
		panic(wrongCurve(Ristretto255GR, k))
	}
	return kk
}

func (p *grPoint) Marshal() []byte {
	if p.IsIdentity() {
		return append([]byte(nil), identityEncoding...)
	}
	buf, err := p.p.MarshalBinary()
	if err != nil {
		// MarshalBinary never fails on a valid point
		panic(err)
	}
	return buf
}

func (p *grPoint) Equal(q Point) bool {
	qq, ok := q.(*grPoint)
	if !ok {
		return false
	}
	return p.p.Equals(&qq.p)
}

func (p *grPoint) IsIdentity() bool {
	var zero gr.Point
	zero.SetZero()
	return p.p.Equals(&zero)
}

func (s *grScalar) Bytes() []byte {
	buf, err := s.s.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return buf
}

func (s *grScalar) IsZero() bool {
	return isZeroBytes(s.Bytes())
}
