package crypto

import (
	"encoding/binary"
	"fmt"
	"io"

	r255 "github.com/gtank/ristretto255"
)

// ristrettoEncodeLen is the length of one encoded ristretto point
const ristrettoEncodeLen = 32

// "github.com/gtank/ristretto255"
type r255Curve struct{}

type r255Point struct {
	e *r255.Element
}

type r255Scalar struct {
	s *r255.Scalar
}

func newRistretto255() Curve {
	return r255Curve{}
}

func (r255Curve) Name() string {
	return Ristretto255
}

func (r255Curve) EncodeLen() int {
	return ristrettoEncodeLen
}

func (r255Curve) Identity() Point {
	return &r255Point{e: r255.NewElement().Zero()}
}

func (c r255Curve) GenerateKey(rand io.Reader) (Scalar, Point, error) {
	var uniformBytes [64]byte
	defer zero(uniformBytes[:])

	for i := 0; i < maxKeyAttempts; i++ {
		if err := readRandom(rand, uniformBytes[:]); err != nil {
			return nil, nil, err
		}

		s := &r255Scalar{s: r255.NewScalar().FromUniformBytes(uniformBytes[:])}
		if s.IsZero() {
			continue
		}
		return s, c.ScalarBaseMult(s), nil
	}

	return nil, nil, errKeyAttempts
}

func (r255Curve) ScalarFromUint32(v uint32) Scalar {
	var buf [32]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	s := r255.NewScalar()
	// v < l, the canonical check cannot fail
	if err := s.Decode(buf[:]); err != nil {
		panic(err)
	}
	return &r255Scalar{s: s}
}

func (c r255Curve) ScalarMult(p Point, k Scalar) Point {
	pp, kk := c.point(p), c.scalar(k)
	if pp.IsIdentity() || kk.IsZero() {
		return c.Identity()
	}
	return &r255Point{e: r255.NewElement().ScalarMult(kk.s, pp.e)}
}

func (c r255Curve) ScalarBaseMult(k Scalar) Point {
	kk := c.scalar(k)
	if kk.IsZero() {
		return c.Identity()
	}
	return &r255Point{e: r255.NewElement().ScalarBaseMult(kk.s)}
}

func (c r255Curve) Add(p, q Point) Point {
	return &r255Point{e: r255.NewElement().Add(c.point(p).e, c.point(q).e)}
}

func (c r255Curve) Negate(p Point) Point {
	return &r255Point{e: r255.NewElement().Negate(c.point(p).e)}
}

func (r255Curve) Unmarshal(b []byte) (Point, error) {
	if isIdentityEncoding(b) {
		return nil, ErrIdentityPoint
	}
	if len(b) != ristrettoEncodeLen {
		return nil, fmt.Errorf("%w: %s point must be %d bytes, got %d", ErrInvalidEncoding, Ristretto255, ristrettoEncodeLen, len(b))
	}

	e := r255.NewElement()
	if err := e.Decode(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}

	p := &r255Point{e: e}
	// the all zero string is the canonical identity encoding
	if p.IsIdentity() {
		return nil, ErrIdentityPoint
	}
	return p, nil
}

func (r255Curve) point(p Point) *r255Point {
	pp, ok := p.(*r255Point)
	if !ok {
		panic(wrongCurve(Ristretto255, p))
	}
	return pp
}

func (r255Curve) scalar(k Scalar) *r255Scalar {
	kk, ok := k.(*r255Scalar)
	if !ok {
		panic(wrongCurve(Ristretto255, k))
	}
	return kk
}

func (p *r255Point) Marshal() []byte {
	if p.IsIdentity() {
		return append([]byte(nil), identityEncoding...)
	}
	return p.e.Encode(nil)
}

func (p *r255Point) Equal(q Point) bool {
	qq, ok := q.(*r255Point)
	if !ok {
		return false
	}
	return p.e.Equal(qq.e) == 1
}

func (p *r255Point) IsIdentity() bool {
	return p.e.Equal(r255.NewElement().Zero()) == 1
}

func (s *r255Scalar) Bytes() []byte {
	return s.s.Encode(nil)
}

func (s *r255Scalar) IsZero() bool {
	return isZeroBytes(s.s.Encode(nil))
}
