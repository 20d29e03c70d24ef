package crypto

import (
	"crypto/elliptic"
	"fmt"
	"io"
	"math/big"
)

/*
NIST prime curves on top of crypto/elliptic.
The point at infinity is (0, 0), matching crypto/elliptic.
*/

type nistCurve struct {
	name      string
	curve     elliptic.Curve
	encodeLen int
}

// nistPoint represents a point on a NIST elliptic curve
type nistPoint struct {
	curve elliptic.Curve
	x     *big.Int
	y     *big.Int
}

// nistScalar is a big endian integer already reduced modulo N
type nistScalar struct {
	k []byte
}

func newNist(curveName string) Curve {
	var curve elliptic.Curve
	switch curveName {
	case P224:
		curve = elliptic.P224()
	case P384:
		curve = elliptic.P384()
	case P521:
		curve = elliptic.P521()
	default:
		curve = elliptic.P256()
	}
	return &nistCurve{name: curveName, curve: curve, encodeLen: encodeLenWithCurve(curve)}
}

// encodeLenWithCurve returns the number of bytes needed to encode a point
func encodeLenWithCurve(curve elliptic.Curve) int {
	return len(elliptic.MarshalCompressed(curve, curve.Params().Gx, curve.Params().Gy))
}

func (c *nistCurve) Name() string {
	return c.name
}

func (c *nistCurve) EncodeLen() int {
	return c.encodeLen
}

func (c *nistCurve) Identity() Point {
	return c.newPoint(new(big.Int), new(big.Int))
}

func (c *nistCurve) GenerateKey(rand io.Reader) (Scalar, Point, error) {
	secret, x, y, err := elliptic.GenerateKey(c.curve, rand)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrRandomnessUnavailable, err)
	}

	return &nistScalar{k: secret}, c.newPoint(x, y), nil
}

func (c *nistCurve) ScalarFromUint32(v uint32) Scalar {
	return &nistScalar{k: new(big.Int).SetUint64(uint64(v)).Bytes()}
}

// ScalarMult multiplies a point with a scalar
func (c *nistCurve) ScalarMult(p Point, k Scalar) Point {
	pp, kk := c.point(p), c.scalar(k)
	if pp.IsIdentity() || kk.IsZero() {
		return c.Identity()
	}

	x, y := c.curve.ScalarMult(pp.x, pp.y, kk.k)
	return c.newPoint(x, y)
}

func (c *nistCurve) ScalarBaseMult(k Scalar) Point {
	kk := c.scalar(k)
	if kk.IsZero() {
		return c.Identity()
	}

	x, y := c.curve.ScalarBaseMult(kk.k)
	return c.newPoint(x, y)
}

// Add adds two points
func (c *nistCurve) Add(p, q Point) Point {
	pp, qq := c.point(p), c.point(q)
	x, y := c.curve.Add(pp.x, pp.y, qq.x, qq.y)
	return c.newPoint(x, y)
}

// Negate returns (x, P - y)
func (c *nistCurve) Negate(p Point) Point {
	pp := c.point(p)
	if pp.IsIdentity() {
		return c.Identity()
	}

	// in order to negate, we need to make sure
	// the negative y is still mapped properly in the field elements.
	negY := new(big.Int).Neg(pp.y)
	negY = negY.Mod(negY, c.curve.Params().P) // here P is the order of the curve field
	return c.newPoint(new(big.Int).Set(pp.x), negY)
}

// Unmarshal takes in a marshaled point byte slice and extracts the point
func (c *nistCurve) Unmarshal(b []byte) (Point, error) {
	if isIdentityEncoding(b) {
		return nil, ErrIdentityPoint
	}
	if len(b) != c.encodeLen {
		return nil, fmt.Errorf("%w: %s point must be %d bytes, got %d", ErrInvalidEncoding, c.name, c.encodeLen, len(b))
	}

	x, y := elliptic.UnmarshalCompressed(c.curve, b)
	// on error of Unmarshal, x is nil
	if x == nil {
		return nil, fmt.Errorf("%w: not a point on %s", ErrInvalidEncoding, c.name)
	}

	return c.newPoint(x, y), nil
}

func (c *nistCurve) newPoint(x, y *big.Int) *nistPoint {
	return &nistPoint{curve: c.curve, x: x, y: y}
}

func (c *nistCurve) point(p Point) *nistPoint {
	pp, ok := p.(*nistPoint)
	if !ok || pp.curve != c.curve {
		panic(wrongCurve(c.name, p))
	}
	return pp
}

func (c *nistCurve) scalar(k Scalar) *nistScalar {
	kk, ok := k.(*nistScalar)
	if !ok {
		panic(wrongCurve(c.name, k))
	}
	return kk
}

// Marshal converts a point to its compressed byte slice representation
func (p *nistPoint) Marshal() []byte {
	if p.IsIdentity() {
		return append([]byte(nil), identityEncoding...)
	}
	return elliptic.MarshalCompressed(p.curve, p.x, p.y)
}

// Equal returns true when 2 points are equal
func (p *nistPoint) Equal(q Point) bool {
	qq, ok := q.(*nistPoint)
	if !ok || p.curve != qq.curve {
		return false
	}
	return p.x.Cmp(qq.x) == 0 && p.y.Cmp(qq.y) == 0
}

func (p *nistPoint) IsIdentity() bool {
	return p.x.Sign() == 0 && p.y.Sign() == 0
}

func (s *nistScalar) Bytes() []byte {
	return append([]byte(nil), s.k...)
}

func (s *nistScalar) IsZero() bool {
	return isZeroBytes(s.k)
}
