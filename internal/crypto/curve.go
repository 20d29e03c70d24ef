package crypto

import (
	"errors"
	"fmt"
	"io"
	"sort"
)

/*
High level api for operating on prime order groups.
Every group is reached through the Curve interface so the
protocol code never touches a backend directly.
*/

const (
	Secp256k1      = "secp256k1"
	P224           = "P224"
	P256           = "P256"
	P384           = "P384"
	P521           = "P521"
	Ristretto255   = "ristretto255"
	Ristretto255GR = "ristretto255-gr"
)

var (
	ErrInvalidEncoding       = errors.New("invalid point encoding")
	ErrIdentityPoint         = fmt.Errorf("%w: point at infinity", ErrInvalidEncoding)
	ErrUnknownCurve          = errors.New("unknown curve")
	ErrRandomnessUnavailable = errors.New("randomness source unavailable")
)

// identityEncoding is the SEC1 encoding of the point at infinity,
// shared by every backend.
var identityEncoding = []byte{0x00}

// Point is an element of a Curve. Points are immutable,
// arithmetic always returns a new Point.
type Point interface {
	// Marshal returns the canonical compressed encoding of the point.
	Marshal() []byte
	// Equal reports whether both points are the same group element.
	Equal(q Point) bool
	// IsIdentity reports whether the point is the identity element.
	IsIdentity() bool
}

// Scalar is an integer modulo the group order.
type Scalar interface {
	// Bytes returns the backend's canonical scalar encoding.
	Bytes() []byte
	// IsZero reports whether the scalar is zero.
	IsZero() bool
}

// Curve is a prime order group with a fixed generator.
// Passing a Point or Scalar that belongs to another Curve panics.
type Curve interface {
	// Name returns the registry name of the curve.
	Name() string
	// EncodeLen returns the number of bytes of a marshaled non identity point.
	EncodeLen() int
	// Identity returns the identity element.
	Identity() Point
	// GenerateKey draws a uniformly random non zero scalar d from rand
	// and returns it with d·G.
	GenerateKey(rand io.Reader) (Scalar, Point, error)
	// ScalarFromUint32 returns v as a scalar.
	ScalarFromUint32(v uint32) Scalar
	// ScalarMult returns k·p.
	ScalarMult(p Point, k Scalar) Point
	// ScalarBaseMult returns k·G.
	ScalarBaseMult(k Scalar) Point
	// Add returns p + q.
	Add(p, q Point) Point
	// Negate returns -p.
	Negate(p Point) Point
	// Unmarshal decodes a point produced by Marshal. It fails with
	// ErrInvalidEncoding on malformed, non canonical or off curve input
	// and with ErrIdentityPoint on the identity.
	Unmarshal(b []byte) (Point, error)
}

var curves = map[string]func() Curve{
	Secp256k1:      newSecp256k1,
	P224:           func() Curve { return newNist(P224) },
	P256:           func() Curve { return newNist(P256) },
	P384:           func() Curve { return newNist(P384) },
	P521:           func() Curve { return newNist(P521) },
	Ristretto255:   newRistretto255,
	Ristretto255GR: newRistrettoGR,
}

// InitCurve instantiates the curve registered under curveName.
func InitCurve(curveName string) (Curve, error) {
	f, ok := curves[curveName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurve, curveName)
	}
	return f(), nil
}

// Curves returns the sorted names of all registered curves.
func Curves() []string {
	names := make([]string, 0, len(curves))
	for name := range curves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// readRandom fills buf from rand, mapping any failure
// to ErrRandomnessUnavailable.
func readRandom(rand io.Reader, buf []byte) error {
	if _, err := io.ReadFull(rand, buf); err != nil {
		return fmt.Errorf("%w: %v", ErrRandomnessUnavailable, err)
	}
	return nil
}

// isIdentityEncoding reports whether b is the marshaled identity.
func isIdentityEncoding(b []byte) bool {
	return len(b) == 1 && b[0] == identityEncoding[0]
}

// maxKeyAttempts bounds rejection sampling of private scalars,
// a healthy source practically never needs a second draw.
const maxKeyAttempts = 64

var errKeyAttempts = fmt.Errorf("%w: could not sample a valid scalar", ErrRandomnessUnavailable)

func wrongCurve(curve string, v interface{}) string {
	return fmt.Sprintf("crypto: %T does not belong to curve %s", v, curve)
}

// zero wipes secret material from a scratch buffer
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func isZeroBytes(b []byte) bool {
	var acc byte
	for _, v := range b {
		acc |= v
	}
	return acc == 0
}
