package ot

import (
	"io"

	"github.com/optable/elgamalot/internal/crypto"
)

/*
1-out-of-n oblivious transfer on an ElGamal style construction.

The sender offers an ephemeral public key V = b·G and a list of indexes.
The receiver with key pair (a, Q = a·G) picks index i and answers U = Q - i·V.
For every offered j the sender computes W_j = b·(j·V + U) and encrypts
message j under KDF(V, W_j). The receiver derives KDF(V, a·V), which matches
only at j = i since b·(i·V + Q - i·V) = b·a·G = a·V.
*/

// Registered curve names.
const (
	Secp256k1      = crypto.Secp256k1
	P224           = crypto.P224
	P256           = crypto.P256
	P384           = crypto.P384
	P521           = crypto.P521
	Ristretto255   = crypto.Ristretto255
	Ristretto255GR = crypto.Ristretto255GR
)

const (
	// DefaultCurve is the group used when none is configured
	DefaultCurve = crypto.Secp256k1
	// DefaultKDF is HKDF-SHA256 with the application salt and info
	DefaultKDF = crypto.HKDFSHA256
	// DefaultRandom is crypto/rand
	DefaultRandom = crypto.SystemRandom

	// KeyLen is the size in bytes of every derived symmetric key
	KeyLen = crypto.KeyLen
)

type (
	Point  = crypto.Point
	Scalar = crypto.Scalar
)

// Engine bundles a curve, a KDF and a random source.
// An Engine is immutable and safe for concurrent use.
type Engine struct {
	curve   crypto.Curve
	kdf     crypto.KDF
	kdfName string
	rand    io.Reader
}

// KeyPair is a private scalar d and its public point d·G.
type KeyPair struct {
	secret Scalar
	public Point
}

// Public returns the public half of the key pair.
func (k *KeyPair) Public() Point {
	return k.public
}

type options struct {
	kdf  string
	rand io.Reader
	err  error
}

// Option configures an Engine.
type Option func(*options)

// WithKDF selects the key derivation function by name.
func WithKDF(name string) Option {
	return func(o *options) {
		o.kdf = name
	}
}

// WithRandom selects a registered random source by name.
func WithRandom(name string) Option {
	return func(o *options) {
		r, err := crypto.InitRandom(name)
		if err != nil {
			o.err = err
			return
		}
		o.rand = r
	}
}

// WithRandomReader uses r as the random source. r must be safe for
// concurrent use if the engine is shared.
func WithRandomReader(r io.Reader) Option {
	return func(o *options) {
		o.rand = r
	}
}

// NewEngine returns an engine over the curve registered as curveName.
func NewEngine(curveName string, opts ...Option) (*Engine, error) {
	o := options{kdf: DefaultKDF}
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if o.rand == nil {
		o.rand, _ = crypto.InitRandom(DefaultRandom)
	}

	curve, err := crypto.InitCurve(curveName)
	if err != nil {
		return nil, err
	}

	kdf, err := crypto.InitKDF(o.kdf)
	if err != nil {
		return nil, err
	}

	return &Engine{curve: curve, kdf: kdf, kdfName: o.kdf, rand: o.rand}, nil
}

// Curves lists the names NewEngine accepts.
func Curves() []string {
	return crypto.Curves()
}

// Curve returns the name of the engine's curve.
func (e *Engine) Curve() string {
	return e.curve.Name()
}

// KDF returns the name of the engine's key derivation function.
func (e *Engine) KDF() string {
	return e.kdfName
}

// EncodeLen is the size of a marshaled non identity point.
func (e *Engine) EncodeLen() int {
	return e.curve.EncodeLen()
}

// Identity returns the identity element of the group.
func (e *Engine) Identity() Point {
	return e.curve.Identity()
}

// GenerateKeyPair draws a fresh key pair from the engine's random source.
func (e *Engine) GenerateKeyPair() (*KeyPair, error) {
	secret, public, err := e.curve.GenerateKey(e.rand)
	if err != nil {
		return nil, err
	}
	return &KeyPair{secret: secret, public: public}, nil
}

// ScalarMult returns k·p.
func (e *Engine) ScalarMult(p Point, k Scalar) Point {
	return e.curve.ScalarMult(p, k)
}

// IndexScalar converts an item index to a scalar.
func (e *Engine) IndexScalar(index uint32) Scalar {
	return e.curve.ScalarFromUint32(index)
}

// Add returns p + q.
func (e *Engine) Add(p, q Point) Point {
	return e.curve.Add(p, q)
}

// Invert returns -p.
func (e *Engine) Invert(p Point) Point {
	return e.curve.Negate(p)
}

// Marshal returns the compressed encoding of p.
func (e *Engine) Marshal(p Point) []byte {
	return p.Marshal()
}

// Unmarshal decodes a point received from a peer.
func (e *Engine) Unmarshal(b []byte) (Point, error) {
	return e.curve.Unmarshal(b)
}

// DeriveKey returns a KeyLen byte key over a ‖ b.
func (e *Engine) DeriveKey(a, b []byte) []byte {
	return e.kdf(a, b)
}

// Encrypt returns IV ‖ AES-128-CBC(plaintext) with a fresh IV.
func (e *Engine) Encrypt(key, plaintext []byte) ([]byte, error) {
	return crypto.Encrypt(e.rand, key, plaintext)
}

// Decrypt opens a blob produced by Encrypt.
func (e *Engine) Decrypt(key, blob []byte) ([]byte, error) {
	return crypto.Decrypt(key, blob)
}

// pointKey derives the key bound to the ephemeral public key and a shared point
func (e *Engine) pointKey(ephemeral, shared Point) []byte {
	return e.DeriveKey(e.Marshal(ephemeral), e.Marshal(shared))
}
