package ot

import "github.com/optable/elgamalot/internal/crypto"

var (
	// ErrInvalidEncoding is returned for malformed, non canonical or off curve point bytes.
	ErrInvalidEncoding = crypto.ErrInvalidEncoding
	// ErrIdentityPoint is returned when a peer sends the identity. It also matches ErrInvalidEncoding.
	ErrIdentityPoint = crypto.ErrIdentityPoint
	// ErrLengthMismatch is returned when index and message counts differ,
	// and together with ErrDecryption for a ciphertext shorter than its IV.
	ErrLengthMismatch = crypto.ErrLengthMismatch
	// ErrDecryption is returned when a ciphertext does not decrypt to well padded plaintext.
	ErrDecryption            = crypto.ErrDecryption
	ErrRandomnessUnavailable = crypto.ErrRandomnessUnavailable
	ErrUnknownCurve          = crypto.ErrUnknownCurve
	ErrUnknownKDF            = crypto.ErrUnknownKDF
	ErrUnknownRandom         = crypto.ErrUnknownRandom
)
