package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"lukechampine.com/frand"
)

const (
	SystemRandom = "system"
	FastRandom   = "frand"
)

var ErrUnknownRandom = errors.New("unknown random source")

// InitRandom returns the CSPRNG registered under name.
// Both sources are safe for concurrent use.
func InitRandom(name string) (io.Reader, error) {
	switch name {
	case SystemRandom:
		return rand.Reader, nil
	case FastRandom:
		return frand.Reader, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRandom, name)
	}
}
