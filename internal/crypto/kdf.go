package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/hkdf"
)

const (
	// KeyLen is the size of a derived AES-128 key
	KeyLen = 16

	HKDFSHA256 = "hkdf-sha256"
	Blake3     = "blake3"

	// AppInfo is the public application label bound into every derived key
	AppInfo = "EC ELGAMAL 1-N OT"
)

// AppSalt is the public application salt shared by both parties.
var AppSalt = mustDecodeHex("19b43144e977bd6823a40287d4406819")

var ErrUnknownKDF = errors.New("unknown kdf")

// KDF derives a KeyLen byte key from a ‖ b.
type KDF func(a, b []byte) []byte

var kdfs = map[string]KDF{
	HKDFSHA256: hkdfSHA256,
	Blake3:     blake3KDF,
}

// InitKDF returns the key derivation function registered under name.
func InitKDF(name string) (KDF, error) {
	f, ok := kdfs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKDF, name)
	}
	return f, nil
}

// hkdfSHA256 runs HKDF-SHA256 over a ‖ b with the application salt and info
func hkdfSHA256(a, b []byte) []byte {
	secret := concat(a, b)
	defer zero(secret)

	key := make([]byte, KeyLen)
	r := hkdf.New(sha256.New, secret, AppSalt, []byte(AppInfo))
	// a 16 byte read is far below the HKDF output limit
	if _, err := io.ReadFull(r, key); err != nil {
		panic(err)
	}
	return key
}

// blake3KDF uses the BLAKE3 derive key mode with AppInfo as the context
// string and AppSalt ‖ a ‖ b as the key material
func blake3KDF(a, b []byte) []byte {
	material := concat(AppSalt, a, b)
	defer zero(material)

	key := make([]byte, KeyLen)
	blake3.DeriveKey(AppInfo, material, key)
	return key
}

func concat(parts ...[]byte) []byte {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func mustDecodeHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
