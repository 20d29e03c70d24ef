package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"io"
)

/*
AES-128-CBC with PKCS#7 padding.
A ciphertext blob is IV ‖ CBC(pad(plaintext)).
*/

var (
	ErrDecryption     = errors.New("decryption failed")
	ErrLengthMismatch = errors.New("length mismatch")
	ErrKeySize        = fmt.Errorf("key must be %d bytes", KeyLen)
)

// Encrypt encrypts plaintext under key with a fresh IV drawn from rand.
func Encrypt(rand io.Reader, key, plaintext []byte) ([]byte, error) {
	block, err := newBlock(key)
	if err != nil {
		return nil, err
	}

	padded := pad(plaintext)
	blob := make([]byte, aes.BlockSize+len(padded))
	iv := blob[:aes.BlockSize]
	if err := readRandom(rand, iv); err != nil {
		return nil, err
	}

	cipher.NewCBCEncrypter(block, iv).CryptBlocks(blob[aes.BlockSize:], padded)
	return blob, nil
}

// Decrypt reverses Encrypt. Without an integrity tag a wrong key usually
// surfaces as bad padding, but it may also yield garbage that happens to
// be well padded.
func Decrypt(key, blob []byte) ([]byte, error) {
	block, err := newBlock(key)
	if err != nil {
		return nil, err
	}

	if len(blob) < aes.BlockSize {
		return nil, fmt.Errorf("%w: %w: blob of %d bytes is shorter than the IV", ErrDecryption, ErrLengthMismatch, len(blob))
	}

	iv, ct := blob[:aes.BlockSize], blob[aes.BlockSize:]
	if len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext of %d bytes is not a positive multiple of the block size", ErrDecryption, len(ct))
	}

	out := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ct)
	return unpad(out)
}

func newBlock(key []byte) (cipher.Block, error) {
	if len(key) != KeyLen {
		return nil, fmt.Errorf("%w, got %d", ErrKeySize, len(key))
	}
	return aes.NewCipher(key)
}

// pad appends 1 to 16 bytes of PKCS#7 padding to a copy of src
func pad(src []byte) []byte {
	padding := aes.BlockSize - len(src)%aes.BlockSize
	dst := make([]byte, len(src)+padding)
	copy(dst, src)
	for i := len(src); i < len(dst); i++ {
		dst[i] = byte(padding)
	}
	return dst
}

func unpad(src []byte) ([]byte, error) {
	padding := int(src[len(src)-1])
	if padding == 0 || padding > aes.BlockSize {
		return nil, fmt.Errorf("%w: invalid padding", ErrDecryption)
	}
	for _, b := range src[len(src)-padding:] {
		if int(b) != padding {
			return nil, fmt.Errorf("%w: invalid padding", ErrDecryption)
		}
	}
	return src[:len(src)-padding], nil
}
