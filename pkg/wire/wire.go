package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/twmb/murmur3"
)

/*
Length prefixed, checksummed frames carried over a reliable stream.

	frame = uint32 len ‖ payload ‖ uint32 murmur3-32(payload)

All integers are little endian.
*/

const (
	// MaxFrameSize bounds the payload of a single frame
	MaxFrameSize = 16 << 20
	// MaxItems bounds the number of items in one offer
	MaxItems = 1 << 16

	headerLen   = 4
	checksumLen = 4
)

var (
	ErrFrameTooLarge  = errors.New("frame too large")
	ErrCorruptFrame   = errors.New("frame checksum mismatch")
	ErrTooManyItems   = fmt.Errorf("more than %d items", MaxItems)
	ErrDuplicateIndex = errors.New("duplicate index")
	ErrCountMismatch  = errors.New("item count mismatch")
	ErrMalformed      = errors.New("malformed message")
)

// WriteFrame writes payload as a single frame with one call to w.Write.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(payload))
	}

	buf := make([]byte, headerLen+len(payload)+checksumLen)
	binary.LittleEndian.PutUint32(buf, uint32(len(payload)))
	copy(buf[headerLen:], payload)
	binary.LittleEndian.PutUint32(buf[headerLen+len(payload):], murmur3.Sum32(payload))

	_, err := w.Write(buf)
	return err
}

// ReadFrame reads one frame and verifies its checksum.
// A stream that ends inside a frame returns io.ErrUnexpectedEOF.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [headerLen]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	n := binary.LittleEndian.Uint32(header[:])
	if n > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, n)
	}

	buf := make([]byte, int(n)+checksumLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}

	payload, sum := buf[:n], binary.LittleEndian.Uint32(buf[n:])
	if murmur3.Sum32(payload) != sum {
		return nil, ErrCorruptFrame
	}
	return payload, nil
}

// WritePoint writes one marshaled curve point.
func WritePoint(w io.Writer, point []byte) error {
	return WriteFrame(w, point)
}

// ReadPoint reads one marshaled curve point. Decoding is left to the engine.
func ReadPoint(r io.Reader) ([]byte, error) {
	return ReadFrame(r)
}

// WriteCount writes a single uint32 frame.
func WriteCount(w io.Writer, n int) error {
	if n > MaxItems {
		return fmt.Errorf("%w: %d", ErrTooManyItems, n)
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(n))
	return WriteFrame(w, buf[:])
}

// ReadCount reads a single uint32 frame written by WriteCount.
func ReadCount(r io.Reader) (int, error) {
	payload, err := ReadFrame(r)
	if err != nil {
		return 0, err
	}
	if len(payload) != 4 {
		return 0, fmt.Errorf("%w: count frame of %d bytes", ErrMalformed, len(payload))
	}

	n := binary.LittleEndian.Uint32(payload)
	if n > MaxItems {
		return 0, fmt.Errorf("%w: %d", ErrTooManyItems, n)
	}
	return int(n), nil
}
