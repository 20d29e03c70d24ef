package wire

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
)

// fingerprintLen is the number of BLAKE3 bytes kept in a session fingerprint
const fingerprintLen = 8

// Offer is the first sender message: the ephemeral public key
// and the ordered list of offered indexes.
type Offer struct {
	PublicKey []byte
	Indexes   []uint32
}

// Contains returns the position of index in the offer.
func (o *Offer) Contains(index uint32) (int, bool) {
	for k, v := range o.Indexes {
		if v == index {
			return k, true
		}
	}
	return -1, false
}

// Fingerprint is a short hex digest of the offer both parties can
// log to correlate one run.
func (o *Offer) Fingerprint() string {
	h := blake3.New()
	h.Write(o.PublicKey)
	h.Write(encodeIndexes(o.Indexes))
	return hex.EncodeToString(h.Sum(nil)[:fingerprintLen])
}

// WriteOffer writes frame(public key) then frame(count ‖ indexes).
func WriteOffer(w io.Writer, o *Offer) error {
	if len(o.Indexes) > MaxItems {
		return fmt.Errorf("%w: %d", ErrTooManyItems, len(o.Indexes))
	}
	if err := checkUnique(o.Indexes); err != nil {
		return err
	}

	if err := WritePoint(w, o.PublicKey); err != nil {
		return err
	}
	return WriteFrame(w, encodeIndexes(o.Indexes))
}

// ReadOffer reads an offer written by WriteOffer.
func ReadOffer(r io.Reader) (*Offer, error) {
	pub, err := ReadPoint(r)
	if err != nil {
		return nil, err
	}

	payload, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	indexes, err := decodeIndexes(payload)
	if err != nil {
		return nil, err
	}

	return &Offer{PublicKey: pub, Indexes: indexes}, nil
}

func encodeIndexes(indexes []uint32) []byte {
	buf := make([]byte, 4+4*len(indexes))
	binary.LittleEndian.PutUint32(buf, uint32(len(indexes)))
	for i, v := range indexes {
		binary.LittleEndian.PutUint32(buf[4+4*i:], v)
	}
	return buf
}

func decodeIndexes(payload []byte) ([]uint32, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("%w: index frame of %d bytes", ErrMalformed, len(payload))
	}

	n := binary.LittleEndian.Uint32(payload)
	if n > MaxItems {
		return nil, fmt.Errorf("%w: %d", ErrTooManyItems, n)
	}
	if len(payload) != 4+4*int(n) {
		return nil, fmt.Errorf("%w: %d indexes need %d bytes, got %d", ErrCountMismatch, n, 4+4*int(n), len(payload))
	}

	indexes := make([]uint32, n)
	for i := range indexes {
		indexes[i] = binary.LittleEndian.Uint32(payload[4+4*i:])
	}
	if err := checkUnique(indexes); err != nil {
		return nil, err
	}
	return indexes, nil
}

func checkUnique(indexes []uint32) error {
	seen := make(map[uint32]struct{}, len(indexes))
	for _, v := range indexes {
		if _, ok := seen[v]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateIndex, v)
		}
		seen[v] = struct{}{}
	}
	return nil
}

// WriteCiphertexts writes frame(count) then one frame per ciphertext.
func WriteCiphertexts(w io.Writer, ciphertexts [][]byte) error {
	if err := WriteCount(w, len(ciphertexts)); err != nil {
		return err
	}
	for _, c := range ciphertexts {
		if err := WriteFrame(w, c); err != nil {
			return err
		}
	}
	return nil
}

// ReadCiphertexts reads a payload written by WriteCiphertexts and
// checks it carries exactly want items.
func ReadCiphertexts(r io.Reader, want int) ([][]byte, error) {
	n, err := ReadCount(r)
	if err != nil {
		return nil, err
	}
	if n != want {
		return nil, fmt.Errorf("%w: got %d ciphertexts for %d offered items", ErrCountMismatch, n, want)
	}

	ciphertexts := make([][]byte, n)
	for i := range ciphertexts {
		if ciphertexts[i], err = ReadFrame(r); err != nil {
			return nil, fmt.Errorf("ciphertext %d: %w", i, err)
		}
	}
	return ciphertexts, nil
}
