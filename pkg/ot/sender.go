package ot

import "fmt"

// Sender derives one key per offered index against a hidden choice.
// It keeps no state between runs, every run needs its own ephemeral key.
type Sender struct {
	engine *Engine
}

func NewSender(e *Engine) *Sender {
	return &Sender{engine: e}
}

// NewEphemeralKey returns a fresh key pair (b, V = b·G) for one run.
func (s *Sender) NewEphemeralKey() (*KeyPair, error) {
	return s.engine.GenerateKeyPair()
}

// DeriveItemKey returns KDF(enc(V), enc(b·(index·V + U))).
// It equals the receiver's decryption key when index is the hidden choice.
func (s *Sender) DeriveItemKey(index uint32, ephemeral *KeyPair, hiddenChoice Point) []byte {
	e := s.engine
	vj := e.ScalarMult(ephemeral.public, e.IndexScalar(index))
	uj := e.Add(vj, hiddenChoice)
	wj := e.ScalarMult(uj, ephemeral.secret)
	return e.pointKey(ephemeral.public, wj)
}

// ItemKeys derives the key of every index, in order.
func (s *Sender) ItemKeys(indexes []uint32, ephemeral *KeyPair, hiddenChoice Point) [][]byte {
	keys := make([][]byte, len(indexes))
	for i, index := range indexes {
		keys[i] = s.DeriveItemKey(index, ephemeral, hiddenChoice)
	}
	return keys
}

// EncryptBatch encrypts messages[k] under the key of indexes[k].
func (s *Sender) EncryptBatch(indexes []uint32, messages [][]byte, ephemeral *KeyPair, hiddenChoice Point) ([][]byte, error) {
	if len(indexes) != len(messages) {
		return nil, fmt.Errorf("%w: %d indexes for %d messages", ErrLengthMismatch, len(indexes), len(messages))
	}

	keys := s.ItemKeys(indexes, ephemeral, hiddenChoice)
	ciphertexts := make([][]byte, len(messages))
	for i, m := range messages {
		c, err := s.engine.Encrypt(keys[i], m)
		if err != nil {
			return nil, fmt.Errorf("encrypt item %d: %w", indexes[i], err)
		}
		ciphertexts[i] = c
	}
	return ciphertexts, nil
}
