package ot

// Receiver holds the long term key pair (a, Q = a·G) used to hide a choice.
// The same Receiver must hide the choice and derive the decryption key of a run.
type Receiver struct {
	engine *Engine
	keys   *KeyPair
}

// Result is the outcome of decrypting one item of a batch.
// A nil Err on a position other than the chosen one still means the
// plaintext is meaningless.
type Result struct {
	Plaintext []byte
	Err       error
}

// OK reports whether the item decrypted to well padded plaintext.
func (r Result) OK() bool {
	return r.Err == nil
}

// NewReceiver returns a Receiver with a fresh key pair.
func NewReceiver(e *Engine) (*Receiver, error) {
	keys, err := e.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	return &Receiver{engine: e, keys: keys}, nil
}

// PublicKey returns Q.
func (r *Receiver) PublicKey() Point {
	return r.keys.Public()
}

// HideChoice returns U = Q + -(index·V) for the sender's ephemeral key V.
// index should be one of the offered indexes, otherwise no item decrypts.
func (r *Receiver) HideChoice(index uint32, senderEphemeral Point) Point {
	e := r.engine
	iV := e.ScalarMult(senderEphemeral, e.IndexScalar(index))
	return e.Add(r.keys.public, e.Invert(iV))
}

// DeriveDecryptionKey returns KDF(enc(V), enc(a·V)).
func (r *Receiver) DeriveDecryptionKey(senderEphemeral Point) []byte {
	w := r.engine.ScalarMult(senderEphemeral, r.keys.secret)
	return r.engine.pointKey(senderEphemeral, w)
}

// DecryptBatch decrypts every ciphertext with the single decryption key
// and returns one Result per position, in order.
func (r *Receiver) DecryptBatch(ciphertexts [][]byte, senderEphemeral Point) []Result {
	key := r.DeriveDecryptionKey(senderEphemeral)
	results := make([]Result, len(ciphertexts))
	for i, c := range ciphertexts {
		results[i].Plaintext, results[i].Err = r.engine.Decrypt(key, c)
	}
	return results
}
