package transfer

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/optable/elgamalot/internal/util"
	"github.com/optable/elgamalot/pkg/log"
	"github.com/optable/elgamalot/pkg/ot"
	"github.com/optable/elgamalot/pkg/wire"
)

// Sender offers messages to one receiver per Send call.
type Sender struct {
	engine *ot.Engine
	sender *ot.Sender
	rw     io.ReadWriter
}

// NewSender returns a sender talking to the receiver on rw.
func NewSender(e *ot.Engine, rw io.ReadWriter) *Sender {
	return &Sender{engine: e, sender: ot.NewSender(e), rw: rw}
}

// Send runs one transfer of messages[k] at indexes[k] with a fresh ephemeral key.
// When ctx is done Send returns early, the caller closes rw to stop the
// pending read or write.
func (s *Sender) Send(ctx context.Context, indexes []uint32, messages [][]byte) error {
	if len(indexes) != len(messages) {
		return stageErr(StageOffer, fmt.Errorf("%w: %d indexes for %d messages", ot.ErrLengthMismatch, len(indexes), len(messages)))
	}
	if len(indexes) == 0 {
		return stageErr(StageOffer, ErrEmptyOffer)
	}

	// stage 1: ephemeral key and offer
	eph, err := s.sender.NewEphemeralKey()
	if err != nil {
		return stageErr(StageOffer, err)
	}
	offer := &wire.Offer{PublicKey: s.engine.Marshal(eph.Public()), Indexes: indexes}

	ctx = log.ContextWithValues(ctx, "session", offer.Fingerprint())
	logger := log.GetLoggerFromContextWithName(ctx, "sender")
	logger.V(1).Info("starting", "curve", s.engine.Curve(), "kdf", s.engine.KDF(), "items", len(indexes))

	if err := util.Sel(ctx, func() error {
		return flushed(s.rw, func(w io.Writer) error { return wire.WriteOffer(w, offer) })
	}); err != nil {
		return stageErr(StageOffer, err)
	}
	logger.V(1).Info("offer sent")

	// stage 2: wait for the hidden choice
	r := bufio.NewReader(s.rw)
	var hidden ot.Point
	if err := util.Sel(ctx, func() error {
		b, err := wire.ReadPoint(r)
		if err != nil {
			return err
		}
		hidden, err = s.engine.Unmarshal(b)
		return err
	}); err != nil {
		return stageErr(StageHideChoice, err)
	}
	logger.V(1).Info("received hidden choice")

	// stage 3: encrypt every item under its own key
	ciphertexts, err := s.sender.EncryptBatch(indexes, messages, eph, hidden)
	if err != nil {
		return stageErr(StageEncrypt, err)
	}
	if err := util.Sel(ctx, func() error {
		return flushed(s.rw, func(w io.Writer) error { return wire.WriteCiphertexts(w, ciphertexts) })
	}); err != nil {
		return stageErr(StageEncrypt, err)
	}
	logger.V(2).Info("payload sent", "ciphertexts", len(ciphertexts), "bytes", payloadSize(ciphertexts))
	logger.V(1).Info("done")

	return nil
}

func payloadSize(ciphertexts [][]byte) int {
	var n int
	for _, c := range ciphertexts {
		n += len(c)
	}
	return n
}
