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

// Receiver picks one item per run. Its key pair lives as long as the
// Receiver, each run is bound to the sender's fresh ephemeral key.
type Receiver struct {
	engine   *ot.Engine
	receiver *ot.Receiver
	rw       io.ReadWriter
}

// Outcome is what a receiver learns from one run.
type Outcome struct {
	// Indexes is the offer, in sender order
	Indexes []uint32
	// Results has one entry per offered index
	Results []ot.Result
	// Position of the chosen index in Indexes and Results
	Position int
}

// Choice returns the chosen index.
func (o *Outcome) Choice() uint32 {
	return o.Indexes[o.Position]
}

// Message returns the plaintext of the chosen item.
func (o *Outcome) Message() ([]byte, error) {
	res := o.Results[o.Position]
	return res.Plaintext, res.Err
}

// NewReceiver returns a receiver with a fresh key pair talking to the sender on rw.
func NewReceiver(e *ot.Engine, rw io.ReadWriter) (*Receiver, error) {
	receiver, err := ot.NewReceiver(e)
	if err != nil {
		return nil, err
	}
	return &Receiver{engine: e, receiver: receiver, rw: rw}, nil
}

// Receive runs one transfer and asks for the item at index choice.
func (r *Receiver) Receive(ctx context.Context, choice uint32) (*Outcome, error) {
	return r.ReceiveFunc(ctx, func([]uint32) (uint32, error) {
		return choice, nil
	})
}

// ReceiveFunc runs one transfer and lets choose pick an index once the offer is known.
// A choice that is not offered aborts the run before anything is sent.
func (r *Receiver) ReceiveFunc(ctx context.Context, choose func(indexes []uint32) (uint32, error)) (*Outcome, error) {
	br := bufio.NewReader(r.rw)

	// stage 1: the offer
	var offer *wire.Offer
	if err := util.Sel(ctx, func() (err error) {
		offer, err = wire.ReadOffer(br)
		return
	}); err != nil {
		return nil, stageErr(StageOffer, err)
	}
	if len(offer.Indexes) == 0 {
		return nil, stageErr(StageOffer, ErrEmptyOffer)
	}
	ephemeral, err := r.engine.Unmarshal(offer.PublicKey)
	if err != nil {
		return nil, stageErr(StageOffer, err)
	}

	ctx = log.ContextWithValues(ctx, "session", offer.Fingerprint())
	logger := log.GetLoggerFromContextWithName(ctx, "receiver")
	logger.V(1).Info("received offer", "items", len(offer.Indexes))

	// stage 2: hide the choice
	choice, err := choose(offer.Indexes)
	if err != nil {
		return nil, stageErr(StageHideChoice, err)
	}
	position, ok := offer.Contains(choice)
	if !ok {
		return nil, stageErr(StageHideChoice, fmt.Errorf("%w: %d", ErrChoiceNotOffered, choice))
	}

	hidden := r.receiver.HideChoice(choice, ephemeral)
	if err := util.Sel(ctx, func() error {
		return flushed(r.rw, func(w io.Writer) error { return wire.WritePoint(w, r.engine.Marshal(hidden)) })
	}); err != nil {
		return nil, stageErr(StageHideChoice, err)
	}
	logger.V(1).Info("sent hidden choice")

	// stage 3: decrypt everything with the one key we can derive
	var ciphertexts [][]byte
	if err := util.Sel(ctx, func() (err error) {
		ciphertexts, err = wire.ReadCiphertexts(br, len(offer.Indexes))
		return
	}); err != nil {
		return nil, stageErr(StageDecrypt, err)
	}
	logger.V(2).Info("received payload", "ciphertexts", len(ciphertexts), "bytes", payloadSize(ciphertexts))

	results := r.receiver.DecryptBatch(ciphertexts, ephemeral)
	logger.V(1).Info("done")

	return &Outcome{Indexes: offer.Indexes, Results: results, Position: position}, nil
}
