package transfer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

/*
One oblivious transfer run over a reliable stream:

	sender                          receiver
	  offer (V, indexes)       ->
	                           <-   hidden choice U
	  ciphertexts              ->

Any failure aborts the run, nothing is resumable since V is ephemeral.
*/

// Stage names a step of a run.
type Stage int

const (
	StageOffer Stage = iota
	StageHideChoice
	StageEncrypt
	StageDecrypt
)

func (s Stage) String() string {
	switch s {
	case StageOffer:
		return "offer"
	case StageHideChoice:
		return "hide choice"
	case StageEncrypt:
		return "encrypt"
	case StageDecrypt:
		return "decrypt"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

var (
	ErrChoiceNotOffered = errors.New("choice not in offer")
	ErrEmptyOffer       = errors.New("nothing to offer")
)

// StageError records the stage at which a run aborted.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(s Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: s, Err: err}
}

// flushed runs write against a buffered w and flushes it
func flushed(w io.Writer, write func(w io.Writer) error) error {
	bw := bufio.NewWriter(w)
	if err := write(bw); err != nil {
		return err
	}
	return bw.Flush()
}
