package util

import (
	"context"
)

// Sel runs f and returns its error, or ctx.Err() if ctx is done first.
// f keeps running in the background after a cancellation, callers
// unblock it by closing whatever it reads from or writes to.
func Sel(ctx context.Context, f func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var d = make(chan error, 1)
	go func() {
		d <- f()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-d:
		return err
	}
}
