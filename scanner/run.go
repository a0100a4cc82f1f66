package scanner

import (
	"context"
	"io"

	"github.com/pkg/errors"
)

// Run reads events from src and handles them until src returns io.EOF or
// ctx is done. Unparsable lines and oversized payloads are logged and
// skipped. If src is an io.Closer it is closed when ctx is done, so blocked
// reads return.
func (h *Handler) Run(ctx context.Context, src Source) error {
	done := make(chan struct{})
	defer close(done)

	if c, ok := src.(io.Closer); ok {
		go func() {
			select {
			case <-ctx.Done():
				if err := c.Close(); err != nil {
					h.log.Debugf("close source: %v", err)
				}
			case <-done:
			}
		}()
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		a, err := src.Next()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var le *LineError
			switch {
			case errors.Is(err, io.EOF):
				return nil
			case errors.As(err, &le):
				h.stats.Rejected++
				h.log.Warnf("skipping %v", le)
				continue
			}
			return errors.Wrap(err, "read source")
		}

		if err := h.Handle(a); err != nil {
			if errors.Is(err, ErrPayloadTooLong) {
				h.log.Warnf("skipping event: %v", err)
				continue
			}
			return err
		}
	}
}
