//go:build !tinygo

package hal

import (
	"context"
	"fmt"

	"github.com/mattn/go-tty"
)

// RunHeadless runs without a window, reading raw keys from the terminal:
// 'a' and 'b' raise button edges, 'q' exits. It blocks until the context
// is cancelled or 'q' is pressed.
func RunHeadless(ctx context.Context, h HAL, start func()) error {
	hh, ok := h.(*hostHAL)
	if !ok {
		panic("hal: RunHeadless requires the host HAL")
	}
	if start != nil {
		start()
	}

	t, err := tty.Open()
	if err != nil {
		return fmt.Errorf("hal: open tty: %v", err)
	}
	defer t.Close()

	keys := make(chan rune)
	go func() {
		defer close(keys)
		for {
			r, err := t.ReadRune()
			if err != nil {
				return
			}
			select {
			case keys <- r:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r, ok := <-keys:
			if !ok {
				return nil
			}
			switch r {
			case 'a', 'A':
				hh.Edge(0)
			case 'b', 'B':
				hh.Edge(1)
			case 'q', 'Q':
				return nil
			}
		}
	}
}
