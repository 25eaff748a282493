//go:build !tinygo

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"flick/app"
	"flick/hal"
)

func main() {
	var cfg app.Config
	var headless bool
	flag.BoolVar(&headless, "headless", false, "Run without a window (keys a/b on the terminal, q quits).")
	flag.StringVar(&cfg.Key, "key", "hello", "Write-once shared key value.")
	flag.BoolVar(&cfg.HaltOnPanic, "halt-on-panic", false, "Halt the device on a task panic instead of aborting the task.")
	flag.Parse()

	h := hal.New()
	sys, err := app.NewSystem(h, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, h, sys.Start); err != nil {
			if err == context.Canceled {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(h, sys.Start); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
