//go:build tinygo

package main

import (
	"flick/app"
	"flick/hal"
)

func main() {
	h := hal.New()
	sys, err := app.NewSystem(h, app.Config{Key: "hello", HaltOnPanic: true})
	if err != nil {
		// Startup misconfiguration: log forever rather than run
		// unsupervised hardware.
		for {
			h.Logger().WriteLineString(err.Error())
		}
	}
	_ = sys.Run()

	// The idle loop returned: no further defined behavior.
	for {
	}
}
