// Package hal defines the narrow peripheral contracts the scheduler core
// consumes: the LED matrix, the frame timer, the button edge channels, and
// the log sink. Implementations exist for the desktop host (simulated
// board) and for TinyGo targets (real pins and a NeoPixel grid).
package hal

import "time"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// MatrixSize is the edge length of the LED matrix.
const MatrixSize = 5

// Grid is one frame of the LED matrix, row-major: Grid[row][col].
type Grid [MatrixSize][MatrixSize]bool

// Timer is the delay primitive for frame pacing.
//
// The core never uses it standalone: it is consumed only as an argument
// to Matrix.Show, and only while the timer resource is locked.
type Timer interface {
	Delay(d time.Duration)
}

// Matrix drives the LED matrix.
//
// Show presents one frame and blocks until the frame period elapses. It
// must only be called while the display resource is locked.
type Matrix interface {
	Show(t Timer, g Grid, d time.Duration)
}

// Button is a single edge-detect channel.
//
// Triggered reports whether an edge has fired since the last Clear. Clear
// acknowledges the event; the interrupt handler calls these and nothing
// else.
type Button interface {
	Triggered() bool
	Clear()
}

// HAL aggregates the board peripherals.
type HAL interface {
	Logger() Logger
	Matrix() Matrix
	Timer() Timer
	Button(ch int) Button
	ButtonCount() int
}
