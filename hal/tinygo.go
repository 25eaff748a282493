//go:build tinygo

package hal

import (
	"image/color"
	"machine"
	"sync/atomic"
	"time"

	"tinygo.org/x/drivers/ws2812"
)

type tinyGoHAL struct {
	logger *uartLogger
	mat    *neoMatrix
	t      *tinyGoTimer
	btns   []*pinButton
}

// New returns the firmware HAL: a 5x5 NeoPixel grid on GP16, buttons on
// GP14/GP15 (falling edge, pull-up), UART0 logging on GP0/GP1.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	neoPin := machine.GP16
	neoPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	h := &tinyGoHAL{
		logger: &uartLogger{uart: uart},
		mat:    &neoMatrix{dev: ws2812.New(neoPin)},
		t:      &tinyGoTimer{},
		btns: []*pinButton{
			{name: "A", pin: machine.GP14},
			{name: "B", pin: machine.GP15},
		},
	}
	for _, b := range h.btns {
		b.configure()
	}
	return h
}

func (h *tinyGoHAL) Logger() Logger { return h.logger }
func (h *tinyGoHAL) Matrix() Matrix { return h.mat }
func (h *tinyGoHAL) Timer() Timer   { return h.t }

func (h *tinyGoHAL) Button(ch int) Button {
	if ch < 0 || ch >= len(h.btns) {
		return nil
	}
	return h.btns[ch]
}

func (h *tinyGoHAL) ButtonCount() int { return len(h.btns) }

// SetPollHook installs the scheduling point the timer hits while a frame
// period elapses. Wiring-time only.
func (h *tinyGoHAL) SetPollHook(fn func()) { h.t.poll = fn }

// SetRaiseIRQ installs the pend hook invoked from pin interrupt context.
// Wiring-time only.
func (h *tinyGoHAL) SetRaiseIRQ(fn func()) {
	for _, b := range h.btns {
		b.raise = fn
	}
}

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

var (
	neoOn  = color.RGBA{R: 0x20, G: 0x04, B: 0x00, A: 0xFF}
	neoOff = color.RGBA{}
)

// neoMatrix drives a row-major 5x5 WS2812 strip.
type neoMatrix struct {
	dev ws2812.Device
	buf [MatrixSize * MatrixSize]color.RGBA
}

func (m *neoMatrix) Show(t Timer, g Grid, d time.Duration) {
	for row := 0; row < MatrixSize; row++ {
		for col := 0; col < MatrixSize; col++ {
			c := neoOff
			if g[row][col] {
				c = neoOn
			}
			m.buf[row*MatrixSize+col] = c
		}
	}
	m.dev.WriteColors(m.buf[:])
	if t != nil {
		t.Delay(d)
	}
}

// tinyGoTimer sleeps in short slices and hits the poll hook between
// them, so pended interrupts are serviced while a frame period elapses.
type tinyGoTimer struct {
	poll func()
}

func (t *tinyGoTimer) Delay(d time.Duration) {
	const slice = 4 * time.Millisecond

	deadline := time.Now().Add(d)
	for {
		if t.poll != nil {
			t.poll()
		}
		remain := time.Until(deadline)
		if remain <= 0 {
			return
		}
		if remain > slice {
			remain = slice
		}
		time.Sleep(remain)
	}
}

type pinButton struct {
	name  string
	pin   machine.Pin
	trig  atomic.Bool
	raise func()
}

func (b *pinButton) configure() {
	b.pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	b.pin.SetInterrupt(machine.PinFalling, func(machine.Pin) {
		b.trig.Store(true)
		if b.raise != nil {
			b.raise()
		}
	})
}

func (b *pinButton) Triggered() bool { return b.trig.Load() }
func (b *pinButton) Clear()          { b.trig.Store(false) }
