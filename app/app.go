// Package app wires the board peripherals to the scheduler: the static
// task table, the resource binding table with its computed ceilings, and
// the diagnostic drain.
package app

import (
	"fmt"
	"time"

	"flick/flickos/diag"
	"flick/flickos/kernel"
	"flick/flickos/tasks/buttons"
	"flick/flickos/tasks/ringidle"
	"flick/flickos/tasks/sweep"
	"flick/hal"
)

// Config carries wiring options.
type Config struct {
	// Key is the write-once shared configuration value every task may
	// read without locking.
	Key string
	// HaltOnPanic halts the device on a contract violation instead of
	// aborting only the failing task instance.
	HaltOnPanic bool
}

// Task priorities. Static; higher preempts lower. The idle loop runs at
// effective priority 0.
const (
	prioButtonA = 1
	prioButtonB = 2
	prioHandler = 3
)

// System is the wired device.
type System struct {
	k    *kernel.Kernel
	ring *diag.Ring
	idle *ringidle.Task
	h    hal.HAL
}

type pollHooker interface{ SetPollHook(func()) }
type irqHooker interface{ SetRaiseIRQ(func()) }

// NewSystem builds the task table and binding table for the given board.
// Any error is a startup misconfiguration: the device must not proceed
// to scheduling.
func NewSystem(h hal.HAL, cfg Config) (*System, error) {
	if h == nil {
		return nil, fmt.Errorf("app: nil HAL")
	}
	if h.ButtonCount() < 2 {
		return nil, fmt.Errorf("app: need 2 button channels, have %d", h.ButtonCount())
	}

	k := kernel.New()
	ring := diag.NewRing()

	display := kernel.NewResource("display", h.Matrix())
	timer := kernel.NewResource("timer", h.Timer())
	chans := kernel.NewResource("buttons", []hal.Button{h.Button(0), h.Button(1)})

	taskA := sweep.New(sweep.Columns, "Task A count: ", display, timer, ring)
	taskB := sweep.New(sweep.Rows, "Task B count: ", display, timer, ring)

	idA, err := k.AddTask("button_a_action", prioButtonA, taskA)
	if err != nil {
		return nil, err
	}
	idB, err := k.AddTask("button_b_action", prioButtonB, taskB)
	if err != nil {
		return nil, err
	}

	handler := buttons.New(chans, []buttons.ChannelBinding{
		{Name: "A", Task: idA},
		{Name: "B", Task: idB},
	}, ring)
	idH, err := k.AddTask("button_pressed", prioHandler, handler)
	if err != nil {
		return nil, err
	}
	if err := k.BindIRQ(idH); err != nil {
		return nil, err
	}

	// Ceilings: display and timer are shared by both animation tasks
	// (and the idle loop, which never raises a ceiling); the button
	// channels belong to the handler alone.
	if err := k.BindResources([]kernel.Binding{
		{Resource: display, Tasks: []kernel.TaskID{idA, idB}},
		{Resource: timer, Tasks: []kernel.TaskID{idA, idB}},
		{Resource: chans, Tasks: []kernel.TaskID{idH}},
	}); err != nil {
		return nil, err
	}

	if err := k.SetKey(cfg.Key); err != nil {
		return nil, err
	}

	kernel.SetHaltOnPanic(cfg.HaltOnPanic)
	installPanicHandler(h.Logger())

	if ph, ok := h.(pollHooker); ok {
		ph.SetPollHook(k.Yield)
	}
	if ih, ok := h.(irqHooker); ok {
		ih.SetRaiseIRQ(func() { k.Pend(idH) })
	}

	return &System{
		k:    k,
		ring: ring,
		idle: ringidle.New(display, timer, ring),
		h:    h,
	}, nil
}

// Kernel exposes the scheduler (window runner, tests).
func (s *System) Kernel() *kernel.Kernel { return s.k }

// Ring exposes the diagnostic queue (window runner, tests).
func (s *System) Ring() *diag.Ring { return s.ring }

// Run drains diagnostics in the background and enters the scheduler.
// It only returns on undefined behavior (the idle loop terminating).
func (s *System) Run() error {
	go s.drain()
	return s.k.Run(s.idle)
}

// Start launches the scheduler on its own goroutine (host runners).
func (s *System) Start() {
	go func() {
		if err := s.Run(); err != nil {
			s.h.Logger().WriteLineString(err.Error())
		}
	}()
}

func (s *System) drain() {
	log := s.h.Logger()
	for {
		if s.ring.Drain(log) == 0 {
			time.Sleep(5 * time.Millisecond)
		}
	}
}
