// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package tableui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// Dispatcher posts messages into the bubbletea program from other
// goroutines: debounce timers and the log handler. Messages sent before
// SetProgram are dropped.
type Dispatcher struct {
	program atomic.Pointer[tea.Program]
	send    func(tea.Msg)
}

// NewDispatcher creates a Dispatcher with no program attached.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// NewDispatcherFunc creates a Dispatcher that hands every message to
// send instead of a program. Tests use it to collect settled timers and
// feed them to Update by hand.
func NewDispatcherFunc(send func(tea.Msg)) *Dispatcher {
	return &Dispatcher{send: send}
}

// SetProgram attaches the running program. Safe to call from any
// goroutine.
func (dispatcher *Dispatcher) SetProgram(program *tea.Program) {
	dispatcher.program.Store(program)
}

// Send delivers message to the program. It blocks until the program
// accepts the message or has exited.
func (dispatcher *Dispatcher) Send(message tea.Msg) {
	if dispatcher.send != nil {
		dispatcher.send(message)
		return
	}
	if program := dispatcher.program.Load(); program != nil {
		program.Send(message)
	}
}

// Post delivers message without waiting. Use it from code that may run
// on the program's own goroutine, where Send would deadlock.
func (dispatcher *Dispatcher) Post(message tea.Msg) {
	if dispatcher.send != nil {
		dispatcher.send(message)
		return
	}
	if program := dispatcher.program.Load(); program != nil {
		go program.Send(message)
	}
}
