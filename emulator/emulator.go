// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator runs Intcode programs: a single CPU attached to a text
// tape, or several CPUs connected by pipes.
package emulator

import (
	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/io"
)

// Emulator state. CPU + tape IO.
type Emulator struct {
	Verbose  bool        // If set, enables verbose logging.
	*cpu.Cpu             // Reference to the CPU simulation.
	Program  cpu.Program // The program loaded at reset.

	Tape io.Tape // Tape IO channel.
}

// NewEmulator creates a new emulator for a program.
func NewEmulator(program cpu.Program) (emu *Emulator) {
	emu = &Emulator{
		Program: program,
	}

	emu.Reset()

	return
}

// Reset reloads the program, and attaches the tape.
func (emu *Emulator) Reset() {
	emu.Cpu = cpu.NewCpu(emu.Program).
		WithName("emu").
		WithSource(&emu.Tape).
		WithSink(&emu.Tape)
	emu.Cpu.Verbose = emu.Verbose
}

// Tick performs a single instruction.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	state, err := emu.Cpu.Step()
	if err != nil {
		err = &ErrRuntime{Name: emu.Cpu.Name, Ticks: emu.Cpu.Ticks, Err: err}
		return
	}

	done = state == cpu.STATE_HALTED

	return
}

// Run ticks until the program halts.
func (emu *Emulator) Run() (err error) {
	for done, err := emu.Tick(); !done; done, err = emu.Tick() {
		if err != nil {
			return err
		}
	}

	return
}
