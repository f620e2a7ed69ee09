// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/intcode/cpu"
)

func doRun(t *testing.T, program string, input string) (output string, err error) {
	prog, perr := cpu.ParseProgramString(program)
	if perr != nil {
		t.Fatal(perr)
	}

	emu := NewEmulator(prog)
	emu.Tape.Input = strings.NewReader(input)
	tape_output := &bytes.Buffer{}
	emu.Tape.Output = tape_output

	err = emu.Run()
	output = tape_output.String()
	return
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(cpu.Program{99})

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.Equal(cpu.STATE_RUNNING, emu.State())

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
}

func TestEmulator_Tape(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		program string
		input   string
		output  string
	}){
		{"3,9,8,9,10,9,4,9,99,-1,8", "8", "1\n"},
		{"3,9,8,9,10,9,4,9,99,-1,8", "7\n", "0\n"},
		{"3,0,4,0,3,0,4,0,99", "12, -4", "12\n-4\n"},
		{"109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99", "",
			"109\n1\n204\n-1\n1001\n100\n1\n100\n1008\n100\n16\n101\n1006\n101\n0\n99\n"},
	}

	for _, entry := range table {
		output, err := doRun(t, entry.program, entry.input)
		assert.NoError(err, entry.program)
		assert.Equal(entry.output, output, entry.program)
	}
}

func TestEmulator_ASCII(t *testing.T) {
	assert := assert.New(t)

	prog, err := cpu.ParseProgramString("3,0,4,0,3,0,4,0,104,1000,99")
	assert.NoError(err)

	emu := NewEmulator(prog)
	output := &bytes.Buffer{}
	emu.Tape.Input = strings.NewReader("ok")
	emu.Tape.Output = output
	emu.Tape.ASCII = true

	assert.NoError(emu.Run())
	assert.Equal("ok1000\n", output.String())
}

func TestEmulator_Reset(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(cpu.Program{1101, 1, 2, 0, 99})
	assert.NoError(emu.Run())
	value, _ := emu.Read(0)
	assert.Equal(int64(3), value)

	emu.Reset()
	value, _ = emu.Read(0)
	assert.Equal(int64(1101), value)
	assert.Equal(0, emu.Ticks)
}

func TestEmulator_Errors(t *testing.T) {
	assert := assert.New(t)

	_, err := doRun(t, "3,0,99", "")
	assert.ErrorIs(err, cpu.ErrInputEmpty)

	var rt *ErrRuntime
	assert.True(errors.As(err, &rt))
	assert.Equal("emu", rt.Name)
	assert.Equal(0, rt.Ticks)

	_, err = doRun(t, "1101,1,1,5,0,77", "")
	assert.ErrorIs(err, cpu.ErrOpcodeUnknown)
	assert.True(errors.As(err, &rt))
	assert.Equal(1, rt.Ticks)

	var inst *cpu.ErrInstruction
	assert.True(errors.As(err, &inst))
	assert.Equal(int64(4), inst.Ip)
	assert.Equal(int64(0), inst.Word)

	_, err = doRun(t, "3,0,99", "x")
	assert.Error(err)
}
