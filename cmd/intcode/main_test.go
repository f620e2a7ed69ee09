package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/intcode/cpu"
)

func writeFile(t *testing.T, name string, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_Validate(t *testing.T) {
	assert := assert.New(t)

	prog := writeFile(t, "echo.ic", "3,0,4,0,99")

	table := [](struct {
		cfg  config
		text string
	}){
		{config{program: prog, feedback: true}, "-feedback requires -a"},
		{config{program: prog, maximize: true}, "-max requires -a"},
		{config{}, "no program given"},
	}

	for _, entry := range table {
		err := run(context.Background(), &entry.cfg)
		assert.ErrorIs(err, ErrUsage, entry.text)
		assert.ErrorContains(err, entry.text)
	}
}

func TestRun_Tape(t *testing.T) {
	assert := assert.New(t)

	prog := writeFile(t, "echo.ic", "3,0,4,0,3,0,4,0,99")
	input := writeFile(t, "input.txt", "12, -4\n")
	output := filepath.Join(t.TempDir(), "output.txt")

	err := run(context.Background(), &config{program: prog, input: input, output: output})
	assert.NoError(err)

	data, err := os.ReadFile(output)
	assert.NoError(err)
	assert.Equal("12\n-4\n", string(data))

	// Standard streams, and the error of a short input tape.
	var stdout bytes.Buffer
	err = run(context.Background(), &config{
		program: prog,
		input:   "-",
		output:  "-",
		stdin:   strings.NewReader("5"),
		stdout:  &stdout,
	})
	assert.ErrorIs(err, cpu.ErrInputEmpty)
	assert.Equal("5\n", stdout.String())
}

func TestRun_Disassemble(t *testing.T) {
	assert := assert.New(t)

	var stdout bytes.Buffer
	err := run(context.Background(), &config{
		program:     writeFile(t, "prog.ic", "109,1,204,-1,99"),
		disassemble: true,
		stdout:      &stdout,
	})
	assert.NoError(err)
	assert.Equal("     0: arb  #1\n     2: out  ~-1\n     4: hlt\n", stdout.String())
}

func TestRun_Amplifier(t *testing.T) {
	assert := assert.New(t)

	prog := writeFile(t, "amp.ic", "3,15,3,16,1002,16,10,16,1,16,15,15,4,15,99,0,0")

	var stdout bytes.Buffer
	err := run(context.Background(), &config{program: prog, phases: "4,3,2,1,0", stdout: &stdout})
	assert.NoError(err)
	assert.Equal("43210\n", stdout.String())

	stdout.Reset()
	err = run(context.Background(), &config{program: prog, phases: "0,1,2,3,4", maximize: true, stdout: &stdout})
	assert.NoError(err)
	assert.Equal("43210 [4 3 2 1 0]\n", stdout.String())
}

func TestRun_Script(t *testing.T) {
	assert := assert.New(t)

	var stdout bytes.Buffer
	err := run(context.Background(), &config{
		starlark: writeFile(t, "run.star", `print(computer("104,7,99").run())`),
		stdout:   &stdout,
	})
	assert.NoError(err)
	assert.Equal("halted\n", stdout.String())
}

func TestRun_MissingFile(t *testing.T) {
	assert := assert.New(t)

	err := run(context.Background(), &config{program: filepath.Join(t.TempDir(), "missing.ic")})
	assert.ErrorIs(err, os.ErrNotExist)
}
