package cpu

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProgram(t *testing.T) {
	assert := assert.New(t)

	prog, err := ParseProgram(strings.NewReader(" 1, -2 ,+3,\n99\n"))
	assert.NoError(err)
	assert.Equal(Program{1, -2, 3, 99}, prog)
	assert.Equal("1,-2,3,99", prog.String())

	prog, err = ParseProgramString("")
	assert.NoError(err)
	assert.Empty(prog)
}

func TestParseProgram_Invalid(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseProgramString("1,2,three,4")
	assert.Equal(ErrParseNumber("three"), err)
	assert.True(errors.Is(err, ErrParseSyntax))

	_, err = ParseProgramString("1 2")
	assert.Equal(ErrParseNumber("1 2"), err)
}

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		program string
		text    string
	}){
		{"1002,4,3,4,33", "" +
			"     0: mul  @4, #3, @4\n" +
			"     4: 33\n"},
		{"109,1,204,-1,99", "" +
			"     0: arb  #1\n" +
			"     2: out  ~-1\n" +
			"     4: hlt\n"},
		{"3,9,8,9,10,9,4,9,99,-1,8", "" +
			"     0: in   @9\n" +
			"     2: eq   @9, @10, @9\n" +
			"     6: out  @9\n" +
			"     8: hlt\n" +
			"     9: -1\n" +
			"    10: eq   @0, @0, @0\n"},
		{"", ""},
	}

	for _, entry := range table {
		prog := mustParse(t, entry.program)
		assert.Equal(entry.text, prog.Disassemble(), entry.program)
		assert.Equal(entry.text, NewCpu(prog).Disassemble(), entry.program)
	}
}

func TestDisassemble_Sparse(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(Program{1, 0, 0, 0, 99})
	assert.NoError(cpu.Write(6, 99))
	assert.NoError(cpu.Write(1<<40, 99))

	text := "" +
		"     0: add  @0, @0, @0\n" +
		"     4: hlt\n" +
		"     5: 0\n" +
		"     6: hlt\n" +
		"     7: 0 x 1099511627769\n" +
		"1099511627776: hlt\n"
	assert.Equal(text, cpu.Disassemble())

	assert.NoError(cpu.Write(math.MaxInt64, 99))
	assert.True(strings.HasSuffix(cpu.Disassemble(),
		"1099511627777: 0 x 9223370937343148030\n"+
			"9223372036854775807: hlt\n"))
}

func TestDisassemble_NonMutating(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(mustParse(t, "1,0,0,0,99"))
	before := cpu.String()
	cpu.Disassemble()
	assert.Equal(before, cpu.String())
	assert.Equal(int64(5), cpu.Memory.Len())
}
