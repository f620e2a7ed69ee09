package cpu

import (
	"fmt"
	"strings"

	"github.com/ezrec/intcode/memory"
)

// Op is an instruction operation, the low two decimal digits of the
// opcode word.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_ADD = Op(1)  // add
	OP_MUL = Op(2)  // mul
	OP_IN  = Op(3)  // in
	OP_OUT = Op(4)  // out
	OP_JNZ = Op(5)  // jnz
	OP_JZ  = Op(6)  // jz
	OP_LT  = Op(7)  // lt
	OP_EQ  = Op(8)  // eq
	OP_ARB = Op(9)  // arb
	OP_HLT = Op(99) // hlt
)

// Mode is an operand addressing mode.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_POSITION  = Mode(0) // position
	MODE_IMMEDIATE = Mode(1) // immediate
	MODE_RELATIVE  = Mode(2) // relative
)

// State is the execution state of a CPU.
type State int32

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_RUNNING = State(0) // running
	STATE_BLOCKED = State(1) // blocked
	STATE_HALTED  = State(2) // halted
)

// opInfo is the operand count and write target operand (-1 if none) of each op.
var opInfo = map[Op]struct {
	args   int
	target int
}{
	OP_ADD: {3, 2},
	OP_MUL: {3, 2},
	OP_IN:  {1, 0},
	OP_OUT: {1, -1},
	OP_JNZ: {2, -1},
	OP_JZ:  {2, -1},
	OP_LT:  {3, 2},
	OP_EQ:  {3, 2},
	OP_ARB: {1, -1},
	OP_HLT: {0, -1},
}

// Valid returns true for a supported op.
func (op Op) Valid() bool {
	_, ok := opInfo[op]
	return ok
}

// Args returns the number of operands of the op.
func (op Op) Args() int {
	return opInfo[op].args
}

// Target returns the index of the operand written by the op.
func (op Op) Target() (index int, ok bool) {
	index = opInfo[op].target
	ok = op.Valid() && index >= 0
	return
}

// Valid returns true for a supported addressing mode.
func (mode Mode) Valid() bool {
	return mode >= MODE_POSITION && mode <= MODE_RELATIVE
}

// Prefix is the disassembly prefix of the addressing mode.
func (mode Mode) Prefix() string {
	switch mode {
	case MODE_POSITION:
		return "@"
	case MODE_IMMEDIATE:
		return "#"
	case MODE_RELATIVE:
		return "~"
	}
	return "?"
}

// Arg is a single instruction operand.
type Arg struct {
	Raw  int64
	Mode Mode
}

// Address resolves the memory address an operand refers to.
// Immediate operands have no address.
func (arg Arg) Address(cpu *Cpu) (address int64, err error) {
	switch arg.Mode {
	case MODE_POSITION:
		address = arg.Raw
	case MODE_RELATIVE:
		address = cpu.Base + arg.Raw
	case MODE_IMMEDIATE:
		err = ErrModeWrite
		return
	default:
		err = ErrModeUnknown
		return
	}

	if address < 0 {
		err = memory.ErrAddress(address)
	}

	return
}

// Value resolves the value an operand denotes.
func (arg Arg) Value(cpu *Cpu) (value int64, err error) {
	if arg.Mode == MODE_IMMEDIATE {
		value = arg.Raw
		return
	}

	address, err := arg.Address(cpu)
	if err != nil {
		return
	}

	value, err = cpu.Memory.Read(address)
	return
}

func (arg Arg) String() string {
	return fmt.Sprintf("%v%d", arg.Mode.Prefix(), arg.Raw)
}

// Instruction is a decoded view of the memory at an instruction pointer.
type Instruction struct {
	Word int64 // Raw opcode word.
	Op   Op
	Args [3]Arg
}

// Decode an instruction from the memory window at the instruction pointer.
//
// The low two decimal digits of the first cell select the op, and the
// following three digits, least significant first, select the addressing
// mode of operands one through three.
func Decode(window [memory.WINDOW]int64) (inst Instruction, err error) {
	word := window[0]

	inst.Word = word
	inst.Op = Op(word % 100)
	if !inst.Op.Valid() {
		err = ErrOpcodeUnknown
		return
	}

	modes := word / 100
	for n := range inst.Args {
		mode := Mode(modes % 10)
		modes /= 10
		if !mode.Valid() {
			err = ErrModeUnknown
			return
		}
		inst.Args[n] = Arg{Raw: window[n+1], Mode: mode}
	}

	if target, ok := inst.Op.Target(); ok && inst.Args[target].Mode == MODE_IMMEDIATE {
		err = ErrModeWrite
		return
	}

	return
}

// Len returns the number of memory cells the instruction occupies.
func (inst Instruction) Len() int64 {
	return int64(1 + inst.Op.Args())
}

// String returns the disassembly of the instruction.
func (inst Instruction) String() string {
	args := make([]string, inst.Op.Args())
	for n := range args {
		args[n] = inst.Args[n].String()
	}

	return strings.TrimSpace(fmt.Sprintf("%-4v %v", inst.Op, strings.Join(args, ", ")))
}
