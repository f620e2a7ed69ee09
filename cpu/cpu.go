package cpu

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"sync/atomic"

	"github.com/ezrec/intcode/io"
	"github.com/ezrec/intcode/memory"
)

// Cpu is the simulation context for an Intcode machine.
type Cpu struct {
	Verbose bool   // Set to enable verbose logging.
	Name    string // Name used in verbose logging.

	Memory *memory.Memory // Sparse memory, seeded from the program.

	Ip    int64 // Current instruction pointer.
	Base  int64 // Relative addressing base.
	Ticks int   // Instructions executed since reset.

	state atomic.Int32

	queue  *io.Queue // Values supplied with WithInput.
	source io.Source // Blocking source, consulted once queue is empty.
	sink   io.Sink   // Downstream sink for output values.

	outputs    []int64
	lastOutput int64
}

// NewCpu creates a new CPU running program.
func NewCpu(program Program) (cpu *Cpu) {
	cpu = &Cpu{
		Name:   "cpu",
		Memory: memory.NewMemory(program),
		queue:  &io.Queue{},
	}

	cpu.Reset()

	return
}

// WithName sets the name used in verbose logs.
func (cpu *Cpu) WithName(name string) *Cpu {
	cpu.Name = name
	return cpu
}

// WithInput queues input values, consumed before any configured source.
func (cpu *Cpu) WithInput(values ...int64) *Cpu {
	cpu.queue.Push(values...)
	return cpu
}

// WithInputString queues the character codes of text.
func (cpu *Cpu) WithInputString(text string) *Cpu {
	io.SendString(cpu.queue, text)
	return cpu
}

// WithSource sets a source consulted when the queued input is exhausted.
func (cpu *Cpu) WithSource(source io.Source) *Cpu {
	cpu.source = source
	return cpu
}

// WithSink sets a sink that receives every output value as it is produced.
func (cpu *Cpu) WithSink(sink io.Sink) *Cpu {
	cpu.sink = sink
	return cpu
}

// Reset the CPU state.
// - Restores memory to the program.
// - Zeros the IP, relative base and tick counter.
// - Discards recorded output.
// - Rewinds queued input, and the source if it supports it.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("%v: reset", cpu.Name)
	}

	cpu.Memory.Reset()
	cpu.Ip = 0
	cpu.Base = 0
	cpu.Ticks = 0
	cpu.outputs = nil
	cpu.lastOutput = 0
	cpu.setState(STATE_RUNNING)

	cpu.queue.Rewind()
	if rewinder, ok := cpu.source.(io.Rewinder); ok {
		rewinder.Rewind()
	}
}

// State returns the current execution state.
func (cpu *Cpu) State() State {
	return State(cpu.state.Load())
}

func (cpu *Cpu) setState(state State) {
	cpu.state.Store(int32(state))
}

// Read memory at address.
func (cpu *Cpu) Read(address int64) (int64, error) {
	return cpu.Memory.Read(address)
}

// Write value to memory at address.
func (cpu *Cpu) Write(address int64, value int64) error {
	return cpu.Memory.Write(address, value)
}

// LastOutput returns the most recent output value, or 0 if none.
func (cpu *Cpu) LastOutput() int64 {
	return cpu.lastOutput
}

// Outputs returns every output value since reset.
func (cpu *Cpu) Outputs() []int64 {
	return slices.Clone(cpu.outputs)
}

// TakeOutputs returns and discards the recorded output values.
func (cpu *Cpu) TakeOutputs() (outputs []int64) {
	outputs = cpu.outputs
	cpu.outputs = nil
	return
}

// OutputString returns the recorded output as text. Values outside of the
// ASCII range are returned separately, in order.
func (cpu *Cpu) OutputString() (text string, other []int64) {
	return io.ReceiveString(slices.Values(cpu.outputs))
}

// PendingInput returns the queued input values not yet consumed.
func (cpu *Cpu) PendingInput() []int64 {
	return cpu.queue.Pending()
}

// Clone returns an independent copy of the CPU: memory, registers, queued
// input and recorded output. The source and sink are shared.
func (cpu *Cpu) Clone() (clone *Cpu) {
	clone = &Cpu{
		Verbose:    cpu.Verbose,
		Name:       cpu.Name,
		Memory:     cpu.Memory.Clone(),
		Ip:         cpu.Ip,
		Base:       cpu.Base,
		Ticks:      cpu.Ticks,
		queue:      cpu.queue.Clone(),
		source:     cpu.source,
		sink:       cpu.sink,
		outputs:    slices.Clone(cpu.outputs),
		lastOutput: cpu.lastOutput,
	}
	clone.setState(cpu.State())

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{"name", "state", "ip", "base", "ticks", "input", "output"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "name":
			strval = cpu.Name
		case "state":
			strval = cpu.State().String()
		case "ip":
			strval = fmt.Sprintf("%d", cpu.Ip)
		case "base":
			strval = fmt.Sprintf("%d", cpu.Base)
		case "ticks":
			strval = fmt.Sprintf("%d", cpu.Ticks)
		case "input":
			strval = fmt.Sprintf("%v", cpu.queue.Pending())
		case "output":
			strval = fmt.Sprintf("%d (%d values)", cpu.lastOutput, len(cpu.outputs))
		}
		text += fmt.Sprintf("% 6s: %v\n", reg, strval)
	}

	return
}

// Disassemble the whole of memory.
func (cpu *Cpu) Disassemble() string {
	return Disassemble(cpu.Memory)
}

// Fetch decodes the instruction at the IP.
func (cpu *Cpu) Fetch() (inst Instruction, err error) {
	window, err := cpu.Memory.Window(cpu.Ip)
	if err != nil {
		err = &ErrInstruction{Ip: cpu.Ip, Err: err}
		return
	}

	inst, err = Decode(window)
	if err != nil {
		err = &ErrInstruction{Ip: cpu.Ip, Word: window[0], Err: err}
	}

	return
}

// Step executes a single instruction, returning the resulting state.
// A halted CPU stays halted.
func (cpu *Cpu) Step() (state State, err error) {
	state = cpu.State()
	if state == STATE_HALTED {
		return
	}

	cpu.Memory.Verbose = cpu.Verbose

	inst, err := cpu.Fetch()
	if err != nil {
		return
	}

	err = cpu.Execute(inst)
	state = cpu.State()

	return
}

// Run steps until the CPU halts or an error occurs.
// If input is exhausted, the state is STATE_BLOCKED and the error is
// ErrInputEmpty; supplying more input and calling Run again resumes.
func (cpu *Cpu) Run() (state State, err error) {
	for {
		state, err = cpu.Step()
		if err != nil || state == STATE_HALTED {
			return
		}
	}
}

// RunToInput steps until the CPU halts, or needs input that is not available.
func (cpu *Cpu) RunToInput() (state State, err error) {
	state, err = cpu.Run()
	if errors.Is(err, ErrInputEmpty) {
		err = nil
	}

	return
}

// Execute executes a single decoded instruction at the IP.
// On failure the IP is not advanced.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	defer func() {
		if err != nil {
			err = &ErrInstruction{Ip: cpu.Ip, Word: inst.Word, Err: err}
		}
	}()

	if cpu.Verbose {
		log.Printf("%v: %04d: %v", cpu.Name, cpu.Ip, inst)
	}

	next_ip := cpu.Ip + inst.Len()
	args := inst.Args

	switch inst.Op {
	case OP_ADD, OP_MUL, OP_LT, OP_EQ:
		var a, b, address int64
		a, err = args[0].Value(cpu)
		if err != nil {
			return
		}
		b, err = args[1].Value(cpu)
		if err != nil {
			return
		}
		address, err = args[2].Address(cpu)
		if err != nil {
			return
		}
		var result int64
		switch inst.Op {
		case OP_ADD:
			result = a + b
		case OP_MUL:
			result = a * b
		case OP_LT:
			if a < b {
				result = 1
			}
		case OP_EQ:
			if a == b {
				result = 1
			}
		}
		err = cpu.Memory.Write(address, result)
		if err != nil {
			return
		}
	case OP_IN:
		var address, value int64
		address, err = args[0].Address(cpu)
		if err != nil {
			return
		}
		value, err = cpu.receive()
		if err != nil {
			return
		}
		err = cpu.Memory.Write(address, value)
		if err != nil {
			return
		}
	case OP_OUT:
		var value int64
		value, err = args[0].Value(cpu)
		if err != nil {
			return
		}
		err = cpu.send(value)
		if err != nil {
			return
		}
	case OP_JNZ, OP_JZ:
		var cond, target int64
		cond, err = args[0].Value(cpu)
		if err != nil {
			return
		}
		target, err = args[1].Value(cpu)
		if err != nil {
			return
		}
		if (cond != 0) == (inst.Op == OP_JNZ) {
			next_ip = target
		}
	case OP_ARB:
		var offset int64
		offset, err = args[0].Value(cpu)
		if err != nil {
			return
		}
		cpu.Base += offset
	case OP_HLT:
		cpu.setState(STATE_HALTED)
		next_ip = cpu.Ip
		if cpu.Verbose {
			log.Printf("%v: halted", cpu.Name)
		}
	default:
		err = ErrOpcodeUnknown
		return
	}

	cpu.Ip = next_ip
	cpu.Ticks++

	return
}

// receive the next input value, from the queue then the source.
// The CPU is STATE_BLOCKED until a value is obtained.
func (cpu *Cpu) receive() (value int64, err error) {
	if cpu.queue.Len() > 0 {
		value, err = cpu.queue.Receive()
		cpu.setState(STATE_RUNNING)
		return
	}

	cpu.setState(STATE_BLOCKED)

	if cpu.source == nil {
		err = ErrInputEmpty
		return
	}

	if cpu.Verbose {
		log.Printf("%v: input wait", cpu.Name)
	}

	value, err = cpu.source.Receive()
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("%v: input --> %d", cpu.Name, value)
	}

	cpu.setState(STATE_RUNNING)

	return
}

// send forwards an output value to the sink, and records it once delivered.
func (cpu *Cpu) send(value int64) (err error) {
	if cpu.sink != nil {
		if cpu.Verbose {
			log.Printf("%v: output <-- %d", cpu.Name, value)
		}

		err = cpu.sink.Send(value)
		if err != nil {
			return
		}
	}

	cpu.outputs = append(cpu.outputs, value)
	cpu.lastOutput = value

	return
}
