package script

import (
	"fmt"
	"sort"

	"go.starlark.net/starlark"

	"github.com/ezrec/intcode/cpu"
)

// Computer is the Starlark value wrapping a CPU.
type Computer struct {
	*cpu.Cpu
	frozen bool
}

var (
	_ starlark.Value    = (*Computer)(nil)
	_ starlark.HasAttrs = (*Computer)(nil)
)

type computerMethod func(comp *Computer, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

// Methods, and whether they mutate the computer.
var computerMethods = map[string]struct {
	mutates bool
	method  computerMethod
}{
	"run":           {true, computerRun},
	"run_to_input":  {true, computerRunToInput},
	"step":          {true, computerStep},
	"input":         {true, computerInput},
	"input_string":  {true, computerInputString},
	"pending_input": {false, computerPendingInput},
	"outputs":       {false, computerOutputs},
	"take_outputs":  {true, computerTakeOutputs},
	"output_string": {false, computerOutputString},
	"last_output":   {false, computerLastOutput},
	"read":          {false, computerRead},
	"write":         {true, computerWrite},
	"reset":         {true, computerReset},
	"disassemble":   {false, computerDisassemble},
	"clone":         {false, computerClone},
}

func (comp *Computer) String() string {
	return fmt.Sprintf("<computer %s %v ip=%d>", comp.Cpu.Name, comp.Cpu.State(), comp.Cpu.Ip)
}

func (comp *Computer) Type() string         { return "computer" }
func (comp *Computer) Freeze()              { comp.frozen = true }
func (comp *Computer) Truth() starlark.Bool { return starlark.True }

func (comp *Computer) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: %s", comp.Type())
}

// Attr returns a bound method, or one of the state, ip and base registers.
func (comp *Computer) Attr(name string) (starlark.Value, error) {
	switch name {
	case "state":
		return starlark.String(comp.Cpu.State().String()), nil
	case "ip":
		return starlark.MakeInt64(comp.Cpu.Ip), nil
	case "base":
		return starlark.MakeInt64(comp.Cpu.Base), nil
	case "name":
		return starlark.String(comp.Cpu.Name), nil
	}

	entry, ok := computerMethods[name]
	if !ok {
		return nil, nil
	}

	impl := func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if entry.mutates && comp.frozen {
			return nil, fmt.Errorf("%s: %w", fn.Name(), ErrFrozen)
		}
		return entry.method(comp, fn, args, kwargs)
	}

	return starlark.NewBuiltin(name, impl).BindReceiver(comp), nil
}

func (comp *Computer) AttrNames() (names []string) {
	names = []string{"base", "ip", "name", "state"}
	for name := range computerMethods {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

func stateResult(fn *starlark.Builtin, state cpu.State, err error) (starlark.Value, error) {
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	return starlark.String(state.String()), nil
}

func computerRun(comp *Computer, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	state, err := comp.Cpu.Run()
	return stateResult(fn, state, err)
}

func computerRunToInput(comp *Computer, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	state, err := comp.Cpu.RunToInput()
	return stateResult(fn, state, err)
}

func computerStep(comp *Computer, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	state, err := comp.Cpu.Step()
	return stateResult(fn, state, err)
}

// input(*values)
func computerInput(comp *Computer, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) != 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", fn.Name())
	}

	values, err := toInts(fn.Name(), args)
	if err != nil {
		return nil, err
	}

	comp.Cpu.WithInput(values...)

	return starlark.None, nil
}

// input_string(text)
func computerInputString(comp *Computer, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &text); err != nil {
		return nil, err
	}

	comp.Cpu.WithInputString(text)

	return starlark.None, nil
}

func computerPendingInput(comp *Computer, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return fromInts(comp.Cpu.PendingInput()), nil
}

// output_string() -> (text, other values)
func computerOutputString(comp *Computer, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	text, other := comp.Cpu.OutputString()
	return starlark.Tuple{starlark.String(text), fromInts(other)}, nil
}

func computerOutputs(comp *Computer, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return fromInts(comp.Cpu.Outputs()), nil
}

func computerTakeOutputs(comp *Computer, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return fromInts(comp.Cpu.TakeOutputs()), nil
}

func computerLastOutput(comp *Computer, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return starlark.MakeInt64(comp.Cpu.LastOutput()), nil
}

// read(addr)
func computerRead(comp *Computer, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var addr starlark.Value
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &addr); err != nil {
		return nil, err
	}

	address, err := toInt64(fn.Name(), addr)
	if err != nil {
		return nil, err
	}

	value, err := comp.Cpu.Read(address)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}

	return starlark.MakeInt64(value), nil
}

// write(addr, value)
func computerWrite(comp *Computer, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var addr, val starlark.Value
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &addr, &val); err != nil {
		return nil, err
	}

	address, err := toInt64(fn.Name(), addr)
	if err != nil {
		return nil, err
	}

	value, err := toInt64(fn.Name(), val)
	if err != nil {
		return nil, err
	}

	err = comp.Cpu.Write(address, value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}

	return starlark.None, nil
}

func computerReset(comp *Computer, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	comp.Cpu.Reset()
	return starlark.None, nil
}

func computerDisassemble(comp *Computer, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return starlark.String(comp.Cpu.Disassemble()), nil
}

func computerClone(comp *Computer, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return &Computer{Cpu: comp.Cpu.Clone()}, nil
}
