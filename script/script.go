// Package script exposes Intcode computers to Starlark programs.
//
// The predeclared names are:
//
//	parse(text)                                   -> list of ints
//	computer(program, inputs=[], name="")         -> computer
//	amplify(program, phases, feedback=False)      -> int
//	max_amplify(program, phases, feedback=False)  -> (int, list of ints)
//
// A program argument is either a list of ints or program text.
package script

import (
	"context"
	"fmt"
	"log"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/emulator"
)

const contextKey = "intcode.context"

// Script runs Starlark source with the Intcode builtins predeclared.
type Script struct {
	Verbose bool              // Set to enable verbose logging of created computers.
	Print   func(text string) // Handler for print(); defaults to log.Print.
}

// Predeclared returns the Intcode builtins.
func (sc *Script) Predeclared() starlark.StringDict {
	return starlark.StringDict{
		"parse":       starlark.NewBuiltin("parse", sc.parse),
		"computer":    starlark.NewBuiltin("computer", sc.computer),
		"amplify":     starlark.NewBuiltin("amplify", sc.amplify),
		"max_amplify": starlark.NewBuiltin("max_amplify", sc.maxAmplify),
	}
}

// Exec executes src, returning the resulting globals. Cancelling ctx
// cancels the script, and any amplifier run it is waiting on.
func (sc *Script) Exec(ctx context.Context, filename string, src any) (globals starlark.StringDict, err error) {
	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			if sc.Print != nil {
				sc.Print(msg)
			} else {
				log.Print(msg)
			}
		},
	}
	thread.SetLocal(contextKey, ctx)

	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(context.Cause(ctx).Error())
	})
	defer stop()

	opts := syntax.FileOptions{
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
	}

	globals, err = starlark.ExecFileOptions(&opts, thread, filename, src, sc.Predeclared())

	return
}

func threadContext(thread *starlark.Thread) context.Context {
	if ctx, ok := thread.Local(contextKey).(context.Context); ok {
		return ctx
	}
	return context.Background()
}

// parse(text)
func (sc *Script) parse(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &text); err != nil {
		return nil, err
	}

	prog, err := cpu.ParseProgramString(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}

	return fromInts(prog), nil
}

// computer(program, inputs=[], name="")
func (sc *Script) computer(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var program starlark.Value
	var inputs starlark.Value = starlark.NewList(nil)
	var name string
	err := starlark.UnpackArgs(fn.Name(), args, kwargs,
		"program", &program,
		"inputs?", &inputs,
		"name?", &name)
	if err != nil {
		return nil, err
	}

	prog, err := toProgram(fn.Name(), program)
	if err != nil {
		return nil, err
	}

	values, err := toInts(fn.Name(), inputs)
	if err != nil {
		return nil, err
	}

	vm := cpu.NewCpu(prog).WithInput(values...)
	if len(name) != 0 {
		vm.WithName(name)
	}
	vm.Verbose = sc.Verbose

	return &Computer{Cpu: vm}, nil
}

func unpackAmplify(fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (prog cpu.Program, phases []int64, feedback bool, err error) {
	var program, phaseList starlark.Value
	err = starlark.UnpackArgs(fn.Name(), args, kwargs,
		"program", &program,
		"phases", &phaseList,
		"feedback?", &feedback)
	if err != nil {
		return
	}

	prog, err = toProgram(fn.Name(), program)
	if err != nil {
		return
	}

	phases, err = toInts(fn.Name(), phaseList)

	return
}

// amplify(program, phases, feedback=False)
func (sc *Script) amplify(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	prog, phases, feedback, err := unpackAmplify(fn, args, kwargs)
	if err != nil {
		return nil, err
	}

	signal, err := emulator.Amplify(threadContext(thread), prog, phases, feedback)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}

	return starlark.MakeInt64(signal), nil
}

// max_amplify(program, phases, feedback=False)
func (sc *Script) maxAmplify(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	prog, phases, feedback, err := unpackAmplify(fn, args, kwargs)
	if err != nil {
		return nil, err
	}

	best, order, err := emulator.MaxAmplify(threadContext(thread), prog, phases, feedback)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}

	return starlark.Tuple{starlark.MakeInt64(best), fromInts(order)}, nil
}

// toInt64 converts a Starlark int.
func toInt64(fnname string, value starlark.Value) (n int64, err error) {
	i, ok := value.(starlark.Int)
	if !ok {
		err = fmt.Errorf("%s: %w: got %s, want int", fnname, ErrArgumentType, value.Type())
		return
	}

	n, ok = i.Int64()
	if !ok {
		err = fmt.Errorf("%s: %w: %v", fnname, ErrArgumentRange, i)
	}

	return
}

// toInts converts any iterable of Starlark ints.
func toInts(fnname string, value starlark.Value) (values []int64, err error) {
	iter := starlark.Iterate(value)
	if iter == nil {
		err = fmt.Errorf("%s: %w: got %s, want iterable", fnname, ErrArgumentType, value.Type())
		return
	}
	defer iter.Done()

	var item starlark.Value
	for iter.Next(&item) {
		var n int64
		n, err = toInt64(fnname, item)
		if err != nil {
			return
		}
		values = append(values, n)
	}

	return
}

// toProgram accepts program text, or a list of ints.
func toProgram(fnname string, value starlark.Value) (prog cpu.Program, err error) {
	if text, ok := value.(starlark.String); ok {
		prog, err = cpu.ParseProgramString(string(text))
		if err != nil {
			err = fmt.Errorf("%s: %w", fnname, err)
		}
		return
	}

	return toInts(fnname, value)
}

func fromInts(values []int64) *starlark.List {
	elems := make([]starlark.Value, len(values))
	for n, value := range values {
		elems[n] = starlark.MakeInt64(value)
	}
	return starlark.NewList(elems)
}
