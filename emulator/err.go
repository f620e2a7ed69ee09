package emulator

import (
	"github.com/ezrec/intcode/translate"
)

var f = translate.From

// ErrRuntime identifies the CPU, and how far it ran, for a runtime error.
type ErrRuntime struct {
	Name  string
	Ticks int
	Err   error
}

func (err *ErrRuntime) Error() string {
	return f("%v tick %d %v", err.Name, err.Ticks, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
