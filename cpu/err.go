package cpu

import (
	"errors"

	"github.com/ezrec/intcode/io"
	"github.com/ezrec/intcode/memory"
	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Decode errors
	ErrOpcodeUnknown = errors.New(f("opcode unknown"))
	ErrModeUnknown   = errors.New(f("mode unknown"))
	ErrModeWrite     = errors.New(f("immediate mode write target"))

	// Execution errors
	ErrAddressInvalid = memory.ErrAddressInvalid
	ErrInputEmpty     = io.ErrChannelEmpty
	ErrInputClosed    = io.ErrChannelClosed
	ErrOutputClosed   = io.ErrSinkClosed

	// Program text errors
	ErrParseSyntax = errors.New(f("program syntax"))
)

// ErrInstruction locates a failure at the instruction pointer.
type ErrInstruction struct {
	Ip   int64 // Instruction pointer of the failing instruction.
	Word int64 // Raw opcode word at Ip.
	Err  error
}

func (err *ErrInstruction) Error() string {
	return f("ip %d opcode %d: %v", err.Ip, err.Word, err.Err)
}

func (err *ErrInstruction) Unwrap() error {
	return err.Err
}

// ErrParseNumber is a program token that is not an integer.
type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

func (err ErrParseNumber) Is(target error) bool {
	return target == ErrParseSyntax
}
