package memory

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrAddressInvalid = errors.New(f("address invalid"))
)

// ErrAddress is the offending (negative) address of a memory access.
type ErrAddress int64

func (ea ErrAddress) Error() string {
	return f("address %d invalid", int64(ea))
}

func (ea ErrAddress) Is(err error) bool {
	return err == ErrAddressInvalid
}
