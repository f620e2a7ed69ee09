package script

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrArgumentType  = errors.New(f("argument type"))
	ErrArgumentRange = errors.New(f("integer out of range"))
	ErrFrozen        = errors.New(f("computer is frozen"))
)
