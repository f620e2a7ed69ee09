package io

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelEmpty  = errors.New(f("no input available"))
	ErrChannelClosed = errors.New(f("upstream disconnected"))
	ErrSinkClosed    = errors.New(f("downstream disconnected"))
	ErrTapeSyntax    = errors.New(f("tape syntax"))
)

// ErrTapeNumber is a tape token that is not an integer.
type ErrTapeNumber string

func (err ErrTapeNumber) Error() string {
	return f("tape '%v' is not a number", string(err))
}

func (err ErrTapeNumber) Is(target error) bool {
	return target == ErrTapeSyntax
}
