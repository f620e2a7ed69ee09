package io

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Tape adapts text streams to a channel.
//
// In numeric mode input is a sequence of decimal integers separated by commas
// or whitespace, and each output value is written on its own line.
// In ASCII mode every input byte is one value, and output values in the
// ASCII range are written as characters.
type Tape struct {
	Input  io.Reader
	Output io.Writer
	ASCII  bool

	reader   *bufio.Reader
	readerOf io.Reader
}

var _ Channel = (*Tape)(nil)

// Rewind is not possible on a tape.
func (tc *Tape) Rewind() {
}

func (tc *Tape) buffered() *bufio.Reader {
	if tc.reader == nil || tc.readerOf != tc.Input {
		tc.reader = bufio.NewReader(tc.Input)
		tc.readerOf = tc.Input
	}

	return tc.reader
}

func isSeparator(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}

// Receive reads the next value from the input stream.
// Returns ErrChannelEmpty at end of input.
func (tc *Tape) Receive() (value int64, err error) {
	if tc.Input == nil {
		err = ErrChannelEmpty
		return
	}

	rd := tc.buffered()

	if tc.ASCII {
		var one byte
		one, err = rd.ReadByte()
		if errors.Is(err, io.EOF) {
			err = ErrChannelEmpty
			return
		}
		value = int64(one)
		return
	}

	var token strings.Builder
	for {
		var r rune
		r, _, err = rd.ReadRune()
		if errors.Is(err, io.EOF) {
			err = nil
			break
		}
		if err != nil {
			return
		}
		if isSeparator(r) {
			if token.Len() == 0 {
				continue
			}
			break
		}
		token.WriteRune(r)
	}

	if token.Len() == 0 {
		err = ErrChannelEmpty
		return
	}

	value, err = strconv.ParseInt(token.String(), 10, 64)
	if err != nil {
		err = ErrTapeNumber(token.String())
	}

	return
}

// Send writes a value to the output stream.
func (tc *Tape) Send(value int64) (err error) {
	if tc.Output == nil {
		return
	}

	if tc.ASCII && value >= 0 && value <= ASCII_MAX {
		_, err = tc.Output.Write([]byte{byte(value)})
	} else {
		_, err = fmt.Fprintf(tc.Output, "%d\n", value)
	}

	return
}
