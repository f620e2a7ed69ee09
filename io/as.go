package io

import (
	"iter"
	"strings"
)

// ASCII_MAX is the largest value treated as a character.
const ASCII_MAX = 127

// SendString sends each byte of text to the sink, in order.
func SendString(sink Sink, text string) (err error) {
	for n := range len(text) {
		err = sink.Send(int64(text[n]))
		if err != nil {
			return
		}
	}
	return
}

// ReceiveString collects the ASCII values of a sequence into text.
// Values outside of the ASCII range are returned separately, in order.
func ReceiveString(values iter.Seq[int64]) (text string, other []int64) {
	var sb strings.Builder
	for value := range values {
		if value >= 0 && value <= ASCII_MAX {
			sb.WriteByte(byte(value))
		} else {
			other = append(other, value)
		}
	}

	text = sb.String()
	return
}
