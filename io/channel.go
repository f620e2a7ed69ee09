// Package io provides the value channels an Intcode CPU reads input from and
// writes output to.
//
// A Queue is a pre-seeded, non-blocking FIFO. A Pipe is an unbounded blocking
// FIFO connecting two CPUs running on their own goroutines. A Tape adapts a
// text stream (io.Reader / io.Writer) to the channel interfaces.
package io

// Source is the input side of a channel.
type Source interface {
	// Receive returns the next value in FIFO order.
	// Non-blocking sources return ErrChannelEmpty when exhausted; blocking
	// sources wait for a value, returning ErrChannelClosed once the producer
	// has closed the channel and every value has been consumed.
	Receive() (value int64, err error)
}

// Sink is the output side of a channel.
type Sink interface {
	// Send appends a value to the channel.
	// Returns ErrSinkClosed if the consumer is gone.
	Send(value int64) error
}

// Channel is both a Source and a Sink.
type Channel interface {
	Source
	Sink
}

// Rewinder is implemented by channels that can replay their contents.
type Rewinder interface {
	// Rewind resets the channel to its initial state.
	Rewind()
}
