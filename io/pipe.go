package io

import (
	"sync"
)

const (
	// PIPE_DEFAULT_CAPACITY is the initial ring capacity of a pipe.
	PIPE_DEFAULT_CAPACITY = 16
)

// Pipe is an unbounded, blocking FIFO between one producer and one consumer.
// The zero value is an empty, open pipe.
//
// Values are held in a ring buffer that doubles when full.
type Pipe struct {
	mutex sync.Mutex
	cond  *sync.Cond

	readIndex int
	size      int
	data      []int64
	closed    bool
}

var _ Channel = (*Pipe)(nil)

// NewPipe creates a pipe pre-loaded with values.
func NewPipe(values ...int64) (pipe *Pipe) {
	pipe = &Pipe{}
	for _, value := range values {
		pipe.Send(value)
	}

	return
}

// lock acquires the pipe mutex, creating the condition variable on first use.
func (pipe *Pipe) lock() {
	pipe.mutex.Lock()
	if pipe.cond == nil {
		pipe.cond = sync.NewCond(&pipe.mutex)
	}
}

// grow doubles the ring capacity, unwrapping the contents to index 0.
func (pipe *Pipe) grow() {
	capacity := len(pipe.data) * 2
	if capacity == 0 {
		capacity = PIPE_DEFAULT_CAPACITY
	}

	data := make([]int64, capacity)
	for n := range pipe.size {
		data[n] = pipe.data[(pipe.readIndex+n)%len(pipe.data)]
	}

	pipe.data = data
	pipe.readIndex = 0
}

// Send appends a value and wakes the consumer.
// Returns ErrSinkClosed if the pipe has been closed.
func (pipe *Pipe) Send(value int64) (err error) {
	pipe.lock()
	defer pipe.mutex.Unlock()

	if pipe.closed {
		err = ErrSinkClosed
		return
	}

	if pipe.size == len(pipe.data) {
		pipe.grow()
	}

	pipe.data[(pipe.readIndex+pipe.size)%len(pipe.data)] = value
	pipe.size++

	pipe.cond.Signal()

	return
}

// Receive waits for the next value.
// Returns ErrChannelClosed once the pipe is closed and drained.
func (pipe *Pipe) Receive() (value int64, err error) {
	pipe.lock()
	defer pipe.mutex.Unlock()

	for pipe.size == 0 && !pipe.closed {
		pipe.cond.Wait()
	}

	if pipe.size == 0 {
		err = ErrChannelClosed
		return
	}

	value = pipe.data[pipe.readIndex]
	pipe.readIndex = (pipe.readIndex + 1) % len(pipe.data)
	pipe.size--

	return
}

// Close marks the end of the stream. Values already sent remain receivable.
func (pipe *Pipe) Close() (err error) {
	pipe.lock()
	defer pipe.mutex.Unlock()

	pipe.closed = true
	pipe.cond.Broadcast()

	return
}

// Len returns the number of values waiting to be received.
func (pipe *Pipe) Len() int {
	pipe.lock()
	defer pipe.mutex.Unlock()

	return pipe.size
}
