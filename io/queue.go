package io

import (
	"slices"
)

// Queue is a non-blocking FIFO of values.
// Received values are retained so that Rewind can replay them.
type Queue struct {
	ReadIndex int
	Data      []int64
}

var _ Channel = (*Queue)(nil)
var _ Rewinder = (*Queue)(nil)

// NewQueue creates a queue pre-loaded with values.
func NewQueue(values ...int64) *Queue {
	return &Queue{Data: slices.Clone(values)}
}

// Rewind makes every value ever sent available again.
func (queue *Queue) Rewind() {
	queue.ReadIndex = 0
}

// Push appends values to the queue.
func (queue *Queue) Push(values ...int64) {
	queue.Data = append(queue.Data, values...)
}

// Len returns the number of values not yet received.
func (queue *Queue) Len() int {
	return len(queue.Data) - queue.ReadIndex
}

// Pending returns the values not yet received.
func (queue *Queue) Pending() []int64 {
	return slices.Clone(queue.Data[queue.ReadIndex:])
}

// Receive returns the next value, or ErrChannelEmpty if there are none.
func (queue *Queue) Receive() (value int64, err error) {
	if queue.ReadIndex >= len(queue.Data) {
		err = ErrChannelEmpty
		return
	}

	value = queue.Data[queue.ReadIndex]
	queue.ReadIndex++

	return
}

// Send appends a value to the queue.
func (queue *Queue) Send(value int64) (err error) {
	queue.Push(value)
	return
}

// Clone returns an independent copy of the queue.
func (queue *Queue) Clone() *Queue {
	return &Queue{
		ReadIndex: queue.ReadIndex,
		Data:      slices.Clone(queue.Data),
	}
}
