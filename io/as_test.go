package io

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSendString(t *testing.T) {
	assert := assert.New(t)

	queue := &Queue{}
	assert.NoError(SendString(queue, "NOT A J\n"))
	assert.Equal([]int64{'N', 'O', 'T', ' ', 'A', ' ', 'J', '\n'}, queue.Data)
}

func TestSendString_Closed(t *testing.T) {
	assert := assert.New(t)

	pipe := &Pipe{}
	pipe.Close()
	assert.Equal(ErrSinkClosed, SendString(pipe, "x"))
}

func TestReceiveString(t *testing.T) {
	assert := assert.New(t)

	values := []int64{'#', '.', '\n', 19358870, -1, '#'}
	text, other := ReceiveString(slices.Values(values))

	assert.Equal("#.\n#", text)
	assert.Equal([]int64{19358870, -1}, other)
}
