// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory implements the sparse, unbounded integer tape used by the
// Intcode CPU.
//
// Cells that have never been written read back as the program's initial
// contents if the address is inside the program, or zero otherwise.
package memory

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"math"
	"slices"
)

// WINDOW is the number of cells handed to the instruction decoder.
const WINDOW = 4

// Memory is a sparse address space seeded from an immutable program.
type Memory struct {
	Verbose bool // Set to log every write.

	program []int64
	cell    map[int64]int64
	size    int64 // One past the highest address written (capped), or program length.
}

// NewMemory creates memory seeded from program. The program slice is
// copied; later changes by the caller are not observed.
func NewMemory(program []int64) (mem *Memory) {
	mem = &Memory{
		program: slices.Clone(program),
	}

	mem.Reset()

	return
}

// Reset discards every write, restoring the program's contents.
func (mem *Memory) Reset() {
	if mem.cell == nil {
		mem.cell = map[int64]int64{}
	} else {
		clear(mem.cell)
	}
	mem.size = int64(len(mem.program))
}

// Len returns the extent of memory: the larger of the program length and
// one past the highest address ever written, capped at math.MaxInt64.
func (mem *Memory) Len() int64 {
	return mem.size
}

// Read the value at address.
func (mem *Memory) Read(address int64) (value int64, err error) {
	if address < 0 {
		err = ErrAddress(address)
		return
	}

	value, ok := mem.cell[address]
	if !ok && address < int64(len(mem.program)) {
		value = mem.program[address]
	}

	return
}

// Write value to address, growing memory as needed.
func (mem *Memory) Write(address int64, value int64) (err error) {
	if address < 0 {
		err = ErrAddress(address)
		return
	}

	if mem.Verbose {
		log.Printf("memory: [%d] = %d", address, value)
	}

	if mem.cell == nil {
		mem.cell = map[int64]int64{}
	}

	mem.cell[address] = value
	switch {
	case address == math.MaxInt64:
		mem.size = math.MaxInt64
	case address >= mem.size:
		mem.size = address + 1
	}

	return
}

// Window returns the WINDOW cells starting at address.
// Cells past math.MaxInt64 read as zero.
func (mem *Memory) Window(address int64) (window [WINDOW]int64, err error) {
	for n := range window {
		if n > 0 && address > math.MaxInt64-int64(n) {
			break
		}
		window[n], err = mem.Read(address + int64(n))
		if err != nil {
			return
		}
	}

	return
}

// Cells iterates the populated cells, in address order: every program cell,
// then every written cell past the end of the program. Unwritten cells past
// the program read as zero and are skipped.
func (mem *Memory) Cells() iter.Seq2[int64, int64] {
	return func(yield func(address int64, value int64) bool) {
		for address := range int64(len(mem.program)) {
			value, _ := mem.Read(address)
			if !yield(address, value) {
				return
			}
		}

		for _, address := range slices.Sorted(maps.Keys(mem.cell)) {
			if address < int64(len(mem.program)) {
				continue
			}
			if !yield(address, mem.cell[address]) {
				return
			}
		}
	}
}

// Clone returns an independent copy sharing the immutable program.
func (mem *Memory) Clone() *Memory {
	return &Memory{
		Verbose: mem.Verbose,
		program: mem.program,
		cell:    maps.Clone(mem.cell),
		size:    mem.size,
	}
}

// String renders the non-program (written) cells, in address order.
func (mem *Memory) String() (text string) {
	for _, address := range slices.Sorted(maps.Keys(mem.cell)) {
		text += fmt.Sprintf("%6d: %d\n", address, mem.cell[address])
	}

	return
}
