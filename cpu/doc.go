// Package cpu implements the Intcode virtual machine.
//
// The CPU consists of an instruction pointer (IP), a relative base register,
// and a sparse memory (see package memory). Each step fetches a four cell
// window at the IP, decodes the opcode and per-operand addressing modes, and
// executes it. Instructions are never cached, so programs may modify their
// own code.
//
// Input is read first from values queued with WithInput, then from an
// optional blocking Source. Output values are forwarded to an optional Sink,
// and recorded once delivered, so CPUs may be chained with io.Pipe.
package cpu
