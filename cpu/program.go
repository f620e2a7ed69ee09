package cpu

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ezrec/intcode/memory"
)

// Program is the initial memory image of a CPU.
type Program []int64

// ParseProgram reads comma-separated decimal integers.
// Whitespace around each value, and empty values, are ignored.
func ParseProgram(input io.Reader) (prog Program, err error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return
	}

	return ParseProgramString(string(data))
}

// ParseProgramString parses program text.
func ParseProgramString(text string) (prog Program, err error) {
	for word := range strings.SplitSeq(text, ",") {
		word = strings.TrimSpace(word)
		if len(word) == 0 {
			continue
		}
		var value int64
		value, err = strconv.ParseInt(word, 10, 64)
		if err != nil {
			err = ErrParseNumber(word)
			return
		}
		prog = append(prog, value)
	}

	return
}

// String returns the program text.
func (prog Program) String() string {
	words := make([]string, len(prog))
	for n, value := range prog {
		words[n] = strconv.FormatInt(value, 10)
	}

	return strings.Join(words, ",")
}

// Disassemble the program.
func (prog Program) Disassemble() string {
	return Disassemble(memory.NewMemory(prog))
}

// Disassemble memory, one line per decodable instruction, or per raw cell
// where no instruction can be decoded. A run of two or more unwritten cells
// past the program is a single "0 x <count>" line.
func Disassemble(mem *memory.Memory) (text string) {
	var sb strings.Builder

	var populated []int64
	for address := range mem.Cells() {
		populated = append(populated, address)
	}

	ip := int64(0)
	next := 0
	for {
		for next < len(populated) && populated[next] < ip {
			next++
		}
		if next == len(populated) {
			break
		}

		if gap := populated[next] - ip; gap > 1 {
			fmt.Fprintf(&sb, "%6d: 0 x %d\n", ip, gap)
			ip = populated[next]
		}

		window, _ := mem.Window(ip)
		size := int64(1)
		inst, err := Decode(window)
		if err != nil {
			fmt.Fprintf(&sb, "%6d: %d\n", ip, window[0])
		} else {
			fmt.Fprintf(&sb, "%6d: %v\n", ip, inst)
			size = inst.Len()
		}

		if ip > math.MaxInt64-size {
			break
		}
		ip += size
	}

	text = sb.String()
	return
}
