package emulator

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/internal"
	"github.com/ezrec/intcode/io"
)

// Pipeline is a chain of CPUs, each running the same program, where the
// output of one is the input of the next. With Feedback set, the last CPU's
// output is fed back to the first, forming a ring.
type Pipeline struct {
	Verbose  bool
	Feedback bool

	Cpus  []*cpu.Cpu
	Pipes []*io.Pipe // Pipes[n] is the input of Cpus[n].
}

// NewPipeline creates count CPUs running program, connected in order.
func NewPipeline(program cpu.Program, count int, feedback bool) (pipe *Pipeline) {
	pipe = &Pipeline{
		Feedback: feedback,
		Cpus:     make([]*cpu.Cpu, count),
		Pipes:    make([]*io.Pipe, count),
	}

	for n := range count {
		pipe.Pipes[n] = &io.Pipe{}
		pipe.Cpus[n] = cpu.NewCpu(program).
			WithName(fmt.Sprintf("C-%d", n)).
			WithSource(pipe.Pipes[n])
	}

	for n := range count {
		switch {
		case n+1 < count:
			pipe.Cpus[n].WithSink(pipe.Pipes[n+1])
		case feedback:
			pipe.Cpus[n].WithSink(pipe.Pipes[0])
		}
	}

	return
}

// Input sends values to the first CPU.
func (pipe *Pipeline) Input(values ...int64) (err error) {
	for _, value := range values {
		err = pipe.Pipes[0].Send(value)
		if err != nil {
			return
		}
	}
	return
}

// Output returns the last output of the last CPU.
func (pipe *Pipeline) Output() int64 {
	return pipe.Cpus[len(pipe.Cpus)-1].LastOutput()
}

// output returns the pipe fed by the CPU at index n, if any.
func (pipe *Pipeline) output(n int) *io.Pipe {
	switch {
	case n+1 < len(pipe.Pipes):
		return pipe.Pipes[n+1]
	case pipe.Feedback:
		return pipe.Pipes[0]
	}
	return nil
}

// Run every CPU on its own goroutine until all have stopped.
//
// A CPU that halts closes the pipe it feeds. A CPU whose upstream has
// closed, and that needs more input, stops quietly in STATE_BLOCKED.
// The first other error stops the pipeline by closing every pipe, and is
// returned as an *ErrRuntime. A CPU whose downstream pipe was closed while
// the pipeline was running fails with ErrOutputClosed.
func (pipe *Pipeline) Run(ctx context.Context) (err error) {
	group, groupCtx := errgroup.WithContext(ctx)

	stop := context.AfterFunc(groupCtx, func() {
		for _, p := range pipe.Pipes {
			p.Close()
		}
	})
	defer stop()

	for n, c := range pipe.Cpus {
		c.Verbose = pipe.Verbose
		group.Go(func() (err error) {
			if out := pipe.output(n); out != nil {
				defer out.Close()
			}

			_, err = c.Run()
			switch {
			case errors.Is(err, cpu.ErrInputClosed):
				if pipe.Verbose {
					log.Printf("%v: upstream disconnected", c.Name)
				}
				err = nil
			case errors.Is(err, cpu.ErrOutputClosed) && groupCtx.Err() != nil:
				// Pipes were closed to stop the pipeline.
				err = nil
			}
			if err != nil {
				err = &ErrRuntime{Name: c.Name, Ticks: c.Ticks, Err: err}
			}
			return
		})
	}

	err = group.Wait()
	if err == nil {
		err = ctx.Err()
	}

	return
}

// Amplify runs a pipeline with one CPU per phase. Each CPU receives its
// phase as its first input, and the first CPU then receives 0. The result is
// the last output of the last CPU.
func Amplify(ctx context.Context, program cpu.Program, phases []int64, feedback bool) (signal int64, err error) {
	if len(phases) == 0 {
		return
	}

	pipe := NewPipeline(program, len(phases), feedback)
	for n, phase := range phases {
		pipe.Cpus[n].WithName(fmt.Sprintf("C-%d-%d", n, phase)).WithInput(phase)
	}

	err = pipe.Input(0)
	if err != nil {
		return
	}

	err = pipe.Run(ctx)
	if err != nil {
		return
	}

	signal = pipe.Output()
	return
}

// MaxAmplify tries every ordering of phases, returning the largest signal
// and the ordering that produced it.
func MaxAmplify(ctx context.Context, program cpu.Program, phases []int64, feedback bool) (best int64, order []int64, err error) {
	for perm := range internal.Permutations(phases) {
		var signal int64
		signal, err = Amplify(ctx, program, perm, feedback)
		if err != nil {
			return
		}
		if order == nil || signal > best {
			best = signal
			order = perm
		}
	}

	return
}
