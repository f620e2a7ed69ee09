// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"gitlab.com/efronlicht/enve"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/emulator"
	"github.com/ezrec/intcode/script"
	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrUsage = errors.New(f("usage"))
)

// config is the parsed command line.
type config struct {
	program     string
	input       string
	output      string
	ascii       bool
	disassemble bool
	verbose     bool
	phases      string
	feedback    bool
	maximize    bool
	starlark    string
	logFile     string
	logLevel    string

	stdin  io.Reader
	stdout io.Writer
}

func main() {
	cfg := &config{
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}

	flag.StringVar(&cfg.program, "p", "", "Intcode program file")
	flag.StringVar(&cfg.input, "i", "-", "Tape input")
	flag.StringVar(&cfg.output, "o", "-", "Tape output")
	flag.BoolVar(&cfg.ascii, "ascii", false, "ASCII tape mode")
	flag.BoolVar(&cfg.disassemble, "d", false, "Disassemble the program, do not execute")
	flag.BoolVar(&cfg.verbose, "v", enve.BoolOr("INTCODE_VERBOSE", false), "Verbose mode")
	flag.StringVar(&cfg.phases, "a", "", "Amplifier phases, comma separated")
	flag.BoolVar(&cfg.feedback, "feedback", false, "Amplifier feedback loop (requires -a)")
	flag.BoolVar(&cfg.maximize, "max", false, "Search amplifier phase orderings for the largest signal (requires -a)")
	flag.StringVar(&cfg.starlark, "s", "", "Starlark script to execute")
	flag.StringVar(&cfg.logFile, "log", enve.StringOr("INTCODE_LOG_FILE", ""), "JSON log file")
	flag.StringVar(&cfg.logLevel, "log-level", enve.StringOr("INTCODE_LOG_LEVEL", "info"), "Log level")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	var level slog.Level
	err := level.UnmarshalText([]byte(cfg.logLevel))
	if err != nil {
		log.Fatalf("%v: %v", cfg.logLevel, err)
	}

	var logOut io.WriteCloser
	if len(cfg.logFile) != 0 {
		logOut, err = os.OpenFile(cfg.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatalf("%v: %v", cfg.logFile, err)
		}
		slog.SetDefault(newLogger(level, logOut))
	} else {
		slog.SetDefault(newLogger(level, nil))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err = run(ctx, cfg)
	if err != nil {
		log.Printf("%v: %v", os.Args[0], err)
	}

	stop()
	if logOut != nil {
		logOut.Close()
	}

	if err != nil {
		os.Exit(1)
	}
}

// validate rejects flags that have no effect in the selected mode.
func (cfg *config) validate() (err error) {
	if len(cfg.phases) == 0 {
		switch {
		case cfg.feedback:
			return fmt.Errorf("%w: %v", ErrUsage, f("-feedback requires -a"))
		case cfg.maximize:
			return fmt.Errorf("%w: %v", ErrUsage, f("-max requires -a"))
		}
	}

	if len(cfg.starlark) == 0 && len(cfg.program) == 0 {
		return fmt.Errorf("%w: %v", ErrUsage, f("no program given (-p)"))
	}

	return
}

// run executes the mode selected by cfg.
func run(ctx context.Context, cfg *config) (err error) {
	err = cfg.validate()
	if err != nil {
		return
	}

	if len(cfg.starlark) != 0 {
		return runScript(ctx, cfg)
	}

	prog, err := loadProgram(cfg.program)
	if err != nil {
		return
	}

	switch {
	case cfg.disassemble:
		_, err = fmt.Fprint(cfg.stdout, prog.Disassemble())
	case len(cfg.phases) != 0:
		err = runAmplifier(ctx, cfg, prog)
	default:
		err = runTape(cfg, prog)
	}

	return
}

func loadProgram(filename string) (prog cpu.Program, err error) {
	inf, err := os.Open(filename)
	if err != nil {
		return
	}
	defer inf.Close()

	prog, err = cpu.ParseProgram(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", filename, err)
	}

	return
}

func runScript(ctx context.Context, cfg *config) (err error) {
	src, err := os.ReadFile(cfg.starlark)
	if err != nil {
		return
	}

	sc := &script.Script{
		Verbose: cfg.verbose,
		Print: func(text string) {
			fmt.Fprintln(cfg.stdout, text)
		},
	}

	_, err = sc.Exec(ctx, cfg.starlark, src)

	return
}

func runAmplifier(ctx context.Context, cfg *config, prog cpu.Program) (err error) {
	phases, err := cpu.ParseProgramString(cfg.phases)
	if err != nil {
		return fmt.Errorf("-a %v: %w", cfg.phases, err)
	}

	if cfg.maximize {
		best, order, err := emulator.MaxAmplify(ctx, prog, phases, cfg.feedback)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cfg.stdout, "%d %v\n", best, order)
		return err
	}

	result, err := emulator.Amplify(ctx, prog, phases, cfg.feedback)
	if err != nil {
		return
	}

	_, err = fmt.Fprintln(cfg.stdout, result)

	return
}

func runTape(cfg *config, prog cpu.Program) (err error) {
	emu := emulator.NewEmulator(prog)
	emu.Verbose = cfg.verbose
	emu.Tape.ASCII = cfg.ascii

	if cfg.input == "-" {
		emu.Tape.Input = cfg.stdin
	} else {
		var inf *os.File
		inf, err = os.Open(cfg.input)
		if err != nil {
			return
		}
		defer inf.Close()
		emu.Tape.Input = inf
	}

	if cfg.output == "-" {
		emu.Tape.Output = cfg.stdout
	} else {
		var ouf *os.File
		ouf, err = os.Create(cfg.output)
		if err != nil {
			return
		}
		defer func() {
			cerr := ouf.Close()
			if err == nil {
				err = cerr
			}
		}()
		emu.Tape.Output = ouf
	}

	err = emu.Run()

	return
}
