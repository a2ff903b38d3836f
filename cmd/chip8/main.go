package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/c8emu/chip8"
	"github.com/retroenv/retrogolib/log"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

type options struct {
	cycles int
	seed   int64
	scale  int
	debug  bool
	quiet  bool

	quirks chip8.Quirks
}

func parseFlags() (options, string) {
	var opts options

	flag.IntVar(&opts.cycles, "cycles", chip8.DefaultConfig().CyclesPerFrame,
		"instructions executed per frame")
	flag.Int64Var(&opts.seed, "seed", 0, "random seed (0 = entropy)")
	flag.IntVar(&opts.scale, "scale", 10, "window pixels per display cell")
	flag.BoolVar(&opts.debug, "debug", false, "enable debug logging and instruction trace")
	flag.BoolVar(&opts.quiet, "quiet", false, "log errors only")

	flag.BoolVar(&opts.quirks.Shift, "quirk-shift", false, "shift Vy into Vx")
	flag.BoolVar(&opts.quirks.IncrementIOnLoadStore, "quirk-inci", false,
		"FX55/FX65 increment I")
	flag.BoolVar(&opts.quirks.WrapSprites, "quirk-wrap", false, "sprites wrap at edges")
	flag.BoolVar(&opts.quirks.JumpMasksV0, "quirk-jump-mask", false,
		"BNNN adds only the low nibble of V0")
	flag.BoolVar(&opts.quirks.VBlankWait, "quirk-vblank", false, "one draw per frame")
	flag.BoolVar(&opts.quirks.ResetFlagOnLogic, "quirk-logic", false,
		"OR/AND/XOR clear VF")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: chip8 [flags] romfile\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	return opts, flag.Arg(0)
}

func createLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

func main() {
	opts, romFile := parseFlags()
	logger := createLogger(opts.debug, opts.quiet)

	cfg := chip8.Config{
		Seed:           opts.seed,
		CyclesPerFrame: opts.cycles,
		Quirks:         opts.quirks,
	}
	if opts.debug {
		cfg.Logger = logger
	}

	sys, err := chip8.LoadFile(romFile, cfg)
	if err != nil {
		logger.Fatal("loading rom failed", log.Err(err))
	}
	logger.Info("starting", log.String("rom", romFile))

	var emu Emulator
	if err := emu.Initialize(sys, logger, opts.scale); err != nil {
		logger.Fatal("initialization failed", log.Err(err))
	}
	defer emu.Terminate()
	emu.Loop()
}
