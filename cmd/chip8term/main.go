package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tm "github.com/buger/goterm"
	"github.com/retroenv/retrogolib/log"

	"github.com/c8emu/chip8"
)

const frameRate = 60

// Terminals deliver no key-up events, so a pressed key stays held for this
// many frames after its last byte arrived.
const keyHoldFrames = 6

// Same layout as the windowed frontend: 1234/qwer/asdf/zxcv.
var keyMap = map[byte]int{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

type options struct {
	cycles  int
	seed    int64
	debug   bool
	quiet   bool
	dumpCPU bool

	quirks chip8.Quirks
}

func parseFlags() (options, string) {
	var opts options

	flag.IntVar(&opts.cycles, "cycles", chip8.DefaultConfig().CyclesPerFrame,
		"instructions executed per frame")
	flag.Int64Var(&opts.seed, "seed", 0, "random seed (0 = entropy)")
	flag.BoolVar(&opts.debug, "debug", false, "enable debug logging and instruction trace")
	flag.BoolVar(&opts.quiet, "quiet", false, "log errors only")
	flag.BoolVar(&opts.dumpCPU, "registers", false, "show the register dump below the display")

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
		fmt.Fprintf(flag.CommandLine.Output(), "usage: chip8term [flags] romfile\n")
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

	restore, err := enterRawTerm()
	if err != nil {
		logger.Fatal("raw terminal unavailable", log.Err(err))
	}
	defer restore()

	if err := loop(sys, opts); err != nil {
		restore()
		logger.Fatal("emulation halted", log.Err(err))
	}
}

func loop(sys *chip8.System, opts options) error {
	keyHold := [chip8.NumKeys]int{}
	wasBeeping := false

	for {
		start := time.Now()

		quit, err := pollKeys(sys, &keyHold)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}

		if err := sys.RunFrame(); err != nil {
			return err
		}

		// terminal bell as the beeper, edge-triggered
		beeping := sys.SoundTimer() > 0
		if beeping && !wasBeeping {
			fmt.Print("\a")
		}
		wasBeeping = beeping

		if sys.IsDirty() {
			render(sys, opts.dumpCPU)
			sys.SetDirty(false)
		}

		if elapsed, slice := time.Since(start), time.Second/frameRate; elapsed < slice {
			time.Sleep(slice - elapsed)
		}
	}
}

// pollKeys drains stdin, presses the mapped keys and releases keys whose
// hold window expired. Esc or Ctrl-C quits.
func pollKeys(sys *chip8.System, keyHold *[chip8.NumKeys]int) (bool, error) {
	buf, err := readPending()
	if err != nil {
		return false, err
	}
	for _, ch := range buf {
		if ch == 0x1B || ch == 0x03 { // Esc, Ctrl-C
			return true, nil
		}
		if key, ok := keyMap[ch]; ok {
			sys.SetKey(key, true)
			keyHold[key] = keyHoldFrames
		}
	}

	for key := range keyHold {
		if keyHold[key] == 0 {
			continue
		}
		keyHold[key]--
		if keyHold[key] == 0 {
			sys.SetKey(key, false)
		}
	}
	return false, nil
}

func render(sys *chip8.System, dumpCPU bool) {
	tm.Clear()
	tm.MoveCursor(1, 1)

	fb := sys.Framebuffer()
	for y := 0; y < chip8.GfxHeight; y++ {
		line := make([]byte, 0, chip8.GfxWidth*2+1)
		for x := 0; x < chip8.GfxWidth; x++ {
			// two cells per pixel to roughly square the aspect ratio
			if fb[y][x] {
				line = append(line, "██"...)
			} else {
				line = append(line, "  "...)
			}
		}
		line = append(line, '\n')
		tm.Print(string(line))
	}

	if dumpCPU {
		sys.Print(tm.Screen)
	}

	tm.Flush()
}
