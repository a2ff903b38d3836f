// Package chip8 implements the CHIP-8 virtual machine: 4KB of ram with a
// built-in fontset, sixteen 8-bit registers, a 16-frame call stack, a
// 64x32 monochrome framebuffer and the full 35-opcode instruction set.
// Rendering, audio output and keyboard hardware are left to host
// collaborators; see cmd/chip8 and cmd/chip8term.
package chip8

import (
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// NumKeys is the size of the hex keyboard.
const NumKeys = 16

// Config controls a System. The zero value of Quirks selects classic
// interpreter semantics.
type Config struct {
	// Seed for the random-number instruction. Zero seeds from entropy;
	// tests pin it for determinism.
	Seed int64

	// CyclesPerFrame is how many instructions RunFrame executes before one
	// timer decrement.
	CyclesPerFrame int

	Quirks Quirks

	// Logger receives a debug-level instruction trace and lifecycle
	// events. Nil disables logging.
	Logger *log.Logger
}

// DefaultConfig returns a config with the usual frame pacing and no
// instruction trace.
func DefaultConfig() Config {
	return Config{
		CyclesPerFrame: 10,
	}
}

// System owns the CPU, memory, framebuffer and keyboard state, and is the
// single mutator of all of them. It is not safe for concurrent use:
// renderers and input collaborators access it strictly between Cycle or
// RunFrame calls.
type System struct {
	cpu CPU
	mem Memory
	gfx Graphics

	keys [NumKeys]bool

	rng    *rand.Rand
	quirks Quirks
	logger *log.Logger

	cyclesPerFrame int
	drewThisFrame  bool
}

// NewSystem returns a system with fonts seeded, registers and stack
// zeroed, PC at StartAddress and rom loaded.
func NewSystem(rom []byte, cfg Config) (*System, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	cyclesPerFrame := cfg.CyclesPerFrame
	if cyclesPerFrame <= 0 {
		cyclesPerFrame = DefaultConfig().CyclesPerFrame
	}

	sys := &System{
		mem:            NewMemory(),
		rng:            rand.New(rand.NewSource(seed)),
		quirks:         cfg.Quirks,
		logger:         cfg.Logger,
		cyclesPerFrame: cyclesPerFrame,
	}
	sys.cpu.reset()

	if err := sys.mem.LoadProgram(rom); err != nil {
		return nil, err
	}
	if sys.logger != nil {
		sys.logger.Debug("rom loaded",
			log.Int("bytes", len(rom)),
			log.Hex("start", uint16(StartAddress)))
	}
	return sys, nil
}

// LoadFile reads a ROM file and returns a system running it. Loading a
// different ROM means constructing a fresh system; there is no partial
// reset.
func LoadFile(path string, cfg Config) (*System, error) {
	rom, err := os.ReadFile(path)
	if err != nil {
		return nil, &RomLoadError{Err: err}
	}
	return NewSystem(rom, cfg)
}

// Cycle executes a single instruction. Timers are not touched; hosts
// driving Cycle directly call DecrementTimers at 60 Hz themselves.
// A returned fault leaves the system halted at the offending instruction
// and is reproducible by calling Cycle again.
func (sys *System) Cycle() error {
	return sys.cpu.step(&sys.mem, &sys.gfx, sys)
}

// RunFrame executes the configured burst of cycles followed by one timer
// decrement, and opens the vblank draw window. It stops at the first
// fault.
func (sys *System) RunFrame() error {
	sys.drewThisFrame = false
	for i := 0; i < sys.cyclesPerFrame; i++ {
		if err := sys.Cycle(); err != nil {
			return err
		}
	}
	sys.DecrementTimers()
	return nil
}

// DecrementTimers ticks the delay and sound timers down by one.
func (sys *System) DecrementTimers() {
	sys.cpu.regs.DecrementTimers()
}

// SetKey records the pressed state of a logical key 0x0-0xF. Out-of-range
// keys are ignored.
func (sys *System) SetKey(key int, pressed bool) {
	if key < 0 || key >= NumKeys {
		return
	}
	sys.keys[key] = pressed
}

func (sys *System) keyDown(key uint8) bool {
	return sys.keys[key&0x0F]
}

func (sys *System) firstPressedKey() (uint8, bool) {
	for i, pressed := range sys.keys {
		if pressed {
			return uint8(i), true
		}
	}
	return 0, false
}

// Pixel reports whether the framebuffer cell at (x, y) is lit.
func (sys *System) Pixel(x, y int) bool {
	return sys.gfx.getPixel(x, y)
}

// Framebuffer returns a copy of the display. Valid only between cycles.
func (sys *System) Framebuffer() [GfxHeight][GfxWidth]bool {
	return sys.gfx.snapshot()
}

// SoundTimer returns the current sound timer; hosts play a tone while it
// is nonzero.
func (sys *System) SoundTimer() uint8 {
	return sys.cpu.regs.Sound
}

// DelayTimer returns the current delay timer.
func (sys *System) DelayTimer() uint8 {
	return sys.cpu.regs.Delay
}

func (sys *System) IsDirty() bool {
	return sys.gfx.isDirty()
}

func (sys *System) SetDirty(dirty bool) {
	sys.gfx.setDirty(dirty)
}

// Print writes a CPU state dump to w.
func (sys *System) Print(w io.Writer) {
	sys.cpu.Print(w)
}

func (sys *System) trace(pc uint16, in Instruction) {
	if sys.logger == nil {
		return
	}
	sys.logger.Debug("execute",
		log.Hex("pc", pc),
		log.String("op", in.String()))
}
