package chip8

// Registers holds the sixteen general-purpose registers, the index
// register and both timers. VF doubles as the flag output of the
// arithmetic, shift and draw instructions.
type Registers struct {
	V [16]uint8
	I uint16

	// Delay and Sound decrement toward zero at 60 Hz, never below it.
	// A tone plays while Sound is nonzero.
	Delay uint8
	Sound uint8
}

// DecrementTimers ticks both timers down by one, clamping at zero.
func (regs *Registers) DecrementTimers() {
	if regs.Delay > 0 {
		regs.Delay--
	}
	if regs.Sound > 0 {
		regs.Sound--
	}
}

func (regs *Registers) reset() {
	for i := range regs.V {
		regs.V[i] = 0
	}
	regs.I = 0
	regs.Delay = 0
	regs.Sound = 0
}
