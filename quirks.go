package chip8

// Quirks toggles the documented behavior deviations between historical
// interpreters. The zero value selects classic interpreter semantics.
type Quirks struct {
	// Shift makes 8XY6/8XYE shift Vy into Vx instead of shifting Vx in
	// place.
	Shift bool

	// IncrementIOnLoadStore makes FX55/FX65 leave I pointing past the last
	// register slot (I + X + 1) instead of unchanged.
	IncrementIOnLoadStore bool

	// WrapSprites makes draw pixels wrap at the display edges instead of
	// being clipped.
	WrapSprites bool

	// JumpMasksV0 makes BNNN add only the low nibble of V0 to the target
	// address instead of the full byte.
	JumpMasksV0 bool

	// VBlankWait limits DXYN to one draw per frame; further draws rewind
	// the program counter until the next frame begins.
	VBlankWait bool

	// ResetFlagOnLogic makes 8XY1/8XY2/8XY3 clear VF.
	ResetFlagOnLogic bool
}
