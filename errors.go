package chip8

import "fmt"

// DecodeError reports an opcode that has no mapping within its dispatch
// group (groups 0x8, 0xE and 0xF contain holes).
type DecodeError struct {
	Opcode uint16
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unmapped opcode 0x%04X", e.Opcode)
}

// StackFault reports a call beyond the 16-entry stack or a return with an
// empty stack.
type StackFault struct {
	Op      string // "call" or "return"
	Pointer uint8
}

func (e *StackFault) Error() string {
	return fmt.Sprintf("stack fault on %s, pointer %d", e.Op, e.Pointer)
}

// AddressFault reports a memory access at or beyond the 4096-byte bound.
type AddressFault struct {
	Addr int
}

func (e *AddressFault) Error() string {
	return fmt.Sprintf("address 0x%04X outside of ram", e.Addr)
}

// RomLoadError reports a program that could not be read or placed into ram.
type RomLoadError struct {
	Err error
}

func (e *RomLoadError) Error() string {
	return fmt.Sprintf("load rom: %v", e.Err)
}

func (e *RomLoadError) Unwrap() error {
	return e.Err
}
