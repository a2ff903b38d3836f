package chip8

import "fmt"

const (
	// RamSize is the size of the address space in bytes.
	RamSize = 4096

	// FontAddress is where the built-in font glyphs start.
	FontAddress = 0x000

	// FontGlyphSize is the height in bytes of one font glyph.
	FontGlyphSize = 5
)

// fontset holds 16 glyphs for the hex digits 0-F, 5 bytes each. The high
// nibble of every byte is one 4-pixel row of the glyph.
var fontset = [80]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the 4096-byte address space. Opcodes are stored big-endian.
// Addresses 0x000-0x04F hold the font glyphs, programs start at 0x200.
type Memory [RamSize]byte

// NewMemory returns memory with the fontset loaded.
func NewMemory() Memory {
	var mem Memory
	copy(mem[FontAddress:], fontset[:])
	return mem
}

// LoadProgram copies rom into memory starting at StartAddress. No header
// parsing or validation beyond the size check is performed.
func (mem *Memory) LoadProgram(rom []byte) error {
	if len(rom) > RamSize-StartAddress {
		return &RomLoadError{
			Err: fmt.Errorf("rom size %d exceeds %d bytes of program space",
				len(rom), RamSize-StartAddress),
		}
	}
	copy(mem[StartAddress:], rom)
	return nil
}

// fetchOpcode reads the big-endian word at addr. The caller guarantees
// addr+1 is inside ram.
func (mem *Memory) fetchOpcode(addr uint16) uint16 {
	return uint16(mem[addr])<<8 | uint16(mem[addr+1])
}

func (mem *Memory) readByte(addr int) (byte, error) {
	if addr < 0 || addr >= RamSize {
		return 0, &AddressFault{Addr: addr}
	}
	return mem[addr], nil
}

func (mem *Memory) writeByte(addr int, value byte) error {
	if addr < 0 || addr >= RamSize {
		return &AddressFault{Addr: addr}
	}
	mem[addr] = value
	return nil
}
