package chip8

import "fmt"

// Op identifies one instruction variant.
type Op uint8

const (
	// OpNoop covers group 0x0 opcodes other than 0x00E0/0x00EE; the legacy
	// machine-code-call opcodes are not implemented.
	OpNoop Op = iota
	OpClearScreen
	OpReturn
	OpJump
	OpCall
	OpSkipEqByte
	OpSkipNeByte
	OpSkipEqReg
	OpSkipNeReg
	OpLoadByte
	OpAddByte
	OpLoadReg
	OpOr
	OpAnd
	OpXor
	OpAddReg
	OpSubReg
	OpShiftRight
	OpSubN
	OpShiftLeft
	OpLoadIndex
	OpJumpV0
	OpRandom
	OpDraw
	OpSkipPressed
	OpSkipNotPressed
	OpWaitKey
	OpLoadFromDelay
	OpLoadToDelay
	OpLoadToSound
	OpAddIndex
	OpLoadSprite
	OpStoreBCD
	OpStoreRegs
	OpLoadRegs
)

// Instruction is a decoded opcode. Only the fields an instruction actually
// encodes carry meaning; decode guarantees X and Y are register indices
// in 0-15.
type Instruction struct {
	Op  Op
	X   uint8  // bits 8-11
	Y   uint8  // bits 4-7
	N   uint8  // bits 0-3
	KK  uint8  // bits 0-7
	NNN uint16 // bits 0-11
}

// Decode maps a 16-bit opcode word to an instruction. Opcodes without a
// mapping inside groups 0x8, 0xE and 0xF return a DecodeError.
func Decode(opcode uint16) (Instruction, error) {
	in := Instruction{
		X:   uint8(opcode >> 8 & 0xF),
		Y:   uint8(opcode >> 4 & 0xF),
		N:   uint8(opcode & 0xF),
		KK:  uint8(opcode & 0xFF),
		NNN: opcode & 0xFFF,
	}

	switch opcode & 0xF000 {
	case 0x0000:
		switch opcode {
		case 0x00E0:
			in.Op = OpClearScreen
		case 0x00EE:
			in.Op = OpReturn
		default:
			in.Op = OpNoop
		}
	case 0x1000:
		in.Op = OpJump
	case 0x2000:
		in.Op = OpCall
	case 0x3000:
		in.Op = OpSkipEqByte
	case 0x4000:
		in.Op = OpSkipNeByte
	case 0x5000:
		in.Op = OpSkipEqReg
	case 0x6000:
		in.Op = OpLoadByte
	case 0x7000:
		in.Op = OpAddByte
	case 0x8000:
		switch opcode & 0x000F {
		case 0x0:
			in.Op = OpLoadReg
		case 0x1:
			in.Op = OpOr
		case 0x2:
			in.Op = OpAnd
		case 0x3:
			in.Op = OpXor
		case 0x4:
			in.Op = OpAddReg
		case 0x5:
			in.Op = OpSubReg
		case 0x6:
			in.Op = OpShiftRight
		case 0x7:
			in.Op = OpSubN
		case 0xE:
			in.Op = OpShiftLeft
		default:
			return Instruction{}, &DecodeError{Opcode: opcode}
		}
	case 0x9000:
		in.Op = OpSkipNeReg
	case 0xA000:
		in.Op = OpLoadIndex
	case 0xB000:
		in.Op = OpJumpV0
	case 0xC000:
		in.Op = OpRandom
	case 0xD000:
		in.Op = OpDraw
	case 0xE000:
		switch opcode & 0x00FF {
		case 0x9E:
			in.Op = OpSkipPressed
		case 0xA1:
			in.Op = OpSkipNotPressed
		default:
			return Instruction{}, &DecodeError{Opcode: opcode}
		}
	case 0xF000:
		switch opcode & 0x00FF {
		case 0x07:
			in.Op = OpLoadFromDelay
		case 0x0A:
			in.Op = OpWaitKey
		case 0x15:
			in.Op = OpLoadToDelay
		case 0x18:
			in.Op = OpLoadToSound
		case 0x1E:
			in.Op = OpAddIndex
		case 0x29:
			in.Op = OpLoadSprite
		case 0x33:
			in.Op = OpStoreBCD
		case 0x55:
			in.Op = OpStoreRegs
		case 0x65:
			in.Op = OpLoadRegs
		default:
			return Instruction{}, &DecodeError{Opcode: opcode}
		}
	}
	return in, nil
}

// String formats the instruction with conventional mnemonics, for trace
// output and error reports.
func (in Instruction) String() string {
	switch in.Op {
	case OpNoop:
		return "NOP"
	case OpClearScreen:
		return "CLS"
	case OpReturn:
		return "RET"
	case OpJump:
		return fmt.Sprintf("JP $%03X", in.NNN)
	case OpCall:
		return fmt.Sprintf("CALL $%03X", in.NNN)
	case OpSkipEqByte:
		return fmt.Sprintf("SE V%X, $%02X", in.X, in.KK)
	case OpSkipNeByte:
		return fmt.Sprintf("SNE V%X, $%02X", in.X, in.KK)
	case OpSkipEqReg:
		return fmt.Sprintf("SE V%X, V%X", in.X, in.Y)
	case OpSkipNeReg:
		return fmt.Sprintf("SNE V%X, V%X", in.X, in.Y)
	case OpLoadByte:
		return fmt.Sprintf("LD V%X, $%02X", in.X, in.KK)
	case OpAddByte:
		return fmt.Sprintf("ADD V%X, $%02X", in.X, in.KK)
	case OpLoadReg:
		return fmt.Sprintf("LD V%X, V%X", in.X, in.Y)
	case OpOr:
		return fmt.Sprintf("OR V%X, V%X", in.X, in.Y)
	case OpAnd:
		return fmt.Sprintf("AND V%X, V%X", in.X, in.Y)
	case OpXor:
		return fmt.Sprintf("XOR V%X, V%X", in.X, in.Y)
	case OpAddReg:
		return fmt.Sprintf("ADD V%X, V%X", in.X, in.Y)
	case OpSubReg:
		return fmt.Sprintf("SUB V%X, V%X", in.X, in.Y)
	case OpShiftRight:
		return fmt.Sprintf("SHR V%X", in.X)
	case OpSubN:
		return fmt.Sprintf("SUBN V%X, V%X", in.X, in.Y)
	case OpShiftLeft:
		return fmt.Sprintf("SHL V%X", in.X)
	case OpLoadIndex:
		return fmt.Sprintf("LD I, $%03X", in.NNN)
	case OpJumpV0:
		return fmt.Sprintf("JP V0, $%03X", in.NNN)
	case OpRandom:
		return fmt.Sprintf("RND V%X, $%02X", in.X, in.KK)
	case OpDraw:
		return fmt.Sprintf("DRW V%X, V%X, $%X", in.X, in.Y, in.N)
	case OpSkipPressed:
		return fmt.Sprintf("SKP V%X", in.X)
	case OpSkipNotPressed:
		return fmt.Sprintf("SKNP V%X", in.X)
	case OpWaitKey:
		return fmt.Sprintf("LD V%X, K", in.X)
	case OpLoadFromDelay:
		return fmt.Sprintf("LD V%X, DT", in.X)
	case OpLoadToDelay:
		return fmt.Sprintf("LD DT, V%X", in.X)
	case OpLoadToSound:
		return fmt.Sprintf("LD ST, V%X", in.X)
	case OpAddIndex:
		return fmt.Sprintf("ADD I, V%X", in.X)
	case OpLoadSprite:
		return fmt.Sprintf("LD F, V%X", in.X)
	case OpStoreBCD:
		return fmt.Sprintf("LD B, V%X", in.X)
	case OpStoreRegs:
		return fmt.Sprintf("LD [I], V%X", in.X)
	case OpLoadRegs:
		return fmt.Sprintf("LD V%X, [I]", in.X)
	}
	return fmt.Sprintf("Op(%d)", in.Op)
}
