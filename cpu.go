package chip8

import (
	"fmt"
	"io"
)

const (
	// StartAddress is where loaded programs begin execution.
	StartAddress = 0x200
	// RegFlag is VF, the flag output of the arithmetic, shift and draw
	// instructions.
	RegFlag = 0xF
)

// CPU executes the fetch/decode/execute sequence over the registers, call
// stack and program counter. Memory, framebuffer and keyboard state are
// owned by the System and passed in per step.
type CPU struct {
	regs  Registers
	stack Stack
	PC    uint16

	cycles int64
}

func (cpu *CPU) Print(w io.Writer) {
	fmt.Fprintf(w, "Cycles #%d\n", cpu.cycles)
	fmt.Fprintf(w, "PC = 0x%04x, SP = %d, I = 0x%04x, DT = %d, ST = %d\n",
		cpu.PC, cpu.stack.Pointer(), cpu.regs.I, cpu.regs.Delay, cpu.regs.Sound)
	for i := 0; i < len(cpu.regs.V); i += 4 {
		fmt.Fprintf(w, "V%X = 0x%02x, V%X = 0x%02x, V%X = 0x%02x, V%X = 0x%02x\n",
			i, cpu.regs.V[i], i+1, cpu.regs.V[i+1], i+2, cpu.regs.V[i+2], i+3, cpu.regs.V[i+3])
	}
}

func (cpu *CPU) reset() {
	cpu.PC = StartAddress
	cpu.cycles = 0
	cpu.regs.reset()
	cpu.stack.reset()
}

// step fetches the opcode at PC, advances PC by 2, decodes and executes.
// Decode failures, stack overflow/underflow and out-of-ram accesses are
// returned as typed errors with the machine state unchanged beyond the
// point of the fault.
func (cpu *CPU) step(mem *Memory, gfx *Graphics, sys *System) error {
	if int(cpu.PC)+1 >= RamSize {
		return &AddressFault{Addr: int(cpu.PC)}
	}
	opc := mem.fetchOpcode(cpu.PC)

	in, err := Decode(opc)
	if err != nil {
		return err
	}
	sys.trace(cpu.PC, in)

	newPC := cpu.PC + 2

	switch in.Op {
	case OpNoop:
		// legacy machine-code call, ignored

	case OpClearScreen: // 0x00E0
		cpu.cls(gfx)

	case OpReturn: // 0x00EE
		newPC, err = cpu.ret()

	case OpJump: // 0x1NNN
		newPC = in.NNN

	case OpCall: // 0x2NNN
		newPC, err = cpu.callAddr(in.NNN, newPC)

	case OpSkipEqByte: // 0x3XKK
		newPC = cpu.seVxByte(in.X, in.KK, newPC)

	case OpSkipNeByte: // 0x4XKK
		newPC = cpu.sneVxByte(in.X, in.KK, newPC)

	case OpSkipEqReg: // 0x5XY0
		newPC = cpu.seVxVy(in.X, in.Y, newPC)

	case OpSkipNeReg: // 0x9XY0
		newPC = cpu.sneVxVy(in.X, in.Y, newPC)

	case OpLoadByte: // 0x6XKK
		cpu.ldVxByte(in.X, in.KK)

	case OpAddByte: // 0x7XKK, wraps, VF untouched
		cpu.addVxByte(in.X, in.KK)

	case OpLoadReg: // 0x8XY0
		cpu.ldVxVy(in.X, in.Y)

	case OpOr: // 0x8XY1
		cpu.orVxVy(in.X, in.Y, sys.quirks)

	case OpAnd: // 0x8XY2
		cpu.andVxVy(in.X, in.Y, sys.quirks)

	case OpXor: // 0x8XY3
		cpu.xorVxVy(in.X, in.Y, sys.quirks)

	case OpAddReg: // 0x8XY4
		cpu.addVxVy(in.X, in.Y)

	case OpSubReg: // 0x8XY5
		cpu.subVxVy(in.X, in.Y)

	case OpShiftRight: // 0x8XY6
		cpu.shrVx(in.X, in.Y, sys.quirks)

	case OpSubN: // 0x8XY7
		cpu.subnVxVy(in.X, in.Y)

	case OpShiftLeft: // 0x8XYE
		cpu.shlVx(in.X, in.Y, sys.quirks)

	case OpLoadIndex: // 0xANNN
		cpu.ldIAddr(in.NNN)

	case OpJumpV0: // 0xBNNN
		newPC = cpu.jpV0Addr(in.NNN, sys.quirks)

	case OpRandom: // 0xCXKK
		cpu.rndVxByte(in.X, in.KK, sys)

	case OpDraw: // 0xDXYN
		if sys.quirks.VBlankWait && sys.drewThisFrame {
			newPC = cpu.PC // retry once the next frame has started
			break
		}
		cpu.drwVxVyNibble(mem, gfx, in.X, in.Y, in.N, sys.quirks.WrapSprites)
		sys.drewThisFrame = true

	case OpSkipPressed: // 0xEX9E
		if sys.keyDown(cpu.regs.V[in.X]) {
			newPC += 2
		}

	case OpSkipNotPressed: // 0xEXA1
		if !sys.keyDown(cpu.regs.V[in.X]) {
			newPC += 2
		}

	case OpWaitKey: // 0xFX0A
		if key, ok := sys.firstPressedKey(); ok {
			cpu.regs.V[in.X] = key
		} else {
			newPC = cpu.PC // busy-wait by re-executing
		}

	case OpLoadFromDelay: // 0xFX07
		cpu.regs.V[in.X] = cpu.regs.Delay

	case OpLoadToDelay: // 0xFX15
		cpu.regs.Delay = cpu.regs.V[in.X]

	case OpLoadToSound: // 0xFX18
		cpu.regs.Sound = cpu.regs.V[in.X]

	case OpAddIndex: // 0xFX1E, no flag
		cpu.regs.I += uint16(cpu.regs.V[in.X])

	case OpLoadSprite: // 0xFX29
		cpu.ldFVx(in.X)

	case OpStoreBCD: // 0xFX33
		err = cpu.ldBVx(mem, in.X)

	case OpStoreRegs: // 0xFX55
		err = cpu.ldIVx(mem, in.X, sys.quirks)

	case OpLoadRegs: // 0xFX65
		err = cpu.ldVxI(mem, in.X, sys.quirks)
	}
	if err != nil {
		return err
	}

	cpu.PC = newPC
	cpu.cycles++
	return nil
}

func (cpu *CPU) callAddr(addr, retAddr uint16) (uint16, error) {
	if err := cpu.stack.Push(retAddr); err != nil {
		return retAddr, err
	}
	return addr, nil
}

func (cpu *CPU) ret() (uint16, error) {
	return cpu.stack.Pop()
}

func (cpu *CPU) cls(gfx *Graphics) {
	gfx.clear()
}

func (cpu *CPU) seVxByte(x, val uint8, pc uint16) uint16 {
	if cpu.regs.V[x] == val {
		return pc + 2 // skip next
	}
	return pc
}

func (cpu *CPU) sneVxByte(x, val uint8, pc uint16) uint16 {
	if cpu.regs.V[x] != val {
		return pc + 2
	}
	return pc
}

func (cpu *CPU) seVxVy(x, y uint8, pc uint16) uint16 {
	if cpu.regs.V[x] == cpu.regs.V[y] {
		return pc + 2
	}
	return pc
}

func (cpu *CPU) sneVxVy(x, y uint8, pc uint16) uint16 {
	if cpu.regs.V[x] != cpu.regs.V[y] {
		return pc + 2
	}
	return pc
}

func (cpu *CPU) ldVxByte(x, val uint8) {
	cpu.regs.V[x] = val
}

func (cpu *CPU) addVxByte(x, val uint8) {
	cpu.regs.V[x] += val
}

func (cpu *CPU) ldVxVy(x, y uint8) {
	cpu.regs.V[x] = cpu.regs.V[y]
}

func (cpu *CPU) orVxVy(x, y uint8, quirks Quirks) {
	cpu.regs.V[x] |= cpu.regs.V[y]
	if quirks.ResetFlagOnLogic {
		cpu.setFlag(0)
	}
}

func (cpu *CPU) andVxVy(x, y uint8, quirks Quirks) {
	cpu.regs.V[x] &= cpu.regs.V[y]
	if quirks.ResetFlagOnLogic {
		cpu.setFlag(0)
	}
}

func (cpu *CPU) xorVxVy(x, y uint8, quirks Quirks) {
	cpu.regs.V[x] ^= cpu.regs.V[y]
	if quirks.ResetFlagOnLogic {
		cpu.setFlag(0)
	}
}

// setFlag writes VF. Every caller writes the flag after any other register
// write the instruction makes, so an instruction targeting VF itself still
// leaves the flag as its final value.
func (cpu *CPU) setFlag(flag uint8) {
	cpu.regs.V[RegFlag] = flag
}

func (cpu *CPU) addVxVy(x, y uint8) {
	carry := cpu.regs.V[x] > 0xFF-cpu.regs.V[y]
	cpu.regs.V[x] += cpu.regs.V[y]
	if carry {
		cpu.setFlag(1)
	} else {
		cpu.setFlag(0)
	}
}

func (cpu *CPU) subVxVy(x, y uint8) {
	borrow := cpu.regs.V[x] < cpu.regs.V[y]
	cpu.regs.V[x] -= cpu.regs.V[y]
	if borrow {
		cpu.setFlag(0) // inverted "no borrow" flag
	} else {
		cpu.setFlag(1)
	}
}

func (cpu *CPU) subnVxVy(x, y uint8) {
	borrow := cpu.regs.V[y] < cpu.regs.V[x]
	cpu.regs.V[x] = cpu.regs.V[y] - cpu.regs.V[x]
	if borrow {
		cpu.setFlag(0)
	} else {
		cpu.setFlag(1)
	}
}

func (cpu *CPU) shrVx(x, y uint8, quirks Quirks) {
	src := cpu.regs.V[x]
	if quirks.Shift {
		src = cpu.regs.V[y]
	}
	cpu.regs.V[x] = src >> 1
	cpu.setFlag(src & 0x01)
}

func (cpu *CPU) shlVx(x, y uint8, quirks Quirks) {
	src := cpu.regs.V[x]
	if quirks.Shift {
		src = cpu.regs.V[y]
	}
	cpu.regs.V[x] = src << 1
	cpu.setFlag(src >> 7)
}

func (cpu *CPU) ldIAddr(addr uint16) {
	cpu.regs.I = addr
}

func (cpu *CPU) jpV0Addr(addr uint16, quirks Quirks) uint16 {
	offset := cpu.regs.V[0]
	if quirks.JumpMasksV0 {
		offset &= 0x0F
	}
	return addr + uint16(offset)
}

func (cpu *CPU) rndVxByte(x, val uint8, sys *System) {
	cpu.regs.V[x] = uint8(sys.rng.Uint32()&0xFF) & val
}

func (cpu *CPU) drwVxVyNibble(mem *Memory, gfx *Graphics, x, y, h uint8, wrap bool) {
	cpu.setFlag(0)
	if hit := gfx.draw(mem, cpu.regs.I, cpu.regs.V[x], cpu.regs.V[y], h, wrap); hit {
		cpu.setFlag(1)
	}
}

func (cpu *CPU) ldFVx(x uint8) {
	cpu.regs.I = FontAddress + uint16(cpu.regs.V[x])*FontGlyphSize
}

func (cpu *CPU) ldBVx(mem *Memory, x uint8) error {
	val := cpu.regs.V[x]
	addr := int(cpu.regs.I)
	if err := mem.writeByte(addr, val/100); err != nil {
		return err
	}
	if err := mem.writeByte(addr+1, val/10%10); err != nil {
		return err
	}
	return mem.writeByte(addr+2, val%10)
}

func (cpu *CPU) ldIVx(mem *Memory, x uint8, quirks Quirks) error {
	for r := uint8(0); r <= x; r++ {
		if err := mem.writeByte(int(cpu.regs.I)+int(r), cpu.regs.V[r]); err != nil {
			return err
		}
	}
	if quirks.IncrementIOnLoadStore {
		cpu.regs.I += uint16(x) + 1
	}
	return nil
}

func (cpu *CPU) ldVxI(mem *Memory, x uint8, quirks Quirks) error {
	for r := uint8(0); r <= x; r++ {
		val, err := mem.readByte(int(cpu.regs.I) + int(r))
		if err != nil {
			return err
		}
		cpu.regs.V[r] = val
	}
	if quirks.IncrementIOnLoadStore {
		cpu.regs.I += uint16(x) + 1
	}
	return nil
}
