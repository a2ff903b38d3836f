package chip8

// StackDepth is the number of nested subroutine calls the stack can hold.
const StackDepth = 16

// Stack stores 16-bit return addresses. The pointer always references the
// next free slot, so it runs 0 through StackDepth.
type Stack struct {
	frames  [StackDepth]uint16
	pointer uint8
}

// Push stores a return address and advances the pointer. A push on a full
// stack is a StackFault.
func (st *Stack) Push(addr uint16) error {
	if st.pointer == StackDepth {
		return &StackFault{Op: "call", Pointer: st.pointer}
	}
	st.frames[st.pointer] = addr
	st.pointer++
	return nil
}

// Pop retreats the pointer and loads the return address stored there. A pop
// on an empty stack is a StackFault.
func (st *Stack) Pop() (uint16, error) {
	if st.pointer == 0 {
		return 0, &StackFault{Op: "return", Pointer: st.pointer}
	}
	st.pointer--
	return st.frames[st.pointer], nil
}

// Pointer returns the current stack pointer.
func (st *Stack) Pointer() uint8 {
	return st.pointer
}

func (st *Stack) reset() {
	for i := range st.frames {
		st.frames[i] = 0
	}
	st.pointer = 0
}
