package chip8

const (
	// GfxWidth is the display width in pixels.
	GfxWidth = 64
	// GfxHeight is the display height in pixels.
	GfxHeight = 32
)

// Graphics is the monochrome framebuffer. The engine has exclusive mutable
// access; renderers read it between cycles via getPixel or snapshot.
type Graphics struct {
	buffer [GfxHeight][GfxWidth]bool
	dirty  bool
}

func (gfx *Graphics) isDirty() bool {
	return gfx.dirty
}

func (gfx *Graphics) setDirty(dirty bool) {
	gfx.dirty = dirty
}

func (gfx *Graphics) clear() {
	for y := range gfx.buffer {
		for x := range gfx.buffer[y] {
			gfx.buffer[y][x] = false
		}
	}
	gfx.dirty = true
}

func (gfx *Graphics) getPixel(x, y int) bool {
	if x < 0 || x >= GfxWidth || y < 0 || y >= GfxHeight {
		return false
	}
	return gfx.buffer[y][x]
}

func (gfx *Graphics) snapshot() [GfxHeight][GfxWidth]bool {
	return gfx.buffer
}

// draw XOR-blits an 8-pixel-wide, h-pixel-tall sprite read from mem at
// index i. The origin wraps around the display; individual pixels clip
// unless wrap is set. Sprite rows whose source address leaves ram abort
// the remaining rows. Returns true if any lit pixel was turned off.
func (gfx *Graphics) draw(mem *Memory, i uint16, x, y, h uint8, wrap bool) bool {
	hit := false
	startX := int(x) % GfxWidth
	startY := int(y) % GfxHeight

	for row := 0; row < int(h); row++ {
		addr := int(i) + row
		if addr >= RamSize {
			break // partial draw
		}
		sprite := mem[addr]

		for col := 0; col < 8; col++ {
			if sprite>>(7-col)&1 == 0 {
				continue
			}
			px := startX + col
			py := startY + row
			if wrap {
				px %= GfxWidth
				py %= GfxHeight
			} else if px >= GfxWidth || py >= GfxHeight {
				continue
			}
			if gfx.buffer[py][px] {
				hit = true
			}
			gfx.buffer[py][px] = !gfx.buffer[py][px]
		}
	}

	gfx.dirty = true
	return hit
}
