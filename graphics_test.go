package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestGraphicsClear(t *testing.T) {
	var gfx Graphics
	gfx.buffer[0][0] = true
	gfx.buffer[31][63] = true

	gfx.clear()
	assert.False(t, gfx.getPixel(0, 0))
	assert.False(t, gfx.getPixel(63, 31))
	assert.True(t, gfx.isDirty())

	// idempotent
	before := gfx.snapshot()
	gfx.clear()
	assert.Equal(t, before, gfx.snapshot())
}

func TestGraphicsDraw(t *testing.T) {
	mem := NewMemory()
	mem[0x300] = 0b10000001
	mem[0x301] = 0b01000010

	var gfx Graphics
	hit := gfx.draw(&mem, 0x300, 0, 0, 2, false)
	assert.False(t, hit)

	assert.True(t, gfx.getPixel(0, 0))
	assert.True(t, gfx.getPixel(7, 0))
	assert.True(t, gfx.getPixel(1, 1))
	assert.True(t, gfx.getPixel(6, 1))
	assert.False(t, gfx.getPixel(1, 0))
}

func TestGraphicsDrawXorSelfInverse(t *testing.T) {
	mem := NewMemory()
	mem[0x300] = 0xFF
	mem[0x301] = 0xA5

	var gfx Graphics
	gfx.draw(&mem, 0x300, 12, 7, 2, false)
	hit := gfx.draw(&mem, 0x300, 12, 7, 2, false)

	// drawing the same sprite twice restores every touched pixel
	assert.True(t, hit)
	assert.Equal(t, Graphics{}.buffer, gfx.snapshot())
}

func TestGraphicsDrawCollision(t *testing.T) {
	mem := NewMemory()
	mem[0x300] = 0b10000000

	var gfx Graphics
	assert.False(t, gfx.draw(&mem, 0x300, 4, 4, 1, false))
	assert.True(t, gfx.draw(&mem, 0x300, 4, 4, 1, false))
	assert.False(t, gfx.getPixel(4, 4))
}

func TestGraphicsDrawOriginWraps(t *testing.T) {
	mem := NewMemory()
	mem[0x300] = 0b10000000

	var gfx Graphics
	gfx.draw(&mem, 0x300, 64, 32, 1, false)
	assert.True(t, gfx.getPixel(0, 0))
}

func TestGraphicsDrawClipsAtEdges(t *testing.T) {
	mem := NewMemory()
	mem[0x300] = 0xFF
	mem[0x301] = 0xFF

	var gfx Graphics
	hit := gfx.draw(&mem, 0x300, 60, 31, 2, false)
	assert.False(t, hit)

	// 4 pixels fit on the last row, the rest clip without wrapping
	for x := 60; x < 64; x++ {
		assert.True(t, gfx.getPixel(x, 31))
	}
	assert.False(t, gfx.getPixel(0, 31))
	assert.False(t, gfx.getPixel(0, 0))
	assert.False(t, gfx.getPixel(60, 0))
}

func TestGraphicsDrawWrapQuirk(t *testing.T) {
	mem := NewMemory()
	mem[0x300] = 0xFF
	mem[0x301] = 0xFF

	var gfx Graphics
	gfx.draw(&mem, 0x300, 60, 31, 2, true)

	assert.True(t, gfx.getPixel(60, 31))
	assert.True(t, gfx.getPixel(0, 31)) // wrapped column
	assert.True(t, gfx.getPixel(3, 31))
	assert.True(t, gfx.getPixel(60, 0)) // wrapped row
	assert.True(t, gfx.getPixel(0, 0))  // both wrapped
}

func TestGraphicsDrawPartialNearRamTop(t *testing.T) {
	mem := NewMemory()
	mem[RamSize-1] = 0x80

	var gfx Graphics
	// second row would read past ram and is dropped
	hit := gfx.draw(&mem, RamSize-1, 0, 0, 2, false)
	assert.False(t, hit)
	assert.True(t, gfx.getPixel(0, 0))
	assert.False(t, gfx.getPixel(0, 1))
}
