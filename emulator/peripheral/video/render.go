/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package video

import "sort"

// DMG shades from lightest to darkest.
var shades = [4][4]byte{
	{0xE0, 0xF8, 0xD0, 0xFF},
	{0x88, 0xC0, 0x70, 0xFF},
	{0x34, 0x68, 0x56, 0xFF},
	{0x08, 0x18, 0x20, 0xFF},
}

const (
	tileMap0     = 0x1800
	tileMap1     = 0x1C00
	maxLineOBJs  = 10
	objAttrBytes = 4
)

const (
	objBehindBG = 0x80
	objFlipY    = 0x40
	objFlipX    = 0x20
	objPalette1 = 0x10
)

func applyPalette(pal, index byte) byte {
	return (pal >> (index * 2)) & 3
}

func (m *Device) setPixel(x, y int, shade byte) {
	copy(m.image[(y*Width+x)*4:], shades[shade][:])
}

func (m *Device) clear() {
	for i := 0; i < len(m.image); i += 4 {
		copy(m.image[i:], shades[0][:])
	}
}

// tileRow returns the two bit planes for one row of a tile.
func (m *Device) tileRow(tile byte, row int, signed bool) (byte, byte) {
	addr := int(tile) * 16
	if signed {
		addr = 0x1000 + int(int8(tile))*16
	}
	addr += row * 2
	return m.vram[0][addr], m.vram[0][addr+1]
}

func pixelIndex(lo, hi byte, bit uint) byte {
	return (lo>>bit)&1 | ((hi>>bit)&1)<<1
}

func (m *Device) mapPixel(base int, x, y byte) byte {
	tile := m.vram[0][base+int(y/8)*32+int(x/8)]
	lo, hi := m.tileRow(tile, int(y%8), m.lcdc&tileData == 0)
	return pixelIndex(lo, hi, uint(7-x%8))
}

func (m *Device) renderLine() {
	line := int(m.ly)
	if line >= Height {
		return
	}

	var bgIndex [Width]byte
	m.renderBackground(line, &bgIndex)
	if m.lcdc&objEnable != 0 {
		m.renderObjects(line, &bgIndex)
	}
}

func (m *Device) renderBackground(line int, bgIndex *[Width]byte) {
	if m.lcdc&bgEnable == 0 {
		for x := 0; x < Width; x++ {
			m.setPixel(x, line, 0)
		}
		return
	}

	base := tileMap0
	if m.lcdc&bgTileMap != 0 {
		base = tileMap1
	}

	y := byte(line) + m.scy
	for x := 0; x < Width; x++ {
		idx := m.mapPixel(base, byte(x)+m.scx, y)
		bgIndex[x] = idx
		m.setPixel(x, line, applyPalette(m.bgp, idx))
	}

	if m.lcdc&windowEnable == 0 || int(m.wy) > line || m.wx > 166 {
		return
	}

	base = tileMap0
	if m.lcdc&windowTileMap != 0 {
		base = tileMap1
	}

	start := int(m.wx) - 7
	x := 0
	if start > 0 {
		x = start
	}
	for ; x < Width; x++ {
		idx := m.mapPixel(base, byte(x-start), byte(m.windowLine))
		bgIndex[x] = idx
		m.setPixel(x, line, applyPalette(m.bgp, idx))
	}
	m.windowLine++
}

type object struct {
	y, x       int
	tile, attr byte
}

func (m *Device) lineObjects(line, height int) []object {
	objs := make([]object, 0, maxLineOBJs)
	for i := 0; i < len(m.oam) && len(objs) < maxLineOBJs; i += objAttrBytes {
		obj := object{
			y:    int(m.oam[i]) - 16,
			x:    int(m.oam[i+1]) - 8,
			tile: m.oam[i+2],
			attr: m.oam[i+3],
		}
		if line >= obj.y && line < obj.y+height {
			objs = append(objs, obj)
		}
	}

	// Lower X wins. Ties go to the object first in OAM.
	sort.SliceStable(objs, func(i, j int) bool { return objs[i].x < objs[j].x })
	return objs
}

func (m *Device) renderObjects(line int, bgIndex *[Width]byte) {
	height := 8
	if m.lcdc&objTall != 0 {
		height = 16
	}

	objs := m.lineObjects(line, height)
	for i := len(objs) - 1; i >= 0; i-- {
		obj := objs[i]

		row := line - obj.y
		if obj.attr&objFlipY != 0 {
			row = height - 1 - row
		}

		tile := obj.tile
		if height == 16 {
			tile &= 0xFE
		}
		lo, hi := m.tileRow(tile, row, false)

		pal := m.obp0
		if obj.attr&objPalette1 != 0 {
			pal = m.obp1
		}

		for px := 0; px < 8; px++ {
			x := obj.x + px
			if x < 0 || x >= Width {
				continue
			}

			bit := uint(7 - px)
			if obj.attr&objFlipX != 0 {
				bit = uint(px)
			}

			idx := pixelIndex(lo, hi, bit)
			if idx == 0 || (obj.attr&objBehindBG != 0 && bgIndex[x] != 0) {
				continue
			}
			m.setPixel(x, line, applyPalette(pal, idx))
		}
	}
}
