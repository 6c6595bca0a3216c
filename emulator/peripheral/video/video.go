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

import (
	"github.com/andreas-jonsson/virtualgb/emulator/processor"
)

const (
	Width  = 160
	Height = 144

	TicksPerLine  = 456
	LinesPerFrame = 154
	VBlankLine    = Height

	oamTicks      = 80
	transferTicks = 172
	hblankTicks   = TicksPerLine - oamTicks - transferTicks
)

const (
	ControlRegister     = 0xFF40
	StatusRegister      = 0xFF41
	ScrollYRegister     = 0xFF42
	ScrollXRegister     = 0xFF43
	LineRegister        = 0xFF44
	LineCompareRegister = 0xFF45
	BGPaletteRegister   = 0xFF47
	OBJ0PaletteRegister = 0xFF48
	OBJ1PaletteRegister = 0xFF49
	WindowYRegister     = 0xFF4A
	WindowXRegister     = 0xFF4B
	BankRegister        = 0xFF4F

	BGPaletteIndex  = 0xFF68
	BGPaletteData   = 0xFF69
	OBJPaletteIndex = 0xFF6A
	OBJPaletteData  = 0xFF6B
)

const (
	vramStart = 0x8000
	vramEnd   = 0x9FFF
	oamStart  = 0xFE00
	oamEnd    = 0xFE9F
)

type Mode byte

const (
	HBlank Mode = iota
	VBlank
	OAMScan
	Transfer
)

// LCDC bits.
const (
	bgEnable = 1 << iota
	objEnable
	objTall
	bgTileMap
	tileData
	windowEnable
	windowTileMap
	lcdEnable
)

// STAT interrupt sources.
const (
	hblankIRQ  = 0x08
	vblankIRQ  = 0x10
	oamIRQ     = 0x20
	compareIRQ = 0x40
)

type palette struct {
	index byte
	data  [64]byte
}

func (p *palette) read() byte {
	return p.data[p.index&0x3F]
}

func (p *palette) write(v byte) {
	p.data[p.index&0x3F] = v
	if p.index&0x80 != 0 {
		p.index = 0x80 | (p.index+1)&0x3F
	}
}

type Device struct {
	pic   processor.InterruptController
	color bool

	vram     [2][0x2000]byte
	vramBank byte
	oam      [0xA0]byte

	lcdc, stat, scy, scx, ly, lyc,
	bgp, obp0, obp1, wy, wx byte

	bgPalette, objPalette palette

	mode       Mode
	clock      int
	windowLine int
	frames     uint64

	image []byte
}

func (m *Device) Install(p processor.Bus) error {
	m.pic = p.GetInterruptController()
	m.color = p.Target() == processor.GameBoyColor
	m.image = make([]byte, Width*Height*4)
	m.Reset()

	if err := p.InstallMemoryDevice(m, vramStart, vramEnd); err != nil {
		return err
	}
	if err := p.InstallMemoryDevice(m, oamStart, oamEnd); err != nil {
		return err
	}
	if err := p.InstallMemoryDevice(m, ControlRegister, WindowXRegister); err != nil {
		return err
	}
	return p.InstallMemoryDeviceAt(m, BankRegister, BGPaletteIndex, BGPaletteData, OBJPaletteIndex, OBJPaletteData)
}

func (m *Device) Name() string {
	return "Display Controller"
}

func (m *Device) Reset() {
	*m = Device{
		pic:   m.pic,
		color: m.color,
		image: m.image,
		lcdc:  0x91,
		bgp:   0xFC,
		obp0:  0xFF,
		obp1:  0xFF,
		mode:  OAMScan,
	}
	m.clear()
}

// Image returns the RGBA frame buffer.
func (m *Device) Image() []byte {
	return m.image
}

func (m *Device) Mode() Mode {
	return m.mode
}

// Frames returns the number of vertical blanks since reset.
func (m *Device) Frames() uint64 {
	return m.frames
}

func (m *Device) Step(ticks int) {
	if m.lcdc&lcdEnable == 0 {
		return
	}

	for m.clock += ticks; ; {
		switch m.mode {
		case OAMScan:
			if m.clock < oamTicks {
				return
			}
			m.clock -= oamTicks
			m.setMode(Transfer)
		case Transfer:
			if m.clock < transferTicks {
				return
			}
			m.clock -= transferTicks
			m.renderLine()
			m.setMode(HBlank)
		case HBlank:
			if m.clock < hblankTicks {
				return
			}
			m.clock -= hblankTicks
			if m.setLine(m.ly + 1); m.ly == VBlankLine {
				m.setMode(VBlank)
				m.frames++
				m.pic.IRQ(processor.VBlank)
			} else {
				m.setMode(OAMScan)
			}
		case VBlank:
			if m.clock < TicksPerLine {
				return
			}
			m.clock -= TicksPerLine
			if m.ly == LinesPerFrame-1 {
				m.windowLine = 0
				m.setLine(0)
				m.setMode(OAMScan)
			} else {
				m.setLine(m.ly + 1)
			}
		}
	}
}

func (m *Device) setMode(mode Mode) {
	m.mode = mode

	var irq bool
	switch mode {
	case HBlank:
		irq = m.stat&hblankIRQ != 0
	case VBlank:
		irq = m.stat&vblankIRQ != 0
	case OAMScan:
		irq = m.stat&oamIRQ != 0
	}
	if irq {
		m.pic.IRQ(processor.LCDStat)
	}
}

func (m *Device) setLine(ly byte) {
	m.ly = ly
	if m.ly == m.lyc && m.stat&compareIRQ != 0 {
		m.pic.IRQ(processor.LCDStat)
	}
}

func (m *Device) setControl(v byte) {
	on := v&lcdEnable != 0
	if was := m.lcdc&lcdEnable != 0; on && !was {
		m.clock = 0
		m.windowLine = 0
		m.setLine(0)
		m.mode = OAMScan
	} else if !on && was {
		m.clock = 0
		m.ly = 0
		m.mode = HBlank
		m.clear()
	}
	m.lcdc = v
}

func (m *Device) ReadByte(addr uint16) byte {
	switch {
	case addr >= vramStart && addr <= vramEnd:
		return m.vram[m.vramBank][addr-vramStart]
	case addr >= oamStart && addr <= oamEnd:
		return m.oam[addr-oamStart]
	}

	switch addr {
	case ControlRegister:
		return m.lcdc
	case StatusRegister:
		v := 0x80 | m.stat | byte(m.mode)
		if m.ly == m.lyc {
			v |= 4
		}
		return v
	case ScrollYRegister:
		return m.scy
	case ScrollXRegister:
		return m.scx
	case LineRegister:
		return m.ly
	case LineCompareRegister:
		return m.lyc
	case BGPaletteRegister:
		return m.bgp
	case OBJ0PaletteRegister:
		return m.obp0
	case OBJ1PaletteRegister:
		return m.obp1
	case WindowYRegister:
		return m.wy
	case WindowXRegister:
		return m.wx
	case BankRegister:
		return 0xFE | m.vramBank
	case BGPaletteIndex:
		return m.bgPalette.index | 0x40
	case BGPaletteData:
		return m.bgPalette.read()
	case OBJPaletteIndex:
		return m.objPalette.index | 0x40
	case OBJPaletteData:
		return m.objPalette.read()
	}
	return 0xFF
}

func (m *Device) WriteByte(addr uint16, data byte) {
	switch {
	case addr >= vramStart && addr <= vramEnd:
		m.vram[m.vramBank][addr-vramStart] = data
		return
	case addr >= oamStart && addr <= oamEnd:
		m.oam[addr-oamStart] = data
		return
	}

	switch addr {
	case ControlRegister:
		m.setControl(data)
	case StatusRegister:
		m.stat = data & 0x78
	case ScrollYRegister:
		m.scy = data
	case ScrollXRegister:
		m.scx = data
	case LineCompareRegister:
		m.lyc = data
	case BGPaletteRegister:
		m.bgp = data
	case OBJ0PaletteRegister:
		m.obp0 = data
	case OBJ1PaletteRegister:
		m.obp1 = data
	case WindowYRegister:
		m.wy = data
	case WindowXRegister:
		m.wx = data
	case BankRegister:
		if m.color {
			m.vramBank = data & 1
		}
	case BGPaletteIndex:
		m.bgPalette.index = data & 0xBF
	case BGPaletteData:
		m.bgPalette.write(data)
	case OBJPaletteIndex:
		m.objPalette.index = data & 0xBF
	case OBJPaletteData:
		m.objPalette.write(data)
	}
}
