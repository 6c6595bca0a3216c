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

package dma

import (
	"github.com/andreas-jonsson/virtualgb/emulator/processor"
)

const (
	OAMRegister = 0xFF46

	SourceHigh = 0xFF51
	SourceLow  = 0xFF52
	DestHigh   = 0xFF53
	DestLow    = 0xFF54
	Control    = 0xFF55
)

const (
	oamBase = 0xFE00
	oamSize = 0xA0
)

// Device implements OAM DMA and, on color targets, VRAM DMA.
// Transfers complete immediately.
type Device struct {
	bus   processor.Bus
	color bool

	last     byte
	src, dst uint16
}

func (m *Device) Install(p processor.Bus) error {
	m.bus = p
	m.color = p.Target() == processor.GameBoyColor
	if err := p.InstallMemoryDeviceAt(m, OAMRegister); err != nil {
		return err
	}
	if m.color {
		return p.InstallMemoryDevice(m, SourceHigh, Control)
	}
	return nil
}

func (m *Device) Name() string {
	return "DMA Controller"
}

func (m *Device) Reset() {
	*m = Device{bus: m.bus, color: m.color}
}

func (m *Device) Step(int) {
}

func (m *Device) copy(src, dst uint16, n int) {
	for i := 0; i < n; i++ {
		m.bus.WriteByte(dst+uint16(i), m.bus.ReadByte(src+uint16(i)))
	}
}

func (m *Device) ReadByte(addr uint16) byte {
	switch addr {
	case OAMRegister:
		return m.last
	case Control:
		return 0xFF
	}
	return 0xFF
}

func (m *Device) WriteByte(addr uint16, data byte) {
	switch addr {
	case OAMRegister:
		m.last = data
		m.copy(uint16(data)<<8, oamBase, oamSize)
	case SourceHigh:
		m.src = m.src&0xFF | uint16(data)<<8
	case SourceLow:
		m.src = m.src&0xFF00 | uint16(data&0xF0)
	case DestHigh:
		m.dst = m.dst&0xFF | uint16(data&0x1F)<<8
	case DestLow:
		m.dst = m.dst&0xFF00 | uint16(data&0xF0)
	case Control:
		n := (int(data&0x7F) + 1) * 16
		m.copy(m.src, 0x8000|m.dst, n)
		m.src += uint16(n)
		m.dst = (m.dst + uint16(n)) & 0x1FFF
	}
}
