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

package sound

import (
	"github.com/andreas-jonsson/virtualgb/emulator/memory"
	"github.com/andreas-jonsson/virtualgb/emulator/processor"
)

const (
	Start = 0xFF10
	End   = 0xFF3F

	PowerRegister = 0xFF26
	waveStart     = 0xFF30
)

// Bits that always read as set, indexed from Start.
var readMasks = [waveStart - Start]byte{
	0x80, 0x3F, 0x00, 0xFF, 0xBF, // NR10-NR14
	0xFF, 0x3F, 0x00, 0xFF, 0xBF, // NR20-NR24
	0x7F, 0xFF, 0x9F, 0xFF, 0xBF, // NR30-NR34
	0xFF, 0xFF, 0x00, 0x00, 0xBF, // NR40-NR44
	0x00, 0x00, 0x70, // NR50-NR52
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
}

// Device latches the sound registers and wave RAM. There is no synthesis.
type Device struct {
	regs *memory.Latch
	on   bool
}

func (m *Device) Install(p processor.Bus) error {
	m.regs = memory.NewLatch(Start, End)
	m.Reset()
	return p.InstallMemoryDevice(m, Start, End)
}

func (m *Device) Name() string {
	return "Sound Controller"
}

func (m *Device) Reset() {
	for i := range m.regs.Mem {
		m.regs.Mem[i] = 0
	}
	m.on = true
}

func (m *Device) Step(int) {
}

func (m *Device) ReadByte(addr uint16) byte {
	switch {
	case addr >= waveStart:
		return m.regs.ReadByte(addr)
	case addr == PowerRegister:
		if m.on {
			return 0xF0
		}
		return 0x70
	}
	return m.regs.ReadByte(addr) | readMasks[addr-Start]
}

func (m *Device) WriteByte(addr uint16, data byte) {
	switch {
	case addr >= waveStart:
		m.regs.WriteByte(addr, data)
	case addr == PowerRegister:
		if m.on = data&0x80 != 0; !m.on {
			for i := range m.regs.Mem[:waveStart-Start] {
				m.regs.Mem[i] = 0
			}
		}
	case m.on:
		m.regs.WriteByte(addr, data)
	}
}
