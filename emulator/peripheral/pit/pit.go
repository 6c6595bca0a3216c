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

package pit

import (
	"github.com/andreas-jonsson/virtualgb/emulator/processor"
)

const (
	DividerRegister = 0xFF04
	CounterRegister = 0xFF05
	ModuloRegister  = 0xFF06
	ControlRegister = 0xFF07
)

// Input clock periods in CPU clocks, indexed by the low bits of TAC.
var periods = [4]int{1024, 16, 64, 256}

type Device struct {
	bus processor.Bus
	pic processor.InterruptController

	div            uint16
	clock          int
	tima, tma, tac byte
}

func (m *Device) Install(p processor.Bus) error {
	m.bus = p
	m.pic = p.GetInterruptController()
	return p.InstallMemoryDevice(m, DividerRegister, ControlRegister)
}

func (m *Device) Name() string {
	return "Timer"
}

func (m *Device) Reset() {
	*m = Device{bus: m.bus, pic: m.pic}
}

func (m *Device) Step(ticks int) {
	// The timer is clocked by the CPU so it runs twice as fast in double speed.
	if m.bus.Speed() == processor.Double {
		ticks *= 2
	}
	m.div += uint16(ticks)

	if m.tac&4 == 0 {
		return
	}

	period := periods[m.tac&3]
	for m.clock += ticks; m.clock >= period; m.clock -= period {
		if m.tima++; m.tima == 0 {
			m.tima = m.tma
			m.pic.IRQ(processor.Timer)
		}
	}
}

func (m *Device) ReadByte(addr uint16) byte {
	switch addr {
	case DividerRegister:
		return byte(m.div >> 8)
	case CounterRegister:
		return m.tima
	case ModuloRegister:
		return m.tma
	case ControlRegister:
		return 0xF8 | m.tac
	}
	return 0xFF
}

func (m *Device) WriteByte(addr uint16, data byte) {
	switch addr {
	case DividerRegister:
		m.div = 0
		m.clock = 0
	case CounterRegister:
		m.tima = data
	case ModuloRegister:
		m.tma = data
	case ControlRegister:
		if data&3 != m.tac&3 {
			m.clock = 0
		}
		m.tac = data & 7
	}
}
