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

package pic

import (
	"github.com/andreas-jonsson/virtualgb/emulator/debug"
	"github.com/andreas-jonsson/virtualgb/emulator/processor"
)

const (
	FlagRegister   = 0xFF0F
	EnableRegister = 0xFFFF
)

// Device owns the interrupt flag (IF) and interrupt enable (IE) registers.
// Peripherals can only raise sources, the CPU takes them one at a time.
type Device struct {
	requestReg, enableReg processor.Interrupt
}

func (m *Device) Install(p processor.Bus) error {
	return p.InstallMemoryDeviceAt(m, FlagRegister, EnableRegister)
}

func (m *Device) Name() string {
	return "Interrupt Controller"
}

func (m *Device) Reset() {
	*m = Device{}
}

func (m *Device) Step(int) {
}

func (m *Device) IRQ(i processor.Interrupt) {
	debug.Assert(i.Single(), "invalid interrupt request: 0x%X", byte(i))
	m.requestReg.Set(i)
}

func (m *Device) Peek() processor.Interrupt {
	return (m.requestReg & m.enableReg).Highest()
}

func (m *Device) Take() processor.Interrupt {
	i := m.Peek()
	m.requestReg.Clear(i)
	return i
}

func (m *Device) Requested() processor.Interrupt {
	return m.requestReg
}

func (m *Device) Enabled() processor.Interrupt {
	return m.enableReg
}

func (m *Device) ReadByte(addr uint16) byte {
	switch addr {
	case FlagRegister:
		return 0xE0 | byte(m.requestReg&processor.AllInterrupts)
	case EnableRegister:
		return byte(m.enableReg)
	}
	return 0xFF
}

func (m *Device) WriteByte(addr uint16, data byte) {
	switch addr {
	case FlagRegister:
		m.requestReg = processor.Interrupt(data) & processor.AllInterrupts
	case EnableRegister:
		m.enableReg = processor.Interrupt(data)
	}
}
