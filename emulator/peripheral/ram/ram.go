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

package ram

import (
	"github.com/andreas-jonsson/virtualgb/emulator/processor"
)

const (
	BankSize     = 0x1000
	NumBanks     = 8
	HighSize     = 0x7F
	BankRegister = 0xFF70
)

const (
	workStart     = 0xC000
	workEnd       = 0xDFFF
	echoStart     = 0xE000
	echoEnd       = 0xFDFF
	unusableStart = 0xFEA0
	unusableEnd   = 0xFEFF
	highStart     = 0xFF80
	highEnd       = 0xFFFE
)

// Device is work RAM with its echo and the high RAM page.
// Color targets switch the upper half of work RAM through SVBK.
type Device struct {
	color bool
	bank  byte

	mem  [NumBanks * BankSize]byte
	high [HighSize]byte
}

func (m *Device) Install(p processor.Bus) error {
	m.color = p.Target() == processor.GameBoyColor
	m.Reset()

	if err := p.InstallMemoryDevice(m, workStart, echoEnd); err != nil {
		return err
	}
	if err := p.InstallMemoryDevice(m, unusableStart, unusableEnd); err != nil {
		return err
	}
	if err := p.InstallMemoryDevice(m, highStart, highEnd); err != nil {
		return err
	}
	if m.color {
		return p.InstallMemoryDeviceAt(m, BankRegister)
	}
	return nil
}

func (m *Device) Name() string {
	return "RAM"
}

func (m *Device) Reset() {
	*m = Device{color: m.color, bank: 1}
}

func (m *Device) Step(int) {
}

func (m *Device) offset(addr uint16) int {
	if addr >= echoStart {
		addr -= echoStart - workStart
	}
	if addr < workStart+BankSize {
		return int(addr - workStart)
	}
	return int(m.bank)*BankSize + int(addr-workStart-BankSize)
}

func (m *Device) ReadByte(addr uint16) byte {
	switch {
	case addr == BankRegister:
		return 0xF8 | m.bank
	case addr >= highStart:
		return m.high[addr-highStart]
	case addr >= unusableStart:
		return 0xFF
	}
	return m.mem[m.offset(addr)]
}

func (m *Device) WriteByte(addr uint16, data byte) {
	switch {
	case addr == BankRegister:
		if m.bank = data & 7; m.bank == 0 {
			m.bank = 1
		}
	case addr >= highStart:
		m.high[addr-highStart] = data
	case addr >= unusableStart:
	default:
		m.mem[m.offset(addr)] = data
	}
}
