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

package cartridge

import "fmt"

const (
	romBankSize = 0x4000
	ramBankSize = 0x2000
)

type controller interface {
	romBank(addr uint16) int
	ramBank() int
	ramEnabled() bool
	write(addr uint16, data byte)
}

// registerFile is implemented by controllers that can map registers over
// the external RAM window.
type registerFile interface {
	readRegister() (byte, bool)
	writeRegister(data byte) bool
}

// stepper is implemented by controllers that keep time in clock ticks.
type stepper interface {
	step(ticks int)
}

func newController(kind byte) (controller, error) {
	switch kind {
	case 0x00, 0x08, 0x09:
		return &romOnly{}, nil
	case 0x01, 0x02, 0x03:
		return &mbc1{low: 1}, nil
	case 0x0F, 0x10:
		return &mbc3{bank: 1, hasClock: true}, nil
	case 0x11, 0x12, 0x13:
		return &mbc3{bank: 1}, nil
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return &mbc5{bank: 1}, nil
	}
	return nil, fmt.Errorf("unsupported cartridge type: 0x%X", kind)
}

func controllerName(c controller) string {
	switch c.(type) {
	case *mbc1:
		return "MBC1"
	case *mbc3:
		return "MBC3"
	case *mbc5:
		return "MBC5"
	}
	return "ROM"
}

type romOnly struct{}

func (*romOnly) romBank(addr uint16) int {
	return int(addr / romBankSize)
}

func (*romOnly) ramBank() int       { return 0 }
func (*romOnly) ramEnabled() bool   { return true }
func (*romOnly) write(uint16, byte) {}

type mbc1 struct {
	enabled   bool
	low, high byte
	mode      byte
}

func (m *mbc1) romBank(addr uint16) int {
	if addr < romBankSize {
		if m.mode == 1 {
			return int(m.high) << 5
		}
		return 0
	}
	return int(m.high)<<5 | int(m.low)
}

func (m *mbc1) ramBank() int {
	if m.mode == 1 {
		return int(m.high)
	}
	return 0
}

func (m *mbc1) ramEnabled() bool {
	return m.enabled
}

func (m *mbc1) write(addr uint16, data byte) {
	switch addr >> 13 {
	case 0:
		m.enabled = data&0xF == 0xA
	case 1:
		if m.low = data & 0x1F; m.low == 0 {
			m.low = 1
		}
	case 2:
		m.high = data & 3
	case 3:
		m.mode = data & 1
	}
}

// mbc3 selects the clock registers with RAM bank values 0x08-0x0C.
// Without a clock they read as 0xFF like disabled RAM.
type mbc3 struct {
	enabled bool
	bank    byte
	ram     byte

	hasClock bool
	clock    rtc
}

func (m *mbc3) romBank(addr uint16) int {
	if addr < romBankSize {
		return 0
	}
	return int(m.bank)
}

func (m *mbc3) ramBank() int {
	return int(m.ram)
}

func (m *mbc3) ramEnabled() bool {
	return m.enabled && m.ram < 4
}

func (m *mbc3) write(addr uint16, data byte) {
	switch addr >> 13 {
	case 0:
		m.enabled = data&0xF == 0xA
	case 1:
		if m.bank = data & 0x7F; m.bank == 0 {
			m.bank = 1
		}
	case 2:
		m.ram = data & 0xF
	case 3:
		m.clock.latch(data)
	}
}

func (m *mbc3) clockSelected() bool {
	return m.hasClock && m.enabled && m.ram >= rtcSeconds && m.ram <= rtcDaysHigh
}

func (m *mbc3) readRegister() (byte, bool) {
	if !m.clockSelected() {
		return 0, false
	}
	return m.clock.latched[m.ram-rtcSeconds], true
}

func (m *mbc3) writeRegister(data byte) bool {
	if !m.clockSelected() {
		return false
	}
	m.clock.set(m.ram, data)
	return true
}

func (m *mbc3) step(ticks int) {
	if m.hasClock {
		m.clock.step(ticks)
	}
}

type mbc5 struct {
	enabled bool
	bank    uint16
	ram     byte
}

func (m *mbc5) romBank(addr uint16) int {
	if addr < romBankSize {
		return 0
	}
	return int(m.bank)
}

func (m *mbc5) ramBank() int {
	return int(m.ram)
}

func (m *mbc5) ramEnabled() bool {
	return m.enabled
}

func (m *mbc5) write(addr uint16, data byte) {
	switch {
	case addr < 0x2000:
		m.enabled = data&0xF == 0xA
	case addr < 0x3000:
		m.bank = m.bank&0x100 | uint16(data)
	case addr < 0x4000:
		m.bank = m.bank&0xFF | uint16(data&1)<<8
	case addr < 0x6000:
		m.ram = data & 0xF
	}
}
