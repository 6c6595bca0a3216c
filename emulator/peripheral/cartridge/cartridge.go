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

import (
	"io"
	"io/ioutil"
	"log"

	"github.com/andreas-jonsson/virtualgb/emulator/processor"
)

const (
	romStart = 0x0000
	romEnd   = 0x7FFF
	ramStart = 0xA000
	ramEnd   = 0xBFFF
)

// Device maps the cartridge ROM and its volatile external RAM.
type Device struct {
	RomName string
	Reader  io.Reader

	header     Header
	rom, ram   []byte
	controller controller
}

func (m *Device) Install(p processor.Bus) error {
	var err error
	if m.rom, err = ioutil.ReadAll(m.Reader); err != nil {
		return err
	}
	if m.header, err = ParseHeader(m.rom); err != nil {
		return err
	}
	if m.controller, err = newController(m.header.Type); err != nil {
		return err
	}
	if m.RomName == "" {
		m.RomName = m.header.Title
	}
	if !ChecksumValid(m.rom) {
		log.Printf("Invalid header checksum: %s", m.RomName)
	}

	m.ram = make([]byte, m.header.RAMSize)
	log.Printf("Cartridge: %s (%s, %dKB ROM, %dKB RAM)", m.RomName, controllerName(m.controller), len(m.rom)/1024, len(m.ram)/1024)

	if err := p.InstallMemoryDevice(m, romStart, romEnd); err != nil {
		return err
	}
	return p.InstallMemoryDevice(m, ramStart, ramEnd)
}

func (m *Device) Name() string {
	return "Cartridge"
}

func (m *Device) Header() Header {
	return m.header
}

func (m *Device) Reset() {
	m.controller, _ = newController(m.header.Type)
	for i := range m.ram {
		m.ram[i] = 0
	}
}

func (m *Device) Step(ticks int) {
	if s, ok := m.controller.(stepper); ok {
		s.step(ticks)
	}
}

func (m *Device) ramOffset(addr uint16) (int, bool) {
	if len(m.ram) == 0 || !m.controller.ramEnabled() {
		return 0, false
	}
	offset := m.controller.ramBank()*ramBankSize + int(addr-ramStart)
	return offset % len(m.ram), true
}

func (m *Device) ReadByte(addr uint16) byte {
	if addr <= romEnd {
		numBanks := (len(m.rom) + romBankSize - 1) / romBankSize
		bank := m.controller.romBank(addr) % numBanks
		if offset := bank*romBankSize + int(addr%romBankSize); offset < len(m.rom) {
			return m.rom[offset]
		}
		return 0xFF
	}
	if r, ok := m.controller.(registerFile); ok {
		if v, ok := r.readRegister(); ok {
			return v
		}
	}
	if offset, ok := m.ramOffset(addr); ok {
		return m.ram[offset]
	}
	return 0xFF
}

func (m *Device) WriteByte(addr uint16, data byte) {
	if addr <= romEnd {
		m.controller.write(addr, data)
		return
	}
	if r, ok := m.controller.(registerFile); ok && r.writeRegister(data) {
		return
	}
	if offset, ok := m.ramOffset(addr); ok {
		m.ram[offset] = data
	}
}
