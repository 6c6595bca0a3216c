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

package cpu

import (
	"github.com/andreas-jonsson/virtualgb/emulator/processor"
	"github.com/andreas-jonsson/virtualgb/emulator/processor/validator"
)

// Operand encoding used by the instruction set: B, C, D, E, H, L, (HL), A.
const indirectHL = 6

func (p *CPU) bump() uint16 {
	pc := p.PC
	p.PC++
	return pc
}

func (p *CPU) readByte(bus processor.Bus, addr uint16) byte {
	v := bus.ReadByte(addr)
	validator.ReadByte(addr, v)
	return v
}

func (p *CPU) writeByte(bus processor.Bus, addr uint16, data byte) {
	validator.WriteByte(addr, data)
	bus.WriteByte(addr, data)
}

func (p *CPU) readWord(bus processor.Bus, addr uint16) uint16 {
	return uint16(p.readByte(bus, addr)) | uint16(p.readByte(bus, addr+1))<<8
}

func (p *CPU) writeWord(bus processor.Bus, addr, data uint16) {
	p.writeByte(bus, addr, byte(data))
	p.writeByte(bus, addr+1, byte(data>>8))
}

func (p *CPU) readImm8(bus processor.Bus) byte {
	return p.readByte(bus, p.bump())
}

func (p *CPU) readImm16(bus processor.Bus) uint16 {
	lo := p.readImm8(bus)
	return uint16(p.readImm8(bus))<<8 | uint16(lo)
}

func (p *CPU) push16(bus processor.Bus, v uint16) {
	p.SP--
	p.writeByte(bus, p.SP, byte(v>>8))
	p.SP--
	p.writeByte(bus, p.SP, byte(v))
}

func (p *CPU) pop16(bus processor.Bus) uint16 {
	lo := p.readByte(bus, p.SP)
	p.SP++
	hi := p.readByte(bus, p.SP)
	p.SP++
	return uint16(hi)<<8 | uint16(lo)
}

func (p *CPU) getReg8(bus processor.Bus, idx byte) byte {
	switch idx & 7 {
	case 0:
		return p.B()
	case 1:
		return p.C()
	case 2:
		return p.D()
	case 3:
		return p.E()
	case 4:
		return p.H()
	case 5:
		return p.L()
	case indirectHL:
		return p.readByte(bus, p.HL())
	default:
		return p.A()
	}
}

func (p *CPU) setReg8(bus processor.Bus, idx, v byte) {
	switch idx & 7 {
	case 0:
		p.SetB(v)
	case 1:
		p.SetC(v)
	case 2:
		p.SetD(v)
	case 3:
		p.SetE(v)
	case 4:
		p.SetH(v)
	case 5:
		p.SetL(v)
	case indirectHL:
		p.writeByte(bus, p.HL(), v)
	default:
		p.SetA(v)
	}
}

// getReg16 and setReg16 decode BC, DE, HL, SP.
func (p *CPU) getReg16(idx byte) uint16 {
	switch idx & 3 {
	case 0:
		return p.BC()
	case 1:
		return p.DE()
	case 2:
		return p.HL()
	default:
		return p.SP
	}
}

func (p *CPU) setReg16(idx byte, v uint16) {
	switch idx & 3 {
	case 0:
		p.SetBC(v)
	case 1:
		p.SetDE(v)
	case 2:
		p.SetHL(v)
	default:
		p.SP = v
	}
}

// getStack16 and setStack16 decode BC, DE, HL, AF.
func (p *CPU) getStack16(idx byte) uint16 {
	if idx&3 == 3 {
		return p.AF()
	}
	return p.getReg16(idx)
}

func (p *CPU) setStack16(idx byte, v uint16) {
	if idx&3 == 3 {
		p.SetAF(v)
		return
	}
	p.setReg16(idx, v)
}

// condition decodes NZ, Z, NC, C.
func (p *CPU) condition(idx byte) bool {
	switch idx & 3 {
	case 0:
		return !p.GetBool(processor.Zero)
	case 1:
		return p.GetBool(processor.Zero)
	case 2:
		return !p.GetBool(processor.Carry)
	default:
		return p.GetBool(processor.Carry)
	}
}

func (p *CPU) setFlags(z, n, h, c bool) {
	var f processor.Flags
	f.SetBool(processor.Zero, z)
	f.SetBool(processor.Subtract, n)
	f.SetBool(processor.HalfCarry, h)
	f.SetBool(processor.Carry, c)
	p.Flags = f
}

func (p *CPU) carry() byte {
	if p.GetBool(processor.Carry) {
		return 1
	}
	return 0
}
