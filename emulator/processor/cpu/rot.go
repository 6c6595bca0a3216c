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

import "github.com/andreas-jonsson/virtualgb/emulator/processor"

func (p *CPU) rotRLC(v byte) byte {
	c := v >> 7
	v = v<<1 | c
	p.setFlags(v == 0, false, false, c != 0)
	return v
}

func (p *CPU) rotRRC(v byte) byte {
	c := v & 1
	v = v>>1 | c<<7
	p.setFlags(v == 0, false, false, c != 0)
	return v
}

func (p *CPU) rotRL(v byte) byte {
	c := v >> 7
	v = v<<1 | p.carry()
	p.setFlags(v == 0, false, false, c != 0)
	return v
}

func (p *CPU) rotRR(v byte) byte {
	c := v & 1
	v = v>>1 | p.carry()<<7
	p.setFlags(v == 0, false, false, c != 0)
	return v
}

func (p *CPU) rotSLA(v byte) byte {
	c := v >> 7
	v <<= 1
	p.setFlags(v == 0, false, false, c != 0)
	return v
}

func (p *CPU) rotSRA(v byte) byte {
	c := v & 1
	v = v>>1 | v&0x80
	p.setFlags(v == 0, false, false, c != 0)
	return v
}

func (p *CPU) rotSWAP(v byte) byte {
	v = v<<4 | v>>4
	p.setFlags(v == 0, false, false, false)
	return v
}

func (p *CPU) rotSRL(v byte) byte {
	c := v & 1
	v >>= 1
	p.setFlags(v == 0, false, false, c != 0)
	return v
}

// rotateA implements RLCA, RRCA, RLA and RRA. Unlike the prefixed forms
// the zero flag is always cleared.
func (p *CPU) rotateA(op byte) {
	a := p.A()
	switch op {
	case 0x07:
		a = p.rotRLC(a)
	case 0x0F:
		a = p.rotRRC(a)
	case 0x17:
		a = p.rotRL(a)
	case 0x1F:
		a = p.rotRR(a)
	}
	p.SetA(a)
	p.Clear(processor.Zero)
}

func (p *CPU) shift(op, v byte) byte {
	switch op & 7 {
	case 0:
		return p.rotRLC(v)
	case 1:
		return p.rotRRC(v)
	case 2:
		return p.rotRL(v)
	case 3:
		return p.rotRR(v)
	case 4:
		return p.rotSLA(v)
	case 5:
		return p.rotSRA(v)
	case 6:
		return p.rotSWAP(v)
	default:
		return p.rotSRL(v)
	}
}

// executeCB runs a 0xCB prefixed instruction. The returned cost includes the prefix.
func (p *CPU) executeCB(bus processor.Bus) uint {
	op := p.readImm8(bus)
	reg := op & 7
	bit := (op >> 3) & 7
	v := p.getReg8(bus, reg)

	switch op >> 6 {
	case 0:
		p.setReg8(bus, reg, p.shift(bit, v))
	case 1: // BIT
		p.SetBool(processor.Zero, v&(1<<bit) == 0)
		p.Clear(processor.Subtract)
		p.Set(processor.HalfCarry)
		if reg == indirectHL {
			return 3
		}
		return 2
	case 2: // RES
		p.setReg8(bus, reg, v&^(1<<bit))
	case 3: // SET
		p.setReg8(bus, reg, v|1<<bit)
	}

	if reg == indirectHL {
		return 4
	}
	return 2
}
