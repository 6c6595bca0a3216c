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
	"github.com/andreas-jonsson/virtualgb/emulator/debug"
	"github.com/andreas-jonsson/virtualgb/emulator/processor"
	"github.com/andreas-jonsson/virtualgb/emulator/processor/validator"
)

func (p *CPU) add8(v, c byte) {
	a := p.A()
	r := uint16(a) + uint16(v) + uint16(c)
	p.setFlags(byte(r) == 0, false, (a&0xF)+(v&0xF)+c > 0xF, r > 0xFF)
	p.SetA(byte(r))
}

func (p *CPU) sub8(v, c byte) byte {
	a := p.A()
	r := int(a) - int(v) - int(c)
	p.setFlags(byte(r) == 0, true, int(a&0xF)-int(v&0xF)-int(c) < 0, r < 0)
	return byte(r)
}

func (p *CPU) alu(op, v byte) {
	switch op & 7 {
	case 0: // ADD
		p.add8(v, 0)
	case 1: // ADC
		p.add8(v, p.carry())
	case 2: // SUB
		p.SetA(p.sub8(v, 0))
	case 3: // SBC
		p.SetA(p.sub8(v, p.carry()))
	case 4: // AND
		a := p.A() & v
		p.setFlags(a == 0, false, true, false)
		p.SetA(a)
	case 5: // XOR
		a := p.A() ^ v
		p.setFlags(a == 0, false, false, false)
		p.SetA(a)
	case 6: // OR
		a := p.A() | v
		p.setFlags(a == 0, false, false, false)
		p.SetA(a)
	case 7: // CP
		p.sub8(v, 0)
	}
}

func (p *CPU) inc8(v byte) byte {
	r := v + 1
	p.SetBool(processor.Zero, r == 0)
	p.Clear(processor.Subtract)
	p.SetBool(processor.HalfCarry, v&0xF == 0xF)
	return r
}

func (p *CPU) dec8(v byte) byte {
	r := v - 1
	p.SetBool(processor.Zero, r == 0)
	p.Set(processor.Subtract)
	p.SetBool(processor.HalfCarry, v&0xF == 0)
	return r
}

func (p *CPU) addHL(v uint16) {
	hl := p.HL()
	r := uint32(hl) + uint32(v)
	p.Clear(processor.Subtract)
	p.SetBool(processor.HalfCarry, (hl&0xFFF)+(v&0xFFF) > 0xFFF)
	p.SetBool(processor.Carry, r > 0xFFFF)
	p.SetHL(uint16(r))
}

// addSP computes SP plus a signed immediate. Flags come from the unsigned low byte.
func (p *CPU) addSP(bus processor.Bus) uint16 {
	e := p.readImm8(bus)
	sp := p.SP
	v := uint16(e)
	p.setFlags(false, false, (sp&0xF)+(v&0xF) > 0xF, (sp&0xFF)+v > 0xFF)
	return sp + uint16(int16(int8(e)))
}

func (p *CPU) daa() {
	a := p.A()
	c := p.GetBool(processor.Carry)

	var adj byte
	if p.GetBool(processor.Subtract) {
		if p.GetBool(processor.HalfCarry) {
			adj |= 0x06
		}
		if c {
			adj |= 0x60
		}
		a -= adj
	} else {
		if p.GetBool(processor.HalfCarry) || a&0xF > 9 {
			adj |= 0x06
		}
		if c || a > 0x99 {
			adj |= 0x60
			c = true
		}
		a += adj
	}

	p.SetBool(processor.Zero, a == 0)
	p.Clear(processor.HalfCarry)
	p.SetBool(processor.Carry, c)
	p.SetA(a)
}

func (p *CPU) jumpRelative(bus processor.Bus, cond bool) uint {
	e := int8(p.readImm8(bus))
	if !cond {
		return 2
	}
	p.PC += uint16(int16(e))
	return 3
}

func (p *CPU) jump(bus processor.Bus, cond bool) uint {
	addr := p.readImm16(bus)
	if !cond {
		return 3
	}
	p.PC = addr
	return 4
}

func (p *CPU) call(bus processor.Bus, cond bool) uint {
	addr := p.readImm16(bus)
	if !cond {
		return 3
	}
	p.push16(bus, p.PC)
	p.PC = addr
	return 6
}

func (p *CPU) invalidOpcode(op byte) uint {
	debug.Panic("invalid opcode: 0x%X at 0x%X", op, p.PC-1)
	validator.Discard()
	return 1
}

// execute runs the instruction and returns its cost in M-cycles.
// The opcode byte is already consumed.
func (p *CPU) execute(op byte, bus processor.Bus) uint {
	switch {
	case op == 0x76: // HALT
		p.Halt = true
		return 1
	case op >= 0x40 && op < 0x80: // LD r,r
		dst, src := (op>>3)&7, op&7
		p.setReg8(bus, dst, p.getReg8(bus, src))
		if dst == indirectHL || src == indirectHL {
			return 2
		}
		return 1
	case op >= 0x80 && op < 0xC0: // ALU A,r
		src := op & 7
		p.alu(op>>3, p.getReg8(bus, src))
		if src == indirectHL {
			return 2
		}
		return 1
	}

	switch op {
	case 0x00: // NOP
		return 1
	case 0x01, 0x11, 0x21, 0x31: // LD rr,d16
		p.setReg16(op>>4, p.readImm16(bus))
		return 3
	case 0x02: // LD (BC),A
		p.writeByte(bus, p.BC(), p.A())
		return 2
	case 0x12: // LD (DE),A
		p.writeByte(bus, p.DE(), p.A())
		return 2
	case 0x22: // LD (HL+),A
		hl := p.HL()
		p.writeByte(bus, hl, p.A())
		p.SetHL(hl + 1)
		return 2
	case 0x32: // LD (HL-),A
		hl := p.HL()
		p.writeByte(bus, hl, p.A())
		p.SetHL(hl - 1)
		return 2
	case 0x0A: // LD A,(BC)
		p.SetA(p.readByte(bus, p.BC()))
		return 2
	case 0x1A: // LD A,(DE)
		p.SetA(p.readByte(bus, p.DE()))
		return 2
	case 0x2A: // LD A,(HL+)
		hl := p.HL()
		p.SetA(p.readByte(bus, hl))
		p.SetHL(hl + 1)
		return 2
	case 0x3A: // LD A,(HL-)
		hl := p.HL()
		p.SetA(p.readByte(bus, hl))
		p.SetHL(hl - 1)
		return 2
	case 0x03, 0x13, 0x23, 0x33: // INC rr
		idx := op >> 4
		p.setReg16(idx, p.getReg16(idx)+1)
		return 2
	case 0x0B, 0x1B, 0x2B, 0x3B: // DEC rr
		idx := op >> 4
		p.setReg16(idx, p.getReg16(idx)-1)
		return 2
	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x34, 0x3C: // INC r
		idx := op >> 3
		p.setReg8(bus, idx, p.inc8(p.getReg8(bus, idx)))
		if idx&7 == indirectHL {
			return 3
		}
		return 1
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x35, 0x3D: // DEC r
		idx := op >> 3
		p.setReg8(bus, idx, p.dec8(p.getReg8(bus, idx)))
		if idx&7 == indirectHL {
			return 3
		}
		return 1
	case 0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x36, 0x3E: // LD r,d8
		idx := op >> 3
		p.setReg8(bus, idx, p.readImm8(bus))
		if idx&7 == indirectHL {
			return 3
		}
		return 2
	case 0x07, 0x0F, 0x17, 0x1F: // RLCA, RRCA, RLA, RRA
		p.rotateA(op)
		return 1
	case 0x08: // LD (a16),SP
		p.writeWord(bus, p.readImm16(bus), p.SP)
		return 5
	case 0x09, 0x19, 0x29, 0x39: // ADD HL,rr
		p.addHL(p.getReg16(op >> 4))
		return 2
	case 0x10: // STOP
		p.readImm8(bus)
		p.Stop = true
		return 1
	case 0x18: // JR e
		return p.jumpRelative(bus, true)
	case 0x20, 0x28, 0x30, 0x38: // JR cc,e
		return p.jumpRelative(bus, p.condition(op>>3))
	case 0x27:
		p.daa()
		return 1
	case 0x2F: // CPL
		p.SetA(^p.A())
		p.Set(processor.Subtract | processor.HalfCarry)
		return 1
	case 0x37: // SCF
		p.Clear(processor.Subtract | processor.HalfCarry)
		p.Set(processor.Carry)
		return 1
	case 0x3F: // CCF
		p.Clear(processor.Subtract | processor.HalfCarry)
		p.SetBool(processor.Carry, !p.GetBool(processor.Carry))
		return 1
	case 0xC0, 0xC8, 0xD0, 0xD8: // RET cc
		if !p.condition(op >> 3) {
			return 2
		}
		p.PC = p.pop16(bus)
		return 5
	case 0xC1, 0xD1, 0xE1, 0xF1: // POP rr
		p.setStack16(op>>4, p.pop16(bus))
		return 3
	case 0xC5, 0xD5, 0xE5, 0xF5: // PUSH rr
		p.push16(bus, p.getStack16(op>>4))
		return 4
	case 0xC2, 0xCA, 0xD2, 0xDA: // JP cc,a16
		return p.jump(bus, p.condition(op>>3))
	case 0xC3: // JP a16
		return p.jump(bus, true)
	case 0xC4, 0xCC, 0xD4, 0xDC: // CALL cc,a16
		return p.call(bus, p.condition(op>>3))
	case 0xCD: // CALL a16
		return p.call(bus, true)
	case 0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE: // ALU A,d8
		p.alu(op>>3, p.readImm8(bus))
		return 2
	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF: // RST
		p.push16(bus, p.PC)
		p.PC = uint16(op & 0x38)
		return 4
	case 0xC9: // RET
		p.PC = p.pop16(bus)
		return 4
	case 0xD9: // RETI
		p.PC = p.pop16(bus)
		p.IME = true
		return 4
	case 0xCB:
		return p.executeCB(bus)
	case 0xE0: // LDH (a8),A
		p.writeByte(bus, 0xFF00|uint16(p.readImm8(bus)), p.A())
		return 3
	case 0xF0: // LDH A,(a8)
		p.SetA(p.readByte(bus, 0xFF00|uint16(p.readImm8(bus))))
		return 3
	case 0xE2: // LD (C),A
		p.writeByte(bus, 0xFF00|uint16(p.C()), p.A())
		return 2
	case 0xF2: // LD A,(C)
		p.SetA(p.readByte(bus, 0xFF00|uint16(p.C())))
		return 2
	case 0xE8: // ADD SP,e
		p.SP = p.addSP(bus)
		return 4
	case 0xF8: // LD HL,SP+e
		p.SetHL(p.addSP(bus))
		return 3
	case 0xF9: // LD SP,HL
		p.SP = p.HL()
		return 2
	case 0xE9: // JP HL
		p.PC = p.HL()
		return 1
	case 0xEA: // LD (a16),A
		p.writeByte(bus, p.readImm16(bus), p.A())
		return 4
	case 0xFA: // LD A,(a16)
		p.SetA(p.readByte(bus, p.readImm16(bus)))
		return 4
	case 0xF3: // DI
		p.IME = false
		p.EnablePending = false
		return 1
	case 0xFB: // EI
		p.EnablePending = true
		return 1
	}
	return p.invalidOpcode(op)
}
