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

package processor

const (
	Carry     Flags = 0x10
	HalfCarry Flags = 0x20
	Subtract  Flags = 0x40
	Zero      Flags = 0x80
)

const AllFlags = Carry | HalfCarry | Subtract | Zero

type Flags byte

func (r *Flags) Get(f Flags) Flags {
	return *r & f
}

func (r *Flags) GetBool(f Flags) bool {
	return r.Get(f) != 0
}

func (r *Flags) Set(f Flags) {
	*r |= f
}

func (r *Flags) SetBool(f Flags, b bool) {
	if b {
		r.Set(f)
		return
	}
	r.Clear(f)
}

func (r *Flags) Clear(f Flags) {
	*r &= ^f
}

func (r *Flags) Store(f byte) {
	*r = Flags(f) & AllFlags
}

func (r *Flags) Load() byte {
	return byte(*r & AllFlags)
}

type RunMode int

const (
	Running RunMode = iota
	Halted
	Stopped
)

func (m RunMode) String() string {
	switch m {
	case Halted:
		return "halted"
	case Stopped:
		return "stopped"
	}
	return "running"
}

type Registers struct {
	a, b, c, d, e, h, l byte

	Flags

	PC, SP uint16

	// IME is the interrupt master enable. EnablePending is set by EI and
	// moved into IME at the start of the next step.
	IME, EnablePending bool
	Halt, Stop         bool

	Target Target
}

func NewRegisters(target Target) Registers {
	r := Registers{Target: target}
	r.Reset()
	return r
}

// Reset loads the register state the boot ROM leaves behind.
func (r *Registers) Reset() {
	*r = Registers{
		b: 0x00, c: 0x13,
		d: 0x00, e: 0xD8,
		h: 0x01, l: 0x4D,
		SP:     0xFFFE,
		PC:     0x0100,
		Target: r.Target,
	}
	r.Flags.Store(0xB0)

	switch r.Target {
	case GameBoyColor:
		r.a = 0x11
	case SuperGameBoy:
		r.a = 0xFF
	default:
		r.a = 0x01
	}
}

func (r *Registers) Mode() RunMode {
	switch {
	case r.Halt:
		return Halted
	case r.Stop:
		return Stopped
	}
	return Running
}

func (r *Registers) A() byte {
	return r.a
}

func (r *Registers) SetA(v byte) {
	r.a = v
}

func (r *Registers) F() byte {
	return r.Flags.Load()
}

func (r *Registers) SetF(v byte) {
	r.Flags.Store(v)
}

func (r *Registers) B() byte {
	return r.b
}

func (r *Registers) SetB(v byte) {
	r.b = v
}

func (r *Registers) C() byte {
	return r.c
}

func (r *Registers) SetC(v byte) {
	r.c = v
}

func (r *Registers) D() byte {
	return r.d
}

func (r *Registers) SetD(v byte) {
	r.d = v
}

func (r *Registers) E() byte {
	return r.e
}

func (r *Registers) SetE(v byte) {
	r.e = v
}

func (r *Registers) H() byte {
	return r.h
}

func (r *Registers) SetH(v byte) {
	r.h = v
}

func (r *Registers) L() byte {
	return r.l
}

func (r *Registers) SetL(v byte) {
	r.l = v
}

func (r *Registers) AF() uint16 {
	return uint16(r.a)<<8 | uint16(r.F())
}

func (r *Registers) SetAF(v uint16) {
	r.a = byte(v >> 8)
	r.SetF(byte(v))
}

func (r *Registers) BC() uint16 {
	return uint16(r.b)<<8 | uint16(r.c)
}

func (r *Registers) SetBC(v uint16) {
	r.b, r.c = byte(v>>8), byte(v)
}

func (r *Registers) DE() uint16 {
	return uint16(r.d)<<8 | uint16(r.e)
}

func (r *Registers) SetDE(v uint16) {
	r.d, r.e = byte(v>>8), byte(v)
}

func (r *Registers) HL() uint16 {
	return uint16(r.h)<<8 | uint16(r.l)
}

func (r *Registers) SetHL(v uint16) {
	r.h, r.l = byte(v>>8), byte(v)
}

func (r *Registers) GetValues() [6]uint16 {
	return [6]uint16{
		r.AF(), r.BC(), r.DE(), r.HL(),
		r.SP, r.PC,
	}
}
