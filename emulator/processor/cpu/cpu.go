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
	"log"

	"github.com/andreas-jonsson/virtualgb/emulator/processor"
	"github.com/andreas-jonsson/virtualgb/emulator/processor/validator"
)

type CPU struct {
	processor.Registers

	ticks uint64
	stats processor.Stats
}

func NewCPU(target processor.Target) *CPU {
	return &CPU{Registers: processor.NewRegisters(target)}
}

func (p *CPU) Reset() {
	log.Print("CPU reset!")
	p.Registers.Reset()
	p.ticks = 0
}

func (p *CPU) GetRegisters() *processor.Registers {
	return &p.Registers
}

// Ticks returns the total number of clock ticks executed since reset.
func (p *CPU) Ticks() uint64 {
	return p.ticks
}

func (p *CPU) GetStats() processor.Stats {
	s := p.stats
	p.stats = processor.Stats{}
	return s
}

// Exec runs one instruction, or one idle cycle when halted or stopped,
// followed by interrupt dispatch. It returns the elapsed clock ticks.
func (p *CPU) Exec(bus processor.Bus) uint {
	if p.EnablePending {
		p.IME = true
		p.EnablePending = false
	}

	var ticks uint
	switch {
	case !p.Halt && !p.Stop:
		op := bus.ReadByte(p.PC)
		validator.Begin(op, &p.Registers)
		p.PC++

		ticks = p.execute(op, bus)
		p.stats.NumInstructions++
		validator.End(&p.Registers, ticks)
	case p.Stop && bus.SpeedSwitchPending():
		bus.SwitchSpeed()
		p.Stop = false
		p.stats.NumSpeedSwitch++
		ticks = 1
	default:
		p.stats.NumHaltCycles++
		ticks = 1
	}

	ticks += p.interrupt(bus)
	ticks *= bus.Speed().Multiplier()
	p.ticks += uint64(ticks)
	return ticks
}

func (p *CPU) interrupt(bus processor.Bus) uint {
	if !p.IME && !p.Halt {
		return 0
	}

	pic := bus.GetInterruptController()
	if !p.IME {
		// A halted CPU wakes up but the request stays pending.
		if pic.Peek() != 0 {
			p.Halt = false
			p.Stop = false
		}
		return 0
	}

	i := pic.Take()
	if i == 0 {
		return 0
	}

	p.IME = false
	p.Halt = false
	p.Stop = false
	p.push16(bus, p.PC)
	p.PC = i.Vector()
	p.stats.NumInterrupts++
	return 1
}
