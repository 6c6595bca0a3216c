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

package bus

import (
	"errors"
	"fmt"
	"log"

	"github.com/andreas-jonsson/virtualgb/emulator/memory"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral"
	"github.com/andreas-jonsson/virtualgb/emulator/processor"
)

const MaxPeripherals = 32

const SpeedRegister = 0xFF4D

type Bus struct {
	target processor.Target
	speed  processor.Speed
	armed  bool

	peripherals []peripheral.Peripheral
	pic         processor.InterruptController

	mmap           [0x10000]byte
	memPeripherals [MaxPeripherals]memory.Memory
}

// New creates the address map and installs the peripherals in order.
// Later installs override earlier address ranges. KEY1 is always owned
// by the bus. Install errors are
// collected and returned, the bus is usable regardless.
func New(target processor.Target, peripherals []peripheral.Peripheral) (*Bus, []error) {
	p := &Bus{target: target}
	if len(peripherals)+2 > MaxPeripherals {
		return p, []error{fmt.Errorf("too many peripherals: %d", len(peripherals))}
	}

	p.peripherals = peripherals
	p.memPeripherals[0] = &memory.DummyMemory{}
	p.memPeripherals[1] = (*speedSwitch)(p)
	for i := range p.memPeripherals[2:] {
		p.memPeripherals[i+2] = p.memPeripherals[0]
	}

	for i, d := range peripherals {
		if dev, ok := d.(memory.Memory); ok {
			p.memPeripherals[i+2] = dev
		}
	}

	var errs []error
	for _, d := range p.peripherals {
		if err := d.Install(p); err != nil {
			errs = append(errs, fmt.Errorf("failed to install %s: %w", d.Name(), err))
		}
		if pic, ok := d.(processor.InterruptController); ok {
			p.pic = pic
		}
	}
	if err := p.InstallMemoryDeviceAt(p.memPeripherals[1], SpeedRegister); err != nil {
		errs = append(errs, err)
	}
	if p.pic == nil {
		errs = append(errs, errors.New("no interrupt controller detected"))
	}
	return p, errs
}

func (p *Bus) Close() {
	for _, d := range p.peripherals {
		if cd, b := d.(peripheral.PeripheralCloser); b {
			if err := cd.Close(); err != nil {
				log.Print("Failed to close peripheral: ", err)
			}
		}
	}
}

func (p *Bus) Reset() {
	p.speed = processor.Normal
	p.armed = false
	for _, d := range p.peripherals {
		d.Reset()
	}
}

// Step advances every peripheral by the given number of clock ticks.
func (p *Bus) Step(ticks uint) {
	for _, d := range p.peripherals {
		d.Step(int(ticks))
	}
}

func (p *Bus) Peripherals() []peripheral.Peripheral {
	return p.peripherals
}

func (p *Bus) Target() processor.Target {
	return p.target
}

func (p *Bus) Speed() processor.Speed {
	return p.speed
}

func (p *Bus) SpeedSwitchPending() bool {
	return p.armed
}

func (p *Bus) SwitchSpeed() {
	if p.speed == processor.Normal {
		p.speed = processor.Double
	} else {
		p.speed = processor.Normal
	}
	p.armed = false
	log.Print("CPU speed: ", p.speed)
}

func (p *Bus) GetInterruptController() processor.InterruptController {
	return p.pic
}

func (p *Bus) GetMappedMemoryDevice(addr uint16) memory.Memory {
	return p.memPeripherals[p.mmap[addr]]
}

func (p *Bus) ReadByte(addr uint16) byte {
	return p.GetMappedMemoryDevice(addr).ReadByte(addr)
}

func (p *Bus) WriteByte(addr uint16, data byte) {
	p.GetMappedMemoryDevice(addr).WriteByte(addr, data)
}

func (p *Bus) InstallMemoryDevice(device memory.Memory, from, to uint16) error {
	if from > to {
		return fmt.Errorf("invalid address range: 0x%X-0x%X", from, to)
	}
	for i, d := range p.memPeripherals[:] {
		if d == device {
			for a := int(from); a <= int(to); a++ {
				p.mmap[a] = byte(i)
			}
			return nil
		}
	}
	return errors.New("could not find peripheral")
}

func (p *Bus) InstallMemoryDeviceAt(device memory.Memory, addr ...uint16) error {
	for _, a := range addr {
		if err := p.InstallMemoryDevice(device, a, a); err != nil {
			return err
		}
	}
	return nil
}

// speedSwitch exposes KEY1 through the address map.
type speedSwitch Bus

func (m *speedSwitch) ReadByte(uint16) byte {
	v := byte(0x7E)
	if m.speed == processor.Double {
		v |= 0x80
	}
	if m.armed {
		v |= 1
	}
	return v
}

func (m *speedSwitch) WriteByte(_ uint16, data byte) {
	if m.target == processor.GameBoyColor {
		m.armed = data&1 != 0
	}
}
