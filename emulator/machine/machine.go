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

package machine

import (
	"errors"
	"io"
	"log"

	"github.com/andreas-jonsson/virtualgb/emulator/bus"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral/cartridge"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral/dma"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral/joypad"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral/pic"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral/pit"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral/ram"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral/serial"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral/sound"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral/video"
	"github.com/andreas-jonsson/virtualgb/emulator/processor"
	"github.com/andreas-jonsson/virtualgb/emulator/processor/cpu"
)

// TicksPerFrame is the number of clock ticks in one video frame at normal speed.
const TicksPerFrame = video.TicksPerLine * video.LinesPerFrame

type Config struct {
	Target     processor.Target
	Cartridge  io.Reader
	SerialLink serial.Link
}

type Machine struct {
	cpu       *cpu.CPU
	bus       *bus.Bus
	video     *video.Device
	joypad    *joypad.Device
	cartridge *cartridge.Device

	budget int
	frames uint
}

func New(cfg Config) (*Machine, error) {
	if cfg.Cartridge == nil {
		return nil, errors.New("no cartridge")
	}

	m := &Machine{
		cpu:       cpu.NewCPU(cfg.Target),
		video:     &video.Device{},
		joypad:    &joypad.Device{},
		cartridge: &cartridge.Device{Reader: cfg.Cartridge},
	}

	// Peripherals are stepped in this order.
	peripherals := []peripheral.Peripheral{
		&pic.Device{},
		&ram.Device{},
		m.cartridge,
		&pit.Device{},
		m.video,
		&dma.Device{},
		m.joypad,
		&serial.Device{Link: cfg.SerialLink},
		&sound.Device{},
	}

	var errs []error
	if m.bus, errs = bus.New(cfg.Target, peripherals); len(errs) > 0 {
		for _, err := range errs[1:] {
			log.Print(err)
		}
		m.bus.Close()
		return nil, errs[0]
	}

	log.Printf("Machine: %s, %d peripherals", cfg.Target, len(peripherals))
	return m, nil
}

// Frame advances the machine by one video frame. Overshoot is carried
// into the next frame.
func (m *Machine) Frame() {
	for m.budget += TicksPerFrame; m.budget > 0; {
		t := m.cpu.Exec(m.bus)
		m.bus.Step(t)
		m.budget -= int(t)
	}
	m.frames++
}

// Frames returns the number of frames since the last call.
func (m *Machine) Frames() uint {
	n := m.frames
	m.frames = 0
	return n
}

func (m *Machine) Image() []byte {
	return m.video.Image()
}

func (m *Machine) KeyDown(b joypad.Button) {
	m.joypad.KeyDown(b)
}

func (m *Machine) KeyUp(b joypad.Button) {
	m.joypad.KeyUp(b)
}

func (m *Machine) Reset() {
	m.cpu.Reset()
	m.bus.Reset()
	m.budget = 0
	m.frames = 0
}

func (m *Machine) Header() cartridge.Header {
	return m.cartridge.Header()
}

func (m *Machine) CPU() *cpu.CPU {
	return m.cpu
}

func (m *Machine) Bus() *bus.Bus {
	return m.bus
}

func (m *Machine) Close() {
	m.bus.Close()
}
