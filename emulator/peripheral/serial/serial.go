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

package serial

import (
	"io"
	"sync"

	"github.com/andreas-jonsson/virtualgb/emulator/processor"
)

const (
	DataRegister    = 0xFF01
	ControlRegister = 0xFF02
)

const (
	startFlag     = 0x80
	fastFlag      = 0x02
	internalClock = 0x01
)

// Bit periods in CPU clocks.
const (
	normalPeriod = 512
	fastPeriod   = 16
)

// Link is the other end of the link cable.
type Link interface {
	// Exchange sends a byte and returns the byte shifted in from the other side.
	Exchange(out byte) byte
}

// WriterLink copies outgoing bytes to W. Nothing is connected on the
// other side so it always receives 0xFF.
type WriterLink struct {
	lock sync.Mutex
	W    io.Writer
}

func (l *WriterLink) Exchange(out byte) byte {
	l.lock.Lock()
	l.W.Write([]byte{out})
	l.lock.Unlock()
	return 0xFF
}

type Device struct {
	Link Link

	bus processor.Bus
	pic processor.InterruptController

	color  bool
	sb, sc byte
	clock  int
}

func (m *Device) Install(p processor.Bus) error {
	m.bus = p
	m.pic = p.GetInterruptController()
	m.color = p.Target() == processor.GameBoyColor
	return p.InstallMemoryDevice(m, DataRegister, ControlRegister)
}

func (m *Device) Name() string {
	return "Serial Port"
}

func (m *Device) Reset() {
	m.sb, m.sc, m.clock = 0, 0, 0
}

func (m *Device) Close() error {
	if c, ok := m.Link.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (m *Device) period() int {
	if m.color && m.sc&fastFlag != 0 {
		return fastPeriod
	}
	return normalPeriod
}

// Step only drives transfers on the internal clock. An external clock
// transfer waits for a partner that never clocks it.
func (m *Device) Step(ticks int) {
	if m.sc&(startFlag|internalClock) != startFlag|internalClock {
		return
	}
	if m.bus.Speed() == processor.Double {
		ticks *= 2
	}

	if m.clock += ticks; m.clock < 8*m.period() {
		return
	}

	in := byte(0xFF)
	if m.Link != nil {
		in = m.Link.Exchange(m.sb)
	}
	m.sb = in
	m.sc &^= startFlag
	m.clock = 0
	m.pic.IRQ(processor.Serial)
}

func (m *Device) ReadByte(addr uint16) byte {
	if addr == DataRegister {
		return m.sb
	}
	if m.color {
		return 0x7C | m.sc
	}
	return 0x7E | m.sc
}

func (m *Device) WriteByte(addr uint16, data byte) {
	if addr == DataRegister {
		m.sb = data
		return
	}

	if m.color {
		m.sc = data & (startFlag | fastFlag | internalClock)
	} else {
		m.sc = data & (startFlag | internalClock)
	}
	m.clock = 0
}
