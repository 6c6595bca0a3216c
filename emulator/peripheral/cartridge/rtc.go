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

// Clock register selects.
const (
	rtcSeconds = 0x08 + iota
	rtcMinutes
	rtcHours
	rtcDaysLow
	rtcDaysHigh
)

// The clock counts emulated ticks, never host time.
const rtcTicksPerSecond = 4194304

const (
	rtcDayHigh = 0x01
	rtcHalt    = 0x40
	rtcCarry   = 0x80
)

type rtc struct {
	ticks int

	seconds, minutes, hours byte
	days                    uint16
	halt, carry             bool

	latched    [5]byte
	latchValue byte
}

func (c *rtc) step(ticks int) {
	if c.halt {
		return
	}
	for c.ticks += ticks; c.ticks >= rtcTicksPerSecond; c.ticks -= rtcTicksPerSecond {
		c.advance()
	}
}

func (c *rtc) advance() {
	if c.seconds = (c.seconds + 1) & 0x3F; c.seconds != 60 {
		return
	}
	c.seconds = 0
	if c.minutes = (c.minutes + 1) & 0x3F; c.minutes != 60 {
		return
	}
	c.minutes = 0
	if c.hours = (c.hours + 1) & 0x1F; c.hours != 24 {
		return
	}
	c.hours = 0
	if c.days++; c.days > 0x1FF {
		c.days = 0
		c.carry = true
	}
}

func (c *rtc) registers() [5]byte {
	dh := byte(c.days>>8) & rtcDayHigh
	if c.halt {
		dh |= rtcHalt
	}
	if c.carry {
		dh |= rtcCarry
	}
	return [5]byte{c.seconds, c.minutes, c.hours, byte(c.days), dh}
}

// latch copies the live counters when 0x00 then 0x01 is written.
func (c *rtc) latch(data byte) {
	if c.latchValue == 0 && data == 1 {
		c.latched = c.registers()
	}
	c.latchValue = data
}

func (c *rtc) set(reg, data byte) {
	switch reg {
	case rtcSeconds:
		c.seconds = data & 0x3F
		c.ticks = 0
	case rtcMinutes:
		c.minutes = data & 0x3F
	case rtcHours:
		c.hours = data & 0x1F
	case rtcDaysLow:
		c.days = c.days&0x100 | uint16(data)
	case rtcDaysHigh:
		c.days = c.days&0xFF | uint16(data&rtcDayHigh)<<8
		c.halt = data&rtcHalt != 0
		c.carry = data&rtcCarry != 0
	}
}
