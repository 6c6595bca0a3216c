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

package joypad

import (
	"fmt"

	"github.com/andreas-jonsson/virtualgb/emulator/processor"
)

const Register = 0xFF00

type Button int

const (
	A Button = iota
	B
	Select
	Start
	Right
	Left
	Up
	Down
)

var buttonNames = [...]string{"A", "B", "Select", "Start", "Right", "Left", "Up", "Down"}

func (b Button) String() string {
	if b >= A && b <= Down {
		return buttonNames[b]
	}
	return fmt.Sprintf("Button(%d)", int(b))
}

// Mask returns the bit of the button in its column nibble.
// Right and A share bit 0, Left and B bit 1, Up and Select bit 2, Down and Start bit 3.
func (b Button) Mask() byte {
	return 1 << (uint(b) & 3)
}

// IsDirection reports whether the button lives in the direction column.
func (b Button) IsDirection() bool {
	return b >= Right && b <= Down
}

type Column byte

const (
	MultiRequest Column = 0x00
	Directions   Column = 0x10
	Buttons      Column = 0x20
)

// selectColumn decodes an inverted select value. Any other code is ignored.
func selectColumn(v byte) (Column, bool) {
	switch Column(^v & 0x30) {
	case Buttons:
		return Buttons, true
	case Directions:
		return Directions, true
	case MultiRequest:
		return MultiRequest, true
	}
	return 0, false
}

// multiRequestID is the player one ID read back while MLT_REQ is selected.
const multiRequestID = 0x0F

type Device struct {
	pic processor.InterruptController

	buttons, directions byte
	column              Column
}

func (m *Device) Install(p processor.Bus) error {
	m.pic = p.GetInterruptController()
	m.Reset()
	return p.InstallMemoryDeviceAt(m, Register)
}

func (m *Device) Name() string {
	return "Joypad"
}

func (m *Device) Reset() {
	*m = Device{
		pic:        m.pic,
		buttons:    0xF,
		directions: 0xF,
		column:     Directions,
	}
}

func (m *Device) Step(int) {
}

func (m *Device) Column() Column {
	return m.column
}

// State returns the active low button and direction nibbles.
func (m *Device) State() (buttons, directions byte) {
	return m.buttons, m.directions
}

func (m *Device) KeyDown(b Button) {
	if b.IsDirection() {
		m.directions &^= b.Mask()
	} else {
		m.buttons &^= b.Mask()
	}
	m.pic.IRQ(processor.Joypad)
}

func (m *Device) KeyUp(b Button) {
	if b.IsDirection() {
		m.directions |= b.Mask()
	} else {
		m.buttons |= b.Mask()
	}
}

func (m *Device) ReadByte(uint16) byte {
	switch m.column {
	case Buttons:
		return m.buttons
	case Directions:
		return m.directions
	}
	return multiRequestID
}

func (m *Device) WriteByte(_ uint16, data byte) {
	if col, ok := selectColumn(data); ok {
		m.column = col
	}
}
