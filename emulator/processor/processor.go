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

import (
	"fmt"

	"github.com/andreas-jonsson/virtualgb/emulator/memory"
)

type Stats struct {
	NumInterrupts   uint32
	NumInstructions uint64
	NumHaltCycles   uint64
	NumSpeedSwitch  uint32
}

type Target int

const (
	GameBoy Target = iota
	GameBoyColor
	SuperGameBoy
)

// DefaultTarget is used when the target can not be detected from the cartridge.
const DefaultTarget = GameBoyColor

func ParseTarget(s string) (Target, error) {
	switch s {
	case "gb":
		return GameBoy, nil
	case "cgb":
		return GameBoyColor, nil
	case "sgb":
		return SuperGameBoy, nil
	}
	return DefaultTarget, fmt.Errorf("invalid gameboy type: %s", s)
}

func (t Target) String() string {
	switch t {
	case GameBoy:
		return "gb"
	case GameBoyColor:
		return "cgb"
	case SuperGameBoy:
		return "sgb"
	}
	return fmt.Sprintf("Target(%d)", int(t))
}

type Speed int

const (
	Normal Speed = iota
	Double
)

// Multiplier converts M-cycles into clock ticks.
func (s Speed) Multiplier() uint {
	if s == Double {
		return 2
	}
	return 4
}

func (s Speed) String() string {
	if s == Double {
		return "double"
	}
	return "normal"
}

type InterruptController interface {
	// IRQ raises a single interrupt source.
	IRQ(i Interrupt)
	// Peek returns the highest priority pending and enabled source, or zero.
	Peek() Interrupt
	// Take is like Peek but also acknowledges the returned source.
	Take() Interrupt
}

type Bus interface {
	ReadByte(addr uint16) byte
	WriteByte(addr uint16, data byte)

	Target() Target
	Speed() Speed
	SpeedSwitchPending() bool
	SwitchSpeed()

	GetInterruptController() InterruptController

	InstallMemoryDevice(device memory.Memory, from, to uint16) error
	InstallMemoryDeviceAt(device memory.Memory, addr ...uint16) error
}
