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
	"strings"

	"github.com/andreas-jonsson/virtualgb/emulator/debug"
)

// Interrupt is a set of interrupt sources. Bit 0 has the highest priority.
type Interrupt byte

const (
	VBlank Interrupt = 1 << iota
	LCDStat
	Timer
	Serial
	Joypad
)

const AllInterrupts = VBlank | LCDStat | Timer | Serial | Joypad

var interruptNames = [...]string{"VBlank", "LCDStat", "Timer", "Serial", "Joypad"}

func (i Interrupt) Has(s Interrupt) bool {
	return i&s != 0
}

func (i *Interrupt) Set(s Interrupt) {
	*i |= s
}

func (i *Interrupt) Clear(s Interrupt) {
	*i &= ^s
}

// Highest returns the highest priority source in the set.
func (i Interrupt) Highest() Interrupt {
	i &= AllInterrupts
	return i & -i
}

// Single reports whether the set holds exactly one named source.
func (i Interrupt) Single() bool {
	return i != 0 && i&AllInterrupts == i && i&(i-1) == 0
}

func (i Interrupt) Vector() uint16 {
	switch i {
	case VBlank:
		return 0x40
	case LCDStat:
		return 0x48
	case Timer:
		return 0x50
	case Serial:
		return 0x58
	case Joypad:
		return 0x60
	}
	debug.Panic("invalid interrupt: 0x%X", byte(i))
	return 0
}

func (i Interrupt) String() string {
	if i == 0 {
		return "None"
	}
	var names []string
	for n, s := range interruptNames {
		if i.Has(1 << n) {
			names = append(names, s)
		}
	}
	if rest := i &^ AllInterrupts; rest != 0 {
		names = append(names, "?")
	}
	return strings.Join(names, "|")
}
