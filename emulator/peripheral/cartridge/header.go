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

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andreas-jonsson/virtualgb/emulator/processor"
)

const (
	HeaderStart = 0x100
	HeaderEnd   = 0x150
)

const (
	titleOffset    = 0x134
	cgbFlagOffset  = 0x143
	sgbFlagOffset  = 0x146
	typeOffset     = 0x147
	romSizeOffset  = 0x148
	ramSizeOffset  = 0x149
	checksumOffset = 0x14D
)

var ErrShortROM = errors.New("ROM is too short to hold a cartridge header")

var ramSizes = map[byte]int{
	0: 0,
	1: 0x800,
	2: 0x2000,
	3: 0x8000,
	4: 0x20000,
	5: 0x10000,
}

type Header struct {
	Title    string
	CGBFlag  byte
	SGBFlag  byte
	Type     byte
	ROMSize  int
	RAMSize  int
	Checksum byte
}

func ParseHeader(rom []byte) (Header, error) {
	var h Header
	if len(rom) < HeaderEnd {
		return h, ErrShortROM
	}

	h.Title = strings.TrimRight(string(rom[titleOffset:cgbFlagOffset]), "\x00")
	h.CGBFlag = rom[cgbFlagOffset]
	h.SGBFlag = rom[sgbFlagOffset]
	h.Type = rom[typeOffset]
	h.Checksum = rom[checksumOffset]

	if code := rom[romSizeOffset]; code <= 8 {
		h.ROMSize = 0x8000 << code
	} else {
		return h, fmt.Errorf("invalid ROM size: 0x%X", code)
	}

	var ok bool
	if h.RAMSize, ok = ramSizes[rom[ramSizeOffset]]; !ok {
		return h, fmt.Errorf("invalid RAM size: 0x%X", rom[ramSizeOffset])
	}
	return h, nil
}

// ChecksumValid verifies the header checksum the boot ROM checks.
func ChecksumValid(rom []byte) bool {
	if len(rom) < HeaderEnd {
		return false
	}
	var x byte
	for _, v := range rom[titleOffset:checksumOffset] {
		x = x - v - 1
	}
	return x == rom[checksumOffset]
}

// GuessTarget detects the hardware the cartridge was made for.
// It returns false if the ROM has no complete header.
func GuessTarget(rom []byte) (processor.Target, bool) {
	if len(rom) < HeaderEnd {
		return processor.DefaultTarget, false
	}
	switch {
	case rom[cgbFlagOffset] == 0x80 || rom[cgbFlagOffset] == 0xC0:
		return processor.GameBoyColor, true
	case rom[sgbFlagOffset] == 0x03:
		return processor.SuperGameBoy, true
	}
	return processor.GameBoy, true
}
