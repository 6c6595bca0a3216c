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

package platform

import (
	"github.com/spf13/afero"
)

type internalPlatform interface{}

type Config func(internalPlatform) error

// Platform is the host side of the emulator. The file system is the one
// ROM images are loaded from.
type Platform interface {
	afero.Fs

	// RenderGraphics presents an RGBA image of w*h pixels.
	RenderGraphics(img []byte, w, h int)
	SetTitle(title string)
	SetKeyboardHandler(h func(Scancode))
}

var Instance Platform

type Scancode byte

const KeyUpMask Scancode = 0x80

const (
	ScanInvalid Scancode = iota
	ScanEscape
	ScanEnter
	ScanBackspace
	ScanSpace
	ScanUp
	ScanDown
	ScanLeft
	ScanRight
	ScanZ
	ScanX
	ScanA
	ScanS
	ScanComma
	ScanPeriod
	ScanF1
	ScanF12
)

func (s Scancode) Released() bool {
	return s&KeyUpMask != 0
}

func (s Scancode) Key() Scancode {
	return s &^ KeyUpMask
}

// ScancodeFromRune maps printable characters to the keys of the reduced
// key set. Other characters map to ScanInvalid.
func ScancodeFromRune(r rune) Scancode {
	switch r {
	case ' ':
		return ScanSpace
	case 'z', 'Z':
		return ScanZ
	case 'x', 'X':
		return ScanX
	case 'a', 'A':
		return ScanA
	case 's', 'S':
		return ScanS
	case ',':
		return ScanComma
	case '.':
		return ScanPeriod
	}
	return ScanInvalid
}
