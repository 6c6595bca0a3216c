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

package emulator

import (
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral/joypad"
	"github.com/andreas-jonsson/virtualgb/platform"
	"github.com/andreas-jonsson/virtualgb/platform/dialog"
)

type keyReceiver interface {
	KeyDown(b joypad.Button)
	KeyUp(b joypad.Button)
}

var keyMap = map[platform.Scancode]joypad.Button{
	platform.ScanZ:         joypad.A,
	platform.ScanX:         joypad.B,
	platform.ScanEnter:     joypad.Start,
	platform.ScanComma:     joypad.Select,
	platform.ScanBackspace: joypad.Select,
	platform.ScanUp:        joypad.Up,
	platform.ScanDown:      joypad.Down,
	platform.ScanLeft:      joypad.Left,
	platform.ScanRight:     joypad.Right,
}

func handleKey(r keyReceiver, s platform.Scancode) {
	if s.Key() == platform.ScanF1 {
		if s.Released() {
			dialog.RequestRestart()
		}
		return
	}

	b, ok := keyMap[s.Key()]
	if !ok {
		return
	}
	if s.Released() {
		r.KeyUp(b)
	} else {
		r.KeyDown(b)
	}
}

// handleKeys drains queued scancodes without blocking.
func handleKeys(r keyReceiver, keys <-chan platform.Scancode) {
	for {
		select {
		case s := <-keys:
			handleKey(r, s)
		default:
			return
		}
	}
}
