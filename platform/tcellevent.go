/*
Copyright (C) 2019-2020 Andreas T Jonsson

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

package platform

import (
	"log"
	"time"

	"github.com/andreas-jonsson/virtualgb/platform/dialog"
	"github.com/gdamore/tcell"
)

// Terminals only report key presses, so releases are synthesized.
const tcellKeyHold = 100 * time.Millisecond

func (p *tcellPlatform) initializeTcellEvents() error {
	go func() {
		s := p.screen
		for {
			ev := s.PollEvent()
			switch ev := ev.(type) {
			case nil:
				return
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyF12 || ev.Key() == tcell.KeyCtrlC {
					dialog.Quit()
					return
				}
				p.pushKeyEvent(ev)
			case *tcell.EventResize:
				s.Sync()
			case *tcell.EventInterrupt:
				if frame, ok := ev.Data().(*tcellFrame); ok {
					p.Lock()
					drawHalfBlocks(s, frame.img, frame.w, frame.h)
					p.Unlock()
					s.Show()
				}
			}
		}
	}()
	return nil
}

// drawHalfBlocks packs two pixel rows into each terminal cell using the
// upper half block glyph.
func drawHalfBlocks(s tcell.Screen, img []byte, w, h int) {
	pixel := func(x, y int) tcell.Color {
		if y >= h {
			return tcell.ColorBlack
		}
		offset := (y*w + x) * 4
		return tcell.NewRGBColor(int32(img[offset]), int32(img[offset+1]), int32(img[offset+2]))
	}

	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			style := tcell.StyleDefault.Foreground(pixel(x, y)).Background(pixel(x, y+1))
			s.SetContent(x, y/2, '▀', nil, style)
		}
	}
}

func (p *tcellPlatform) pushKeyEvent(ev *tcell.EventKey) {
	scan := scancodeFromTcell(ev)
	if scan == ScanInvalid {
		log.Print("Unknown key!")
		return
	}

	p.Lock()
	defer p.Unlock()

	if p.keyboardHandler == nil {
		return
	}
	p.keyboardHandler(scan)

	go func() {
		time.Sleep(tcellKeyHold)

		p.Lock()
		defer p.Unlock()
		p.keyboardHandler(scan | KeyUpMask)
	}()
}

func scancodeFromTcell(ev *tcell.EventKey) Scancode {
	switch ev.Key() {
	case tcell.KeyEscape:
		return ScanEscape
	case tcell.KeyEnter:
		return ScanEnter
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return ScanBackspace
	case tcell.KeyUp:
		return ScanUp
	case tcell.KeyDown:
		return ScanDown
	case tcell.KeyLeft:
		return ScanLeft
	case tcell.KeyRight:
		return ScanRight
	case tcell.KeyF1:
		return ScanF1
	case tcell.KeyRune:
		return ScancodeFromRune(ev.Rune())
	}
	return ScanInvalid
}
