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
	"sync"

	"github.com/gdamore/tcell"
	"github.com/spf13/afero"
)

type tcellFrame struct {
	img  []byte
	w, h int
}

type tcellPlatform struct {
	sync.Mutex
	afero.Fs

	frame  tcellFrame
	screen tcell.Screen

	keyboardHandler func(Scancode)
}

var tcellPlatformInstance tcellPlatform

func tcellStart(mainLoop func(Platform), configs ...Config) {
	p := &tcellPlatformInstance
	p.Fs = afero.NewOsFs()

	for _, cfg := range configs {
		if err := cfg(p); err != nil {
			log.Fatal(err)
		}
	}

	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)

	var err error
	if p.screen, err = tcell.NewScreen(); err != nil {
		log.Fatal(err)
	}

	Instance = p
	s := p.screen

	if err = s.Init(); err != nil {
		log.Fatal(err)
	}
	defer s.Fini()

	s.HideCursor()
	s.DisableMouse()
	s.Clear()

	if err := p.initializeTcellEvents(); err != nil {
		log.Fatal(err)
	}
	mainLoop(Instance)
}

func (p *tcellPlatform) RenderGraphics(img []byte, w, h int) {
	if len(img) != w*h*4 {
		log.Panic("invalid back buffer size")
	}

	p.Lock()
	p.frame.img = append(p.frame.img[:0], img...)
	p.frame.w, p.frame.h = w, h
	p.Unlock()
	p.screen.PostEvent(tcell.NewEventInterrupt(&p.frame))
}

func (p *tcellPlatform) SetTitle(title string) {
}

func (p *tcellPlatform) SetKeyboardHandler(h func(Scancode)) {
	p.Lock()
	p.keyboardHandler = h
	p.Unlock()
}
