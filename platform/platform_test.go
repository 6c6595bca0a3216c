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
	"testing"

	"github.com/gdamore/tcell"
	"github.com/spf13/afero"
)

func TestScancode(t *testing.T) {
	s := ScanZ | KeyUpMask
	if !s.Released() || s.Key() != ScanZ {
		t.Errorf("unexpected scancode: 0x%X", byte(s))
	}
	if ScanZ.Released() {
		t.Error("key should be pressed")
	}
	if ScancodeFromRune('Z') != ScanZ || ScancodeFromRune('q') != ScanInvalid {
		t.Error("unexpected rune mapping")
	}
}

func TestTcellKeys(t *testing.T) {
	for _, c := range []struct {
		ev   *tcell.EventKey
		scan Scancode
	}{
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), ScanUp},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), ScanEnter},
		{tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), ScanX},
		{tcell.NewEventKey(tcell.KeyRune, '#', tcell.ModNone), ScanInvalid},
	} {
		if s := scancodeFromTcell(c.ev); s != c.scan {
			t.Errorf("%s: Got 0x%X but expected 0x%X", c.ev.Name(), byte(s), byte(c.scan))
		}
	}
}

func TestHalfBlocks(t *testing.T) {
	s := tcell.NewSimulationScreen("")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	defer s.Fini()
	s.SetSize(4, 4)

	img := []byte{
		0xFF, 0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF,
		0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0x10, 0x20, 0x30, 0xFF, 0x10, 0x20, 0x30, 0xFF,
	}
	drawHalfBlocks(s, img, 2, 3)

	for _, c := range []struct {
		x, y   int
		fg, bg tcell.Color
	}{
		{0, 0, tcell.NewRGBColor(0xFF, 0, 0), tcell.NewRGBColor(0, 0, 0xFF)},
		{1, 0, tcell.NewRGBColor(0, 0xFF, 0), tcell.NewRGBColor(0xFF, 0xFF, 0xFF)},
		{0, 1, tcell.NewRGBColor(0x10, 0x20, 0x30), tcell.ColorBlack},
	} {
		r, _, style, _ := s.GetContent(c.x, c.y)
		fg, bg, _ := style.Decompose()
		if r != '▀' || fg != c.fg || bg != c.bg {
			t.Errorf("cell %d,%d: unexpected content %q %v %v", c.x, c.y, r, fg, bg)
		}
	}
}

func TestFileSystem(t *testing.T) {
	var p Platform = &tcellPlatform{Fs: afero.NewMemMapFs()}
	if err := afero.WriteFile(p, "game.gb", []byte{1, 2, 3}, 0644); err != nil {
		t.Fatal(err)
	}
	data, err := afero.ReadFile(p, "game.gb")
	if err != nil || len(data) != 3 {
		t.Errorf("unexpected file content: %v %v", data, err)
	}
}
