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
	"bytes"
	"testing"

	"github.com/andreas-jonsson/virtualgb/emulator/peripheral/joypad"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral/serial"
	"github.com/andreas-jonsson/virtualgb/emulator/processor"
	"github.com/andreas-jonsson/virtualgb/platform"
	"github.com/andreas-jonsson/virtualgb/platform/dialog"
	"github.com/spf13/afero"
)

type keyRecorder struct {
	down, up []joypad.Button
}

func (r *keyRecorder) KeyDown(b joypad.Button) {
	r.down = append(r.down, b)
}

func (r *keyRecorder) KeyUp(b joypad.Button) {
	r.up = append(r.up, b)
}

func testROM(cgbFlag byte) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x100:], []byte{0x18, 0xFE}) // JR -2
	copy(rom[0x134:], "EMULATOR")
	rom[0x143] = cgbFlag
	return rom
}

func TestSelectTarget(t *testing.T) {
	defer func(n, d string) { targetName, defaultTarget = n, d }(targetName, defaultTarget)

	targetName = ""
	if tg, err := selectTarget(testROM(0x80)); err != nil || tg != processor.GameBoyColor {
		t.Errorf("Got %v but expected cgb", tg)
	}
	if tg, err := selectTarget(testROM(0)); err != nil || tg != processor.GameBoy {
		t.Errorf("Got %v but expected gb", tg)
	}

	defaultTarget = "sgb"
	if tg, err := selectTarget(nil); err != nil || tg != processor.SuperGameBoy {
		t.Errorf("Got %v but expected sgb", tg)
	}

	targetName = "gb"
	if tg, err := selectTarget(testROM(0x80)); err != nil || tg != processor.GameBoy {
		t.Errorf("Got %v but expected gb", tg)
	}

	targetName = "nes"
	if _, err := selectTarget(nil); err == nil {
		t.Error("expected invalid target error")
	}
}

func TestOpenLink(t *testing.T) {
	if l, err := openLink(""); l != nil || err != nil {
		t.Error("expected no link")
	}
	if l, err := openLink("stdout"); err != nil {
		t.Error(err)
	} else if _, ok := l.(*serial.WriterLink); !ok {
		t.Error("expected writer link")
	}
	if _, err := openLink("pigeon"); err == nil {
		t.Error("expected invalid link error")
	}
}

func TestNewMachine(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "roms/test.gb", testROM(0), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := newMachine(fs, ""); err == nil {
		t.Error("expected missing ROM error")
	}
	if _, err := newMachine(fs, "roms/missing.gb"); err == nil {
		t.Error("expected file error")
	}

	m, err := newMachine(fs, "roms/test.gb")
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if m.Header().Title != "EMULATOR" || m.Bus().Target() != processor.GameBoy {
		t.Errorf("unexpected cartridge: %+v", m.Header())
	}
}

func TestHeadless(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "test.gb", testROM(0), 0644)

	m, err := newMachine(fs, "test.gb")
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	n := 0
	var out bytes.Buffer
	headless(m, &out, func() bool {
		n++
		return n > 5
	})
	if f := m.Frames(); f != 5 {
		t.Errorf("Got %d frames but expected 5", f)
	}
}

func TestKeys(t *testing.T) {
	var r keyRecorder
	keys := make(chan platform.Scancode, 8)
	keys <- platform.ScanZ
	keys <- platform.ScanUp
	keys <- platform.ScanZ | platform.KeyUpMask
	keys <- platform.ScanSpace

	handleKeys(&r, keys)
	if len(r.down) != 2 || r.down[0] != joypad.A || r.down[1] != joypad.Up {
		t.Errorf("unexpected key down events: %v", r.down)
	}
	if len(r.up) != 1 || r.up[0] != joypad.A {
		t.Errorf("unexpected key up events: %v", r.up)
	}
	if len(keys) != 0 {
		t.Error("key queue should be drained")
	}
}

func TestRestartKey(t *testing.T) {
	var r keyRecorder
	handleKey(&r, platform.ScanF1)
	if dialog.RestartRequested() {
		t.Fatal("restart should trigger on release")
	}
	handleKey(&r, platform.ScanF1|platform.KeyUpMask)
	if !dialog.RestartRequested() {
		t.Error("expected restart request")
	}
}

func TestFrameDuration(t *testing.T) {
	if frameDuration.Microseconds() != 16742 {
		t.Errorf("unexpected frame duration: %v", frameDuration)
	}
}
