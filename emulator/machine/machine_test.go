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

package machine

import (
	"bytes"
	"testing"

	"github.com/andreas-jonsson/virtualgb/emulator/peripheral/joypad"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral/pic"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral/serial"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral/video"
	"github.com/andreas-jonsson/virtualgb/emulator/processor"
)

func makeROM(prog []byte, code map[uint16][]byte) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x100:], prog)
	for addr, c := range code {
		copy(rom[addr:], c)
	}
	copy(rom[0x134:], "MACHINE")
	return rom
}

func newMachine(t *testing.T, target processor.Target, rom []byte, link serial.Link) *Machine {
	m, err := New(Config{Target: target, Cartridge: bytes.NewReader(rom), SerialLink: link})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

var spinLoop = []byte{0x18, 0xFE} // JR -2

func TestFrameCounting(t *testing.T) {
	m := newMachine(t, processor.GameBoy, makeROM(spinLoop, nil), nil)
	defer m.Close()

	m.Frame()
	m.Frame()
	if n := m.Frames(); n != 2 {
		t.Errorf("Got %d frames but expected 2", n)
	}
	if n := m.Frames(); n != 0 {
		t.Errorf("Got %d frames but expected 0", n)
	}
}

func TestFrameBudget(t *testing.T) {
	m := newMachine(t, processor.GameBoy, makeROM(spinLoop, nil), nil)
	defer m.Close()

	for i := 1; i <= 10; i++ {
		m.Frame()

		ticks := m.CPU().Ticks()
		expected := uint64(i * TicksPerFrame)
		if ticks < expected || ticks >= expected+24 {
			t.Fatalf("frame %d: Got %d ticks but expected %d", i, ticks, expected)
		}
		if m.budget > 0 || uint64(-m.budget) != ticks-expected {
			t.Fatalf("frame %d: overshoot %d was not carried", i, m.budget)
		}
	}
	if TicksPerFrame != 70224 {
		t.Errorf("Got %d ticks per frame", TicksPerFrame)
	}
}

func TestVBlankInterrupt(t *testing.T) {
	prog := []byte{
		0x3E, 0x01, // LD A,1
		0xE0, 0xFF, // LDH (IE),A
		0xFB,       // EI
		0x76,       // HALT
		0x18, 0xFD, // JR -3
	}
	handler := map[uint16][]byte{0x40: {0x04, 0xD9}} // INC B; RETI

	m := newMachine(t, processor.GameBoy, makeROM(prog, handler), nil)
	defer m.Close()

	for i := 0; i < 3; i++ {
		m.Frame()
	}
	if b := m.CPU().B(); b != 3 {
		t.Errorf("Got %d interrupts but expected 3", b)
	}
	if s := m.CPU().GetStats(); s.NumInterrupts != 3 || s.NumHaltCycles == 0 {
		t.Errorf("unexpected stats: %+v", s)
	}
}

func TestKeys(t *testing.T) {
	m := newMachine(t, processor.GameBoy, makeROM(spinLoop, nil), nil)
	defer m.Close()

	b := m.Bus()
	b.WriteByte(joypad.Register, 0x10)
	m.KeyDown(joypad.A)
	if v := b.ReadByte(joypad.Register); v != 0xE {
		t.Errorf("Got 0x%X but expected 0xE", v)
	}
	if v := b.ReadByte(pic.FlagRegister); v&byte(processor.Joypad) == 0 {
		t.Error("expected joypad interrupt request")
	}
	m.KeyUp(joypad.A)
	if v := b.ReadByte(joypad.Register); v != 0xF {
		t.Errorf("Got 0x%X but expected 0xF", v)
	}
}

func TestSerialOutput(t *testing.T) {
	prog := []byte{
		0x3E, 'H', // LD A,'H'
		0xE0, 0x01, // LDH (SB),A
		0x3E, 0x81, // LD A,0x81
		0xE0, 0x02, // LDH (SC),A
		0x18, 0xFE, // JR -2
	}

	var buf bytes.Buffer
	m := newMachine(t, processor.GameBoy, makeROM(prog, nil), &serial.WriterLink{W: &buf})
	defer m.Close()

	m.Frame()
	if buf.String() != "H" {
		t.Errorf("Got %q but expected \"H\"", buf.String())
	}
}

func TestImage(t *testing.T) {
	m := newMachine(t, processor.GameBoy, makeROM(spinLoop, nil), nil)
	defer m.Close()

	m.Frame()
	if len(m.Image()) != video.Width*video.Height*4 {
		t.Errorf("unexpected image size: %d", len(m.Image()))
	}
}

func TestTargets(t *testing.T) {
	for target, a := range map[processor.Target]byte{
		processor.GameBoy:      0x01,
		processor.GameBoyColor: 0x11,
		processor.SuperGameBoy: 0xFF,
	} {
		m := newMachine(t, target, makeROM(spinLoop, nil), nil)
		if m.CPU().A() != a || m.Bus().Target() != target {
			t.Errorf("%v: Got A=0x%X but expected 0x%X", target, m.CPU().A(), a)
		}
		m.Close()
	}
}

func TestReset(t *testing.T) {
	m := newMachine(t, processor.GameBoy, makeROM(spinLoop, nil), nil)
	defer m.Close()

	m.Frame()
	m.Reset()
	if m.CPU().Ticks() != 0 || m.CPU().PC != 0x100 || m.budget != 0 {
		t.Error("unexpected state after reset")
	}
	if n := m.Frames(); n != 0 {
		t.Errorf("Got %d frames after reset but expected 0", n)
	}
	if m.Header().Title != "MACHINE" {
		t.Errorf("unexpected title: %q", m.Header().Title)
	}
}

func TestConfigErrors(t *testing.T) {
	if _, err := New(Config{Target: processor.GameBoy}); err == nil {
		t.Error("expected missing cartridge error")
	}
	if _, err := New(Config{Target: processor.GameBoy, Cartridge: bytes.NewReader(nil)}); err == nil {
		t.Error("expected short ROM error")
	}
}

func BenchmarkFrame(b *testing.B) {
	m, err := New(Config{Target: processor.GameBoy, Cartridge: bytes.NewReader(makeROM(spinLoop, nil))})
	if err != nil {
		b.Fatal(err)
	}
	defer m.Close()

	for i := 0; i < b.N; i++ {
		m.Frame()
	}
}
