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

package sound

import (
	"testing"

	"github.com/andreas-jonsson/virtualgb/emulator/bus"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral/pic"
	"github.com/andreas-jonsson/virtualgb/emulator/processor"
)

func newSound(t *testing.T) *bus.Bus {
	b, errs := bus.New(processor.GameBoy, []peripheral.Peripheral{&pic.Device{}, &Device{}})
	for _, err := range errs {
		t.Fatal(err)
	}
	return b
}

func TestRegisters(t *testing.T) {
	b := newSound(t)
	b.WriteByte(0xFF12, 0xF3)
	if v := b.ReadByte(0xFF12); v != 0xF3 {
		t.Errorf("Got 0x%X but expected 0xF3", v)
	}
	b.WriteByte(0xFF11, 0x80)
	if v := b.ReadByte(0xFF11); v != 0xBF {
		t.Errorf("Got 0x%X but expected 0xBF", v)
	}
	if v := b.ReadByte(0xFF13); v != 0xFF {
		t.Errorf("write only register should read 0xFF: 0x%X", v)
	}
	if v := b.ReadByte(PowerRegister); v != 0xF0 {
		t.Errorf("Got 0x%X but expected 0xF0", v)
	}
}

func TestWaveRAM(t *testing.T) {
	b := newSound(t)
	for i := uint16(0); i < 16; i++ {
		b.WriteByte(waveStart+i, byte(i))
	}
	for i := uint16(0); i < 16; i++ {
		if v := b.ReadByte(waveStart + i); v != byte(i) {
			t.Errorf("Got 0x%X but expected 0x%X", v, i)
		}
	}
}

func TestPower(t *testing.T) {
	b := newSound(t)
	b.WriteByte(0xFF24, 0x77)
	b.WriteByte(0xFF30, 0x12)
	b.WriteByte(PowerRegister, 0)

	if v := b.ReadByte(PowerRegister); v != 0x70 {
		t.Errorf("Got 0x%X but expected 0x70", v)
	}
	if v := b.ReadByte(0xFF24); v != 0 {
		t.Errorf("registers should be cleared: 0x%X", v)
	}
	b.WriteByte(0xFF24, 0x77)
	if v := b.ReadByte(0xFF24); v != 0 {
		t.Errorf("registers should be read only while powered off: 0x%X", v)
	}
	if v := b.ReadByte(0xFF30); v != 0x12 {
		t.Errorf("wave RAM should be kept: 0x%X", v)
	}

	b.WriteByte(PowerRegister, 0x80)
	b.WriteByte(0xFF24, 0x77)
	if v := b.ReadByte(0xFF24); v != 0x77 {
		t.Errorf("Got 0x%X but expected 0x77", v)
	}
}
