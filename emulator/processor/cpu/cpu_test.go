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

package cpu

import (
	"testing"

	"github.com/andreas-jonsson/virtualgb/emulator/bus"
	"github.com/andreas-jonsson/virtualgb/emulator/debug"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral/pic"
	"github.com/andreas-jonsson/virtualgb/emulator/processor"
)

type testMemory struct {
	peripheral.NullDevice
	mem [0x10000]byte
}

func (m *testMemory) Install(p processor.Bus) error {
	return p.InstallMemoryDevice(m, 0x0000, 0xFFFF)
}

func (m *testMemory) ReadByte(addr uint16) byte {
	return m.mem[addr]
}

func (m *testMemory) WriteByte(addr uint16, data byte) {
	m.mem[addr] = data
}

type testMachine struct {
	*CPU
	bus *bus.Bus
	mem *testMemory
	pic *pic.Device
}

func newTestMachine(t testing.TB, target processor.Target, prog ...byte) *testMachine {
	m := &testMachine{CPU: NewCPU(target), mem: &testMemory{}, pic: &pic.Device{}}

	var errs []error
	m.bus, errs = bus.New(target, []peripheral.Peripheral{m.mem, m.pic})
	for _, err := range errs {
		t.Fatal(err)
	}
	copy(m.mem.mem[0x100:], prog)
	return m
}

func (m *testMachine) exec() uint {
	return m.Exec(m.bus)
}

func (m *testMachine) stack(offset uint16) uint16 {
	sp := m.SP + offset
	return uint16(m.mem.mem[sp]) | uint16(m.mem.mem[sp+1])<<8
}

func TestDispatch(t *testing.T) {
	for _, i := range []processor.Interrupt{processor.VBlank, processor.LCDStat, processor.Timer, processor.Serial, processor.Joypad} {
		m := newTestMachine(t, processor.GameBoy, 0x00)
		m.IME = true
		m.bus.WriteByte(pic.EnableRegister, byte(i))
		m.bus.WriteByte(pic.FlagRegister, byte(i))

		if ticks := m.exec(); ticks != 8 {
			t.Errorf("%v: Got %d ticks but expected 8", i, ticks)
		}
		if m.PC != i.Vector() {
			t.Errorf("%v: Got PC 0x%X but expected 0x%X", i, m.PC, i.Vector())
		}
		if m.IME {
			t.Errorf("%v: IME should be cleared", i)
		}
		if m.pic.Requested().Has(i) {
			t.Errorf("%v: request should be acknowledged", i)
		}
		if ret := m.stack(0); ret != 0x101 {
			t.Errorf("%v: Got return address 0x%X but expected 0x101", i, ret)
		}
	}
}

func TestDispatchPriority(t *testing.T) {
	m := newTestMachine(t, processor.GameBoy, 0x00)
	m.bus.WriteByte(pic.EnableRegister, 0x1F)
	m.pic.IRQ(processor.Joypad)
	m.pic.IRQ(processor.Timer)
	m.pic.IRQ(processor.VBlank)

	for _, expected := range []uint16{0x40, 0x50, 0x60} {
		m.IME = true
		m.exec()
		if m.PC != expected {
			t.Fatalf("Got PC 0x%X but expected 0x%X", m.PC, expected)
		}
	}
	if m.pic.Requested() != 0 {
		t.Errorf("all requests should be acknowledged: %v", m.pic.Requested())
	}
}

func TestHaltedIdle(t *testing.T) {
	m := newTestMachine(t, processor.GameBoy, 0x3C)
	m.Halt = true
	m.bus.WriteByte(pic.FlagRegister, 0x1F)

	regs := m.Registers
	for i := 1; i <= 10; i++ {
		if ticks := m.exec(); ticks != 4 {
			t.Fatalf("Got %d ticks but expected 4", ticks)
		}
		if m.Registers != regs {
			t.Fatal("registers changed while halted")
		}
		if m.Ticks() != uint64(i*4) {
			t.Fatalf("Got %d total ticks but expected %d", m.Ticks(), i*4)
		}
	}
	if s := m.GetStats(); s.NumHaltCycles != 10 || s.NumInstructions != 0 {
		t.Errorf("unexpected stats: %+v", s)
	}
}

func TestHaltWakeWithoutService(t *testing.T) {
	m := newTestMachine(t, processor.GameBoy)
	m.Halt = true
	m.bus.WriteByte(pic.EnableRegister, byte(processor.Timer))
	m.pic.IRQ(processor.Timer)

	if ticks := m.exec(); ticks != 4 {
		t.Errorf("Got %d ticks but expected 4", ticks)
	}
	if m.Halt || m.Stop {
		t.Error("CPU should be running")
	}
	if m.IME {
		t.Error("IME should be unchanged")
	}
	if !m.pic.Requested().Has(processor.Timer) {
		t.Error("timer request should still be pending")
	}
	if m.PC != 0x100 {
		t.Errorf("Got PC 0x%X but expected 0x100", m.PC)
	}
}

func TestHaltWakeWithService(t *testing.T) {
	m := newTestMachine(t, processor.GameBoy, 0xFB, 0x76)
	m.bus.WriteByte(pic.EnableRegister, byte(processor.VBlank))

	m.exec() // EI
	m.exec() // HALT
	if m.Mode() != processor.Halted {
		t.Fatalf("expected halted mode but got %v", m.Mode())
	}

	m.pic.IRQ(processor.VBlank)
	if ticks := m.exec(); ticks != 8 {
		t.Errorf("Got %d ticks but expected 8", ticks)
	}
	if m.Mode() != processor.Running || m.PC != 0x40 {
		t.Errorf("expected VBlank dispatch but got PC 0x%X in %v mode", m.PC, m.Mode())
	}
	if ret := m.stack(0); ret != 0x102 {
		t.Errorf("Got return address 0x%X but expected 0x102", ret)
	}
}

func TestStopSpeedSwitch(t *testing.T) {
	m := newTestMachine(t, processor.GameBoyColor, 0x10, 0x00, 0x00)
	m.bus.WriteByte(bus.SpeedRegister, 1)

	if ticks := m.exec(); ticks != 4 {
		t.Errorf("Got %d ticks but expected 4", ticks)
	}
	if m.Mode() != processor.Stopped {
		t.Fatalf("expected stopped mode but got %v", m.Mode())
	}

	if ticks := m.exec(); ticks != 2 {
		t.Errorf("Got %d ticks but expected 2", ticks)
	}
	if m.Stop || m.bus.Speed() != processor.Double || m.bus.SpeedSwitchPending() {
		t.Error("expected a completed switch to double speed")
	}
	if m.PC != 0x102 {
		t.Errorf("Got PC 0x%X but expected 0x102", m.PC)
	}
}

func TestStopWithoutSwitch(t *testing.T) {
	m := newTestMachine(t, processor.GameBoy, 0x10, 0x00)
	m.exec()
	for i := 0; i < 3; i++ {
		if ticks := m.exec(); ticks != 4 {
			t.Errorf("Got %d ticks but expected 4", ticks)
		}
	}
	if m.Mode() != processor.Stopped || m.bus.Speed() != processor.Normal {
		t.Error("CPU should stay stopped at normal speed")
	}
}

func TestSpeedScaling(t *testing.T) {
	prog := []byte{0x00, 0x01, 0x34, 0x12, 0xCD, 0x00, 0x02}
	expected := []uint{1, 3, 6}

	normal := newTestMachine(t, processor.GameBoyColor, prog...)
	double := newTestMachine(t, processor.GameBoyColor, prog...)
	double.bus.WriteByte(bus.SpeedRegister, 1)
	double.bus.SwitchSpeed()

	for _, b := range expected {
		if ticks := normal.exec(); ticks != 4*b {
			t.Errorf("Got %d ticks but expected %d", ticks, 4*b)
		}
		if ticks := double.exec(); ticks != 2*b {
			t.Errorf("Got %d ticks but expected %d", ticks, 2*b)
		}
	}
}

func TestEnableLatency(t *testing.T) {
	m := newTestMachine(t, processor.GameBoy, 0xFB, 0x00, 0x00)
	m.bus.WriteByte(pic.EnableRegister, byte(processor.VBlank))
	m.pic.IRQ(processor.VBlank)

	m.exec()
	if m.PC != 0x101 {
		t.Fatalf("interrupt dispatched in the EI step, PC is 0x%X", m.PC)
	}
	if m.IME || !m.EnablePending {
		t.Fatal("enable should be pending")
	}

	m.exec()
	if m.PC != 0x40 {
		t.Fatalf("Got PC 0x%X but expected 0x40", m.PC)
	}
	if ret := m.stack(0); ret != 0x102 {
		t.Errorf("Got return address 0x%X but expected 0x102", ret)
	}
}

func TestDisableCancelsEnable(t *testing.T) {
	m := newTestMachine(t, processor.GameBoy, 0xFB, 0xF3, 0x00, 0x00)
	m.bus.WriteByte(pic.EnableRegister, byte(processor.VBlank))
	m.pic.IRQ(processor.VBlank)

	for i := 0; i < 3; i++ {
		m.exec()
	}
	if m.PC != 0x103 || m.IME {
		t.Errorf("no interrupt should be dispatched, PC is 0x%X", m.PC)
	}
}

func TestRETIEnablesImmediately(t *testing.T) {
	m := newTestMachine(t, processor.GameBoy, 0xD9)
	m.SP = 0xFFFC
	m.mem.mem[0xFFFC] = 0x00
	m.mem.mem[0xFFFD] = 0x20
	m.bus.WriteByte(pic.EnableRegister, byte(processor.Serial))
	m.pic.IRQ(processor.Serial)

	m.exec()
	if m.PC != 0x58 {
		t.Errorf("Got PC 0x%X but expected 0x58", m.PC)
	}
	if ret := m.stack(0); ret != 0x2000 {
		t.Errorf("Got return address 0x%X but expected 0x2000", ret)
	}
}

func TestInvalidOpcode(t *testing.T) {
	for _, op := range []byte{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		m := newTestMachine(t, processor.GameBoy, op)
		func() {
			defer func() {
				if r := recover(); (r != nil) != debug.Enabled {
					t.Errorf("opcode 0x%X: unexpected panic state: %v", op, r)
				}
			}()
			if ticks := m.exec(); ticks != 4 {
				t.Errorf("opcode 0x%X: Got %d ticks but expected 4", op, ticks)
			}
		}()
	}
}

func TestReset(t *testing.T) {
	m := newTestMachine(t, processor.SuperGameBoy, 0x3C)
	m.exec()
	m.Reset()
	if m.A() != 0xFF || m.PC != 0x100 || m.Ticks() != 0 {
		t.Errorf("unexpected state after reset: A=0x%X PC=0x%X", m.A(), m.PC)
	}
}

func BenchmarkExec(b *testing.B) {
	m := newTestMachine(b, processor.GameBoy, 0x3C, 0x18, 0xFD) // INC A; JR -3
	debug.MuteLogging(true)
	defer debug.MuteLogging(false)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.exec()
	}
}
