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

package serial

import (
	"bytes"
	"testing"

	"github.com/andreas-jonsson/virtualgb/emulator/bus"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral/pic"
	"github.com/andreas-jonsson/virtualgb/emulator/processor"
)

type echoLink struct {
	sent   []byte
	closed bool
}

func (l *echoLink) Exchange(out byte) byte {
	l.sent = append(l.sent, out)
	return ^out
}

func (l *echoLink) Close() error {
	l.closed = true
	return nil
}

func newSerial(t *testing.T, target processor.Target, link Link) (*Device, *bus.Bus, *pic.Device) {
	m, p := &Device{Link: link}, &pic.Device{}
	b, errs := bus.New(target, []peripheral.Peripheral{p, m})
	for _, err := range errs {
		t.Fatal(err)
	}
	return m, b, p
}

func TestTransfer(t *testing.T) {
	link := &echoLink{}
	_, b, p := newSerial(t, processor.GameBoy, link)

	b.WriteByte(DataRegister, 0x3C)
	b.WriteByte(ControlRegister, 0x81)
	if v := b.ReadByte(ControlRegister); v != 0xFF {
		t.Errorf("Got 0x%X but expected 0xFF", v)
	}

	b.Step(8*normalPeriod - 4)
	if len(link.sent) != 0 || p.Requested() != 0 {
		t.Fatal("transfer finished too early")
	}
	b.Step(4)
	if len(link.sent) != 1 || link.sent[0] != 0x3C {
		t.Fatalf("unexpected link data: %v", link.sent)
	}
	if v := b.ReadByte(DataRegister); v != 0xC3 {
		t.Errorf("Got 0x%X but expected 0xC3", v)
	}
	if v := b.ReadByte(ControlRegister); v != 0x7F {
		t.Errorf("Got 0x%X but expected 0x7F", v)
	}
	if !p.Requested().Has(processor.Serial) {
		t.Error("expected serial interrupt")
	}

	b.Step(8 * normalPeriod)
	if len(link.sent) != 1 {
		t.Error("no transfer should be in progress")
	}
}

func TestNoLink(t *testing.T) {
	_, b, _ := newSerial(t, processor.GameBoy, nil)
	b.WriteByte(DataRegister, 0x3C)
	b.WriteByte(ControlRegister, 0x81)
	b.Step(8 * normalPeriod)
	if v := b.ReadByte(DataRegister); v != 0xFF {
		t.Errorf("Got 0x%X but expected 0xFF", v)
	}
}

func TestExternalClock(t *testing.T) {
	link := &echoLink{}
	_, b, p := newSerial(t, processor.GameBoy, link)
	b.WriteByte(ControlRegister, 0x80)
	b.Step(100 * normalPeriod)
	if len(link.sent) != 0 || p.Requested() != 0 {
		t.Error("external clock transfer should wait")
	}
}

func TestFastClock(t *testing.T) {
	link := &echoLink{}
	_, b, _ := newSerial(t, processor.GameBoyColor, link)
	b.WriteByte(ControlRegister, 0x83)
	if v := b.ReadByte(ControlRegister); v != 0xFF {
		t.Errorf("Got 0x%X but expected 0xFF", v)
	}
	b.Step(8 * fastPeriod)
	if len(link.sent) != 1 {
		t.Error("fast transfer should be done")
	}
}

func TestWriterLink(t *testing.T) {
	var buf bytes.Buffer
	_, b, _ := newSerial(t, processor.GameBoy, &WriterLink{W: &buf})
	for _, c := range []byte("ok") {
		b.WriteByte(DataRegister, c)
		b.WriteByte(ControlRegister, 0x81)
		b.Step(8 * normalPeriod)
	}
	if buf.String() != "ok" {
		t.Errorf("Got %q but expected \"ok\"", buf.String())
	}
}

func TestClose(t *testing.T) {
	link := &echoLink{}
	_, b, _ := newSerial(t, processor.GameBoy, link)
	b.Close()
	if !link.closed {
		t.Error("link should be closed")
	}
}
