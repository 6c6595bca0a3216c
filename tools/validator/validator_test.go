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

package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/andreas-jonsson/virtualgb/emulator/processor/validator"
)

func encodeTrace(t *testing.T, events ...validator.Event) *bytes.Buffer {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			t.Fatal(err)
		}
	}
	return &buf
}

func event(pc uint16, op byte) validator.Event {
	ev := validator.EmptyEvent
	ev.Opcode = op
	ev.Before.PC = pc
	ev.After.PC = pc + 1
	ev.Ticks = 4
	return ev
}

func TestCompareEqual(t *testing.T) {
	a := encodeTrace(t, event(0x100, 0x00), event(0x101, 0x3C))
	b := encodeTrace(t, event(0x100, 0x00), event(0x101, 0x3C))

	n, d, err := compare(a, b, 10)
	if err != nil || d != nil || n != 2 {
		t.Errorf("Got %d equal events (%v, %v)", n, d, err)
	}
}

func TestCompareDivergence(t *testing.T) {
	diverged := event(0x101, 0x3C)
	diverged.After.AF = 0x0200

	a := encodeTrace(t, event(0x100, 0x00), diverged, event(0x102, 0x00))
	b := encodeTrace(t, event(0x100, 0x00), event(0x101, 0x3C), event(0x102, 0x00))

	n, d, err := compare(a, b, 10)
	if err != nil || d == nil {
		t.Fatalf("expected divergence (%v)", err)
	}
	if n != 1 || d.index != 1 {
		t.Errorf("Got divergence at %d but expected 1", d.index)
	}
	if s := d.String(); !strings.Contains(s, "PC=0x0101") || !strings.Contains(s, "AF=0x0200") {
		t.Errorf("unexpected description: %s", s)
	}
}

func TestCompareLimit(t *testing.T) {
	a := encodeTrace(t, event(0x100, 0x00), event(0x101, 0x00))
	b := encodeTrace(t, event(0x100, 0x00), event(0x101, 0x00))

	if n, _, _ := compare(a, b, 1); n != 1 {
		t.Errorf("Got %d equal events but expected 1", n)
	}
}

func TestCompareInvalid(t *testing.T) {
	a := bytes.NewBufferString("{not json")
	b := encodeTrace(t, event(0x100, 0x00))

	if _, _, err := compare(a, b, 10); err == nil {
		t.Error("expected decode error")
	}
}
