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

package memory

import (
	"log"
	"sync"
)

type Memory interface {
	ReadByte(addr uint16) byte
	WriteByte(addr uint16, data byte)
}

// DummyMemory backs every unmapped address. Each address is only reported once.
type DummyMemory struct {
	lock     sync.Mutex
	reported map[uint16]bool
}

func (m *DummyMemory) report(op string, addr uint16) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.reported == nil {
		m.reported = make(map[uint16]bool)
	}
	if !m.reported[addr] {
		m.reported[addr] = true
		log.Printf("%s unmapped memory: 0x%X", op, addr)
	}
}

func (m *DummyMemory) ReadByte(addr uint16) byte {
	m.report("reading", addr)
	return 0xFF
}

func (m *DummyMemory) WriteByte(addr uint16, data byte) {
	m.report("writing", addr)
}

// Latch is plain storage for a block of registers without side effects.
type Latch struct {
	Base uint16
	Mem  []byte
}

func NewLatch(from, to uint16) *Latch {
	return &Latch{Base: from, Mem: make([]byte, int(to-from)+1)}
}

func (m *Latch) ReadByte(addr uint16) byte {
	return m.Mem[addr-m.Base]
}

func (m *Latch) WriteByte(addr uint16, data byte) {
	m.Mem[addr-m.Base] = data
}
