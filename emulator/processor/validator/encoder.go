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

package validator

import (
	"compress/gzip"
	"io"
)

// Encoder writes events in a compact big-endian binary form.
type Encoder struct {
	writer *gzip.Writer
	buf    []byte
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{writer: gzip.NewWriter(w)}
}

func (enc *Encoder) Encode(event Event) error {
	enc.buf = enc.buf[:0]
	enc.appendByte(event.Opcode)
	enc.appendWord(uint16(event.Ticks))

	for _, info := range [2]RegsInfo{event.Before, event.After} {
		for _, reg := range [6]uint16{info.PC, info.SP, info.AF, info.BC, info.DE, info.HL} {
			enc.appendWord(reg)
		}

		var state byte
		if info.IME {
			state |= 1
		}
		if info.Halt {
			state |= 2
		}
		if info.Stop {
			state |= 4
		}
		enc.appendByte(state)
	}

	for _, ops := range [2][MaxMemOps]MemOp{event.Reads, event.Writes} {
		for _, op := range ops {
			if op.Valid() {
				enc.appendByte(1)
			} else {
				enc.appendByte(0)
			}
			enc.appendWord(uint16(op.Addr))
			enc.appendByte(op.Data)
		}
	}

	_, err := enc.writer.Write(enc.buf)
	return err
}

func (enc *Encoder) appendByte(value byte) {
	enc.buf = append(enc.buf, value)
}

func (enc *Encoder) appendWord(value uint16) {
	enc.buf = append(enc.buf, byte(value>>8), byte(value))
}

func (enc *Encoder) Close() error {
	return enc.writer.Close()
}
