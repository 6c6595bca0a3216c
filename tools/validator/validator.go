/*
Copyright (c) 2019-2020 Andreas T Jonsson

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
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/andreas-jonsson/virtualgb/emulator/processor/validator"
)

var (
	vgbInput = "virtualgb.json"
	refInput = "validator.json"
	maxSteps = 1000000
)

func init() {
	flag.StringVar(&vgbInput, "virtualgb", vgbInput, "VirtualGB CPU trace")
	flag.StringVar(&refInput, "validation", refInput, "Reference CPU trace")
	flag.IntVar(&maxSteps, "max", maxSteps, "Maximum number of instructions to compare")
}

func main() {
	flag.Parse()
	log.SetFlags(0)

	vgbFp, err := os.Open(vgbInput)
	if err != nil {
		log.Fatal(err)
	}
	defer vgbFp.Close()

	refFp, err := os.Open(refInput)
	if err != nil {
		log.Fatal(err)
	}
	defer refFp.Close()

	n, d, err := compare(vgbFp, refFp, maxSteps)
	if err != nil {
		log.Fatal(err)
	}
	log.Print("Equal: ", n)

	if d != nil {
		log.Print(d)
		os.Exit(1)
	}
}

type divergence struct {
	index int
	a, b  validator.Event
}

func (d *divergence) String() string {
	return fmt.Sprintf("instruction %d diverged:\n  virtualgb: %s\n  reference: %s", d.index, describe(&d.a), describe(&d.b))
}

func describe(e *validator.Event) string {
	r := &e.Before
	return fmt.Sprintf("PC=0x%04X op=0x%02X ticks=%d AF=0x%04X BC=0x%04X DE=0x%04X HL=0x%04X SP=0x%04X -> AF=0x%04X",
		r.PC, e.Opcode, e.Ticks, r.AF, r.BC, r.DE, r.HL, r.SP, e.After.AF)
}

// compare reads two event streams in lockstep and returns the number of
// equal events before the first divergence.
func compare(a, b io.Reader, max int) (int, *divergence, error) {
	aDec := json.NewDecoder(a)
	bDec := json.NewDecoder(b)

	for i := 0; i < max; i++ {
		var ea, eb validator.Event
		errA, errB := aDec.Decode(&ea), bDec.Decode(&eb)
		if errors.Is(errA, io.EOF) || errors.Is(errB, io.EOF) {
			return i, nil, nil
		}
		if errA != nil {
			return i, nil, errA
		}
		if errB != nil {
			return i, nil, errB
		}

		if ea != eb {
			return i, &divergence{i, ea, eb}, nil
		}
	}
	return max, nil, nil
}
