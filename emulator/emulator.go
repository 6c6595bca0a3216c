/*
Copyright (C) 2019-2020 Andreas T Jonsson

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

package emulator

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/andreas-jonsson/virtualgb/emulator/machine"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral/cartridge"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral/serial"
	"github.com/andreas-jonsson/virtualgb/emulator/peripheral/video"
	"github.com/andreas-jonsson/virtualgb/emulator/processor"
	"github.com/andreas-jonsson/virtualgb/emulator/processor/validator"
	"github.com/andreas-jonsson/virtualgb/platform"
	"github.com/andreas-jonsson/virtualgb/platform/dialog"
	"github.com/spf13/afero"
)

// ClockRate is the CPU clock in ticks per second at normal speed.
const ClockRate = 4194304

const frameDuration = time.Second * machine.TicksPerFrame / ClockRate

var (
	defaultTarget = processor.DefaultTarget.String()
	targetName    string
	serialLink    string
	traceFile     string
)

func init() {
	if t, ok := os.LookupEnv("VGB_DEFAULT_TARGET"); ok {
		defaultTarget = t
	}

	flag.StringVar(&targetName, "gb", "", "Type of gameboy to run [gb|cgb|sgb]")
	flag.StringVar(&serialLink, "serial", "", "Serial link cable [stdout|network:<device>]")
	if validator.Enabled {
		flag.StringVar(&traceFile, "trace", "validator.json", "Write instruction trace to file, .gz selects the binary form")
	}
}

func selectTarget(rom []byte) (processor.Target, error) {
	if targetName != "" {
		return processor.ParseTarget(targetName)
	}
	if t, ok := cartridge.GuessTarget(rom); ok {
		return t, nil
	}
	log.Printf("Could not detect target, using %s", defaultTarget)
	return processor.ParseTarget(defaultTarget)
}

func openLink(name string) (serial.Link, error) {
	switch {
	case name == "":
		return nil, nil
	case name == "stdout":
		return &serial.WriterLink{W: os.Stdout}, nil
	case strings.HasPrefix(name, "network:"):
		return openNetworkLink(strings.TrimPrefix(name, "network:"))
	}
	return nil, fmt.Errorf("invalid serial link: %s", name)
}

func newMachine(fs afero.Fs, name string) (*machine.Machine, error) {
	if name == "" {
		return nil, errors.New("no ROM image specified")
	}

	rom, err := afero.ReadFile(fs, name)
	if err != nil {
		return nil, err
	}

	target, err := selectTarget(rom)
	if err != nil {
		return nil, err
	}

	link, err := openLink(serialLink)
	if err != nil {
		return nil, err
	}

	m, err := machine.New(machine.Config{
		Target:     target,
		Cartridge:  bytes.NewReader(rom),
		SerialLink: link,
	})
	if err != nil {
		if c, ok := link.(io.Closer); ok {
			c.Close()
		}
		return nil, err
	}
	return m, nil
}

// Start runs the emulator on the given platform until shutdown is requested.
func Start(p platform.Platform) {
	m, err := newMachine(p, flag.Arg(0))
	if err != nil {
		dialog.ShowErrorMessage(err.Error())
		return
	}
	defer m.Close()

	if validator.Enabled {
		validator.Initialize(traceFile, validator.DefaultQueueSize, validator.DefaultBufferSize)
		defer validator.Shutdown()
	}

	keys := make(chan platform.Scancode, 64)
	p.SetKeyboardHandler(func(s platform.Scancode) {
		select {
		case keys <- s:
		default:
			log.Print("Keyboard buffer overflow!")
		}
	})

	title := m.Header().Title
	p.SetTitle("VirtualGB - " + title)

	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	last := time.Now()
	for !dialog.ShutdownRequested() {
		if dialog.RestartRequested() {
			m.Reset()
		}
		handleKeys(m, keys)

		m.Frame()
		p.RenderGraphics(m.Image(), video.Width, video.Height)

		if t := time.Since(last); t >= time.Second {
			p.SetTitle(fmt.Sprintf("VirtualGB - %s - %d FPS", title, m.Frames()))
			last = last.Add(t)
		}
		<-ticker.C
	}
}

// Benchmark runs the machine without a display or frame limit and prints
// the number of frames emulated each second.
func Benchmark(fs afero.Fs, out io.Writer) error {
	m, err := newMachine(fs, flag.Arg(0))
	if err != nil {
		return err
	}
	defer m.Close()

	headless(m, out, dialog.ShutdownRequested)
	return nil
}

func headless(m *machine.Machine, out io.Writer, stop func() bool) {
	last := time.Now()
	for !stop() {
		m.Frame()
		if t := time.Since(last); t >= time.Second {
			fmt.Fprintln(out, m.Frames())
			last = last.Add(t)
		}
	}
}
