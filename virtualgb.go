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
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/andreas-jonsson/virtualgb/emulator"
	"github.com/andreas-jonsson/virtualgb/emulator/debug"
	"github.com/andreas-jonsson/virtualgb/platform"
	"github.com/andreas-jonsson/virtualgb/platform/dialog"
	"github.com/andreas-jonsson/virtualgb/statsview"
	"github.com/andreas-jonsson/virtualgb/version"
	"github.com/spf13/afero"
)

var (
	textMode,
	showFPS,
	fullscreen,
	stats,
	ver bool
)

var scale = 4

func init() {
	flag.BoolVar(&ver, "v", false, "Print version information")
	flag.BoolVar(&showFPS, "fps", false, "Don't run a display, just print FPS")
	flag.BoolVar(&fullscreen, "fullscreen", false, "Start in fullscreen mode")
	flag.BoolVar(&stats, "statsview", false, "Serve runtime statistics over HTTP")
	flag.BoolVar(&textMode, "text", false, "Render in the terminal")
	flag.IntVar(&scale, "scale", scale, "Window scale factor")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [options] <rom>\n", os.Args[0])
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	if ver {
		fmt.Printf("%s (%s)\n", version.Current.FullString(), version.Hash)
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if stats {
		statsview.Launch(os.Stdout)
	}

	if showFPS {
		go func() {
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt)
			<-c
			dialog.Quit()
		}()

		if err := emulator.Benchmark(afero.NewOsFs(), os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if scale < 1 {
		scale = 1
	}

	configs := []platform.Config{platform.ConfigWithWindowSize(160*scale, 144*scale)}
	if fullscreen {
		configs = append(configs, platform.ConfigWithFullscreen)
	}

	printLogo()
	debug.MuteLogging(textMode || !platform.Windowed)
	platform.Start(emulator.Start, configs...)
}

func printLogo() {
	fmt.Print(logo)
	fmt.Println("v" + version.Current.String())
	fmt.Printf(" ───────═════ %s ══════───────\n\n", version.Copyright)
}

var logo = `
██╗   ██╗██╗██████╗ ████████╗██╗   ██╗ █████╗ ██╗      ██████╗ ██████╗ 
██║   ██║██║██╔══██╗╚══██╔══╝██║   ██║██╔══██╗██║     ██╔════╝ ██╔══██╗
██║   ██║██║██████╔╝   ██║   ██║   ██║███████║██║     ██║  ███╗██████╔╝
╚██╗ ██╔╝██║██╔══██╗   ██║   ██║   ██║██╔══██║██║     ██║   ██║██╔══██╗
 ╚████╔╝ ██║██║  ██║   ██║   ╚██████╔╝██║  ██║███████╗╚██████╔╝██████╔╝
  ╚═══╝  ╚═╝╚═╝  ╚═╝   ╚═╝    ╚═════╝ ╚═╝  ╚═╝╚══════╝ ╚═════╝ ╚═════╝`
