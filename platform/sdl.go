// +build sdl

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

package platform

import (
	"flag"
	"os"

	"github.com/andreas-jonsson/virtualgb/platform/dialog"
	"github.com/spf13/afero"
	"github.com/veandco/go-sdl2/sdl"
)

const Windowed = true

type sdlPlatform struct {
	afero.Fs

	cleanCallBacks []func(*sdlPlatform)

	quitChan        chan struct{}
	keyboardHandler func(Scancode)

	sdlFlags, sdlWindowFlags uint32
	windowSizeX, windowSizeY int32
	textureW, textureH       int

	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
}

var sdlPlatformInstance sdlPlatform

func registerCleanup(p internalPlatform, cb func(p *sdlPlatform)) {
	sp := p.(*sdlPlatform)
	sp.cleanCallBacks = append(sp.cleanCallBacks, cb)
}

func ConfigWithWindowSize(w, h int) Config {
	return func(p internalPlatform) error {
		if sp, ok := p.(*sdlPlatform); ok {
			sp.windowSizeX = int32(w)
			sp.windowSizeY = int32(h)
		}
		return nil
	}
}

func ConfigWithFullscreen(p internalPlatform) error {
	if sp, ok := p.(*sdlPlatform); ok {
		sp.sdlWindowFlags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	return nil
}

func Start(mainLoop func(Platform), configs ...Config) {
	if f := flag.Lookup("text"); f != nil && f.Value.(flag.Getter).Get().(bool) {
		tcellStart(mainLoop, configs...)
		return
	}

	errHandle := func(err error) {
		dialog.ShowErrorMessage(err.Error())
		os.Exit(-1)
	}

	p := &sdlPlatformInstance
	p.Fs = afero.NewOsFs()
	p.windowSizeX = 160 * 4
	p.windowSizeY = 144 * 4
	p.sdlWindowFlags = sdl.WINDOW_RESIZABLE

	sdl.Main(func() {
		for _, cfg := range configs {
			if err := cfg(p); err != nil {
				errHandle(err)
			}
		}

		if err := sdl.Init(p.sdlFlags); err != nil {
			errHandle(err)
		}
		defer sdl.Quit()

		defer func() {
			for _, cb := range p.cleanCallBacks {
				cb(p)
			}
		}()

		Instance = p

		if err := p.initializeVideo(); err != nil {
			errHandle(err)
		}
		if err := p.initializeSDLEvents(); err != nil {
			errHandle(err)
		}
		mainLoop(p)
	})
	os.Exit(0) // Calling Exit is required!
}
