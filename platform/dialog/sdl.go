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

package dialog

import (
	"errors"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"sync/atomic"

	"github.com/veandco/go-sdl2/sdl"
)

const projectURL = "https://github.com/andreas-jonsson/virtualgb"

type buttonList []sdl.MessageBoxButtonData

func (b buttonList) Len() int {
	return len(b)
}

func (b buttonList) Less(i, j int) bool {
	return b[i].ButtonID < b[j].ButtonID
}

func (b buttonList) Swap(i, j int) {
	b[i], b[j] = b[j], b[i]
}

func sortButtons(buttons []sdl.MessageBoxButtonData) []sdl.MessageBoxButtonData {
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		sort.Sort(sort.Reverse(buttonList(buttons)))
	}
	return buttons
}

func MainMenu() error {
	atomic.StoreInt32(&mainMenuWasOpen, 1)

	mbd := sdl.MessageBoxData{
		Flags:   sdl.MESSAGEBOX_INFORMATION,
		Title:   "Menu Options",
		Message: "Arrows: D-pad, Z: A, X: B, Enter: Start, Comma: Select",
		Buttons: sortButtons([]sdl.MessageBoxButtonData{
			{
				Flags:    sdl.MESSAGEBOX_BUTTON_ESCAPEKEY_DEFAULT,
				ButtonID: 0,
				Text:     "Cancel",
			},
			{
				ButtonID: 1,
				Text:     "Reset",
			},
			{
				ButtonID: 2,
				Text:     "Help",
			},
		}),
	}

	id, err := sdl.ShowMessageBox(&mbd)
	if err != nil {
		return err
	}

	switch id {
	case 2:
		return OpenURL(projectURL)
	case 1:
		RequestRestart()
		return nil
	}
	return errors.New("operation canceled")
}

func WindowsInstallNpcap() {
	if runtime.GOOS == "windows" {
		mbd := sdl.MessageBoxData{
			Flags:   sdl.MESSAGEBOX_ERROR,
			Title:   "Network Error",
			Message: "Npcap is needed for the network link cable. Do you want to install it now?",
			Buttons: sortButtons([]sdl.MessageBoxButtonData{
				{
					Flags:    sdl.MESSAGEBOX_BUTTON_ESCAPEKEY_DEFAULT,
					ButtonID: 0,
					Text:     "No",
				},
				{
					Flags:    sdl.MESSAGEBOX_BUTTON_RETURNKEY_DEFAULT,
					ButtonID: 1,
					Text:     "Yes",
				},
			}),
		}

		id, err := sdl.ShowMessageBox(&mbd)
		if err != nil || id == 0 {
			return
		}

		ep, err := os.Executable()
		if err != nil {
			log.Print(err)
			return
		}

		if err := exec.Command(filepath.Join(filepath.Dir(ep), "npcap-installer.exe")).Start(); err != nil {
			log.Print(err)
			return
		}
		os.Exit(0)
	}
}

func ShowErrorMessage(msg string) error {
	return sdl.ShowSimpleMessageBox(sdl.MESSAGEBOX_ERROR, "Error", msg, nil)
}

func AskToQuit() bool {
	mbd := sdl.MessageBoxData{
		Flags:   sdl.MESSAGEBOX_INFORMATION,
		Title:   "Shutdown",
		Message: "Do you want to shutdown the emulator?",
		Buttons: sortButtons([]sdl.MessageBoxButtonData{
			{
				Flags:    sdl.MESSAGEBOX_BUTTON_ESCAPEKEY_DEFAULT,
				ButtonID: 0,
				Text:     "No",
			},
			{
				Flags:    sdl.MESSAGEBOX_BUTTON_RETURNKEY_DEFAULT,
				ButtonID: 1,
				Text:     "Yes",
			},
		}),
	}

	id, err := sdl.ShowMessageBox(&mbd)
	quit := err != nil || id == 1
	if quit {
		Quit()
	}
	return quit
}
