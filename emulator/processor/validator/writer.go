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
	"encoding/json"
	"io"
	"strings"
)

type eventEncoder interface {
	Encode(event Event) error
	Close() error
}

type jsonEncoder struct {
	enc *json.Encoder
}

func (e jsonEncoder) Encode(event Event) error {
	return e.enc.Encode(event)
}

func (jsonEncoder) Close() error {
	return nil
}

// newEventEncoder writes the compact binary form for ".gz" outputs and a
// JSON stream otherwise.
func newEventEncoder(name string, w io.Writer) eventEncoder {
	if strings.HasSuffix(name, ".gz") {
		return NewEncoder(w)
	}
	return jsonEncoder{json.NewEncoder(w)}
}
