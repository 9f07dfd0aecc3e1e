/*
Copyright © 2021 Billy G. Allie <bill.allie@defiant.mug.org>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// rotor
package rotor

import (
	"fmt"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/wiring"
)

// Rotor is a single wheel.  The wiring is shared with every other rotor of
// the same type; ring and start never change once the rotor is built.
type Rotor struct {
	wiring  *wiring.Table
	ring    int
	start   int
	current int
}

// New creates a rotor of the given type with its ring setting and starting
// position, both in the range 0-25.
func New(typeName string, ring, position int) (*Rotor, error) {
	w, err := wiring.Rotor(typeName)
	if err != nil {
		return nil, err
	}
	if ring < 0 || ring >= cryptors.AlphabetSize {
		return nil, cryptors.NewConfigError(cryptors.ErrInvalidRingSetting,
			"rotor %s: ring %d not in 0-%d", typeName, ring, cryptors.AlphabetSize-1)
	}
	if position < 0 || position >= cryptors.AlphabetSize {
		return nil, cryptors.NewConfigError(cryptors.ErrInvalidPosition,
			"rotor %s: position %d not in 0-%d", typeName, position, cryptors.AlphabetSize-1)
	}

	var r Rotor
	r.wiring = w
	r.ring = ring
	r.start, r.current = position, position
	return &r, nil
}

// EncodeForward passes a signal from the entry side towards the reflector.
func (r *Rotor) EncodeForward(idx int) int {
	return r.encode(&r.wiring.Forward, idx)
}

// EncodeBackward passes a signal from the reflector back towards the entry.
func (r *Rotor) EncodeBackward(idx int) int {
	return r.encode(&r.wiring.Backward, idx)
}

func (r *Rotor) encode(w *[cryptors.AlphabetSize]int, idx int) int {
	shifted := cryptors.Mod(idx + r.current - r.ring)
	return cryptors.Mod(w[shifted] - r.current + r.ring)
}

func (r *Rotor) Forward(idx int) int {
	return r.EncodeForward(idx)
}

func (r *Rotor) Backward(idx int) int {
	return r.EncodeBackward(idx)
}

// IsAtNotch reports whether the rotor is in a position where it carries its
// left neighbour on the next key press.
func (r *Rotor) IsAtNotch() bool {
	for _, n := range r.wiring.Notches {
		if r.current == n {
			return true
		}
	}
	return false
}

// Step turns the rotor by one position.
func (r *Rotor) Step() {
	r.current = (r.current + 1) % cryptors.AlphabetSize
}

// Reset returns the rotor to the position it was built with.
func (r *Rotor) Reset() {
	r.current = r.start
}

func (r *Rotor) Position() int {
	return r.current
}

func (r *Rotor) Ring() int {
	return r.ring
}

func (r *Rotor) Type() string {
	return r.wiring.Name
}

func (r *Rotor) String() string {
	return fmt.Sprintf("%s ring %c window %c", r.wiring.Name,
		cryptors.Letter(r.ring), cryptors.Letter(r.current))
}

// compile time check
var _ cryptors.Cryptor = (*Rotor)(nil)
