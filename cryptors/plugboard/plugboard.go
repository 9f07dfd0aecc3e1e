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

// Package plugboard implements the Steckerbrett, the pairwise letter swap
// the signal passes through on entering and on leaving the rotors.
package plugboard

import (
	"strings"

	"github.com/bgallie/enigma/cryptors"
)

// Plugboard is a symmetric substitution.  Letters without a plug map to
// themselves.
type Plugboard struct {
	wiring [cryptors.AlphabetSize]int
	pairs  []string
}

// New creates a plugboard from pairs such as "AZ" or "by".  At most ten
// pairs are allowed and no letter may be used twice.
func New(pairs []string) (*Plugboard, error) {
	if len(pairs) > cryptors.MaxPlugPairs {
		return nil, cryptors.NewConfigError(cryptors.ErrInvalidPlugboardConfig,
			"%d pairs given, at most %d allowed", len(pairs), cryptors.MaxPlugPairs)
	}

	var p Plugboard
	for i := range p.wiring {
		p.wiring[i] = i
	}

	var used [cryptors.AlphabetSize]bool
	for _, pair := range pairs {
		pair = strings.ToUpper(strings.TrimSpace(pair))
		if len(pair) != 2 {
			return nil, cryptors.NewConfigError(cryptors.ErrInvalidPlugboardConfig,
				"pair %q must be exactly two letters", pair)
		}
		a, okA := cryptors.Index(rune(pair[0]))
		b, okB := cryptors.Index(rune(pair[1]))
		if !okA || !okB {
			return nil, cryptors.NewConfigError(cryptors.ErrInvalidPlugboardConfig,
				"pair %q may only contain the letters A-Z", pair)
		}
		if a == b {
			return nil, cryptors.NewConfigError(cryptors.ErrInvalidPlugboardConfig,
				"pair %q connects a letter to itself", pair)
		}
		if used[a] || used[b] {
			return nil, cryptors.NewConfigError(cryptors.ErrInvalidPlugboardConfig,
				"pair %q reuses a plugged letter", pair)
		}
		used[a], used[b] = true, true
		p.wiring[a], p.wiring[b] = b, a
		p.pairs = append(p.pairs, pair)
	}

	return &p, nil
}

// Swap returns the letter plugged to p, or p when it has no plug.
func (p *Plugboard) Swap(idx int) int {
	return p.wiring[idx]
}

func (p *Plugboard) Forward(idx int) int {
	return p.Swap(idx)
}

func (p *Plugboard) Backward(idx int) int {
	return p.Swap(idx)
}

// Pairs returns the plugged pairs in upper case, in the order given.
func (p *Plugboard) Pairs() []string {
	res := make([]string, len(p.pairs))
	copy(res, p.pairs)
	return res
}

func (p *Plugboard) String() string {
	return strings.Join(p.pairs, " ")
}

// compile time check
var _ cryptors.Cryptor = (*Plugboard)(nil)
