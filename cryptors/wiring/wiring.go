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

// Package wiring holds the wiring of the Enigma I rotors and reflectors.
// The tables are built once when the package is initialized and are never
// changed afterwards, so any number of machines may share them.
package wiring

import (
	"fmt"

	"github.com/bgallie/enigma/cryptors"
)

// Table is the wiring of one rotor or reflector.  Backward is the inverse of
// Forward.  Reflectors have no notches and Forward == Backward.
type Table struct {
	Name     string
	Forward  [cryptors.AlphabetSize]int
	Backward [cryptors.AlphabetSize]int
	Notches  []int
}

type spec struct {
	name    string
	wiring  string
	notches string
}

var (
	// rotorSpecs are the five Enigma I / M3 army rotors.  The notch letter is
	// the window letter showing when the rotor carries its left neighbour.
	rotorSpecs = []spec{
		{"I", "EKMFLGDQVZNTOWYHXUSPAIBRCJ", "Q"},
		{"II", "AJDKSIRUXBLHWTMCQGZNPYFVOE", "E"},
		{"III", "BDFHJLCPRTXVZNYEIWGAKMUSQO", "V"},
		{"IV", "ESOVPZJAYQUIRHXLNFTGKDCMWB", "J"},
		{"V", "VZBRGITYUPSDNHLXAWMJQOFECK", "Z"},
	}

	reflectorSpecs = []spec{
		{"UKW-A", "EJMZALYXVBWFCRQUONTSPIKHGD", ""},
		{"UKW-B", "YRUHQSLDPXNGOKMIEBFZCWVJAT", ""},
		{"UKW-C", "FVPJIAOYEDRZXWGCTKUQSBNMHL", ""},
	}

	rotors     = make(map[string]*Table)
	reflectors = make(map[string]*Table)
)

func init() {
	for _, s := range rotorSpecs {
		t, err := newTable(s)
		if err != nil {
			panic(err)
		}
		rotors[s.name] = t
	}

	for _, s := range reflectorSpecs {
		t, err := newTable(s)
		if err == nil {
			err = checkReflector(t)
		}
		if err != nil {
			panic(err)
		}
		reflectors[s.name] = t
	}
}

// newTable builds a Table from its letter form and checks that the wiring
// is a permutation of the alphabet.
func newTable(s spec) (*Table, error) {
	if len(s.wiring) != cryptors.AlphabetSize {
		return nil, fmt.Errorf("wiring %s: expected %d letters, got %d", s.name, cryptors.AlphabetSize, len(s.wiring))
	}

	t := &Table{Name: s.name}
	var seen [cryptors.AlphabetSize]bool
	for i, r := range s.wiring {
		v, ok := cryptors.Index(r)
		if !ok || seen[v] {
			return nil, fmt.Errorf("wiring %s: %q is not a permutation of the alphabet", s.name, s.wiring)
		}
		seen[v] = true
		t.Forward[i] = v
		t.Backward[v] = i
	}

	for _, r := range s.notches {
		v, ok := cryptors.Index(r)
		if !ok {
			return nil, fmt.Errorf("wiring %s: bad notch %q", s.name, r)
		}
		t.Notches = append(t.Notches, v)
	}

	return t, nil
}

// checkReflector verifies a reflector is its own inverse and never maps a
// letter to itself.
func checkReflector(t *Table) error {
	for i, v := range t.Forward {
		if v == i {
			return fmt.Errorf("reflector %s: %c is wired to itself", t.Name, cryptors.Letter(i))
		}
		if t.Forward[v] != i {
			return fmt.Errorf("reflector %s: wiring is not symmetric at %c", t.Name, cryptors.Letter(i))
		}
	}
	return nil
}

// Rotor returns the wiring of the named rotor type.
func Rotor(name string) (*Table, error) {
	t, ok := rotors[name]
	if !ok {
		return nil, cryptors.NewConfigError(cryptors.ErrUnknownRotorType, "%q", name)
	}
	return t, nil
}

// Reflector returns the wiring of the named reflector.
func Reflector(name string) (*Table, error) {
	t, ok := reflectors[name]
	if !ok {
		return nil, cryptors.NewConfigError(cryptors.ErrUnknownReflectorType, "%q", name)
	}
	return t, nil
}

// RotorTypes lists the known rotor types in their historical order.
func RotorTypes() []string {
	return names(rotorSpecs)
}

// ReflectorTypes lists the known reflectors.
func ReflectorTypes() []string {
	return names(reflectorSpecs)
}

func names(specs []spec) []string {
	res := make([]string, len(specs))
	for i, s := range specs {
		res[i] = s.name
	}
	return res
}
