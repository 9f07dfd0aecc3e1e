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

// Package machine is a three rotor Enigma.  A Machine is built from a
// Config, enciphers a message one letter at a time, and is thrown away.
// Since the Enigma is its own inverse, deciphering is done by running the
// ciphertext through a machine built from the same Config.
//
// A Machine is not safe for concurrent use, but machines share nothing
// except the read-only wiring tables, so any number of them may run in
// parallel.
package machine

import (
	"strings"
	"unicode/utf8"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/plugboard"
	"github.com/bgallie/enigma/cryptors/reflector"
	"github.com/bgallie/enigma/cryptors/rotor"
)

const (
	left = iota
	middle
	right
)

// RotorSetting is one wheel of the machine: its type ("I".."V"), its ring
// setting and its starting position, both 0-25.
type RotorSetting struct {
	Type     string `mapstructure:"name" json:"name"`
	Ring     int    `mapstructure:"ring" json:"ring"`
	Position int    `mapstructure:"position" json:"position"`
}

// Config describes a machine.  Rotors are ordered left, middle, right.
type Config struct {
	Rotors    []RotorSetting `mapstructure:"rotors" json:"rotors"`
	Plugboard []string       `mapstructure:"plugboard" json:"plugboard"`
	Reflector string         `mapstructure:"reflector" json:"reflector"`
}

// Machine is an Enigma with its rotors at their current positions.
type Machine struct {
	cfg       Config
	rotors    [cryptors.NumberOfRotors]*rotor.Rotor
	plugboard *plugboard.Plugboard
	reflector *reflector.Reflector
	// path is the entry half of the signal path, plugboard first.
	path []cryptors.Cryptor
}

// New builds a machine from cfg.  Every configuration error is reported
// here; once built, the machine cannot fail.
func New(cfg Config) (*Machine, error) {
	if len(cfg.Rotors) != cryptors.NumberOfRotors {
		return nil, cryptors.NewConfigError(cryptors.ErrInvalidRotorCount,
			"%d rotors given, exactly %d required", len(cfg.Rotors), cryptors.NumberOfRotors)
	}

	var m Machine
	var err error
	m.plugboard, err = plugboard.New(cfg.Plugboard)
	if err != nil {
		return nil, err
	}

	for i, rs := range cfg.Rotors {
		m.rotors[i], err = rotor.New(rs.Type, rs.Ring, rs.Position)
		if err != nil {
			return nil, err
		}
	}

	m.reflector, err = reflector.New(cfg.Reflector)
	if err != nil {
		return nil, err
	}

	m.cfg = Config{
		Rotors:    append([]RotorSetting(nil), cfg.Rotors...),
		Plugboard: m.plugboard.Pairs(),
		Reflector: cfg.Reflector,
	}
	m.path = []cryptors.Cryptor{m.plugboard, m.rotors[right], m.rotors[middle], m.rotors[left]}
	return &m, nil
}

// step advances the rotors before a letter is enciphered.  The notches are
// read before the right rotor moves.  A middle rotor sitting on its notch
// carries the left rotor and steps itself again (the double step).
func (m *Machine) step() {
	switch {
	case m.rotors[middle].IsAtNotch():
		m.rotors[left].Step()
		m.rotors[middle].Step()
	case m.rotors[right].IsAtNotch():
		m.rotors[middle].Step()
	}
	m.rotors[right].Step()
}

// EncodeLetter steps the rotors and passes the alphabet position idx
// through the machine.
func (m *Machine) EncodeLetter(idx int) int {
	m.step()
	for _, c := range m.path {
		idx = c.Forward(idx)
	}
	idx = m.reflector.Reflect(idx)
	for i := len(m.path) - 1; i >= 0; i-- {
		idx = m.path[i].Backward(idx)
	}
	return idx
}

// Transform enciphers a single character.  Letters are folded to upper case
// and enciphered; anything else is returned unchanged and does not move the
// rotors.
func (m *Machine) Transform(r rune) rune {
	idx, ok := cryptors.Index(r)
	if !ok {
		return r
	}
	return cryptors.Letter(m.EncodeLetter(idx))
}

// Process enciphers (or deciphers) text.  Everything that is not a letter,
// including bytes that are not valid UTF-8, is copied as is.
func (m *Machine) Process(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if idx, ok := cryptors.Index(r); ok {
			b.WriteRune(cryptors.Letter(m.EncodeLetter(idx)))
		} else {
			b.WriteString(text[i : i+size])
		}
		i += size
	}
	return b.String()
}

// Press is a key press: it returns the lamp that lights for the key.  ok is
// false, and the rotors stay put, for keys the machine does not have.
func (m *Machine) Press(key rune) (lamp rune, ok bool) {
	idx, ok := cryptors.Index(key)
	if !ok {
		return key, false
	}
	return cryptors.Letter(m.EncodeLetter(idx)), true
}

// Positions returns the current rotor positions, left to right.
func (m *Machine) Positions() [cryptors.NumberOfRotors]int {
	var res [cryptors.NumberOfRotors]int
	for i, r := range m.rotors {
		res[i] = r.Position()
	}
	return res
}

// Window returns the letters showing in the rotor windows, e.g. "JVZ".
func (m *Machine) Window() string {
	p := m.Positions()
	return cryptors.Letters(p[:]...)
}

// Reset returns the rotors to their starting positions.
func (m *Machine) Reset() {
	for _, r := range m.rotors {
		r.Reset()
	}
}

// Config returns the configuration the machine was built from.  The rotor
// positions in it are the starting positions, not the current ones.
func (m *Machine) Config() Config {
	cfg := m.cfg
	cfg.Rotors = append([]RotorSetting(nil), m.cfg.Rotors...)
	cfg.Plugboard = append([]string(nil), m.cfg.Plugboard...)
	return cfg
}

func (m *Machine) String() string {
	var b strings.Builder
	for i, r := range m.rotors {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(r.String())
	}
	b.WriteString(" | ")
	b.WriteString(m.reflector.Name())
	if pb := m.plugboard.String(); pb != "" {
		b.WriteString(" | plugs ")
		b.WriteString(pb)
	}
	return b.String()
}
