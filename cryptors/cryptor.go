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

// Package cryptors holds what the machine parts share: the alphabet, the
// conversion between letters and alphabet positions, and the configuration
// errors the parts return.
package cryptors

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	AlphabetSize    = 26
	MaxPlugPairs    = 10
	NumberOfRotors  = 3
	MaximalStates   = AlphabetSize * AlphabetSize * AlphabetSize
	FirstLetter     = 'A'
	LastLetter      = 'Z'
	lowerCaseOffset = 'a' - 'A'
)

// Cryptor is a part of the signal path.  Forward is applied on the way into
// the reflector and Backward on the way out.
type Cryptor interface {
	Forward(int) int
	Backward(int) int
}

// Mod returns n modulo the alphabet size, always in [0, AlphabetSize).
func Mod(n int) int {
	n %= AlphabetSize
	if n < 0 {
		n += AlphabetSize
	}
	return n
}

// Index converts a letter into its alphabet position.  Lower case letters
// are folded to upper case.  ok is false for anything outside A-Z.
func Index(r rune) (idx int, ok bool) {
	if r >= 'a' && r <= 'z' {
		r -= lowerCaseOffset
	}
	if r < FirstLetter || r > LastLetter {
		return 0, false
	}
	return int(r - FirstLetter), true
}

// Letter converts an alphabet position into its upper case letter.
func Letter(idx int) rune {
	return FirstLetter + rune(Mod(idx))
}

// Letters converts a list of positions into a string, e.g. [9 21 25] -> "JVZ".
func Letters(idx ...int) string {
	var b strings.Builder
	for _, v := range idx {
		b.WriteRune(Letter(v))
	}
	return b.String()
}

// ParseSetting converts a ring setting or rotor position into an alphabet
// position.  It accepts a single letter ("A".."Z") or a number ("0".."25").
// Range checking is left to the rotor.
func ParseSetting(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		if idx, ok := Index(rune(s[0])); ok {
			return idx, nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is neither a letter nor a number", s)
	}
	return n, nil
}

// ParseSettings splits a window or ring specification into one value per
// rotor.  "JVZ", "J V Z", "9,21,25" and "9 21 25" are all accepted.
func ParseSettings(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 1 && len(fields[0]) > 1 {
		if _, err := strconv.Atoi(fields[0]); err != nil {
			fields = strings.Split(fields[0], "")
		}
	}
	res := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := ParseSetting(f)
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, nil
}
