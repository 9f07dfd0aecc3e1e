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
package cryptors

import (
	"errors"
	"fmt"
)

// Configuration errors.  They are only ever returned while a machine is
// being built; a built machine cannot fail.
var (
	// ErrUnknownRotorType indicates a rotor name missing from the wiring tables.
	ErrUnknownRotorType = errors.New("unknown rotor type")

	// ErrUnknownReflectorType indicates a reflector name missing from the wiring tables.
	ErrUnknownReflectorType = errors.New("unknown reflector type")

	// ErrInvalidRingSetting indicates a ring setting outside 0-25.
	ErrInvalidRingSetting = errors.New("invalid ring setting")

	// ErrInvalidPosition indicates a rotor position outside 0-25.
	ErrInvalidPosition = errors.New("invalid rotor position")

	// ErrInvalidPlugboardConfig indicates a bad plug pair or too many pairs.
	ErrInvalidPlugboardConfig = errors.New("invalid plugboard configuration")

	// ErrInvalidRotorCount indicates a configuration without exactly three rotors.
	ErrInvalidRotorCount = errors.New("invalid number of rotors")
)

// ConfigError carries one of the sentinel errors above along with the
// offending detail.
type ConfigError struct {
	Kind   error
	Detail string
}

// NewConfigError returns a ConfigError of the given kind.
func NewConfigError(kind error, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Detail
}

func (e *ConfigError) Unwrap() error {
	return e.Kind
}
