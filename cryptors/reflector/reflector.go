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

// reflector
package reflector

import (
	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/wiring"
)

// Reflector (Umkehrwalze) sends the signal back through the rotors.
type Reflector struct {
	wiring *wiring.Table
}

func New(name string) (*Reflector, error) {
	w, err := wiring.Reflector(name)
	if err != nil {
		return nil, err
	}
	return &Reflector{wiring: w}, nil
}

func (r *Reflector) Reflect(idx int) int {
	return r.wiring.Forward[idx]
}

func (r *Reflector) Forward(idx int) int {
	return r.Reflect(idx)
}

func (r *Reflector) Backward(idx int) int {
	return r.Reflect(idx)
}

func (r *Reflector) Name() string {
	return r.wiring.Name
}

// compile time check
var _ cryptors.Cryptor = (*Reflector)(nil)
