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
package cmd

import (
	"fmt"
	"strings"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/machine"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// indicator is the starting window carried by a PEM framed message.
var indicator string

// Settings keys.  They double as the names of the root command's flags.
const (
	keyRotors    = "rotors"
	keyRings     = "rings"
	keyPositions = "positions"
	keyPlugboard = "plugboard"
	keyReflector = "reflector"
)

// setDefaults installs the factory settings used when neither the config
// file nor the command line say otherwise.
func setDefaults() {
	viper.SetDefault(keyRotors, []string{"IV", "III", "V"})
	viper.SetDefault(keyRings, "AAA")
	viper.SetDefault(keyPositions, "JVZ")
	viper.SetDefault(keyPlugboard, "AZ BY CX TD SW")
	viper.SetDefault(keyReflector, "UKW-B")
}

// machineConfig assembles a machine.Config from the current settings.
// Rotors are either a list of names with separate rings and positions
// settings, or a list of {name, ring, position} tables.
func machineConfig() (machine.Config, error) {
	var cfg machine.Config
	var err error

	cfg.Rotors, err = rotorSettings()
	if err != nil {
		return machine.Config{}, err
	}
	cfg.Plugboard = plugPairs(viper.GetStringSlice(keyPlugboard))
	cfg.Reflector = strings.ToUpper(strings.TrimSpace(viper.GetString(keyReflector)))
	return cfg, nil
}

// rotorTables reports whether the rotors are configured as a list of
// {name, ring, position} tables rather than a list of names.
func rotorTables() bool {
	switch v := viper.Get(keyRotors).(type) {
	case []map[string]interface{}:
		return len(v) > 0
	case []interface{}:
		if len(v) == 0 {
			return false
		}
		_, isName := v[0].(string)
		return !isName
	}
	return false
}

func rotorSettings() ([]machine.RotorSetting, error) {
	var rs []machine.RotorSetting

	if rotorTables() {
		if err := viper.UnmarshalKey(keyRotors, &rs); err != nil {
			return nil, fmt.Errorf("reading %s: %w", keyRotors, err)
		}
		for i := range rs {
			rs[i].Type = strings.ToUpper(rs[i].Type)
		}
		if rootCmd.PersistentFlags().Changed(keyPositions) {
			if err := setWindow(rs, viper.GetString(keyPositions)); err != nil {
				return nil, err
			}
		}
	} else {
		var names []string
		for _, n := range viper.GetStringSlice(keyRotors) {
			names = append(names, strings.Fields(strings.ToUpper(n))...)
		}
		if len(names) != cryptors.NumberOfRotors {
			return nil, cryptors.NewConfigError(cryptors.ErrInvalidRotorCount,
				"%d rotors given, exactly %d required", len(names), cryptors.NumberOfRotors)
		}
		rings, err := wheelSettings(keyRings, len(names), cryptors.ErrInvalidRingSetting)
		if err != nil {
			return nil, err
		}
		positions, err := wheelSettings(keyPositions, len(names), cryptors.ErrInvalidPosition)
		if err != nil {
			return nil, err
		}
		rs = make([]machine.RotorSetting, len(names))
		for i, n := range names {
			rs[i] = machine.RotorSetting{Type: n, Ring: rings[i], Position: positions[i]}
		}
	}

	// A message indicator read from the message itself beats everything.
	if indicator != "" {
		if err := setWindow(rs, indicator); err != nil {
			return nil, err
		}
	}
	return rs, nil
}

// setWindow replaces the starting positions of rs with window.
func setWindow(rs []machine.RotorSetting, window string) error {
	positions, err := cryptors.ParseSettings(window)
	if err != nil {
		return cryptors.NewConfigError(cryptors.ErrInvalidPosition, "window %q: %v", window, err)
	}
	if len(positions) != len(rs) {
		return cryptors.NewConfigError(cryptors.ErrInvalidPosition,
			"window %q: %d values given for %d rotors", window, len(positions), len(rs))
	}
	for i := range rs {
		rs[i].Position = positions[i]
	}
	return nil
}

// storeWindow makes the machine's current window the configured starting
// window, in whichever form the rotors are configured.
func storeWindow(m *machine.Machine) {
	if !rotorTables() {
		viper.Set(keyPositions, m.Window())
		return
	}
	cfg := m.Config()
	pos := m.Positions()
	tables := make([]map[string]interface{}, len(cfg.Rotors))
	for i, r := range cfg.Rotors {
		tables[i] = map[string]interface{}{"name": r.Type, "ring": r.Ring, "position": pos[i]}
	}
	viper.Set(keyRotors, tables)
}

// wheelSettings reads one value per rotor from key.  The value may be a
// string such as "JVZ" or "9,21,25", or a list of letters or numbers.
func wheelSettings(key string, count int, kind error) ([]int, error) {
	var res []int
	var err error

	switch v := viper.Get(key).(type) {
	case []interface{}:
		for _, e := range v {
			n, err := cryptors.ParseSetting(fmt.Sprint(e))
			if err != nil {
				return nil, cryptors.NewConfigError(kind, "%s: %v", key, err)
			}
			res = append(res, n)
		}
	case []int:
		res = v
	default:
		res, err = cryptors.ParseSettings(viper.GetString(key))
		if err != nil {
			return nil, cryptors.NewConfigError(kind, "%s: %v", key, err)
		}
	}

	if len(res) != count {
		return nil, cryptors.NewConfigError(kind, "%s: %d values given for %d rotors", key, len(res), count)
	}
	return res, nil
}

// plugPairs flattens plugboard settings given either as a list of pairs or
// as a single space separated string.
func plugPairs(settings []string) []string {
	var pairs []string
	for _, s := range settings {
		pairs = append(pairs, strings.Fields(s)...)
	}
	return pairs
}

// newMachine builds the machine described by the current settings.
func newMachine() *machine.Machine {
	cfg, err := machineConfig()
	if err != nil {
		cobra.CheckErr(fmt.Errorf("machine settings: %w", err))
	}
	m, err := machine.New(cfg)
	if err != nil {
		cobra.CheckErr(fmt.Errorf("machine settings: %w", err))
	}
	log.Debug().Str("machine", m.String()).Msg("machine built")
	return m
}
