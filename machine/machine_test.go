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
package machine

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/bgallie/enigma/cryptors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func config(types, rings, window string, reflector string, plugs ...string) Config {
	names := strings.Fields(types)
	r, _ := cryptors.ParseSettings(rings)
	w, _ := cryptors.ParseSettings(window)
	cfg := Config{Plugboard: plugs, Reflector: reflector}
	for i, n := range names {
		cfg.Rotors = append(cfg.Rotors, RotorSetting{Type: n, Ring: r[i], Position: w[i]})
	}
	return cfg
}

func newMachine(t *testing.T, cfg Config) *Machine {
	t.Helper()
	m, err := New(cfg)
	require.NoError(t, err)
	return m
}

func TestKnownVectors(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		in     string
		want   string
		window string
	}{
		{"single letter", config("I II III", "AAA", "AAA", "UKW-B"), "A", "B", "AAB"},
		{"five letters", config("I II III", "AAA", "AAA", "UKW-B"), "AAAAA", "BDZGO", "AAF"},
		{"ring settings", config("I II III", "BBB", "AAA", "UKW-B"), "AAAAA", "EWTYX", "AAF"},
		{"reflector C", config("I II III", "AAA", "AAA", "UKW-C"), "AAAAA", "PJBUZ", "AAF"},
		{
			"plugboard",
			config("II IV V", "BUL", "BLA", "UKW-B", "AV", "BS", "CG", "DL", "FU", "HZ", "IN", "KM", "OW", "RX"),
			"EDPUD", "AUFKL", "BLF",
		},
		{
			"factory settings",
			config("IV III V", "AAA", "JVZ", "UKW-B", "AZ", "BY", "CX", "TD", "SW"),
			"HELLO, WORLD!", "QCTVH, HYQYC!", "KWJ",
		},
		{
			"mixed case sentence",
			config("III II I", "5,10,15", "3,4,17", "UKW-C", "QW", "ER"),
			"The quick brown fox jumps over the lazy dog.",
			"UIW ZZKFY RMHIJ AFG EOLDF BHLJ HUC QQFN NJA.", "EGA",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMachine(t, tt.cfg)
			assert.Equal(t, tt.want, m.Process(tt.in))
			assert.Equal(t, tt.window, m.Window())

			d := newMachine(t, tt.cfg)
			assert.Equal(t, strings.ToUpper(tt.in), d.Process(tt.want))
		})
	}
}

func TestDoubleStep(t *testing.T) {
	m := newMachine(t, config("I II III", "AAA", "ADU", "UKW-B"))
	var windows []string
	for i := 0; i < 3; i++ {
		m.Process("A")
		windows = append(windows, m.Window())
	}
	assert.Equal(t, []string{"ADV", "AEW", "BFX"}, windows)
}

func TestMiddleRotorStartingOnNotch(t *testing.T) {
	// Rotor II notches at E.
	m := newMachine(t, config("I II III", "AAA", "AEA", "UKW-B"))
	m.Process("X")
	assert.Equal(t, [3]int{1, 5, 1}, m.Positions(), "all three rotors move")
}

func TestStepping(t *testing.T) {
	m := newMachine(t, config("I II III", "AAA", "AAA", "UKW-B"))

	// Rotor III notches at V: the middle rotor moves once in 26 letters.
	m.Process(strings.Repeat("A", 26))
	assert.Equal(t, "ABA", m.Window())

	// Rotor II notches at E: it gets there after the right rotor has passed
	// V four times, and carries the left rotor on the next letter.
	m.Reset()
	m.Process(strings.Repeat("A", 100))
	assert.Equal(t, [3]int{0, 4, 22}, m.Positions())
	m.Process("A")
	assert.Equal(t, [3]int{1, 5, 23}, m.Positions())
}

func TestStepsFollowConfiguredNotches(t *testing.T) {
	for _, typ := range []string{"I", "II", "III", "IV", "V"} {
		m := newMachine(t, Config{
			Rotors:    []RotorSetting{{Type: "I"}, {Type: "II"}, {Type: typ}},
			Reflector: "UKW-B",
		})
		notch := m.rotors[right].IsAtNotch
		steps := 0
		for i := 0; i < cryptors.AlphabetSize; i++ {
			if notch() {
				steps++
			}
			m.EncodeLetter(0)
		}
		assert.Equal(t, 1, steps, typ)
		assert.Equal(t, [3]int{0, 1, 0}, m.Positions(), typ)
	}
}

func TestPassThrough(t *testing.T) {
	m := newMachine(t, config("I II III", "AAA", "AAA", "UKW-B"))
	out := m.Process("HELLO, WORLD!")
	require.Len(t, out, len("HELLO, WORLD!"))
	assert.Equal(t, ", ", out[5:7])
	assert.Equal(t, "!", out[12:])
	assert.Equal(t, "AAK", m.Window(), "only the ten letters step the rotors")

	m = newMachine(t, config("I II III", "AAA", "AAA", "UKW-B"))
	assert.Equal(t, "ILBDAAMTAZ", m.Process("HELLOWORLD"))

	m = newMachine(t, config("I II III", "AAA", "AAA", "UKW-B"))
	assert.Equal(t, "12 é\t\n-", m.Process("12 é\t\n-"))
	assert.Equal(t, "AAA", m.Window())
}

func TestInvalidUTF8PassesThrough(t *testing.T) {
	m := newMachine(t, config("I II III", "AAA", "AAA", "UKW-B"))
	assert.Equal(t, "B\xffJ", m.Process("A\xffB"))
	assert.Equal(t, "AAC", m.Window(), "only the two letters step the rotors")

	// Latin-1 "café" keeps its last byte.
	m = newMachine(t, config("I II III", "AAA", "AAA", "UKW-B"))
	out := m.Process("caf\xe9")
	assert.Equal(t, "QDU\xe9", out)

	d := newMachine(t, config("I II III", "AAA", "AAA", "UKW-B"))
	assert.Equal(t, "CAF\xe9", d.Process(out))
}

func TestLowerCaseIsFolded(t *testing.T) {
	upper := newMachine(t, config("I II III", "AAA", "AAA", "UKW-B"))
	lower := newMachine(t, config("I II III", "AAA", "AAA", "UKW-B"))
	assert.Equal(t, upper.Process("HELLO, WORLD!"), lower.Process("hello, world!"))
}

func TestPress(t *testing.T) {
	m := newMachine(t, config("I II III", "AAA", "AAA", "UKW-B"))
	lamp, ok := m.Press('a')
	assert.True(t, ok)
	assert.Equal(t, 'B', lamp)
	assert.Equal(t, "AAB", m.Window())

	lamp, ok = m.Press(' ')
	assert.False(t, ok)
	assert.Equal(t, ' ', lamp)
	assert.Equal(t, "AAB", m.Window())

	lamp, _ = m.Press('A')
	assert.Equal(t, 'D', lamp)
}

func randomConfig(rng *rand.Rand) Config {
	var cfg Config
	for i := 0; i < cryptors.NumberOfRotors; i++ {
		cfg.Rotors = append(cfg.Rotors, RotorSetting{
			Type:     []string{"I", "II", "III", "IV", "V"}[rng.Intn(5)],
			Ring:     rng.Intn(cryptors.AlphabetSize),
			Position: rng.Intn(cryptors.AlphabetSize),
		})
	}
	perm := rng.Perm(cryptors.AlphabetSize)
	plugs := rng.Intn(cryptors.MaxPlugPairs + 1)
	for i := 0; i < plugs; i++ {
		cfg.Plugboard = append(cfg.Plugboard, cryptors.Letters(perm[2*i], perm[2*i+1]))
	}
	cfg.Reflector = []string{"UKW-A", "UKW-B", "UKW-C"}[rng.Intn(3)]
	return cfg
}

func randomMessage(rng *rand.Rand, n int) string {
	b := make([]int, n)
	for i := range b {
		b[i] = rng.Intn(cryptors.AlphabetSize)
	}
	return cryptors.Letters(b...)
}

func TestInvolution(t *testing.T) {
	rng := rand.New(rand.NewSource(1942))
	for i := 0; i < 200; i++ {
		cfg := randomConfig(rng)
		msg := randomMessage(rng, 1+rng.Intn(800))

		enc := newMachine(t, cfg).Process(msg)
		require.Len(t, enc, len(msg))
		for j := range msg {
			require.NotEqual(t, msg[j], enc[j], "a letter never enciphers to itself: %+v", cfg)
		}
		require.Equal(t, msg, newMachine(t, cfg).Process(enc), "%+v", cfg)
	}
}

func TestDeterministic(t *testing.T) {
	cfg := config("IV III V", "AAA", "JVZ", "UKW-B", "AZ", "BY", "CX", "TD", "SW")
	m := newMachine(t, cfg)
	first := m.Process("ATTACK AT DAWN")
	m.Reset()
	assert.Equal(t, first, m.Process("ATTACK AT DAWN"))
	assert.Equal(t, first, newMachine(t, cfg).Process("ATTACK AT DAWN"))
}

func TestConcurrentMachines(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	type job struct {
		cfg  Config
		msg  string
		want string
	}
	jobs := make([]job, 32)
	for i := range jobs {
		jobs[i].cfg = randomConfig(rng)
		jobs[i].msg = randomMessage(rng, 500)
		jobs[i].want = newMachine(t, jobs[i].cfg).Process(jobs[i].msg)
	}

	got := make([]string, len(jobs))
	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := New(jobs[i].cfg)
			if err != nil {
				return
			}
			got[i] = m.Process(jobs[i].msg)
		}(i)
	}
	wg.Wait()

	for i := range jobs {
		assert.Equal(t, jobs[i].want, got[i])
	}
}

func TestConfigRejected(t *testing.T) {
	good := config("I II III", "AAA", "AAA", "UKW-B")
	tests := []struct {
		name   string
		modify func(*Config)
		kind   error
	}{
		{"eleven plugs", func(c *Config) {
			c.Plugboard = []string{"AB", "CD", "EF", "GH", "IJ", "KL", "MN", "OP", "QR", "ST", "UV"}
		}, cryptors.ErrInvalidPlugboardConfig},
		{"self plug", func(c *Config) { c.Plugboard = []string{"AA"} }, cryptors.ErrInvalidPlugboardConfig},
		{"reused plug", func(c *Config) { c.Plugboard = []string{"AB", "CA"} }, cryptors.ErrInvalidPlugboardConfig},
		{"rotor VI", func(c *Config) { c.Rotors[1].Type = "VI" }, cryptors.ErrUnknownRotorType},
		{"reflector", func(c *Config) { c.Reflector = "UKW-D" }, cryptors.ErrUnknownReflectorType},
		{"no reflector", func(c *Config) { c.Reflector = "" }, cryptors.ErrUnknownReflectorType},
		{"ring", func(c *Config) { c.Rotors[0].Ring = 26 }, cryptors.ErrInvalidRingSetting},
		{"position", func(c *Config) { c.Rotors[2].Position = -1 }, cryptors.ErrInvalidPosition},
		{"two rotors", func(c *Config) { c.Rotors = c.Rotors[:2] }, cryptors.ErrInvalidRotorCount},
		{"four rotors", func(c *Config) { c.Rotors = append(c.Rotors, RotorSetting{Type: "IV"}) }, cryptors.ErrInvalidRotorCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := good
			cfg.Rotors = append([]RotorSetting(nil), good.Rotors...)
			tt.modify(&cfg)
			m, err := New(cfg)
			require.Error(t, err)
			assert.Nil(t, m)
			assert.True(t, errors.Is(err, tt.kind), err.Error())

			var cfgErr *cryptors.ConfigError
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestConfigIsACopy(t *testing.T) {
	cfg := config("I II III", "AAA", "AAA", "UKW-B", "ab")
	m := newMachine(t, cfg)
	cfg.Rotors[0].Type = "V"

	got := m.Config()
	assert.Equal(t, "I", got.Rotors[0].Type)
	assert.Equal(t, []string{"AB"}, got.Plugboard)

	got.Rotors[1].Position = 9
	assert.Equal(t, 0, m.Config().Rotors[1].Position)

	m.Process("AAAA")
	assert.Equal(t, 0, m.Config().Rotors[2].Position, "config keeps the starting window")
	assert.Equal(t, "I ring A window A | II ring A window A | III ring A window E | UKW-B | plugs AB", m.String())
}
