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
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/bgallie/enigma/machine"
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	keyCtrlC  = 3
	keyCtrlD  = 4
	keyEscape = 27
)

// keysCmd represents the keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Type on the Enigma keyboard",
	Long: `Type on the Enigma keyboard.  Every key press lights a lamp and moves the
rotors; the lamp and the new window are shown after each key.  Escape, Ctrl-C or
Ctrl-D ends the session and prints everything the lamps showed.`,
	Run: func(cmd *cobra.Command, args []string) {
		keys()
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
}

func keys() {
	m := newMachine()
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		cobra.CheckErr("keys needs a terminal on stdin; use encrypt for piped input.")
	}

	oldState, err := term.MakeRaw(fd)
	cobra.CheckErr(err)
	fmt.Fprintf(os.Stdout, "Window %s (Esc to quit)\r\n", m.Window())
	tape := keyboard(os.Stdin, os.Stdout, m)
	checkError(term.Restore(fd, oldState))

	fmt.Fprintln(os.Stdout, tape)
	log.Info().Str("window", m.Window()).Int("letters", len(tape)).Msg("keyboard session ended")
}

// keyboard reads key presses from in until it runs out or a quit key is
// pressed, echoing each lamp and window to out.  It returns the lamps that
// lit, in order.
func keyboard(in io.Reader, out io.Writer, m *machine.Machine) string {
	bRdr := bufio.NewReader(in)
	lamp := color.New(color.FgYellow, color.Bold).SprintFunc()
	var tape strings.Builder

	for {
		key, err := bRdr.ReadByte()
		if err != nil || key == keyCtrlC || key == keyCtrlD || key == keyEscape {
			break
		}
		l, ok := m.Press(rune(key))
		if !ok {
			continue
		}
		tape.WriteRune(l)
		fmt.Fprintf(out, "%c -> %s  %s\r\n", unicode.ToUpper(rune(key)), lamp(string(l)), m.Window())
	}

	return tape.String()
}
