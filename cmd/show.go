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
	"io"
	"strings"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/wiring"
	"github.com/bgallie/enigma/machine"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the machine settings",
	Long:  `Show the rotors, rings, starting window, plugboard and reflector the other commands would use.`,
	Run: func(cmd *cobra.Command, args []string) {
		showSettings(cmd.OutOrStdout(), newMachine(), viper.ConfigFileUsed())
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func showSettings(w io.Writer, m *machine.Machine, cfgFile string) {
	label := color.New(color.FgCyan).SprintfFunc()
	cfg := m.Config()

	rings := make([]int, len(cfg.Rotors))
	for i, r := range cfg.Rotors {
		rings[i] = r.Ring
	}
	plugs := strings.Join(cfg.Plugboard, " ")
	if plugs == "" {
		plugs = "(none)"
	}
	if cfgFile == "" {
		cfgFile = "(defaults)"
	}

	fmt.Fprintf(w, "%s %s\n", label("%-11s", "Rotors:"), rotorNames(cfg))
	fmt.Fprintf(w, "%s %s\n", label("%-11s", "Rings:"), cryptors.Letters(rings...))
	fmt.Fprintf(w, "%s %s\n", label("%-11s", "Window:"), m.Window())
	fmt.Fprintf(w, "%s %s\n", label("%-11s", "Plugboard:"), plugs)
	fmt.Fprintf(w, "%s %s\n", label("%-11s", "Reflector:"), cfg.Reflector)
	fmt.Fprintf(w, "%s %s\n", label("%-11s", "Settings:"), cfgFile)
	fmt.Fprintf(w, "\nAvailable rotors:     %s\n", strings.Join(wiring.RotorTypes(), " "))
	fmt.Fprintf(w, "Available reflectors: %s\n", strings.Join(wiring.ReflectorTypes(), " "))
}
