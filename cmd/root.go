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
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	cfgFile        string
	inputFileName  string
	outputFileName string
	verbose        bool
	debug          bool
	GitCommit      string = "not set"
	GitBranch      string = "not set"
	GitState       string = "not set"
	GitSummary     string = "not set"
	BuildDate      string = "not set"
	Version        string = "dev"
)

const (
	enigmaConfigFile = ".enigma"
	enigmaFileSuffix = ".enigma"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "enigma",
	Short:   "A three rotor Enigma cipher machine",
	Long:    `enigma enciphers and deciphers messages the way the three rotor Enigma I did, double step and all.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(verbose, debug)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.enigma.yaml)")
	rootCmd.PersistentFlags().StringVarP(&inputFileName, "inputFile", "i", "-", "Name of the file to encrypt/decrypt.")
	rootCmd.PersistentFlags().StringVarP(&outputFileName, "outputFile", "o", "", "Name of the file to write the result to.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show informational messages")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "show debug messages")

	// Machine settings.  Each flag overrides the value from the config file.
	rootCmd.PersistentFlags().StringSliceP(keyRotors, "r", nil, "rotor types, left to right (eg. IV,III,V)")
	rootCmd.PersistentFlags().String(keyRings, "", "ring settings, left to right (eg. AAA or 0,0,0)")
	rootCmd.PersistentFlags().StringP(keyPositions, "w", "", "starting window, left to right (eg. JVZ or 9,21,25)")
	rootCmd.PersistentFlags().String(keyPlugboard, "", `plugboard pairs (eg. "AZ BY CX")`)
	rootCmd.PersistentFlags().String(keyReflector, "", "reflector (UKW-A, UKW-B or UKW-C)")
	for _, key := range []string{keyRotors, keyRings, keyPositions, keyPlugboard, keyReflector} {
		cobra.CheckErr(viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key)))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setDefaults()
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".enigma" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(enigmaConfigFile)
	}

	viper.SetEnvPrefix("ENIGMA")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	} else if cfgFile != "" {
		cobra.CheckErr(fmt.Errorf("reading %s: %w", cfgFile, err))
	}
}

// writeSettings saves the current settings to the config file in use, or
// to $HOME/.enigma.yaml if there is none.
func writeSettings() error {
	if viper.ConfigFileUsed() != "" {
		if _, err := os.Stat(viper.ConfigFileUsed()); err == nil {
			return viper.WriteConfig()
		}
		return viper.WriteConfigAs(viper.ConfigFileUsed())
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return viper.WriteConfigAs(filepath.Join(home, enigmaConfigFile+".yaml"))
}

/*
	getInputAndOutputFiles will return the input and output to use while
	encrypting/decrypting a message.  A message given on the command line is
	used in preference to the input file.  If input and/or output files names
	were given, then those files will be opened.  Otherwise stdin and stdout
	are used.
*/
func getInputAndOutputFiles(args []string, encrypt bool) (io.Reader, *os.File) {
	var fin io.Reader
	var err error

	if len(args) > 0 {
		fin = strings.NewReader(strings.Join(args, " ") + "\n")
	} else if len(inputFileName) > 0 && inputFileName != "-" {
		fin, err = os.Open(inputFileName)
		cobra.CheckErr(err)
	} else {
		fin = readStdin()
	}

	var fout *os.File

	if len(outputFileName) > 0 {
		if outputFileName == "-" {
			fout = os.Stdout
		} else {
			fout, err = os.Create(outputFileName)
			cobra.CheckErr(err)
		}
	} else if len(args) > 0 || inputFileName == "-" || inputFileName == "" {
		fout = os.Stdout
	} else if encrypt {
		outputFileName = inputFileName + enigmaFileSuffix
		fout, err = os.Create(outputFileName)
		cobra.CheckErr(err)
	} else {
		if strings.HasSuffix(inputFileName, enigmaFileSuffix) {
			outputFileName = strings.TrimSuffix(inputFileName, enigmaFileSuffix)
			fout, err = os.Create(outputFileName)
			cobra.CheckErr(err)
		} else {
			fout = os.Stdout
		}
	}

	return fin, fout
}

// readStdin returns stdin, unless it is a terminal.  Then the message is
// read without echoing it, like a passphrase would be.
func readStdin() io.Reader {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return os.Stdin
	}
	fmt.Fprintf(os.Stderr, "Enter the message: ")
	msg, err := term.ReadPassword(int(os.Stdin.Fd()))
	cobra.CheckErr(err)
	fmt.Fprintln(os.Stderr, "")
	return strings.NewReader(string(msg) + "\n")
}

// checkError checks for errors that are not io.EOF and io.ErrUnexpectedEOF.
func checkError(e error) {
	if e != nil && e != io.EOF && e != io.ErrUnexpectedEOF {
		cobra.CheckErr(e)
	}
}
