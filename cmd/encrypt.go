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
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/machine"
	"github.com/bgallie/filters/lines"
	"github.com/bgallie/filters/pem"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	pemBlockType  = "ENIGMA Encrypted Message"
	groupSize     = 5
	groupsPerLine = 12
	// lineSize is twelve groups and the eleven spaces between them.
	lineSize = groupsPerLine*(groupSize+1) - 1
)

var (
	usePem    bool
	useGroups bool
	advance   bool
	wg        sync.WaitGroup
)

// encryptCmd represents the encrypt command
var encryptCmd = &cobra.Command{
	Use:   "encrypt [message]",
	Short: "Encrypt plaintext using the Enigma",
	Long: `Encrypt plaintext using the configured Enigma.  The message is taken from the
command line, the input file, or stdin.  Letters are enciphered; everything else
is copied as is.`,
	Run: func(cmd *cobra.Command, args []string) {
		encrypt(args)
	},
}

func init() {
	rootCmd.AddCommand(encryptCmd)
	encryptCmd.Flags().BoolVarP(&usePem, "usePem", "p", false, "use PEM encoding, carrying the starting window in the headers.")
	encryptCmd.Flags().BoolVarP(&useGroups, "groups", "g", false, "write letters only, in groups of five")
	encryptCmd.Flags().BoolVarP(&advance, "advance", "A", false, `save the window the machine ends on as the starting window
for the next message.`)
}

func encrypt(args []string) {
	m := newMachine()
	start := m.Window()
	fin, fout := getInputAndOutputFiles(args, true)
	defer fout.Close()

	var encOut io.Reader = cipherHelper(bufio.NewReader(fin), m)
	if useGroups {
		encOut = groupLines(encOut)
	}
	if usePem {
		var blck pem.Block
		blck.Headers = make(map[string]string)
		blck.Type = pemBlockType
		blck.Headers["Rotors"] = rotorNames(m.Config())
		blck.Headers["Reflector"] = m.Config().Reflector
		blck.Headers["Positions"] = start
		encOut = pem.ToPem(bufio.NewReader(encOut), blck)
	}

	_, err := io.Copy(fout, encOut)
	checkError(err)
	wg.Wait()
	log.Info().Str("start", start).Str("end", m.Window()).Msg("message encrypted")

	if advance {
		storeWindow(m)
		cobra.CheckErr(writeSettings())
		log.Info().Str("file", viper.ConfigFileUsed()).Str("window", m.Window()).Msg("starting window saved")
	}
}

// cipherHelper runs everything read from rdr through the machine.  The
// result can be read using the returned PipeReader.
func cipherHelper(rdr *bufio.Reader, m *machine.Machine) *io.PipeReader {
	rRdr, rWrtr := io.Pipe()
	wg.Add(1)

	go func() {
		defer wg.Done()
		defer rWrtr.Close()
		bWrtr := bufio.NewWriter(rWrtr)
		var letters int

		for {
			r, size, err := rdr.ReadRune()
			if err != nil {
				checkError(err)
				break
			}
			if r == utf8.RuneError && size == 1 {
				// Not UTF-8; copy the byte untouched.
				checkError(rdr.UnreadRune())
				c, err := rdr.ReadByte()
				checkError(err)
				checkError(bWrtr.WriteByte(c))
				continue
			}
			if _, ok := cryptors.Index(r); ok {
				letters++
			}
			_, err = bWrtr.WriteRune(m.Transform(r))
			checkError(err)
		}

		checkError(bWrtr.Flush())
		log.Debug().Int("letters", letters).Str("window", m.Window()).Msg("cipher stream done")
	}()

	return rRdr
}

// groupHelper drops everything but the letters from rdr and writes them in
// groups of five, the way Enigma traffic was sent.  Every twelfth group is
// followed by nothing, so that cutting the stream every lineSize characters
// yields whole lines of groups.
func groupHelper(rdr io.Reader) *io.PipeReader {
	rRdr, rWrtr := io.Pipe()
	bRdr := bufio.NewReader(rdr)
	wg.Add(1)

	go func() {
		defer wg.Done()
		defer rWrtr.Close()
		bWrtr := bufio.NewWriter(rWrtr)
		var cnt int

		for {
			r, _, err := bRdr.ReadRune()
			if err != nil {
				checkError(err)
				break
			}
			if _, ok := cryptors.Index(r); !ok {
				continue
			}
			if cnt > 0 && cnt%groupSize == 0 && cnt%(groupSize*groupsPerLine) != 0 {
				checkError(bWrtr.WriteByte(' '))
			}
			_, err = bWrtr.WriteRune(r)
			checkError(err)
			cnt++
		}

		checkError(bWrtr.Flush())
	}()

	return rRdr
}

// groupLines writes the letters from rdr as lines of twelve five letter
// groups.  lines.LineSize is a package global that pem.ToPem also sets, so
// it is set here every time, before SplitToLines reads it.
func groupLines(rdr io.Reader) *io.PipeReader {
	lines.LineSize = lineSize
	return lines.SplitToLines(groupHelper(rdr))
}

func rotorNames(cfg machine.Config) string {
	names := make([]string, len(cfg.Rotors))
	for i, r := range cfg.Rotors {
		names[i] = r.Type
	}
	return strings.Join(names, " ")
}
