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

	"github.com/bgallie/filters/lines"
	"github.com/bgallie/filters/pem"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// decryptCmd represents the decrypt command
var decryptCmd = &cobra.Command{
	Use:   "decrypt [message]",
	Short: "Decrypt an Enigma message",
	Long: `Decrypt a message encrypted by an Enigma with the same settings.  A PEM framed
message supplies its own starting window.`,
	Run: func(cmd *cobra.Command, args []string) {
		decrypt(args)
	},
}

func init() {
	rootCmd.AddCommand(decryptCmd)
	decryptCmd.Flags().BoolVarP(&useGroups, "groups", "g", false, "the message was written in groups of five split into lines")
}

func decrypt(args []string) {
	fin, fout := getInputAndOutputFiles(args, false)
	defer fout.Close()
	bRdr := bufio.NewReader(fin)
	src := bRdr

	if b, err := bRdr.Peek(5); err == nil && string(b) == "-----" {
		pRdr, blck := pem.FromPem(bRdr)
		if blck.Type != pemBlockType {
			log.Warn().Str("type", blck.Type).Msg("unexpected PEM block type")
		}
		if p, ok := blck.Headers["Positions"]; ok {
			indicator = p
		}
		src = bufio.NewReader(pRdr)
		checkHeaders(blck.Headers)
	} else if useGroups {
		src = bufio.NewReader(lines.CombineLines(bRdr))
	}

	m := newMachine()
	log.Info().Str("start", m.Window()).Msg("decrypting")
	_, err := io.Copy(fout, cipherHelper(src, m))
	checkError(err)
	wg.Wait()
}

// checkHeaders warns when the message says it was sent on a different
// machine than the one configured.
func checkHeaders(headers map[string]string) {
	cfg, err := machineConfig()
	cobra.CheckErr(err)
	if r, ok := headers["Rotors"]; ok && r != rotorNames(cfg) {
		log.Warn().Str("message", r).Str("configured", rotorNames(cfg)).Msg("rotor order differs")
	}
	if r, ok := headers["Reflector"]; ok && r != cfg.Reflector {
		log.Warn().Str("message", r).Str("configured", cfg.Reflector).Msg("reflector differs")
	}
}
