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
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// initLogger points the global logger at stderr.  Only warnings are shown
// unless --verbose (info) or --debug is given.
func initLogger(verbose, debug bool) zerolog.Logger {
	return setLogger(os.Stderr, verbose, debug)
}

func setLogger(w io.Writer, verbose, debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	switch {
	case debug:
		level = zerolog.DebugLevel
	case verbose:
		level = zerolog.InfoLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    w != os.Stderr,
	}
	logger := zerolog.New(output).Level(level).With().Timestamp().Str("app", "enigma").Logger()
	log.Logger = logger
	return logger
}
