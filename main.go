// gridle is a word-guessing game: a terminal client and a small HTTP API
// with accounts, a salted daily challenge, and live spectating over
// websocket.
//
// Usage:
//
//	gridle play            # play in the terminal
//	gridle serve           # run the HTTP API
//
// Configuration comes from flags, GRIDLE_* environment variables, or a
// local .env file, in that order of precedence.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const releaseVersion = "0.1.0"

func main() {
	// A missing .env is fine; any other read error is worth a warning.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("load .env")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logLevel := "info"
	if v := os.Getenv("GRIDLE_LOG_LEVEL"); v != "" {
		logLevel = v
	}

	root := &cobra.Command{
		Use:           "gridle",
		Short:         "A five-letter word-guessing game, in the terminal or over HTTP.",
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			zerolog.SetGlobalLevel(lvl)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", logLevel,
		"log level: trace|debug|info|warn|error (env: GRIDLE_LOG_LEVEL)")
	root.SetVersionTemplate("gridle v{{.Version}}\n")
	root.CompletionOptions.HiddenDefaultCmd = true
	root.AddCommand(newServeCmd(), newPlayCmd())

	cobra.CheckErr(root.Execute())
}
