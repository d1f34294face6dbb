package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gridle-game/gridle/internal/httpserver"
	"github.com/gridle-game/gridle/internal/store"
	"github.com/gridle-game/gridle/internal/words"
)

type serveConfig struct {
	bind string
	port int
	db   string
}

func (c *serveConfig) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	cfg := &serveConfig{}

	v := viper.New()
	v.SetEnvPrefix("GRIDLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	fs := cmd.Flags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: GRIDLE_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: GRIDLE_PORT)")
	fs.StringVar(&cfg.db, "db", "./data/gridle.db", "path to the SQLite database (env: GRIDLE_DB)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	return cmd
}

func runServe(cfg *serveConfig) error {
	if err := words.Init(); err != nil {
		return fmt.Errorf("load word lists: %w", err)
	}
	a, g := words.Stats()
	log.Info().Int("answers", a).Int("allowed", g).Msg("word lists loaded")

	db, err := openDB(cfg.db)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	if err := migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	srv := httpserver.New(store.NewMemoryStore(), db, httpserver.ConfigFromEnv())
	addr := fmt.Sprintf("%s:%d", cfg.bind, cfg.port)
	log.Info().Str("addr", addr).Msg("listening")
	return srv.Start(addr)
}
