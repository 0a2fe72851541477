// Command exthash-stress runs the randomized insert/remove self-test against
// an exthash table.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theflywheel/exthash/internal/stress"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var configPath string
	cfg := stress.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "exthash-stress",
		Short: "Stress an extendible hash table with random keys",
		Long: "Insert random words into a table, remove them in random order, and verify\n" +
			"every lookup and every table invariant along the way.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				fileCfg, err := stress.LoadConfig(configPath)
				if err != nil {
					return err
				}
				applyFlags(cmd, &fileCfg, cfg)
				cfg = fileCfg
			}

			logger, err := stress.NewLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			report, err := stress.Run(cfg, logger)
			if err != nil {
				logger.Error("stress run failed", zap.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d rounds, %d inserts, %d removes, max depth %d, seed %d, %v\n",
				report.Rounds, report.Inserts, report.Removes, report.MaxDepth, report.Seed, report.Elapsed)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "TOML config file; flags given explicitly override it")
	f.IntVar(&cfg.Rounds, "rounds", cfg.Rounds, "insert/remove rounds")
	f.IntVar(&cfg.Keys, "keys", cfg.Keys, "keys inserted per round")
	f.IntVar(&cfg.KeyLen, "key-len", cfg.KeyLen, "key length in letters")
	f.IntVar(&cfg.ValueLen, "value-len", cfg.ValueLen, "value length in letters")
	f.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed, 0 picks one from the clock")
	f.StringVar(&cfg.Hash, "hash", cfg.Hash, "hash function: default, xxhash or fnv")
	f.IntVar(&cfg.CheckEvery, "check-every", cfg.CheckEvery, "run the invariant check every N mutations")
	f.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level")
	f.StringVar(&cfg.Log.Filename, "log-file", cfg.Log.Filename, "log file, rotated; empty logs to stderr")
	return cmd
}

// applyFlags copies explicitly set flag values from flagCfg over dst.
func applyFlags(cmd *cobra.Command, dst *stress.Config, flagCfg stress.Config) {
	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("rounds", func() { dst.Rounds = flagCfg.Rounds })
	set("keys", func() { dst.Keys = flagCfg.Keys })
	set("key-len", func() { dst.KeyLen = flagCfg.KeyLen })
	set("value-len", func() { dst.ValueLen = flagCfg.ValueLen })
	set("seed", func() { dst.Seed = flagCfg.Seed })
	set("hash", func() { dst.Hash = flagCfg.Hash })
	set("check-every", func() { dst.CheckEvery = flagCfg.CheckEvery })
	set("log-level", func() { dst.Log.Level = flagCfg.Log.Level })
	set("log-file", func() { dst.Log.Filename = flagCfg.Log.Filename })
}
