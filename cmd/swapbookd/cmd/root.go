package cmd

import (
	"errors"
	"fmt"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paw-chain/swapbook/x/atomicswap/client/cli"
	"github.com/paw-chain/swapbook/x/atomicswap/snapshot"
)

// rootState is resolved once per invocation and shared by subcommands.
type rootState struct {
	v      *viper.Viper
	cfg    *Config
	logger log.Logger
}

func (st *rootState) loadSnapshot() (*snapshot.Snapshot, error) {
	if st.cfg.Snapshot == "" {
		return nil, errors.New("no snapshot configured: pass --snapshot or set snapshot in " + ConfigPath(st.cfg.Home))
	}
	snap, err := snapshot.Load(st.cfg.Snapshot, st.logger)
	if err != nil {
		return nil, err
	}
	st.logger.Debug("snapshot loaded", "path", st.cfg.Snapshot, "stats", snap.Stats())
	return snap, nil
}

// NewRootCmd creates a new root command for swapbookd. It is called once in
// the main function.
func NewRootCmd() *cobra.Command {
	st := &rootState{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "swapbookd",
		Short: "Swapbook atomic swap order book daemon",
		Long: `swapbookd answers order book queries against an exported atomic swap
genesis, from the command line or over HTTP.

Configuration is read from <home>/config/swapbookd.toml and can be overridden
with SWAPBOOK_ environment variables (SWAPBOOK_API_PORT, SWAPBOOK_LOG_LEVEL, ...).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			cfg, err := LoadConfig(st.v, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := NewLogger(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			st.cfg = cfg
			st.logger = logger.With("module", "swapbookd")
			return nil
		},
	}

	rootCmd.PersistentFlags().String(FlagHome, DefaultHome(), "directory holding config/swapbookd.toml")
	rootCmd.PersistentFlags().String(FlagLogLevel, "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String(FlagLogFormat, LogFormatPlain, fmt.Sprintf("log format (%s, %s)", LogFormatPlain, LogFormatJSON))

	rootCmd.AddCommand(
		InitCmd(st),
		QueryCmd(st),
		ServeCmd(st),
		TxCmd(),
		cli.GetQueryCmd(),
	)

	return rootCmd
}
