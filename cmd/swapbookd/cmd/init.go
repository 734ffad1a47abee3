package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// InitCmd writes a default config file under the home directory
func InitCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default swapbookd.toml under the home directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := WriteDefaultConfig(st.cfg.Home)
			if err != nil {
				return err
			}
			st.logger.Info("config written", "path", path)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
}
