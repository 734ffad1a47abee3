package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paw-chain/swapbook/x/atomicswap/keeper"
)

// QueryCmd runs one query kind against the configured snapshot
func QueryCmd(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "query [kind] [json-body]",
		Aliases: []string{"q"},
		Short:   "Run one order book query against a genesis snapshot",
		Long: fmt.Sprintf(`Run one query kind with an optional JSON body and print the JSON result.

Supported kinds:
  %s

Example:
  $ swapbookd query list '{"limit":5}' --snapshot genesis.json
  $ swapbookd query bid_by_bidder '{"bidder":"<addr>","status":"Placed"}'`,
			strings.Join(keeper.QueryKinds(), "\n  ")),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var body json.RawMessage
			if len(args) == 2 {
				if !json.Valid([]byte(args[1])) {
					return errors.New("query body is not valid JSON")
				}
				body = json.RawMessage(args[1])
			}

			snap, err := st.loadSnapshot()
			if err != nil {
				return err
			}
			out, err := snap.Query(args[0], body)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}

	cmd.Flags().String(FlagSnapshot, "", "path to an exported genesis file (overrides the snapshot config value)")
	return cmd
}
