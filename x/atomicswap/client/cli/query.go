package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/spf13/cobra"

	"github.com/paw-chain/swapbook/x/atomicswap/keeper"
	"github.com/paw-chain/swapbook/x/atomicswap/snapshot"
	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

// GetQueryCmd returns the cli query commands for the atomic swap module
func GetQueryCmd() *cobra.Command {
	swapQueryCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the atomic swap module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	swapQueryCmd.AddCommand(
		GetCmdQueryKinds(),
		GetCmdQueryRaw(),
		GetCmdQueryList(),
		GetCmdQueryDetails(),
		GetCmdQueryBid(),
	)

	return swapQueryCmd
}

// GetCmdQueryKinds lists the supported query kinds
func GetCmdQueryKinds() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the supported query kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(keeper.QueryKinds(), "\n"))
			return err
		},
	}
}

// GetCmdQueryRaw runs any query kind with a JSON body
func GetCmdQueryRaw() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "raw [kind] [json-body]",
		Short: "Run a query kind against an exported state snapshot",
		Long: `Run one query kind with an optional JSON body against an exported genesis.

Example:
  $ swapbookd query atomicswap raw list_reverse '{"limit":5}' --snapshot genesis.json
  $ swapbookd query atomicswap raw bid_by_amount '{"order":"<id>","status":"Placed"}' --snapshot genesis.json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := json.RawMessage("{}")
			if len(args) == 2 {
				if !json.Valid([]byte(args[1])) {
					return fmt.Errorf("query body is not valid JSON")
				}
				body = json.RawMessage(args[1])
			}
			return runQuery(cmd, args[0], body)
		},
	}

	addSnapshotFlag(cmd)
	return cmd
}

// GetCmdQueryList pages through active or archived orders
func GetCmdQueryList() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders by slot",
		Long: `List active orders, or archived orders with --archived.

Example:
  $ swapbookd query atomicswap list --reverse --limit 10 --snapshot genesis.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := cmd.Flags().GetUint32(FlagLimit)
			if err != nil {
				return err
			}
			reverse, _ := cmd.Flags().GetBool(FlagReverse)
			archived, _ := cmd.Flags().GetBool(FlagArchived)

			kind := types.QueryList
			if archived {
				kind = types.QueryInactiveList
			}
			if reverse {
				kind += "_reverse"
			}

			body, err := json.Marshal(types.ListRequest{Limit: &limit})
			if err != nil {
				return err
			}
			return runQuery(cmd, kind, body)
		},
	}

	cmd.Flags().Uint32(FlagLimit, types.DefaultOrderLimit, "maximum number of orders to return")
	cmd.Flags().Bool(FlagReverse, false, "newest first")
	cmd.Flags().Bool(FlagArchived, false, "list archived orders")
	addSnapshotFlag(cmd)
	return cmd
}

// GetCmdQueryDetails shows one order
func GetCmdQueryDetails() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "details [order-id]",
		Short: "Query an order by id, active or archived",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := json.Marshal(types.DetailsRequest{ID: args[0]})
			if err != nil {
				return err
			}
			return runQuery(cmd, types.QueryDetails, body)
		},
	}

	addSnapshotFlag(cmd)
	return cmd
}

// GetCmdQueryBid shows one bid
func GetCmdQueryBid() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bid [order-id] [bidder]",
		Short: "Query the bid a bidder placed on an order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := json.Marshal(types.BidDetailsRequest{Order: args[0], Bidder: args[1]})
			if err != nil {
				return err
			}
			return runQuery(cmd, types.QueryBidDetails, body)
		},
	}

	addSnapshotFlag(cmd)
	return cmd
}

func addSnapshotFlag(cmd *cobra.Command) {
	cmd.Flags().String(FlagSnapshot, "", "path to an exported genesis file")
	_ = cmd.MarkFlagRequired(FlagSnapshot)
}

func runQuery(cmd *cobra.Command, kind string, body json.RawMessage) error {
	path, err := cmd.Flags().GetString(FlagSnapshot)
	if err != nil {
		return err
	}
	snap, err := snapshot.Load(path, nil)
	if err != nil {
		return err
	}
	out, err := snap.Query(kind, body)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
