package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cosmos/cosmos-sdk/client"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/swapbook/x/atomicswap/snapshot"
	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

// GetTxCmd returns the transaction commands for the atomic swap module
func GetTxCmd() *cobra.Command {
	swapTxCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Atomic swap transaction subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	swapTxCmd.AddCommand(
		CmdExecute(),
	)

	return swapTxCmd
}

// CmdExecute runs one execute message against an exported state snapshot
func CmdExecute() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "execute [sender] [json-msg]",
		Short: "Apply an execute message to a state snapshot",
		Long: `Apply one execute message as sender with the given funds attached.

The snapshot is loaded into memory, the message is delivered through the
module's Msg service and the result is printed: the response, the packets the
chain would have sent and the emitted events. With --output the updated
module state is written as a genesis file.

Example:
  $ swapbookd tx atomicswap execute cosmos1... '{"make_swap":{...}}' --amount 100uatom --snapshot genesis.json
  $ swapbookd tx atomicswap execute cosmos1... '{"cancel_swap":{"order_id":"<id>","maker_address":"cosmos1..."}}' --snapshot genesis.json --output next.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !json.Valid([]byte(args[1])) {
				return fmt.Errorf("execute msg is not valid JSON")
			}

			amount, err := cmd.Flags().GetString(FlagAmount)
			if err != nil {
				return err
			}
			funds, err := sdk.ParseCoinsNormalized(amount)
			if err != nil {
				return fmt.Errorf("invalid amount: %w", err)
			}

			msg := &types.MsgExecute{
				Sender: args[0],
				Funds:  funds,
				Msg:    json.RawMessage(args[1]),
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			path, err := cmd.Flags().GetString(FlagSnapshot)
			if err != nil {
				return err
			}
			sim, err := snapshot.LoadSimulation(path, nil)
			if err != nil {
				return err
			}
			result, err := sim.Execute(msg)
			if err != nil {
				return err
			}

			output, err := cmd.Flags().GetString(FlagOutput)
			if err != nil {
				return err
			}
			if output != "" {
				if err := writeGenesis(sim, output); err != nil {
					return err
				}
			}

			bz, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return err
		},
	}

	addSnapshotFlag(cmd)
	cmd.Flags().String(FlagAmount, "", "funds attached to the message, e.g. 100uatom")
	cmd.Flags().String(FlagOutput, "", "write the resulting module genesis to this file")
	return cmd
}

func writeGenesis(sim *snapshot.Simulation, path string) error {
	gs, err := sim.Export()
	if err != nil {
		return err
	}
	bz, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, bz, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
