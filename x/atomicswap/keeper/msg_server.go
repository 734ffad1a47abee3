package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the atomic swap MsgServer interface
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// Execute runs the wrapped action on behalf of the signer
func (ms msgServer) Execute(goCtx context.Context, msg *types.MsgExecute) (*types.MsgExecuteResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("Execute: validate: %w", err)
	}

	info, err := msg.Info()
	if err != nil {
		return nil, fmt.Errorf("Execute: %w", err)
	}
	action, err := msg.Action()
	if err != nil {
		return nil, fmt.Errorf("Execute: %w", err)
	}

	resp, err := ms.Keeper.Execute(sdk.UnwrapSDKContext(goCtx), info, action)
	if err != nil {
		return nil, fmt.Errorf("Execute: %w", err)
	}

	return &types.MsgExecuteResponse{
		Action:  resp.Action,
		OrderID: resp.OrderID,
	}, nil
}
