package keeper

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

// ExecuteResponse reports the outcome of an action.
type ExecuteResponse struct {
	Action  string `json:"action"`
	OrderID string `json:"order_id,omitempty"`
}

// Execute runs one action against a branch of the store. The branch is
// committed when the action succeeds, and is also committed when take_swap
// fails with ErrExpired so the expired order's move to the archive sticks.
// Any other failure leaves the store untouched.
func (k Keeper) Execute(ctx sdk.Context, info types.MessageInfo, msg types.ExecuteMsg) (*ExecuteResponse, error) {
	action, err := msg.Action()
	if err != nil {
		return nil, err
	}

	cacheCtx, write := ctx.CacheContext()
	orderID, err := k.dispatch(cacheCtx, info, msg)
	if err != nil {
		if action == types.EventTypeTakeSwap && errorsmod.IsOf(err, types.ErrExpired) {
			write()
		}
		k.metrics.Actions.WithLabelValues(action, "error").Inc()
		return nil, err
	}
	write()

	k.metrics.Actions.WithLabelValues(action, "ok").Inc()
	return &ExecuteResponse{Action: action, OrderID: orderID}, nil
}

func (k Keeper) dispatch(ctx sdk.Context, info types.MessageInfo, msg types.ExecuteMsg) (string, error) {
	switch {
	case msg.MakeSwap != nil:
		return k.MakeSwap(ctx, info, *msg.MakeSwap)
	case msg.TakeSwap != nil:
		return msg.TakeSwap.OrderID, k.TakeSwap(ctx, info, *msg.TakeSwap)
	case msg.CancelSwap != nil:
		return msg.CancelSwap.OrderID, k.CancelSwap(ctx, info, *msg.CancelSwap)
	case msg.MakeBid != nil:
		return msg.MakeBid.OrderID, k.MakeBid(ctx, info, *msg.MakeBid)
	case msg.TakeBid != nil:
		return msg.TakeBid.OrderID, k.TakeBid(ctx, info, *msg.TakeBid)
	case msg.CancelBid != nil:
		return msg.CancelBid.OrderID, k.CancelBid(ctx, info, *msg.CancelBid)
	case msg.UpdateBid != nil:
		return msg.UpdateBid.OrderID, k.UpdateBid(ctx, info, *msg.UpdateBid)
	case msg.PauseMarket != nil:
		return "", k.PauseMarket(ctx, info.Sender)
	case msg.UnpauseMarket != nil:
		return "", k.UnpauseMarket(ctx, info.Sender)
	}
	return "", errorsmod.Wrap(types.ErrInvalidMessage, "no action set")
}
