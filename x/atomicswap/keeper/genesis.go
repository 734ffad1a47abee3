package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

// InitGenesis loads the module state. Orders are appended in the given
// order, so slots are renumbered densely from zero; bids are written through
// SetBid so their secondary views are rebuilt.
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid genesis: %w", err)
	}

	k.SetPort(ctx, genState.PortID)
	if k.portKeeper != nil {
		sdkCtx := sdk.UnwrapSDKContext(ctx)
		if !k.IsBound(sdkCtx, genState.PortID) {
			if err := k.BindPort(sdkCtx, genState.PortID); err != nil {
				return fmt.Errorf("failed to bind IBC port: %w", err)
			}
		}
	}

	if err := k.SetParams(ctx, genState.Params); err != nil {
		return fmt.Errorf("failed to set params: %w", err)
	}
	if err := k.SetConfig(ctx, genState.Config); err != nil {
		return fmt.Errorf("failed to set config: %w", err)
	}
	for _, ch := range genState.Channels {
		if err := k.SetChannelInfo(ctx, ch); err != nil {
			return fmt.Errorf("failed to set channel %s: %w", ch.ID, err)
		}
	}

	counter{store: k.getStore(ctx), key: types.SwapSequenceKey}.set(genState.SwapSequence)

	active := k.activeOrders(ctx)
	for _, order := range genState.Orders {
		if _, err := active.Append(order); err != nil {
			return fmt.Errorf("failed to load order %s: %w", order.ID, err)
		}
	}
	archive := k.archivedOrders(ctx)
	for _, order := range genState.ArchivedOrders {
		if _, err := archive.Append(order); err != nil {
			return fmt.Errorf("failed to load archived order %s: %w", order.ID, err)
		}
	}

	for _, bid := range genState.Bids {
		if err := k.SetBid(ctx, bid); err != nil {
			return fmt.Errorf("failed to load bid %s/%s: %w", bid.Order, bid.Bidder, err)
		}
	}
	return nil
}

// ExportGenesis exports the module state with orders in slot order.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	genState := &types.GenesisState{
		Params:       k.GetParams(ctx),
		Config:       k.GetConfig(ctx),
		PortID:       k.GetPort(ctx),
		Channels:     k.GetAllChannelInfo(ctx),
		SwapSequence: k.GetSwapSequence(ctx),
	}

	var err error
	if genState.Orders, err = collectOrders(k.activeOrders(ctx)); err != nil {
		return nil, fmt.Errorf("failed to export orders: %w", err)
	}
	if genState.ArchivedOrders, err = collectOrders(k.archivedOrders(ctx)); err != nil {
		return nil, fmt.Errorf("failed to export archived orders: %w", err)
	}

	k.IterateBids(ctx, func(bid types.Bid) bool {
		genState.Bids = append(genState.Bids, bid)
		return false
	})
	return genState, nil
}

func collectOrders(s orderStore) ([]types.AtomicSwapOrder, error) {
	var orders []types.AtomicSwapOrder
	err := s.Walk(func(_ uint64, order types.AtomicSwapOrder) (bool, error) {
		orders = append(orders, order)
		return false, nil
	})
	return orders, err
}
