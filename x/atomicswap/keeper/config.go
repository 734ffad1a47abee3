package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

// GetParams returns the module parameters, or the defaults if none are stored.
func (k Keeper) GetParams(ctx context.Context) types.Params {
	bz := k.getStore(ctx).Get(types.ParamsKey)
	if bz == nil {
		return types.DefaultParams()
	}
	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		return types.DefaultParams()
	}
	return params
}

// SetParams validates and stores the module parameters.
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	bz, err := json.Marshal(params)
	if err != nil {
		return errors.Wrap(err, "failed to marshal params")
	}
	k.getStore(ctx).Set(types.ParamsKey, bz)
	return nil
}

// GetConfig returns the admin record. An unset record means an active market
// with no admin.
func (k Keeper) GetConfig(ctx context.Context) types.Config {
	bz := k.getStore(ctx).Get(types.ConfigKey)
	if bz == nil {
		return types.Config{State: types.MarketActive}
	}
	var cfg types.Config
	if err := json.Unmarshal(bz, &cfg); err != nil {
		return types.Config{State: types.MarketActive}
	}
	return cfg
}

// SetConfig stores the admin record.
func (k Keeper) SetConfig(ctx context.Context, cfg types.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	bz, err := json.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	k.getStore(ctx).Set(types.ConfigKey, bz)
	return nil
}

// IsMarketActive reports whether the market accepts bid updates.
func (k Keeper) IsMarketActive(ctx context.Context) bool {
	return k.GetConfig(ctx).State == types.MarketActive
}

// PauseMarket stops bid updates. Only the admin may call it.
func (k Keeper) PauseMarket(ctx context.Context, sender sdk.AccAddress) error {
	return k.setMarketState(ctx, sender, types.MarketPaused, types.EventTypePauseMarket)
}

// UnpauseMarket resumes bid updates. Only the admin may call it.
func (k Keeper) UnpauseMarket(ctx context.Context, sender sdk.AccAddress) error {
	return k.setMarketState(ctx, sender, types.MarketActive, types.EventTypeUnpauseMarket)
}

func (k Keeper) setMarketState(ctx context.Context, sender sdk.AccAddress, state types.MarketState, event string) error {
	cfg := k.GetConfig(ctx)
	if cfg.Admin == "" || cfg.Admin != sender.String() {
		return errors.Wrapf(types.ErrUnauthorized, "sender %s", sender)
	}
	cfg.State = state
	if err := k.SetConfig(ctx, cfg); err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			event,
			sdk.NewAttribute(types.AttributeKeyAction, event),
			sdk.NewAttribute(types.AttributeKeySender, sender.String()),
		),
	)
	k.Logger(ctx).Info("market state changed", "state", state, "height", sdkCtx.BlockHeight())
	return nil
}
