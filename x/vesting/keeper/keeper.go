package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/swapbook/x/vesting/types"
)

// Keeper holds swap proceeds and releases them on a tranche schedule.
type Keeper struct {
	storeKey   storetypes.StoreKey
	bankKeeper types.BankKeeper
}

// NewKeeper creates a new vesting Keeper instance
func NewKeeper(key storetypes.StoreKey, bankKeeper types.BankKeeper) *Keeper {
	return &Keeper{
		storeKey:   key,
		bankKeeper: bankKeeper,
	}
}

func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// StartVesting moves token from fromModule into the vesting module account and
// records a vesting entry for orderID. The schedule is given in basis points
// and is scaled to token.Amount. Vesting starts at the current block time.
func (k Keeper) StartVesting(ctx context.Context, fromModule, orderID string, receiver sdk.AccAddress, token sdk.Coin, info types.VestingInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}
	if receiver.Empty() {
		return types.ErrInvalidReceiver
	}
	if !token.IsValid() || !token.IsPositive() {
		return errors.Wrapf(types.ErrInvalidVestingAmt, "%s", token)
	}
	if _, found := k.GetVesting(ctx, orderID); found {
		return errors.Wrapf(types.ErrVestingExists, "order %s", orderID)
	}

	if err := k.bankKeeper.SendCoinsFromModuleToModule(ctx, fromModule, types.ModuleName, sdk.NewCoins(token)); err != nil {
		return errors.Wrap(err, "failed to lock vesting tokens")
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	details := types.VestingDetails{
		OrderID:       orderID,
		StartTime:     uint64(sdkCtx.BlockTime().Unix()),
		Schedules:     types.ScaleSchedules(info.Schedules, token.Amount),
		Receiver:      receiver.String(),
		Token:         token,
		AmountClaimed: math.ZeroInt(),
	}
	if err := k.setVesting(ctx, details); err != nil {
		return err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"start_vesting",
			sdk.NewAttribute("order_id", orderID),
			sdk.NewAttribute("receiver", details.Receiver),
			sdk.NewAttribute("amount", token.String()),
		),
	)
	return nil
}

// Claim pays the receiver everything released by now that was not claimed
// before and returns the amount paid.
func (k Keeper) Claim(ctx context.Context, orderID string, now uint64) (sdk.Coin, error) {
	details, found := k.GetVesting(ctx, orderID)
	if !found {
		return sdk.Coin{}, errors.Wrapf(types.ErrVestingNotFound, "order %s", orderID)
	}

	amount := details.Claimable(now)
	if !amount.IsPositive() {
		return sdk.Coin{}, types.ErrNothingToClaim
	}

	receiver, err := sdk.AccAddressFromBech32(details.Receiver)
	if err != nil {
		return sdk.Coin{}, errors.Wrap(types.ErrInvalidReceiver, err.Error())
	}

	paid := sdk.NewCoin(details.Token.Denom, amount)
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, receiver, sdk.NewCoins(paid)); err != nil {
		return sdk.Coin{}, errors.Wrap(err, "failed to release vested tokens")
	}

	details.AmountClaimed = details.AmountClaimed.Add(amount)
	if err := k.setVesting(ctx, details); err != nil {
		return sdk.Coin{}, err
	}

	k.Logger(ctx).Info("vested tokens claimed", "order_id", orderID, "amount", paid.String())
	return paid, nil
}

// GetVesting returns the vesting entry created for orderID.
func (k Keeper) GetVesting(ctx context.Context, orderID string) (types.VestingDetails, bool) {
	bz := k.getStore(ctx).Get(types.GetVestingKey(orderID))
	if bz == nil {
		return types.VestingDetails{}, false
	}
	var details types.VestingDetails
	if err := json.Unmarshal(bz, &details); err != nil {
		return types.VestingDetails{}, false
	}
	return details, true
}

// IterateVestings calls cb for every vesting entry until cb returns true.
func (k Keeper) IterateVestings(ctx context.Context, cb func(types.VestingDetails) bool) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.VestingKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var details types.VestingDetails
		if err := json.Unmarshal(iterator.Value(), &details); err != nil {
			continue
		}
		if cb(details) {
			return
		}
	}
}

func (k Keeper) setVesting(ctx context.Context, details types.VestingDetails) error {
	bz, err := json.Marshal(details)
	if err != nil {
		return errors.Wrap(err, "failed to marshal vesting details")
	}
	k.getStore(ctx).Set(types.GetVestingKey(details.OrderID), bz)
	return nil
}
