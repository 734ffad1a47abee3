package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

// matchFunds checks that funds contain a coin equal to want. Extra coins and
// additional denoms are ignored and are not escrowed.
func matchFunds(funds sdk.Coins, want sdk.Coin) error {
	if funds.Empty() {
		return errorsmod.Wrapf(types.ErrEmptyBalance, "expected %s", want)
	}
	for _, c := range funds {
		if types.CoinEqual(c, want) {
			return nil
		}
	}
	return errorsmod.Wrapf(types.ErrFundsMismatch, "expected %s, got %s", want, funds)
}

// escrow locks coin from sender in the module account.
func (k Keeper) escrow(ctx context.Context, sender sdk.AccAddress, coin sdk.Coin) error {
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, sender, types.ModuleName, sdk.NewCoins(coin)); err != nil {
		return errorsmod.Wrapf(types.ErrEscrow, "lock %s from %s: %s", coin, sender, err)
	}
	return nil
}

// refund returns escrowed coin to a local address.
func (k Keeper) refund(ctx context.Context, to string, coin sdk.Coin) error {
	addr, err := sdk.AccAddressFromBech32(to)
	if err != nil {
		return errorsmod.Wrapf(types.ErrEscrow, "invalid refund address %q: %s", to, err)
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, addr, sdk.NewCoins(coin)); err != nil {
		return errorsmod.Wrapf(types.ErrEscrow, "refund %s to %s: %s", coin, to, err)
	}
	k.metrics.Settlements.WithLabelValues("refund").Inc()
	return nil
}

// takeFee pays feeBps of coin to the treasury and returns the remainder.
func (k Keeper) takeFee(ctx context.Context, coin sdk.Coin, feeBps uint64) (sdk.Coin, error) {
	params := k.GetParams(ctx)
	if feeBps == 0 || params.Treasury == "" {
		return coin, nil
	}
	fee := coin.Amount.Mul(math.NewIntFromUint64(feeBps)).QuoRaw(int64(types.MaxFeeBps))
	if !fee.IsPositive() {
		return coin, nil
	}
	treasury, err := sdk.AccAddressFromBech32(params.Treasury)
	if err != nil {
		return coin, errorsmod.Wrapf(types.ErrEscrow, "invalid treasury: %s", err)
	}
	feeCoin := sdk.NewCoin(coin.Denom, fee)
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, treasury, sdk.NewCoins(feeCoin)); err != nil {
		return coin, errorsmod.Wrapf(types.ErrEscrow, "fee transfer: %s", err)
	}
	return sdk.NewCoin(coin.Denom, coin.Amount.Sub(fee)), nil
}

// release pays escrowed coin, minus feeBps, to a local address. With vest set,
// an order carrying a vesting schedule locks the proceeds in vesting instead,
// provided a vesting keeper is wired.
func (k Keeper) release(ctx context.Context, order types.AtomicSwapOrder, to string, coin sdk.Coin, feeBps uint64, vest bool) error {
	addr, err := sdk.AccAddressFromBech32(to)
	if err != nil {
		return errorsmod.Wrapf(types.ErrEscrow, "invalid receiver %q: %s", to, err)
	}
	net, err := k.takeFee(ctx, coin, feeBps)
	if err != nil {
		return err
	}
	if !net.IsPositive() {
		return nil
	}

	if vest && order.Vesting != nil && k.vestingKeeper != nil {
		if err := k.vestingKeeper.StartVesting(ctx, types.ModuleName, order.ID, addr, net, *order.Vesting); err != nil {
			return errorsmod.Wrapf(types.ErrEscrow, "start vesting: %s", err)
		}
		k.metrics.Settlements.WithLabelValues("vesting").Inc()
		emitSettled(ctx, order.ID, to, net, "vesting")
		return nil
	}

	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, addr, sdk.NewCoins(net)); err != nil {
		return errorsmod.Wrapf(types.ErrEscrow, "release %s to %s: %s", net, to, err)
	}
	k.metrics.Settlements.WithLabelValues("release").Inc()
	emitSettled(ctx, order.ID, to, net, "release")
	return nil
}

func emitSettled(ctx context.Context, orderID, to string, paid sdk.Coin, kind string) {
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOrderSettled,
			sdk.NewAttribute(types.AttributeKeyOrderID, orderID),
			sdk.NewAttribute(types.AttributeKeyReceiver, to),
			sdk.NewAttribute(types.AttributeKeyAmount, paid.String()),
			sdk.NewAttribute(types.AttributeKeyAction, kind),
		),
	)
}
