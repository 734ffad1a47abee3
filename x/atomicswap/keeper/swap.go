package keeper

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

func blockSeconds(ctx sdk.Context) uint64 {
	return uint64(ctx.BlockTime().Unix())
}

// MakeSwap creates an order on this chain, escrows the maker's sell token and
// announces the order to the counterparty chain. It returns the new order id.
func (k Keeper) MakeSwap(ctx sdk.Context, info types.MessageInfo, msg types.MakeSwapMsg) (string, error) {
	if err := msg.ValidateBasic(); err != nil {
		return "", err
	}
	if err := matchFunds(info.Funds, msg.SellToken); err != nil {
		return "", err
	}
	if msg.Vesting != nil {
		if err := msg.Vesting.Validate(); err != nil {
			return "", errorsmod.Wrap(types.ErrInvalidVesting, err.Error())
		}
	}
	if info.Sender.String() != msg.MakerAddress {
		return "", errorsmod.Wrapf(types.ErrInvalidSender, "sender %s is not maker %s", info.Sender, msg.MakerAddress)
	}

	channel, err := k.GetChannelInfo(ctx, msg.SourceChannel)
	if err != nil {
		return "", err
	}

	sequence := k.nextSequence(ctx)
	path := types.OrderPath(
		msg.SourceChannel,
		msg.SourcePort,
		channel.Counterparty.ChannelID,
		channel.Counterparty.PortID,
		sequence,
	)
	orderID := types.OrderID(path)

	order := types.AtomicSwapOrder{
		ID:              orderID,
		Side:            types.SideNative,
		Maker:           msg,
		Status:          types.StatusInitial,
		Path:            path,
		CreateTimestamp: blockSeconds(ctx),
		MinBidPrice:     msg.MinBidPrice,
		Vesting:         msg.Vesting,
	}
	slot, err := k.activeOrders(ctx).Append(order)
	if err != nil {
		return "", err
	}

	if err := k.escrow(ctx, info.Sender, msg.SellToken); err != nil {
		return "", err
	}

	packet, err := types.NewPacketData(types.TypeMakeSwap, msg, orderID, path)
	if err != nil {
		return "", err
	}
	if _, err := k.sendPacket(ctx, msg.SourcePort, msg.SourceChannel, packet); err != nil {
		return "", err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeMakeSwap,
			sdk.NewAttribute(types.AttributeKeyAction, types.EventTypeMakeSwap),
			sdk.NewAttribute(types.AttributeKeyOrderID, orderID),
			sdk.NewAttribute(types.AttributeKeySlot, fmt.Sprintf("%d", slot)),
			sdk.NewAttribute(types.AttributeKeyAmount, msg.SellToken.String()),
		),
	)
	return orderID, nil
}

// TakeSwap locks an order for the caller. The order must still be open and
// untaken, the offered token must equal the order's buy token, and the
// order must not have expired.
//
// An expired order is moved to the archive before ErrExpired is returned.
// That write is the one mutation a failed call leaves behind; Execute commits
// it even though the call fails.
func (k Keeper) TakeSwap(ctx sdk.Context, info types.MessageInfo, msg types.TakeSwapMsg) error {
	if err := msg.ValidateBasic(); err != nil {
		return err
	}
	if err := matchFunds(info.Funds, msg.SellToken); err != nil {
		return err
	}

	orders := k.activeOrders(ctx)
	order, err := orders.Get(msg.OrderID)
	if err != nil {
		return err
	}

	if !order.Status.IsOpen() {
		return errorsmod.Wrapf(types.ErrOrderTaken, "order status %s", order.Status)
	}
	if !types.CoinEqual(order.Maker.BuyToken, msg.SellToken) {
		return errorsmod.Wrapf(types.ErrInvalidSellToken, "expected %s, got %s", order.Maker.BuyToken, msg.SellToken)
	}
	if order.HasTaker() {
		return types.ErrOrderTaken
	}
	if order.Maker.DesiredTaker != "" && order.Maker.DesiredTaker != msg.TakerAddress {
		return errorsmod.Wrapf(types.ErrInvalidTakerAddress, "order reserved for %s", order.Maker.DesiredTaker)
	}
	if order.IsExpired(blockSeconds(ctx)) {
		if _, err := k.archiveOrder(ctx, order.ID, "expired"); err != nil {
			return err
		}
		return errorsmod.Wrapf(types.ErrExpired, "order expired at %d", order.Maker.ExpirationTimestamp)
	}
	if info.Sender.String() != msg.TakerAddress {
		return errorsmod.Wrapf(types.ErrInvalidSender, "sender %s is not taker %s", info.Sender, msg.TakerAddress)
	}

	taker := msg
	order.Taker = &taker
	if err := orders.Set(order); err != nil {
		return err
	}

	if err := k.escrow(ctx, info.Sender, msg.SellToken); err != nil {
		return err
	}
	if _, err := k.sendOrderPacket(ctx, order, types.TypeTakeSwap, msg); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTakeSwap,
			sdk.NewAttribute(types.AttributeKeyAction, types.EventTypeTakeSwap),
			sdk.NewAttribute(types.AttributeKeyOrderID, order.ID),
			sdk.NewAttribute(types.AttributeKeySender, msg.TakerAddress),
		),
	)
	return nil
}

// CancelSwap asks the counterparty chain to cancel an open order. The stored
// status does not change here; it changes when the counterparty acknowledges.
func (k Keeper) CancelSwap(ctx sdk.Context, info types.MessageInfo, msg types.CancelSwapMsg) error {
	if err := msg.ValidateBasic(); err != nil {
		return err
	}

	order, err := k.activeOrders(ctx).Get(msg.OrderID)
	if err != nil {
		return err
	}

	if info.Sender.String() != order.Maker.MakerAddress {
		return errorsmod.Wrapf(types.ErrInvalidSender, "sender %s is not the maker", info.Sender)
	}
	if order.Maker.MakerAddress != msg.MakerAddress {
		return errorsmod.Wrapf(types.ErrInvalidMakerAddress, "%s", msg.MakerAddress)
	}
	if !order.Status.IsOpen() {
		return errorsmod.Wrapf(types.ErrInvalidStatus, "order status %s", order.Status)
	}

	packet, err := types.NewPacketData(types.TypeCancelSwap, msg, "", "")
	if err != nil {
		return err
	}
	if _, err := k.sendPacket(ctx, order.Maker.SourcePort, order.Maker.SourceChannel, packet); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCancelSwap,
			sdk.NewAttribute(types.AttributeKeyAction, types.EventTypeCancelSwap),
			sdk.NewAttribute(types.AttributeKeyOrderID, order.ID),
		),
	)
	return nil
}
