package keeper

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

// MakeBid places an auction bid on an order. A bidder holds at most one
// Initial or Placed bid per order; a bid that was cancelled, failed or
// executed may be replaced.
func (k Keeper) MakeBid(ctx sdk.Context, info types.MessageInfo, msg types.MakeBidMsg) error {
	if err := msg.ValidateBasic(); err != nil {
		return err
	}

	order, err := k.activeOrders(ctx).Get(msg.OrderID)
	if err != nil {
		return err
	}
	if err := requireSide(order, types.SideRemote, types.TypeMakeBid); err != nil {
		return err
	}
	if err := matchFunds(info.Funds, msg.SellToken); err != nil {
		return err
	}
	if order.MinBidPrice != nil && msg.SellToken.Amount.LT(*order.MinBidPrice) {
		return errorsmod.Wrapf(types.ErrMinBidPrice, "bid %s below minimum %s", msg.SellToken.Amount, order.MinBidPrice)
	}
	if !order.Maker.TakeBids {
		return types.ErrTakeBidNotAllowed
	}
	if order.Maker.BuyToken.Denom != msg.SellToken.Denom {
		return errorsmod.Wrapf(types.ErrInvalidSellToken, "expected denom %s, got %s", order.Maker.BuyToken.Denom, msg.SellToken.Denom)
	}
	if order.HasTaker() {
		return types.ErrOrderTaken
	}
	if info.Sender.String() != msg.TakerAddress {
		return errorsmod.Wrapf(types.ErrInvalidSender, "sender %s is not bidder %s", info.Sender, msg.TakerAddress)
	}
	if existing, found := k.GetBid(ctx, msg.OrderID, msg.TakerAddress); found && existing.Status.IsActive() {
		return errorsmod.Wrapf(types.ErrBidAlreadyExists, "bid status %s", existing.Status)
	}

	bid := types.Bid{
		Bid:              msg.SellToken,
		Order:            msg.OrderID,
		Status:           types.BidStatusInitial,
		Bidder:           msg.TakerAddress,
		BidderReceiver:   msg.TakerReceivingAddress,
		ReceiveTimestamp: blockSeconds(ctx),
		ExpireTimestamp:  msg.ExpirationTimestamp,
	}
	if err := k.SetBid(ctx, bid); err != nil {
		return err
	}
	if err := k.escrow(ctx, info.Sender, msg.SellToken); err != nil {
		return err
	}
	if _, err := k.sendOrderPacket(ctx, order, types.TypeMakeBid, msg); err != nil {
		return err
	}

	emitBidEvent(ctx, types.EventTypeMakeBid, bid.Order, bid.Bidder, bid.Bid.String())
	return nil
}

// TakeBid accepts a placed, unexpired bid. Only the order's maker receiving
// address may accept. Bid and order status change when the counterparty
// acknowledges.
func (k Keeper) TakeBid(ctx sdk.Context, info types.MessageInfo, msg types.TakeBidMsg) error {
	order, err := k.activeOrders(ctx).Get(msg.OrderID)
	if err != nil {
		return err
	}
	if err := requireSide(order, types.SideRemote, types.TypeTakeBid); err != nil {
		return err
	}
	if !order.Maker.TakeBids {
		return types.ErrTakeBidNotAllowed
	}
	if order.HasTaker() {
		return types.ErrOrderTaken
	}
	if info.Sender.String() != order.Maker.MakerReceivingAddress {
		return errorsmod.Wrapf(types.ErrInvalidSender, "sender %s is not the maker receiving address", info.Sender)
	}

	bid, found := k.GetBid(ctx, msg.OrderID, msg.Bidder)
	if !found || bid.Status != types.BidStatusPlaced {
		return errorsmod.Wrapf(types.ErrBidDoesntExist, "%s/%s", msg.OrderID, msg.Bidder)
	}
	if bid.IsExpired(blockSeconds(ctx)) {
		return errorsmod.Wrapf(types.ErrExpired, "bid expired at %d", bid.ExpireTimestamp)
	}

	if _, err := k.sendOrderPacket(ctx, order, types.TypeTakeBid, msg); err != nil {
		return err
	}

	emitBidEvent(ctx, types.EventTypeTakeBid, bid.Order, bid.Bidder, bid.Bid.String())
	return nil
}

// CancelBid asks the counterparty chain to drop a bid. Only the bidder may cancel.
func (k Keeper) CancelBid(ctx sdk.Context, info types.MessageInfo, msg types.CancelBidMsg) error {
	order, err := k.activeOrders(ctx).Get(msg.OrderID)
	if err != nil {
		return err
	}
	if err := requireSide(order, types.SideRemote, types.TypeCancelBid); err != nil {
		return err
	}
	if !order.Maker.TakeBids {
		return types.ErrTakeBidNotAllowed
	}
	if !k.HasBid(ctx, msg.OrderID, msg.Bidder) {
		return errorsmod.Wrapf(types.ErrBidDoesntExist, "%s/%s", msg.OrderID, msg.Bidder)
	}
	if info.Sender.String() != msg.Bidder {
		return errorsmod.Wrapf(types.ErrInvalidSender, "sender %s is not bidder %s", info.Sender, msg.Bidder)
	}

	if _, err := k.sendOrderPacket(ctx, order, types.TypeCancelBid, msg); err != nil {
		return err
	}

	emitBidEvent(ctx, types.EventTypeCancelBid, msg.OrderID, msg.Bidder, "")
	return nil
}

// UpdateBid raises a placed bid by msg.Addition. The new amount is stored
// at once and the price ordering follows it; a failed delivery reverts it.
// This is the only action gated on the market being active.
func (k Keeper) UpdateBid(ctx sdk.Context, info types.MessageInfo, msg types.UpdateBidMsg) error {
	if err := msg.ValidateBasic(); err != nil {
		return err
	}
	if !k.IsMarketActive(ctx) {
		return types.ErrMarketPaused
	}
	if info.Sender.String() != msg.Bidder {
		return errorsmod.Wrapf(types.ErrInvalidSender, "sender %s is not bidder %s", info.Sender, msg.Bidder)
	}

	order, err := k.activeOrders(ctx).Get(msg.OrderID)
	if err != nil {
		return err
	}
	if err := requireSide(order, types.SideRemote, types.TypeUpdateBid); err != nil {
		return err
	}
	addition := sdk.Coin{Denom: order.Maker.BuyToken.Denom, Amount: msg.Addition}
	if err := matchFunds(info.Funds, addition); err != nil {
		return err
	}

	bid, found := k.GetBid(ctx, msg.OrderID, msg.Bidder)
	if !found || bid.Status != types.BidStatusPlaced {
		return errorsmod.Wrapf(types.ErrBidDoesntExist, "%s/%s", msg.OrderID, msg.Bidder)
	}
	if bid.IsExpired(blockSeconds(ctx)) {
		return errorsmod.Wrapf(types.ErrExpired, "bid expired at %d", bid.ExpireTimestamp)
	}
	if !msg.Addition.IsPositive() {
		return errorsmod.Wrap(types.ErrInvalidBidAmount, "addition must be positive")
	}
	total := bid.Bid.Amount.Add(msg.Addition)
	if total.GT(order.Maker.BuyToken.Amount) {
		return errorsmod.Wrapf(types.ErrInvalidBidAmount, "bid %s exceeds order amount %s", total, order.Maker.BuyToken.Amount)
	}

	bid.Bid.Amount = total
	if err := k.SetBid(ctx, bid); err != nil {
		return err
	}
	if err := k.escrow(ctx, info.Sender, addition); err != nil {
		return err
	}
	if _, err := k.sendOrderPacket(ctx, order, types.TypeUpdateBid, msg); err != nil {
		return err
	}

	emitBidEvent(ctx, types.EventTypeUpdateBid, bid.Order, bid.Bidder, bid.Bid.String())
	return nil
}

func emitBidEvent(ctx sdk.Context, eventType, order, bidder, amount string) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute(types.AttributeKeyAction, eventType),
			sdk.NewAttribute(types.AttributeKeyOrderID, order),
			sdk.NewAttribute(types.AttributeKeyBidder, bidder),
			sdk.NewAttribute(types.AttributeKeyAmount, amount),
		),
	)
}
