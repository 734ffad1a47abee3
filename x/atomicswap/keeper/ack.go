package keeper

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"

	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

// ackHandlers finalize a locally initiated action once the counterparty
// accepted it.
var ackHandlers = map[types.SwapMessageType]packetHandler{
	types.TypeMakeSwap:   Keeper.ackMakeSwap,
	types.TypeTakeSwap:   Keeper.ackTakeSwap,
	types.TypeCancelSwap: Keeper.ackCancelSwap,
	types.TypeMakeBid:    Keeper.ackMakeBid,
	types.TypeTakeBid:    Keeper.ackTakeBid,
	types.TypeCancelBid:  Keeper.ackCancelBid,
}

// refundHandlers undo a locally initiated action after an error
// acknowledgement or a timeout. Types without an entry made no local writes
// that need undoing.
var refundHandlers = map[types.SwapMessageType]packetHandler{
	types.TypeMakeSwap:  Keeper.refundMakeSwap,
	types.TypeTakeSwap:  Keeper.refundTakeSwap,
	types.TypeMakeBid:   Keeper.refundMakeBid,
	types.TypeUpdateBid: Keeper.refundUpdateBid,
}

// OnAcknowledgementPacket finalizes or rolls back the action carried by packet.
func (k Keeper) OnAcknowledgementPacket(ctx sdk.Context, packet channeltypes.Packet, ack channeltypes.Acknowledgement) error {
	data, err := types.DecodePacketData(packet.GetData())
	if err != nil {
		return err
	}

	result := "ok"
	handlers := ackHandlers
	if !ack.Success() {
		result = "error"
		handlers = refundHandlers
		k.Logger(ctx).Error("swap packet rejected by counterparty",
			"type", data.Type.String(),
			"sequence", packet.GetSequence(),
			"error", ack.GetError(),
		)
	}

	if err := k.applyPacketHandler(ctx, handlers, packet, data); err != nil {
		return err
	}

	attrs := []sdk.Attribute{
		sdk.NewAttribute(types.AttributeKeyPacketType, data.Type.String()),
		sdk.NewAttribute(types.AttributeKeySequence, uint64String(packet.GetSequence())),
		sdk.NewAttribute(types.AttributeKeySuccess, boolString(ack.Success())),
	}
	if !ack.Success() {
		attrs = append(attrs, sdk.NewAttribute(types.AttributeKeyError, ack.GetError()))
	}
	ctx.EventManager().EmitEvent(sdk.NewEvent(types.EventTypePacketAck, attrs...))
	k.metrics.Acks.WithLabelValues(data.Type.String(), result).Inc()
	return nil
}

// OnTimeoutPacket rolls back the action carried by packet as if it had been
// rejected.
func (k Keeper) OnTimeoutPacket(ctx sdk.Context, packet channeltypes.Packet) error {
	data, err := types.DecodePacketData(packet.GetData())
	if err != nil {
		return err
	}
	if err := k.applyPacketHandler(ctx, refundHandlers, packet, data); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePacketTimeout,
			sdk.NewAttribute(types.AttributeKeyPacketType, data.Type.String()),
			sdk.NewAttribute(types.AttributeKeySequence, uint64String(packet.GetSequence())),
		),
	)
	k.metrics.Timeouts.WithLabelValues(data.Type.String()).Inc()
	k.Logger(ctx).Info("swap packet timed out", "type", data.Type.String(), "sequence", packet.GetSequence())
	return nil
}

func (k Keeper) applyPacketHandler(ctx sdk.Context, handlers map[types.SwapMessageType]packetHandler, packet channeltypes.Packet, data types.AtomicSwapPacketData) error {
	handler, ok := handlers[data.Type]
	if !ok {
		return nil
	}
	cacheCtx, write := ctx.CacheContext()
	if err := handler(k, cacheCtx, packet, data); err != nil {
		return errorsmod.Wrapf(err, "handle %s", data.Type)
	}
	write()
	return nil
}

func (k Keeper) ackMakeSwap(ctx sdk.Context, _ channeltypes.Packet, data types.AtomicSwapPacketData) error {
	orders := k.activeOrders(ctx)
	order, err := orders.Get(data.OrderID)
	if err != nil {
		return err
	}
	if order.Status != types.StatusInitial {
		return nil
	}
	order.Status = types.StatusSync
	return orders.Set(order)
}

// ackTakeSwap pays the taker's escrow to the maker and completes the mirror.
func (k Keeper) ackTakeSwap(ctx sdk.Context, _ channeltypes.Packet, data types.AtomicSwapPacketData) error {
	var msg types.TakeSwapMsg
	if err := data.DecodePayload(&msg); err != nil {
		return err
	}
	order, err := k.activeOrders(ctx).Get(msg.OrderID)
	if err != nil {
		return err
	}
	if err := k.release(ctx, order, order.Maker.MakerReceivingAddress, msg.SellToken, k.GetParams(ctx).MakerFeeBps, false); err != nil {
		return err
	}
	if err := k.refundOpenBids(ctx, order.ID, ""); err != nil {
		return err
	}
	order.Taker = &msg
	return k.complete(ctx, order)
}

// ackCancelSwap returns the maker's escrow.
func (k Keeper) ackCancelSwap(ctx sdk.Context, _ channeltypes.Packet, data types.AtomicSwapPacketData) error {
	var msg types.CancelSwapMsg
	if err := data.DecodePayload(&msg); err != nil {
		return err
	}
	order, err := k.activeOrders(ctx).Get(msg.OrderID)
	if err != nil {
		return err
	}
	if err := k.refund(ctx, order.Maker.MakerAddress, order.Maker.SellToken); err != nil {
		return err
	}
	return k.cancel(ctx, order)
}

func (k Keeper) ackMakeBid(ctx sdk.Context, _ channeltypes.Packet, data types.AtomicSwapPacketData) error {
	var msg types.MakeBidMsg
	if err := data.DecodePayload(&msg); err != nil {
		return err
	}
	bid, found := k.GetBid(ctx, msg.OrderID, msg.TakerAddress)
	if !found {
		return types.ErrBidDoesntExist
	}
	if bid.Status != types.BidStatusInitial {
		return nil
	}
	bid.Status = types.BidStatusPlaced
	return k.SetBid(ctx, bid)
}

// ackTakeBid pays the winning bid to the maker, refunds the other open bids
// and completes the mirror.
func (k Keeper) ackTakeBid(ctx sdk.Context, _ channeltypes.Packet, data types.AtomicSwapPacketData) error {
	var msg types.TakeBidMsg
	if err := data.DecodePayload(&msg); err != nil {
		return err
	}
	order, err := k.activeOrders(ctx).Get(msg.OrderID)
	if err != nil {
		return err
	}
	bid, found := k.GetBid(ctx, msg.OrderID, msg.Bidder)
	if !found {
		return types.ErrBidDoesntExist
	}
	if err := k.release(ctx, order, order.Maker.MakerReceivingAddress, bid.Bid, k.GetParams(ctx).MakerFeeBps, false); err != nil {
		return err
	}
	bid.Status = types.BidStatusExecuted
	if err := k.SetBid(ctx, bid); err != nil {
		return err
	}
	if err := k.refundOpenBids(ctx, order.ID, bid.Bidder); err != nil {
		return err
	}
	order.Taker = takerFromBid(bid)
	return k.complete(ctx, order)
}

func (k Keeper) ackCancelBid(ctx sdk.Context, _ channeltypes.Packet, data types.AtomicSwapPacketData) error {
	var msg types.CancelBidMsg
	if err := data.DecodePayload(&msg); err != nil {
		return err
	}
	bid, found := k.GetBid(ctx, msg.OrderID, msg.Bidder)
	if !found {
		return types.ErrBidDoesntExist
	}
	if !bid.Status.IsActive() {
		return nil
	}
	if err := k.refund(ctx, bid.Bidder, bid.Bid); err != nil {
		return err
	}
	bid.Status = types.BidStatusCancelled
	return k.SetBid(ctx, bid)
}

// refundMakeSwap returns the maker's escrow and archives the order as failed.
func (k Keeper) refundMakeSwap(ctx sdk.Context, _ channeltypes.Packet, data types.AtomicSwapPacketData) error {
	order, err := k.activeOrders(ctx).Get(data.OrderID)
	if err != nil {
		return err
	}
	if err := k.refund(ctx, order.Maker.MakerAddress, order.Maker.SellToken); err != nil {
		return err
	}
	order.Status = types.StatusFailed
	return k.saveAndArchive(ctx, order, "failed")
}

// refundTakeSwap returns the taker's escrow and reopens the order.
func (k Keeper) refundTakeSwap(ctx sdk.Context, _ channeltypes.Packet, data types.AtomicSwapPacketData) error {
	var msg types.TakeSwapMsg
	if err := data.DecodePayload(&msg); err != nil {
		return err
	}
	if err := k.refund(ctx, msg.TakerAddress, msg.SellToken); err != nil {
		return err
	}
	orders := k.activeOrders(ctx)
	order, err := orders.Get(msg.OrderID)
	if err != nil {
		// The order may have been archived since; the refund still stands.
		if errorsmod.IsOf(err, types.ErrOrderNotFound) {
			return nil
		}
		return err
	}
	order.Taker = nil
	return orders.Set(order)
}

func (k Keeper) refundMakeBid(ctx sdk.Context, _ channeltypes.Packet, data types.AtomicSwapPacketData) error {
	var msg types.MakeBidMsg
	if err := data.DecodePayload(&msg); err != nil {
		return err
	}
	bid, found := k.GetBid(ctx, msg.OrderID, msg.TakerAddress)
	if !found || !bid.Status.IsActive() {
		return nil
	}
	if err := k.refund(ctx, bid.Bidder, bid.Bid); err != nil {
		return err
	}
	bid.Status = types.BidStatusFailed
	return k.SetBid(ctx, bid)
}

// refundUpdateBid returns the addition and lowers the bid back.
func (k Keeper) refundUpdateBid(ctx sdk.Context, _ channeltypes.Packet, data types.AtomicSwapPacketData) error {
	var msg types.UpdateBidMsg
	if err := data.DecodePayload(&msg); err != nil {
		return err
	}
	bid, found := k.GetBid(ctx, msg.OrderID, msg.Bidder)
	if !found {
		return types.ErrBidDoesntExist
	}
	// A settled bid already paid out or refunded its full amount,
	// addition included.
	if !bid.Status.IsActive() || bid.Bid.Amount.LT(msg.Addition) {
		return nil
	}
	if err := k.refund(ctx, msg.Bidder, sdk.NewCoin(bid.Bid.Denom, msg.Addition)); err != nil {
		return err
	}
	bid.Bid.Amount = bid.Bid.Amount.Sub(msg.Addition)
	return k.SetBid(ctx, bid)
}
