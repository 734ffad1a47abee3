package keeper

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"

	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

// packetHandler applies one envelope type to the store.
type packetHandler func(k Keeper, ctx sdk.Context, packet channeltypes.Packet, data types.AtomicSwapPacketData) error

// recvHandlers mirror the counterparty's actions on this chain.
var recvHandlers = map[types.SwapMessageType]packetHandler{
	types.TypeMakeSwap:   Keeper.recvMakeSwap,
	types.TypeTakeSwap:   Keeper.recvTakeSwap,
	types.TypeCancelSwap: Keeper.recvCancelSwap,
	types.TypeMakeBid:    Keeper.recvMakeBid,
	types.TypeTakeBid:    Keeper.recvTakeBid,
	types.TypeCancelBid:  Keeper.recvCancelBid,
	types.TypeUpdateBid:  Keeper.recvUpdateBid,
}

// OnRecvPacket applies an inbound envelope. Writes are committed only when
// the handler succeeds; on error the caller writes an error acknowledgement.
func (k Keeper) OnRecvPacket(ctx sdk.Context, packet channeltypes.Packet) error {
	data, err := types.DecodePacketData(packet.GetData())
	if err != nil {
		return err
	}
	handler, ok := recvHandlers[data.Type]
	if !ok {
		return errorsmod.Wrapf(types.ErrInvalidPacket, "unsupported message type %s", data.Type)
	}

	cacheCtx, write := ctx.CacheContext()
	if err := handler(k, cacheCtx, packet, data); err != nil {
		k.metrics.PacketsRecv.WithLabelValues(data.Type.String(), "error").Inc()
		return err
	}
	write()

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePacketRecv,
			sdk.NewAttribute(types.AttributeKeyPacketType, data.Type.String()),
			sdk.NewAttribute(types.AttributeKeyChannelID, packet.GetDestChannel()),
			sdk.NewAttribute(types.AttributeKeyPortID, packet.GetDestPort()),
		),
	)
	k.metrics.PacketsRecv.WithLabelValues(data.Type.String(), "ok").Inc()
	return nil
}

// recvMakeSwap stores a Remote mirror of an order made on the counterparty.
func (k Keeper) recvMakeSwap(ctx sdk.Context, packet channeltypes.Packet, data types.AtomicSwapPacketData) error {
	var msg types.MakeSwapMsg
	if err := data.DecodePayload(&msg); err != nil {
		return err
	}
	if err := msg.ValidateBasic(); err != nil {
		return err
	}
	takerChannel, err := types.TakerChannel(data.Path)
	if err != nil {
		return err
	}
	if takerChannel != packet.GetDestChannel() {
		return errorsmod.Wrapf(types.ErrInvalidPath, "path routes to %s, packet arrived on %s", takerChannel, packet.GetDestChannel())
	}
	if _, _, err := k.LookupOrder(ctx, data.OrderID); err == nil {
		return errorsmod.Wrapf(types.ErrOrderExists, "%s", data.OrderID)
	}

	order := types.AtomicSwapOrder{
		ID:              data.OrderID,
		Side:            types.SideRemote,
		Maker:           msg,
		Status:          types.StatusSync,
		Path:            data.Path,
		CreateTimestamp: blockSeconds(ctx),
		MinBidPrice:     msg.MinBidPrice,
		Vesting:         msg.Vesting,
	}
	_, err = k.activeOrders(ctx).Append(order)
	return err
}

// recvTakeSwap settles a Native order taken on the counterparty: the maker's
// escrow goes to the taker's receiving address and the order completes.
func (k Keeper) recvTakeSwap(ctx sdk.Context, _ channeltypes.Packet, data types.AtomicSwapPacketData) error {
	var msg types.TakeSwapMsg
	if err := data.DecodePayload(&msg); err != nil {
		return err
	}
	order, err := k.activeOrders(ctx).Get(msg.OrderID)
	if err != nil {
		return err
	}
	if order.Side != types.SideNative || !order.Status.IsOpen() || order.HasTaker() {
		return errorsmod.Wrapf(types.ErrOrderTaken, "order %s cannot be taken (status %s)", order.ID, order.Status)
	}
	if !types.CoinEqual(order.Maker.BuyToken, msg.SellToken) {
		return types.ErrInvalidSellToken
	}
	if order.Maker.DesiredTaker != "" && order.Maker.DesiredTaker != msg.TakerAddress {
		return types.ErrInvalidTakerAddress
	}
	if order.IsExpired(blockSeconds(ctx)) {
		return types.ErrExpired
	}

	if err := k.release(ctx, order, msg.TakerReceivingAddress, order.Maker.SellToken, k.GetParams(ctx).TakerFeeBps, true); err != nil {
		return err
	}
	order.Taker = &msg
	return k.complete(ctx, order)
}

// recvCancelSwap cancels the Remote mirror of an order unless it was taken
// here first. Open bids escrowed here are refunded.
func (k Keeper) recvCancelSwap(ctx sdk.Context, _ channeltypes.Packet, data types.AtomicSwapPacketData) error {
	var msg types.CancelSwapMsg
	if err := data.DecodePayload(&msg); err != nil {
		return err
	}
	order, err := k.activeOrders(ctx).Get(msg.OrderID)
	if err != nil {
		return err
	}
	if err := requireSide(order, types.SideRemote, data.Type); err != nil {
		return err
	}
	if order.Maker.MakerAddress != msg.MakerAddress {
		return types.ErrInvalidMakerAddress
	}
	if order.HasTaker() || !order.Status.IsOpen() {
		return errorsmod.Wrapf(types.ErrOrderTaken, "order %s cannot be cancelled", order.ID)
	}
	if err := k.refundOpenBids(ctx, order.ID, ""); err != nil {
		return err
	}
	return k.cancel(ctx, order)
}

// recvMakeBid records a bid placed on the counterparty against a Native order.
func (k Keeper) recvMakeBid(ctx sdk.Context, _ channeltypes.Packet, data types.AtomicSwapPacketData) error {
	var msg types.MakeBidMsg
	if err := data.DecodePayload(&msg); err != nil {
		return err
	}
	order, err := k.activeOrders(ctx).Get(msg.OrderID)
	if err != nil {
		return err
	}
	if err := requireSide(order, types.SideNative, data.Type); err != nil {
		return err
	}
	if !order.Maker.TakeBids {
		return types.ErrTakeBidNotAllowed
	}
	if order.HasTaker() || !order.Status.IsOpen() {
		return types.ErrOrderTaken
	}
	if order.Maker.BuyToken.Denom != msg.SellToken.Denom {
		return types.ErrInvalidSellToken
	}
	if existing, found := k.GetBid(ctx, msg.OrderID, msg.TakerAddress); found && existing.Status.IsActive() {
		return types.ErrBidAlreadyExists
	}
	return k.SetBid(ctx, types.Bid{
		Bid:              msg.SellToken,
		Order:            msg.OrderID,
		Status:           types.BidStatusPlaced,
		Bidder:           msg.TakerAddress,
		BidderReceiver:   msg.TakerReceivingAddress,
		ReceiveTimestamp: blockSeconds(ctx),
		ExpireTimestamp:  msg.ExpirationTimestamp,
	})
}

// recvTakeBid settles a Native order against an accepted bid.
func (k Keeper) recvTakeBid(ctx sdk.Context, _ channeltypes.Packet, data types.AtomicSwapPacketData) error {
	var msg types.TakeBidMsg
	if err := data.DecodePayload(&msg); err != nil {
		return err
	}
	order, err := k.activeOrders(ctx).Get(msg.OrderID)
	if err != nil {
		return err
	}
	if err := requireSide(order, types.SideNative, data.Type); err != nil {
		return err
	}
	if order.HasTaker() || !order.Status.IsOpen() {
		return types.ErrOrderTaken
	}
	bid, found := k.GetBid(ctx, msg.OrderID, msg.Bidder)
	if !found || bid.Status != types.BidStatusPlaced {
		return types.ErrBidDoesntExist
	}
	if bid.IsExpired(blockSeconds(ctx)) {
		return types.ErrExpired
	}

	if err := k.release(ctx, order, bid.BidderReceiver, order.Maker.SellToken, k.GetParams(ctx).TakerFeeBps, true); err != nil {
		return err
	}
	bid.Status = types.BidStatusExecuted
	if err := k.SetBid(ctx, bid); err != nil {
		return err
	}
	order.Taker = takerFromBid(bid)
	return k.complete(ctx, order)
}

// recvCancelBid marks the mirrored bid cancelled.
func (k Keeper) recvCancelBid(ctx sdk.Context, _ channeltypes.Packet, data types.AtomicSwapPacketData) error {
	var msg types.CancelBidMsg
	if err := data.DecodePayload(&msg); err != nil {
		return err
	}
	order, _, err := k.LookupOrder(ctx, msg.OrderID)
	if err != nil {
		return err
	}
	if err := requireSide(order, types.SideNative, data.Type); err != nil {
		return err
	}
	bid, found := k.GetBid(ctx, msg.OrderID, msg.Bidder)
	if !found {
		return types.ErrBidDoesntExist
	}
	if bid.Status == types.BidStatusExecuted {
		return errorsmod.Wrap(types.ErrOrderTaken, "bid already executed")
	}
	bid.Status = types.BidStatusCancelled
	return k.SetBid(ctx, bid)
}

// recvUpdateBid raises the mirrored bid.
func (k Keeper) recvUpdateBid(ctx sdk.Context, _ channeltypes.Packet, data types.AtomicSwapPacketData) error {
	var msg types.UpdateBidMsg
	if err := data.DecodePayload(&msg); err != nil {
		return err
	}
	if msg.Addition.IsNil() || !msg.Addition.IsPositive() {
		return types.ErrInvalidBidAmount
	}
	order, err := k.activeOrders(ctx).Get(msg.OrderID)
	if err != nil {
		return err
	}
	if err := requireSide(order, types.SideNative, data.Type); err != nil {
		return err
	}
	bid, found := k.GetBid(ctx, msg.OrderID, msg.Bidder)
	if !found || bid.Status != types.BidStatusPlaced {
		return types.ErrBidDoesntExist
	}
	total := bid.Bid.Amount.Add(msg.Addition)
	if total.GT(order.Maker.BuyToken.Amount) {
		return types.ErrInvalidBidAmount
	}
	bid.Bid.Amount = total
	return k.SetBid(ctx, bid)
}

// requireSide rejects an action aimed at the wrong copy of an order. Bid
// escrow lives with the Remote copy, so bid messages only arrive for Native
// orders and a maker's cancel only arrives for Remote ones.
func requireSide(order types.AtomicSwapOrder, side types.Side, action types.SwapMessageType) error {
	if order.Side != side {
		return errorsmod.Wrapf(types.ErrWrongSide, "%s on %s order %s", action, order.Side, order.ID)
	}
	return nil
}

func takerFromBid(bid types.Bid) *types.TakeSwapMsg {
	return &types.TakeSwapMsg{
		OrderID:               bid.Order,
		SellToken:             bid.Bid,
		TakerAddress:          bid.Bidder,
		TakerReceivingAddress: bid.BidderReceiver,
	}
}

// complete marks an order settled and archives it.
func (k Keeper) complete(ctx sdk.Context, order types.AtomicSwapOrder) error {
	now := blockSeconds(ctx)
	order.Status = types.StatusComplete
	order.CompleteTimestamp = &now
	return k.saveAndArchive(ctx, order, "completed")
}

// cancel marks an order cancelled and archives it.
func (k Keeper) cancel(ctx sdk.Context, order types.AtomicSwapOrder) error {
	now := blockSeconds(ctx)
	order.Status = types.StatusCancel
	order.CancelTimestamp = &now
	return k.saveAndArchive(ctx, order, "cancelled")
}

// refundOpenBids returns the escrow of every Initial or Placed bid on order,
// except the one by skip, and marks them cancelled.
func (k Keeper) refundOpenBids(ctx sdk.Context, order, skip string) error {
	for _, bid := range k.GetBidsByOrder(ctx, order) {
		if bid.Bidder == skip || !bid.Status.IsActive() {
			continue
		}
		if err := k.refund(ctx, bid.Bidder, bid.Bid); err != nil {
			return err
		}
		bid.Status = types.BidStatusCancelled
		if err := k.SetBid(ctx, bid); err != nil {
			return err
		}
	}
	return nil
}
