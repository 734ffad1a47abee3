package keeper

import (
	"context"

	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

// AppendOrderForTest writes an order into the next active slot.
func AppendOrderForTest(k *Keeper, ctx context.Context, order types.AtomicSwapOrder) (uint64, error) {
	return k.activeOrders(ctx).Append(order)
}

// ArchiveOrderForTest moves an active order into the archive.
func ArchiveOrderForTest(k *Keeper, ctx context.Context, id string) (uint64, error) {
	return k.archiveOrder(ctx, id, "test")
}

// DeleteOrderIndexForTest drops the id index of an active order, leaving its slot behind.
func DeleteOrderIndexForTest(k *Keeper, ctx context.Context, id string) {
	k.getStore(ctx).Delete(idKey(types.OrderIndexKeyPrefix, id))
}

// DeleteBidPriceViewForTest drops a bid's price view entry only.
func DeleteBidPriceViewForTest(k *Keeper, ctx context.Context, bid types.Bid) {
	k.getStore(ctx).Delete(BidPriceKey(bid.Order, bid.Bid.Amount, bid.Bidder))
}

// CountBidViewForTest counts the entries of one bid view for order.
func CountBidViewForTest(k *Keeper, ctx context.Context, order string) (price, time int) {
	store := k.getStore(ctx)
	return countPrefix(store, BidPricePrefix(order)), countPrefix(store, BidTimePrefix(order))
}
