package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"

	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

// SetBid writes a bid and brings its price, time and bidder views in line
// with it. Stale view entries of the previous version are removed first, so
// a bid is always reachable exactly once through each view.
func (k Keeper) SetBid(ctx context.Context, bid types.Bid) error {
	store := k.getStore(ctx)

	if prev, found := k.GetBid(ctx, bid.Order, bid.Bidder); found {
		deleteBidViews(store, prev)
	}

	bz, err := json.Marshal(bid)
	if err != nil {
		return errors.Wrap(err, "failed to marshal bid")
	}
	store.Set(BidKey(bid.Order, bid.Bidder), bz)
	store.Set(BidPriceKey(bid.Order, bid.Bid.Amount, bid.Bidder), []byte{1})
	store.Set(BidTimeKey(bid.Order, bid.ReceiveTimestamp, bid.Bidder), []byte{1})
	store.Set(BidBidderKey(bid.Bidder, bid.Order), []byte{1})
	return nil
}

// GetBid returns the bid bidder placed on order.
func (k Keeper) GetBid(ctx context.Context, order, bidder string) (types.Bid, bool) {
	bz := k.getStore(ctx).Get(BidKey(order, bidder))
	if bz == nil {
		return types.Bid{}, false
	}
	var bid types.Bid
	if err := json.Unmarshal(bz, &bid); err != nil {
		return types.Bid{}, false
	}
	return bid, true
}

// HasBid reports whether bidder ever bid on order.
func (k Keeper) HasBid(ctx context.Context, order, bidder string) bool {
	return k.getStore(ctx).Has(BidKey(order, bidder))
}

// DeleteBid removes a bid and its views.
func (k Keeper) DeleteBid(ctx context.Context, order, bidder string) {
	store := k.getStore(ctx)
	prev, found := k.GetBid(ctx, order, bidder)
	if !found {
		return
	}
	deleteBidViews(store, prev)
	store.Delete(BidKey(order, bidder))
}

func deleteBidViews(store storetypes.KVStore, bid types.Bid) {
	store.Delete(BidPriceKey(bid.Order, bid.Bid.Amount, bid.Bidder))
	store.Delete(BidTimeKey(bid.Order, bid.ReceiveTimestamp, bid.Bidder))
	store.Delete(BidBidderKey(bid.Bidder, bid.Order))
}

// GetBidsByOrder returns every bid on order in bidder order.
func (k Keeper) GetBidsByOrder(ctx context.Context, order string) []types.Bid {
	var bids []types.Bid
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), BidOrderPrefix(order))
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var bid types.Bid
		if err := json.Unmarshal(iterator.Value(), &bid); err != nil {
			continue
		}
		bids = append(bids, bid)
	}
	return bids
}

// IterateBids calls cb for every stored bid until cb returns true.
func (k Keeper) IterateBids(ctx context.Context, cb func(types.Bid) bool) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.BidKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var bid types.Bid
		if err := json.Unmarshal(iterator.Value(), &bid); err != nil {
			continue
		}
		if cb(bid) {
			return
		}
	}
}

// bidView names one secondary ordering of the bid index.
type bidView struct {
	prefix []byte
	parse  func(key []byte) (order, bidder string, err error)
}

var (
	priceView  = bidView{prefix: types.BidPriceKeyPrefix, parse: parseBidPriceKey}
	timeView   = bidView{prefix: types.BidTimeKeyPrefix, parse: parseBidTimeKey}
	bidderView = bidView{prefix: types.BidBidderKeyPrefix, parse: parseBidBidderKey}
)

// scanBids walks a view between start and end (end exclusive), keeps bids
// with the wanted status and stops after limit matches.
func (k Keeper) scanBids(ctx context.Context, view bidView, start, end []byte, reverse bool, status types.BidStatus, limit int) ([]types.Bid, error) {
	bids := []types.Bid{}
	if limit <= 0 {
		return bids, nil
	}

	store := k.getStore(ctx)
	var iterator storetypes.Iterator
	if reverse {
		iterator = store.ReverseIterator(start, end)
	} else {
		iterator = store.Iterator(start, end)
	}
	defer iterator.Close()

	for ; iterator.Valid() && len(bids) < limit; iterator.Next() {
		order, bidder, err := view.parse(iterator.Key())
		if err != nil {
			return nil, errors.Wrap(err, "corrupt bid index key")
		}
		bid, found := k.GetBid(ctx, order, bidder)
		if !found {
			return nil, errors.Wrapf(types.ErrBidDoesntExist, "index points at missing bid %s/%s", order, bidder)
		}
		if bid.Status != status {
			continue
		}
		bids = append(bids, bid)
	}
	return bids, nil
}
