package keeper

import (
	"encoding/binary"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

// RegisterInvariants registers all atomic swap invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "order-index", OrderIndexInvariant(k))
	ir.RegisterRoute(types.ModuleName, "archive-disjoint", ArchiveDisjointInvariant(k))
	ir.RegisterRoute(types.ModuleName, "bid-views", BidViewsInvariant(k))
}

// AllInvariants runs all invariants of the atomic swap module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := OrderIndexInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = ArchiveDisjointInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return BidViewsInvariant(k)(ctx)
	}
}

// OrderIndexInvariant checks that the id index of both order stores points
// exactly at the stored slots, and that no slot is at or above the counter.
func OrderIndexInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		for name, s := range map[string]orderStore{"active": k.activeOrders(ctx), "archive": k.archivedOrders(ctx)} {
			stored := 0
			err := s.Walk(func(slot uint64, order types.AtomicSwapOrder) (bool, error) {
				stored++
				if slot >= s.Count() {
					count++
					msg += fmt.Sprintf("%s: order %s at slot %d beyond count %d\n", name, order.ID, slot, s.Count())
				}
				if indexed, found := s.Slot(order.ID); !found || indexed != slot {
					count++
					msg += fmt.Sprintf("%s: order %s at slot %d not indexed there\n", name, order.ID, slot)
				}
				return false, nil
			})
			if err != nil {
				count++
				msg += fmt.Sprintf("%s: %s\n", name, err)
			}

			indexed := countPrefix(s.store, s.indexPrefix)
			if indexed != stored {
				count++
				msg += fmt.Sprintf("%s: %d index entries for %d orders\n", name, indexed, stored)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "order-index",
			fmt.Sprintf("found %d order index inconsistencies\n%s", count, msg),
		), broken
	}
}

// ArchiveDisjointInvariant checks that no order is both active and archived.
func ArchiveDisjointInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		active := k.activeOrders(ctx)
		iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.ArchiveIndexKeyPrefix)
		defer iterator.Close()
		for ; iterator.Valid(); iterator.Next() {
			id := string(iterator.Key()[len(types.ArchiveIndexKeyPrefix):])
			if active.Has(id) {
				count++
				msg += fmt.Sprintf("order %s is active and archived (archive slot %d)\n", id, binary.BigEndian.Uint64(iterator.Value()))
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "archive-disjoint",
			fmt.Sprintf("found %d orders in both stores\n%s", count, msg),
		), broken
	}
}

// BidViewsInvariant checks that every bid has exactly one entry in each
// secondary view and that no view holds stale entries.
func BidViewsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
			bids  int
		)

		store := k.getStore(ctx)
		k.IterateBids(ctx, func(bid types.Bid) bool {
			bids++
			if !store.Has(BidPriceKey(bid.Order, bid.Bid.Amount, bid.Bidder)) {
				count++
				msg += fmt.Sprintf("bid %s/%s missing from price view\n", bid.Order, bid.Bidder)
			}
			if !store.Has(BidTimeKey(bid.Order, bid.ReceiveTimestamp, bid.Bidder)) {
				count++
				msg += fmt.Sprintf("bid %s/%s missing from time view\n", bid.Order, bid.Bidder)
			}
			if !store.Has(BidBidderKey(bid.Bidder, bid.Order)) {
				count++
				msg += fmt.Sprintf("bid %s/%s missing from bidder view\n", bid.Order, bid.Bidder)
			}
			return false
		})

		for _, view := range []bidView{priceView, timeView, bidderView} {
			if n := countPrefix(store, view.prefix); n != bids {
				count++
				msg += fmt.Sprintf("view %x holds %d entries for %d bids\n", view.prefix, n, bids)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "bid-views",
			fmt.Sprintf("found %d bid view inconsistencies\n%s", count, msg),
		), broken
	}
}

func countPrefix(store storetypes.KVStore, prefix []byte) int {
	iterator := storetypes.KVStorePrefixIterator(store, prefix)
	defer iterator.Close()

	n := 0
	for ; iterator.Valid(); iterator.Next() {
		n++
	}
	return n
}
