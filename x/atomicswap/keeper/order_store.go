package keeper

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

// counter is a store-backed monotonically increasing value. It is only
// advanced through next, so a slot and the count can never drift apart.
type counter struct {
	store storetypes.KVStore
	key   []byte
}

func (c counter) peek() uint64 {
	bz := c.store.Get(c.key)
	if bz == nil {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

// next returns the current value and stores its successor.
func (c counter) next() uint64 {
	v := c.peek()
	c.store.Set(c.key, slotBytes(v+1))
	return v
}

func (c counter) set(v uint64) {
	c.store.Set(c.key, slotBytes(v))
}

// orderStore keeps orders in dense sequential slots plus an id -> slot index.
// The active book and the archive are two orderStores over distinct prefixes.
type orderStore struct {
	store       storetypes.KVStore
	slotPrefix  []byte
	indexPrefix []byte
	count       counter
}

func (k Keeper) activeOrders(ctx context.Context) orderStore {
	store := k.getStore(ctx)
	return orderStore{
		store:       store,
		slotPrefix:  types.OrderKeyPrefix,
		indexPrefix: types.OrderIndexKeyPrefix,
		count:       counter{store: store, key: types.OrderCountKey},
	}
}

func (k Keeper) archivedOrders(ctx context.Context) orderStore {
	store := k.getStore(ctx)
	return orderStore{
		store:       store,
		slotPrefix:  types.ArchiveKeyPrefix,
		indexPrefix: types.ArchiveIndexKeyPrefix,
		count:       counter{store: store, key: types.ArchiveCountKey},
	}
}

// Append writes order into the next free slot and returns that slot.
func (s orderStore) Append(order types.AtomicSwapOrder) (uint64, error) {
	if s.Has(order.ID) {
		return 0, errors.Wrapf(types.ErrOrderExists, "%s", order.ID)
	}
	bz, err := json.Marshal(order)
	if err != nil {
		return 0, errors.Wrap(err, "failed to marshal order")
	}
	slot := s.count.next()
	s.store.Set(slotKey(s.slotPrefix, slot), bz)
	s.store.Set(idKey(s.indexPrefix, order.ID), slotBytes(slot))
	return slot, nil
}

// Set overwrites an existing order in its current slot.
func (s orderStore) Set(order types.AtomicSwapOrder) error {
	slot, found := s.Slot(order.ID)
	if !found {
		return errors.Wrapf(types.ErrOrderNotFound, "%s", order.ID)
	}
	bz, err := json.Marshal(order)
	if err != nil {
		return errors.Wrap(err, "failed to marshal order")
	}
	s.store.Set(slotKey(s.slotPrefix, slot), bz)
	return nil
}

// Slot returns the slot an order id is stored at.
func (s orderStore) Slot(id string) (uint64, bool) {
	bz := s.store.Get(idKey(s.indexPrefix, id))
	if bz == nil {
		return 0, false
	}
	return binary.BigEndian.Uint64(bz), true
}

// Has reports whether id is indexed in this store.
func (s orderStore) Has(id string) bool {
	return s.store.Has(idKey(s.indexPrefix, id))
}

// Get loads an order by id.
func (s orderStore) Get(id string) (types.AtomicSwapOrder, error) {
	slot, found := s.Slot(id)
	if !found {
		return types.AtomicSwapOrder{}, errors.Wrapf(types.ErrOrderNotFound, "%s", id)
	}
	return s.GetBySlot(slot)
}

// GetBySlot loads the order stored at slot.
func (s orderStore) GetBySlot(slot uint64) (types.AtomicSwapOrder, error) {
	bz := s.store.Get(slotKey(s.slotPrefix, slot))
	if bz == nil {
		return types.AtomicSwapOrder{}, errors.Wrapf(types.ErrOrderNotFound, "slot %d", slot)
	}
	var order types.AtomicSwapOrder
	if err := json.Unmarshal(bz, &order); err != nil {
		return types.AtomicSwapOrder{}, errors.Wrapf(err, "failed to unmarshal order at slot %d", slot)
	}
	return order, nil
}

// Remove deletes an order and its index entry. The slot is not reused.
func (s orderStore) Remove(id string) (types.AtomicSwapOrder, error) {
	slot, found := s.Slot(id)
	if !found {
		return types.AtomicSwapOrder{}, errors.Wrapf(types.ErrOrderNotFound, "%s", id)
	}
	order, err := s.GetBySlot(slot)
	if err != nil {
		return types.AtomicSwapOrder{}, err
	}
	s.store.Delete(slotKey(s.slotPrefix, slot))
	s.store.Delete(idKey(s.indexPrefix, id))
	return order, nil
}

// Count returns the number of slots ever assigned.
func (s orderStore) Count() uint64 {
	return s.count.peek()
}

// iterator ranges over slots. after and before are exclusive bounds; nil
// means unbounded.
func (s orderStore) iterator(after, before *uint64, reverse bool) storetypes.Iterator {
	start := append([]byte{}, s.slotPrefix...)
	end := storetypes.PrefixEndBytes(s.slotPrefix)
	if after != nil {
		start = exclusiveStart(slotKey(s.slotPrefix, *after))
	}
	if before != nil {
		end = slotKey(s.slotPrefix, *before)
	}
	if reverse {
		return s.store.ReverseIterator(start, end)
	}
	return s.store.Iterator(start, end)
}

// Walk calls cb for each stored order in slot order until cb returns true.
func (s orderStore) Walk(cb func(slot uint64, order types.AtomicSwapOrder) (stop bool, err error)) error {
	it := s.iterator(nil, nil, false)
	defer it.Close()
	for ; it.Valid(); it.Next() {
		slot := slotFromKey(it.Key(), s.slotPrefix)
		var order types.AtomicSwapOrder
		if err := json.Unmarshal(it.Value(), &order); err != nil {
			return errors.Wrapf(err, "failed to unmarshal order at slot %d", slot)
		}
		stop, err := cb(slot, order)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
	return nil
}

// nextSequence returns the swap sequence used to build the next order path
// and advances it.
func (k Keeper) nextSequence(ctx context.Context) uint64 {
	return counter{store: k.getStore(ctx), key: types.SwapSequenceKey}.next()
}

// GetSwapSequence returns the sequence the next order path will use.
func (k Keeper) GetSwapSequence(ctx context.Context) uint64 {
	return counter{store: k.getStore(ctx), key: types.SwapSequenceKey}.peek()
}

// GetOrder returns an active order by id.
func (k Keeper) GetOrder(ctx context.Context, id string) (types.AtomicSwapOrder, error) {
	return k.activeOrders(ctx).Get(id)
}

// GetArchivedOrder returns an archived order by id.
func (k Keeper) GetArchivedOrder(ctx context.Context, id string) (types.AtomicSwapOrder, error) {
	return k.archivedOrders(ctx).Get(id)
}

// LookupOrder finds an order in the active book, then in the archive.
func (k Keeper) LookupOrder(ctx context.Context, id string) (order types.AtomicSwapOrder, archived bool, err error) {
	order, err = k.activeOrders(ctx).Get(id)
	if err == nil {
		return order, false, nil
	}
	if !errors.IsOf(err, types.ErrOrderNotFound) {
		return order, false, err
	}
	order, err = k.archivedOrders(ctx).Get(id)
	if err != nil {
		return order, false, err
	}
	return order, true, nil
}

// archiveOrder moves an order out of the active book into the archive. The
// archived copy is the current active copy; reason is recorded on the event.
func (k Keeper) archiveOrder(ctx context.Context, id, reason string) (uint64, error) {
	order, err := k.activeOrders(ctx).Remove(id)
	if err != nil {
		return 0, err
	}
	slot, err := k.archivedOrders(ctx).Append(order)
	if err != nil {
		return 0, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOrderArchived,
			sdk.NewAttribute(types.AttributeKeyOrderID, id),
			sdk.NewAttribute(types.AttributeKeyReason, reason),
			sdk.NewAttribute(types.AttributeKeyStatus, string(order.Status)),
			sdk.NewAttribute(types.AttributeKeySlot, fmt.Sprintf("%d", slot)),
		),
	)
	k.metrics.OrdersArchived.WithLabelValues(reason).Inc()
	k.Logger(ctx).Info("order archived", "order_id", id, "reason", reason, "slot", slot)
	return slot, nil
}

// saveAndArchive persists the final state of an active order and archives it.
func (k Keeper) saveAndArchive(ctx context.Context, order types.AtomicSwapOrder, reason string) error {
	if err := k.activeOrders(ctx).Set(order); err != nil {
		return err
	}
	_, err := k.archiveOrder(ctx, order.ID, reason)
	return err
}

// ActiveOrderCount returns the number of slots ever assigned in the active book.
func (k Keeper) ActiveOrderCount(ctx context.Context) uint64 {
	return k.activeOrders(ctx).Count()
}

// ArchivedOrderCount returns the number of slots ever assigned in the archive.
func (k Keeper) ArchivedOrderCount(ctx context.Context) uint64 {
	return k.archivedOrders(ctx).Count()
}
