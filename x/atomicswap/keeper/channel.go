package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"

	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

// SetChannelInfo records the counterparty of a local channel.
func (k Keeper) SetChannelInfo(ctx context.Context, info types.ChannelInfo) error {
	bz, err := json.Marshal(info)
	if err != nil {
		return errors.Wrap(err, "failed to marshal channel info")
	}
	k.getStore(ctx).Set(idKey(types.ChannelKeyPrefix, info.ID), bz)
	return nil
}

// GetChannelInfo returns the registered counterparty of a local channel.
func (k Keeper) GetChannelInfo(ctx context.Context, channelID string) (types.ChannelInfo, error) {
	bz := k.getStore(ctx).Get(idKey(types.ChannelKeyPrefix, channelID))
	if bz == nil {
		return types.ChannelInfo{}, errors.Wrapf(types.ErrChannelNotFound, "%s", channelID)
	}
	var info types.ChannelInfo
	if err := json.Unmarshal(bz, &info); err != nil {
		return types.ChannelInfo{}, errors.Wrapf(err, "failed to unmarshal channel %s", channelID)
	}
	return info, nil
}

// DeleteChannelInfo drops a channel from the registry.
func (k Keeper) DeleteChannelInfo(ctx context.Context, channelID string) {
	k.getStore(ctx).Delete(idKey(types.ChannelKeyPrefix, channelID))
}

// GetAllChannelInfo returns every registered channel.
func (k Keeper) GetAllChannelInfo(ctx context.Context) []types.ChannelInfo {
	var infos []types.ChannelInfo
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.ChannelKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var info types.ChannelInfo
		if err := json.Unmarshal(iterator.Value(), &info); err != nil {
			continue
		}
		infos = append(infos, info)
	}
	return infos
}

// CountOpenOrdersOnChannel counts active orders whose packets travel over the
// local channel channelID.
func (k Keeper) CountOpenOrdersOnChannel(ctx context.Context, channelID string) int {
	open := 0
	_ = k.activeOrders(ctx).Walk(func(_ uint64, order types.AtomicSwapOrder) (bool, error) {
		local, err := localChannel(order)
		if err == nil && local == channelID {
			open++
		}
		return false, nil
	})
	return open
}

// localChannel returns this chain's end of the channel an order travels over.
func localChannel(order types.AtomicSwapOrder) (string, error) {
	if order.Side == types.SideNative {
		return types.MakerChannel(order.Path)
	}
	return types.TakerChannel(order.Path)
}
