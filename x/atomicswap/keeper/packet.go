package keeper

import (
	"strconv"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"

	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

// sendPacket hands one envelope to the channel. The packet times out
// Params.TimeoutSeconds after the current block time; no height timeout is set.
func (k Keeper) sendPacket(ctx sdk.Context, sourcePort, channelID string, packet types.AtomicSwapPacketData) (uint64, error) {
	data, err := packet.GetBytes()
	if err != nil {
		return 0, err
	}

	timeout := time.Duration(k.GetParams(ctx).TimeoutSeconds) * time.Second
	timeoutTimestamp := uint64(ctx.BlockTime().Add(timeout).UnixNano())

	channelCap, found := k.GetChannelCapability(ctx, sourcePort, channelID)
	if !found {
		return 0, errorsmod.Wrapf(types.ErrChannelCapability, "port: %s, channel: %s", sourcePort, channelID)
	}

	sequence, err := k.ics4Wrapper.SendPacket(
		ctx,
		channelCap,
		sourcePort,
		channelID,
		clienttypes.ZeroHeight(),
		timeoutTimestamp,
		data,
	)
	if err != nil {
		return 0, errorsmod.Wrapf(err, "failed to send %s packet", packet.Type)
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePacketSent,
			sdk.NewAttribute(types.AttributeKeyPacketType, packet.Type.String()),
			sdk.NewAttribute(types.AttributeKeyChannelID, channelID),
			sdk.NewAttribute(types.AttributeKeySequence, uint64String(sequence)),
			sdk.NewAttribute("timeout", timeout.String()),
		),
	)
	k.metrics.PacketsSent.WithLabelValues(packet.Type.String()).Inc()

	return sequence, nil
}

// sendOrderPacket sends an envelope for an action on an existing order over
// this chain's end of the channel recovered from the order's path.
func (k Keeper) sendOrderPacket(ctx sdk.Context, order types.AtomicSwapOrder, t types.SwapMessageType, msg any) (uint64, error) {
	channelID, err := localChannel(order)
	if err != nil {
		return 0, err
	}
	packet, err := types.NewPacketData(t, msg, "", "")
	if err != nil {
		return 0, err
	}
	return k.sendPacket(ctx, k.GetPort(ctx), channelID, packet)
}

func uint64String(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func boolString(v bool) string {
	return strconv.FormatBool(v)
}
