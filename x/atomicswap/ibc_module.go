package atomicswap

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-go/v8/modules/core/05-port/types"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"

	"github.com/paw-chain/swapbook/x/atomicswap/keeper"
	"github.com/paw-chain/swapbook/x/atomicswap/types"
	sharedibc "github.com/paw-chain/swapbook/x/shared/ibc"
)

var (
	_ porttypes.IBCModule = (*IBCModule)(nil)
)

// IBCModule implements the ICS26 interface for the atomic swap module.
type IBCModule struct {
	keeper    keeper.Keeper
	validator *sharedibc.ChannelOpenValidator
}

// NewIBCModule creates a new IBCModule given the keeper
func NewIBCModule(k keeper.Keeper) IBCModule {
	return IBCModule{
		keeper: k,
		validator: sharedibc.NewChannelOpenValidator(
			types.Version,
			channeltypes.UNORDERED,
			func(ctx sdk.Context) string { return k.GetPort(ctx) },
			k,
		),
	}
}

// OnChanOpenInit implements the IBCModule interface. The counterparty channel
// id is not known yet; it is filled in by OnChanOpenAck.
func (im IBCModule) OnChanOpenInit(
	ctx sdk.Context,
	order channeltypes.Order,
	connectionHops []string,
	portID string,
	channelID string,
	chanCap *capabilitytypes.Capability,
	counterparty channeltypes.Counterparty,
	version string,
) (string, error) {
	version, err := im.validator.ValidateChannelOpenInit(ctx, order, portID, channelID, chanCap, version)
	if err != nil {
		return "", err
	}

	if err := im.registerChannel(ctx, connectionHops, channelID, counterparty); err != nil {
		return "", err
	}
	sharedibc.EmitChannelOpenEvent(ctx, types.EventTypeChannelOpen, channelID, portID, counterparty.PortId, counterparty.ChannelId)
	return version, nil
}

// OnChanOpenTry implements the IBCModule interface
func (im IBCModule) OnChanOpenTry(
	ctx sdk.Context,
	order channeltypes.Order,
	connectionHops []string,
	portID,
	channelID string,
	chanCap *capabilitytypes.Capability,
	counterparty channeltypes.Counterparty,
	counterpartyVersion string,
) (string, error) {
	version, err := im.validator.ValidateChannelOpenTry(ctx, order, portID, channelID, chanCap, counterpartyVersion)
	if err != nil {
		return "", err
	}

	if err := im.registerChannel(ctx, connectionHops, channelID, counterparty); err != nil {
		return "", err
	}
	sharedibc.EmitChannelOpenEvent(ctx, types.EventTypeChannelOpen, channelID, portID, counterparty.PortId, counterparty.ChannelId)
	return version, nil
}

// OnChanOpenAck implements the IBCModule interface
func (im IBCModule) OnChanOpenAck(
	ctx sdk.Context,
	portID,
	channelID string,
	counterpartyChannelID string,
	counterpartyVersion string,
) error {
	if err := im.validator.ValidateChannelOpenAck(counterpartyVersion); err != nil {
		return err
	}

	info, err := im.keeper.GetChannelInfo(ctx, channelID)
	if err != nil {
		return err
	}
	info.Counterparty.ChannelID = counterpartyChannelID
	if err := im.keeper.SetChannelInfo(ctx, info); err != nil {
		return err
	}

	sharedibc.EmitChannelOpenEvent(ctx, types.EventTypeChannelOpen, channelID, portID, info.Counterparty.PortID, counterpartyChannelID)
	return nil
}

// OnChanOpenConfirm implements the IBCModule interface
func (im IBCModule) OnChanOpenConfirm(
	ctx sdk.Context,
	portID,
	channelID string,
) error {
	info, err := im.keeper.GetChannelInfo(ctx, channelID)
	if err != nil {
		return err
	}
	sharedibc.EmitChannelOpenEvent(ctx, types.EventTypeChannelOpen, channelID, portID, info.Counterparty.PortID, info.Counterparty.ChannelID)
	return nil
}

// OnChanCloseInit implements the IBCModule interface
func (im IBCModule) OnChanCloseInit(
	ctx sdk.Context,
	portID,
	channelID string,
) error {
	// Escrowed orders route over the channel for their whole lifetime.
	return errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "user cannot close channel")
}

// OnChanCloseConfirm implements the IBCModule interface. The channel stays in
// the registry so orders routed over it can still be queried.
func (im IBCModule) OnChanCloseConfirm(
	ctx sdk.Context,
	portID,
	channelID string,
) error {
	open := im.keeper.CountOpenOrdersOnChannel(ctx, channelID)
	if open > 0 {
		im.keeper.Logger(ctx).Error("channel closed with open orders", "channel", channelID, "open_orders", open)
	}
	sharedibc.EmitChannelCloseEvent(ctx, types.EventTypeChannelClose, channelID, portID, open)
	return nil
}

// OnRecvPacket implements the IBCModule interface. State written by a
// rejected packet is discarded before the error acknowledgement is written.
func (im IBCModule) OnRecvPacket(
	ctx sdk.Context,
	packet channeltypes.Packet,
	relayer sdk.AccAddress,
) ibcexported.Acknowledgement {
	err := im.keeper.OnRecvPacket(ctx, packet)
	if err != nil {
		im.keeper.Logger(ctx).Info("rejected swap packet",
			"channel", packet.DestinationChannel,
			"sequence", packet.Sequence,
			"error", err,
		)
	}
	return sharedibc.AckFromResult([]byte{byte(1)}, err)
}

// OnAcknowledgementPacket implements the IBCModule interface
func (im IBCModule) OnAcknowledgementPacket(
	ctx sdk.Context,
	packet channeltypes.Packet,
	acknowledgement []byte,
	relayer sdk.AccAddress,
) error {
	ack, err := sharedibc.UnmarshalAck(acknowledgement)
	if err != nil {
		return err
	}
	return im.keeper.OnAcknowledgementPacket(ctx, packet, ack)
}

// OnTimeoutPacket implements the IBCModule interface
func (im IBCModule) OnTimeoutPacket(
	ctx sdk.Context,
	packet channeltypes.Packet,
	relayer sdk.AccAddress,
) error {
	return im.keeper.OnTimeoutPacket(ctx, packet)
}

func (im IBCModule) registerChannel(ctx sdk.Context, connectionHops []string, channelID string, counterparty channeltypes.Counterparty) error {
	if len(connectionHops) == 0 {
		return errorsmod.Wrap(types.ErrChannelNotFound, "channel has no connection hops")
	}
	return im.keeper.SetChannelInfo(ctx, types.ChannelInfo{
		ID: channelID,
		Counterparty: types.Endpoint{
			PortID:    counterparty.PortId,
			ChannelID: counterparty.ChannelId,
		},
		ConnectionID: connectionHops[0],
	})
}
