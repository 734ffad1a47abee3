// Package ibc holds channel handshake and acknowledgement helpers shared by
// IBC application modules.
package ibc

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-go/v8/modules/core/05-port/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"
)

// MaxAcknowledgementSize bounds the acknowledgement bytes a module will decode.
const MaxAcknowledgementSize = 1024 * 1024

// CapabilityClaimer claims channel capabilities.
type CapabilityClaimer interface {
	ClaimCapability(ctx sdk.Context, cap *capabilitytypes.Capability, name string) error
}

// ChannelOpenValidator checks a channel handshake against the module's
// ordering, version and bound port, and claims the channel capability.
type ChannelOpenValidator struct {
	expectedVersion  string
	expectedOrdering channeltypes.Order
	boundPort        func(ctx sdk.Context) string
	claimer          CapabilityClaimer
}

// NewChannelOpenValidator creates a validator. boundPort returns the port the
// module currently owns.
func NewChannelOpenValidator(
	version string,
	ordering channeltypes.Order,
	boundPort func(ctx sdk.Context) string,
	claimer CapabilityClaimer,
) *ChannelOpenValidator {
	return &ChannelOpenValidator{
		expectedVersion:  version,
		expectedOrdering: ordering,
		boundPort:        boundPort,
		claimer:          claimer,
	}
}

// ValidateChannelOpenInit checks the initiating side of a handshake. An empty
// version is accepted and replaced by the module version.
func (cov *ChannelOpenValidator) ValidateChannelOpenInit(
	ctx sdk.Context,
	order channeltypes.Order,
	portID string,
	channelID string,
	chanCap *capabilitytypes.Capability,
	version string,
) (string, error) {
	if version == "" {
		version = cov.expectedVersion
	}
	if err := cov.validate(ctx, order, portID, version); err != nil {
		return "", err
	}
	if err := cov.claim(ctx, chanCap, portID, channelID); err != nil {
		return "", err
	}
	return version, nil
}

// ValidateChannelOpenTry checks the counterparty side of a handshake.
func (cov *ChannelOpenValidator) ValidateChannelOpenTry(
	ctx sdk.Context,
	order channeltypes.Order,
	portID string,
	channelID string,
	chanCap *capabilitytypes.Capability,
	counterpartyVersion string,
) (string, error) {
	if err := cov.validate(ctx, order, portID, counterpartyVersion); err != nil {
		return "", err
	}
	if err := cov.claim(ctx, chanCap, portID, channelID); err != nil {
		return "", err
	}
	return cov.expectedVersion, nil
}

// ValidateChannelOpenAck checks the version the counterparty settled on.
func (cov *ChannelOpenValidator) ValidateChannelOpenAck(counterpartyVersion string) error {
	if counterpartyVersion != cov.expectedVersion {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidRequest,
			"invalid counterparty version: expected %s, got %s", cov.expectedVersion, counterpartyVersion)
	}
	return nil
}

func (cov *ChannelOpenValidator) validate(ctx sdk.Context, order channeltypes.Order, portID, version string) error {
	if order != cov.expectedOrdering {
		return errorsmod.Wrapf(channeltypes.ErrInvalidChannelOrdering,
			"expected %s channel, got %s", cov.expectedOrdering, order)
	}
	if version != cov.expectedVersion {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidRequest,
			"expected version %s, got %s", cov.expectedVersion, version)
	}
	if bound := cov.boundPort(ctx); portID != bound {
		return errorsmod.Wrapf(porttypes.ErrInvalidPort,
			"expected port %s, got %s", bound, portID)
	}
	return nil
}

func (cov *ChannelOpenValidator) claim(ctx sdk.Context, chanCap *capabilitytypes.Capability, portID, channelID string) error {
	if err := cov.claimer.ClaimCapability(ctx, chanCap, host.ChannelCapabilityPath(portID, channelID)); err != nil {
		return errorsmod.Wrap(err, "failed to claim channel capability")
	}
	return nil
}

// UnmarshalAck decodes a channel acknowledgement, rejecting oversized input.
func UnmarshalAck(acknowledgement []byte) (channeltypes.Acknowledgement, error) {
	if len(acknowledgement) > MaxAcknowledgementSize {
		return channeltypes.Acknowledgement{}, errorsmod.Wrapf(
			sdkerrors.ErrInvalidRequest,
			"ack too large: %d > %d bytes", len(acknowledgement), MaxAcknowledgementSize)
	}

	var ack channeltypes.Acknowledgement
	if err := channeltypes.SubModuleCdc.UnmarshalJSON(acknowledgement, &ack); err != nil {
		return channeltypes.Acknowledgement{}, errorsmod.Wrapf(
			sdkerrors.ErrUnknownRequest,
			"cannot unmarshal packet acknowledgement: %v", err)
	}
	return ack, nil
}

// AckFromResult builds the acknowledgement for a packet handler's outcome.
func AckFromResult(result []byte, err error) channeltypes.Acknowledgement {
	if err != nil {
		return channeltypes.NewErrorAcknowledgement(err)
	}
	return channeltypes.NewResultAcknowledgement(result)
}

// EmitChannelOpenEvent emits a handshake step. counterpartyChannelID may be
// empty before the counterparty has picked one.
func EmitChannelOpenEvent(
	ctx sdk.Context,
	eventType string,
	channelID string,
	portID string,
	counterpartyPortID string,
	counterpartyChannelID string,
) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute("channel_id", channelID),
			sdk.NewAttribute("port_id", portID),
			sdk.NewAttribute("counterparty_port_id", counterpartyPortID),
			sdk.NewAttribute("counterparty_channel_id", counterpartyChannelID),
		),
	)
}

// EmitChannelCloseEvent emits a channel close with the number of orders still
// routed over it.
func EmitChannelCloseEvent(ctx sdk.Context, eventType, channelID, portID string, openOrders int) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute("channel_id", channelID),
			sdk.NewAttribute("port_id", portID),
			sdk.NewAttribute("open_orders", fmt.Sprintf("%d", openOrders)),
		),
	)
}
