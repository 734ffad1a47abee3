package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"
)

// SentPacket is one packet handed to MockICS4Wrapper.
type SentPacket struct {
	Sequence         uint64
	SourcePort       string
	SourceChannel    string
	TimeoutHeight    clienttypes.Height
	TimeoutTimestamp uint64
	Data             []byte
}

// MockICS4Wrapper records sent packets for unit tests.
type MockICS4Wrapper struct {
	NextSeq uint64
	Sent    []SentPacket
	Err     error
}

func (m *MockICS4Wrapper) SendPacket(
	_ sdk.Context,
	_ *capabilitytypes.Capability,
	sourcePort string,
	sourceChannel string,
	timeoutHeight clienttypes.Height,
	timeoutTimestamp uint64,
	data []byte,
) (uint64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.NextSeq++
	m.Sent = append(m.Sent, SentPacket{
		Sequence:         m.NextSeq,
		SourcePort:       sourcePort,
		SourceChannel:    sourceChannel,
		TimeoutHeight:    timeoutHeight,
		TimeoutTimestamp: timeoutTimestamp,
		Data:             data,
	})
	return m.NextSeq, nil
}

// MockScopedKeeper hands out capabilities by name.
type MockScopedKeeper struct {
	caps map[string]*capabilitytypes.Capability
}

// NewMockScopedKeeper creates an empty scoped keeper.
func NewMockScopedKeeper() *MockScopedKeeper {
	return &MockScopedKeeper{caps: make(map[string]*capabilitytypes.Capability)}
}

func (m *MockScopedKeeper) GetCapability(_ sdk.Context, name string) (*capabilitytypes.Capability, bool) {
	cap, ok := m.caps[name]
	return cap, ok
}

func (m *MockScopedKeeper) AuthenticateCapability(_ sdk.Context, cap *capabilitytypes.Capability, name string) bool {
	owned, ok := m.caps[name]
	return ok && owned == cap
}

func (m *MockScopedKeeper) ClaimCapability(_ sdk.Context, cap *capabilitytypes.Capability, name string) error {
	if cap == nil {
		cap = &capabilitytypes.Capability{Index: uint64(len(m.caps) + 1)}
	}
	m.caps[name] = cap
	return nil
}

// OpenChannel grants the channel capability for portID/channelID.
func (m *MockScopedKeeper) OpenChannel(portID, channelID string) {
	m.caps[host.ChannelCapabilityPath(portID, channelID)] = &capabilitytypes.Capability{Index: uint64(len(m.caps) + 1)}
}

// CloseChannel revokes the channel capability for portID/channelID.
func (m *MockScopedKeeper) CloseChannel(portID, channelID string) {
	delete(m.caps, host.ChannelCapabilityPath(portID, channelID))
}

// MockPortKeeper binds ports in memory.
type MockPortKeeper struct {
	Bound map[string]bool
}

func (m *MockPortKeeper) BindPort(_ sdk.Context, portID string) *capabilitytypes.Capability {
	if m.Bound == nil {
		m.Bound = make(map[string]bool)
	}
	m.Bound[portID] = true
	return &capabilitytypes.Capability{Index: 1000 + uint64(len(m.Bound))}
}

func (m *MockPortKeeper) IsBound(_ sdk.Context, portID string) bool {
	return m.Bound[portID]
}
