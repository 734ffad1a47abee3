package keeper

import (
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/swapbook/x/atomicswap/keeper"
	"github.com/paw-chain/swapbook/x/atomicswap/types"
	vestingkeeper "github.com/paw-chain/swapbook/x/vesting/keeper"
	vestingtypes "github.com/paw-chain/swapbook/x/vesting/types"
)

// Channel layout of the fixture chain. The local end is TestChannel on the
// module port; the counterparty end is CounterpartyChannel.
const (
	TestChannel         = "channel-0"
	CounterpartyChannel = "channel-7"
	TestConnection      = "connection-0"
)

// GenesisTime is the block time of a fresh fixture context.
var GenesisTime = time.Unix(1_700_000_000, 0).UTC()

// SwapFixture is an atomic swap keeper on an in-memory store with mocked
// bank and IBC dependencies and a real vesting keeper.
type SwapFixture struct {
	Keeper  *keeper.Keeper
	Vesting *vestingkeeper.Keeper
	Ctx     sdk.Context
	Bank    *MockBankKeeper
	ICS4    *MockICS4Wrapper
	Scoped  *MockScopedKeeper
	Port    *MockPortKeeper
}

// AtomicSwapKeeper creates a keeper with default genesis and one open channel.
func AtomicSwapKeeper(t require.TestingT) *SwapFixture {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	vestingKey := storetypes.NewKVStoreKey(vestingtypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(vestingKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	f := &SwapFixture{
		Bank:   NewMockBankKeeper(),
		ICS4:   &MockICS4Wrapper{},
		Scoped: NewMockScopedKeeper(),
		Port:   &MockPortKeeper{},
	}
	f.Vesting = vestingkeeper.NewKeeper(vestingKey, f.Bank)
	f.Keeper = keeper.NewKeeper(storeKey, f.Bank, f.ICS4, f.Port, f.Scoped, f.Vesting)

	f.Ctx = sdk.NewContext(stateStore, cmtproto.Header{Time: GenesisTime, Height: 1}, false, log.NewNopLogger())
	require.NoError(t, f.Keeper.InitGenesis(f.Ctx, *types.DefaultGenesis()))

	f.Scoped.OpenChannel(types.PortID, TestChannel)
	require.NoError(t, f.Keeper.SetChannelInfo(f.Ctx, types.ChannelInfo{
		ID:           TestChannel,
		Counterparty: types.Endpoint{PortID: types.PortID, ChannelID: CounterpartyChannel},
		ConnectionID: TestConnection,
	}))

	return f
}

// AdvanceTime moves the block time forward.
func (f *SwapFixture) AdvanceTime(d time.Duration) {
	f.Ctx = f.Ctx.WithBlockTime(f.Ctx.BlockTime().Add(d)).WithBlockHeight(f.Ctx.BlockHeight() + 1)
}

// Now returns the block time in Unix seconds.
func (f *SwapFixture) Now() uint64 {
	return uint64(f.Ctx.BlockTime().Unix())
}

// LastSent returns the most recent outbound packet and its decoded envelope.
func (f *SwapFixture) LastSent(t require.TestingT) (channeltypes.Packet, types.AtomicSwapPacketData) {
	require.NotEmpty(t, f.ICS4.Sent, "no packet was sent")
	sent := f.ICS4.Sent[len(f.ICS4.Sent)-1]
	data, err := types.DecodePacketData(sent.Data)
	require.NoError(t, err)
	return channeltypes.Packet{
		Sequence:           sent.Sequence,
		SourcePort:         sent.SourcePort,
		SourceChannel:      sent.SourceChannel,
		DestinationPort:    types.PortID,
		DestinationChannel: CounterpartyChannel,
		Data:               sent.Data,
		TimeoutTimestamp:   sent.TimeoutTimestamp,
	}, data
}

// Inbound wraps an envelope as a packet arriving on TestChannel.
func (f *SwapFixture) Inbound(t require.TestingT, data types.AtomicSwapPacketData) channeltypes.Packet {
	bz, err := data.GetBytes()
	require.NoError(t, err)
	return channeltypes.Packet{
		Sequence:           1,
		SourcePort:         types.PortID,
		SourceChannel:      CounterpartyChannel,
		DestinationPort:    types.PortID,
		DestinationChannel: TestChannel,
		Data:               bz,
	}
}

// TestAddr returns a deterministic 20-byte address derived from name.
func TestAddr(name string) sdk.AccAddress {
	bz := make([]byte, 20)
	copy(bz, name)
	return sdk.AccAddress(bz)
}
