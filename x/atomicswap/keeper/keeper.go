package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"

	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

// Keeper of the atomic swap store
type Keeper struct {
	storeKey      storetypes.StoreKey
	bankKeeper    types.BankKeeper
	ics4Wrapper   types.ICS4Wrapper
	portKeeper    types.PortKeeper
	scopedKeeper  types.ScopedKeeper
	vestingKeeper types.VestingKeeper
	metrics       *SwapMetrics
}

// NewKeeper creates a new atomic swap Keeper instance. vestingKeeper may be
// nil, in which case orders carrying a vesting schedule are paid out directly.
func NewKeeper(
	key storetypes.StoreKey,
	bankKeeper types.BankKeeper,
	ics4Wrapper types.ICS4Wrapper,
	portKeeper types.PortKeeper,
	scopedKeeper types.ScopedKeeper,
	vestingKeeper types.VestingKeeper,
) *Keeper {
	return &Keeper{
		storeKey:      key,
		bankKeeper:    bankKeeper,
		ics4Wrapper:   ics4Wrapper,
		portKeeper:    portKeeper,
		scopedKeeper:  scopedKeeper,
		vestingKeeper: vestingKeeper,
		metrics:       NewSwapMetrics(),
	}
}

// getStore returns the KVStore for the atomic swap module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// ClaimCapability claims a channel capability for later authentication.
func (k Keeper) ClaimCapability(ctx sdk.Context, cap *capabilitytypes.Capability, name string) error {
	return k.scopedKeeper.ClaimCapability(ctx, cap, name)
}

// GetChannelCapability retrieves a previously claimed channel capability.
func (k Keeper) GetChannelCapability(ctx sdk.Context, portID, channelID string) (*capabilitytypes.Capability, bool) {
	return k.scopedKeeper.GetCapability(ctx, host.ChannelCapabilityPath(portID, channelID))
}

// AuthenticateCapability checks that cap is owned by this module under name.
func (k Keeper) AuthenticateCapability(ctx sdk.Context, cap *capabilitytypes.Capability, name string) bool {
	return k.scopedKeeper.AuthenticateCapability(ctx, cap, name)
}

// GetPort returns the port the module is bound to.
func (k Keeper) GetPort(ctx context.Context) string {
	bz := k.getStore(ctx).Get(types.PortKey)
	if bz == nil {
		return types.PortID
	}
	return string(bz)
}

// SetPort records the port the module is bound to.
func (k Keeper) SetPort(ctx context.Context, portID string) {
	k.getStore(ctx).Set(types.PortKey, []byte(portID))
}

// IsBound reports whether the module already owns the capability for portID.
func (k Keeper) IsBound(ctx sdk.Context, portID string) bool {
	_, ok := k.scopedKeeper.GetCapability(ctx, host.PortPath(portID))
	return ok
}

// BindPort binds portID and claims its capability.
func (k Keeper) BindPort(ctx sdk.Context, portID string) error {
	if k.portKeeper.IsBound(ctx, portID) {
		return nil
	}
	portCap := k.portKeeper.BindPort(ctx, portID)
	return k.ClaimCapability(ctx, portCap, host.PortPath(portID))
}
