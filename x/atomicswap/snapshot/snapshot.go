// Package snapshot serves read-only queries over an exported atomic swap
// genesis loaded into an in-memory store.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/swapbook/x/atomicswap/keeper"
	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

// Snapshot answers queries against a fixed module state.
type Snapshot struct {
	mu     sync.Mutex
	keeper *keeper.Keeper
	ctx    sdk.Context
}

// New loads genState into a fresh in-memory store. The keeper has no bank or
// IBC dependencies, so only queries are meaningful.
func New(genState types.GenesisState, logger log.Logger) (*Snapshot, error) {
	k, ctx, err := load(genState, logger, func(key storetypes.StoreKey) *keeper.Keeper {
		return keeper.NewKeeper(key, nil, nil, nil, nil, nil)
	})
	if err != nil {
		return nil, err
	}
	return &Snapshot{keeper: k, ctx: ctx}, nil
}

// load mounts a fresh in-memory store and initializes the keeper built by
// newKeeper from genState.
func load(genState types.GenesisState, logger log.Logger, newKeeper func(storetypes.StoreKey) *keeper.Keeper) (*keeper.Keeper, sdk.Context, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	if err := stateStore.LoadLatestVersion(); err != nil {
		return nil, sdk.Context{}, fmt.Errorf("failed to load snapshot store: %w", err)
	}

	k := newKeeper(storeKey)
	ctx := sdk.NewContext(stateStore, cmtproto.Header{Time: time.Now().UTC()}, false, logger)
	if err := k.InitGenesis(ctx, genState); err != nil {
		return nil, sdk.Context{}, err
	}
	return k, ctx, nil
}

// Load reads a genesis file. Both a bare module state and a full application
// genesis carrying app_state.atomicswap are accepted.
func Load(path string, logger log.Logger) (*Snapshot, error) {
	genState, err := readGenesis(path)
	if err != nil {
		return nil, err
	}
	return New(genState, logger)
}

func readGenesis(path string) (types.GenesisState, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return types.GenesisState{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	genState, err := ParseGenesis(bz)
	if err != nil {
		return types.GenesisState{}, fmt.Errorf("%s: %w", path, err)
	}
	return genState, nil
}

// ParseGenesis decodes a module genesis, unwrapping an application genesis
// when present.
func ParseGenesis(bz []byte) (types.GenesisState, error) {
	var app struct {
		AppState map[string]json.RawMessage `json:"app_state"`
	}
	if err := json.Unmarshal(bz, &app); err != nil {
		return types.GenesisState{}, fmt.Errorf("malformed genesis: %w", err)
	}
	if raw, ok := app.AppState[types.ModuleName]; ok {
		bz = raw
	}

	genState := *types.DefaultGenesis()
	if err := json.Unmarshal(bz, &genState); err != nil {
		return types.GenesisState{}, fmt.Errorf("malformed %s genesis: %w", types.ModuleName, err)
	}
	return genState, nil
}

// Query answers one query kind with its JSON body.
func (s *Snapshot) Query(kind string, body json.RawMessage) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keeper.QueryKind(s.ctx, kind, body)
}

// Kinds lists the supported query kinds.
func (s *Snapshot) Kinds() []string {
	return keeper.QueryKinds()
}

// Stats reports the store counters, for health output.
func (s *Snapshot) Stats() map[string]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]uint64{
		"swap_sequence": s.keeper.GetSwapSequence(s.ctx),
		"active_slots":  s.keeper.ActiveOrderCount(s.ctx),
		"archive_slots": s.keeper.ArchivedOrderCount(s.ctx),
	}
}
