package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"

	"github.com/paw-chain/swapbook/x/atomicswap/keeper"
	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

// Simulation runs MsgExecute transactions against a snapshot without a
// chain. Each sender is credited with the funds it attaches, every channel
// recorded in the snapshot counts as open, and outgoing packets are captured
// instead of relayed.
type Simulation struct {
	mu      sync.Mutex
	keeper  *keeper.Keeper
	ctx     sdk.Context
	ledger  *ledger
	outbox  *outbox
	handler types.MsgServer
}

// Result is the outcome of one simulated transaction.
type Result struct {
	Response *types.MsgExecuteResponse `json:"response"`
	Packets  []Packet                  `json:"packets"`
	Events   sdk.StringEvents          `json:"events"`
}

// Packet is an envelope the transaction would have sent.
type Packet struct {
	Sequence         uint64          `json:"sequence"`
	SourcePort       string          `json:"source_port"`
	SourceChannel    string          `json:"source_channel"`
	TimeoutTimestamp uint64          `json:"timeout_timestamp"`
	Type             string          `json:"type"`
	OrderID          string          `json:"order_id,omitempty"`
	Path             string          `json:"path,omitempty"`
	Payload          json.RawMessage `json:"payload"`
}

// NewSimulation loads genState with a bank ledger and a packet outbox wired
// into the keeper.
func NewSimulation(genState types.GenesisState, logger log.Logger) (*Simulation, error) {
	sim := &Simulation{ledger: newLedger(), outbox: &outbox{}}
	k, ctx, err := load(genState, logger, func(key storetypes.StoreKey) *keeper.Keeper {
		return keeper.NewKeeper(key, sim.ledger, sim.outbox, nil, openChannels{}, nil)
	})
	if err != nil {
		return nil, err
	}
	sim.keeper, sim.ctx = k, ctx
	sim.handler = keeper.NewMsgServerImpl(*k)
	return sim, nil
}

// LoadSimulation reads a genesis file into a Simulation.
func LoadSimulation(path string, logger log.Logger) (*Simulation, error) {
	genState, err := readGenesis(path)
	if err != nil {
		return nil, err
	}
	return NewSimulation(genState, logger)
}

// Execute applies msg. State changes persist only when the action succeeds,
// matching a delivered transaction.
func (s *Simulation) Execute(msg *types.MsgExecute) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if info, err := msg.Info(); err == nil && msg.Funds.IsValid() {
		s.ledger.credit(info.Sender.String(), msg.Funds)
	}

	ctx := s.ctx.WithEventManager(sdk.NewEventManager())
	s.outbox.sent = nil
	resp, err := s.handler.Execute(ctx, msg)
	if err != nil {
		return nil, err
	}

	return &Result{
		Response: resp,
		Packets:  append([]Packet{}, s.outbox.sent...),
		Events:   sdk.StringifyEvents(ctx.EventManager().ABCIEvents()),
	}, nil
}

// Export returns the module state after the simulated transactions.
func (s *Simulation) Export() (*types.GenesisState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keeper.ExportGenesis(s.ctx)
}

// ledger is a bank that only tracks what senders attached. Module accounts
// may pay out without a recorded balance since a snapshot carries none.
type ledger struct {
	balances map[string]sdk.Coins
}

func newLedger() *ledger {
	return &ledger{balances: make(map[string]sdk.Coins)}
}

func (l *ledger) credit(addr string, coins sdk.Coins) {
	l.balances[addr] = l.balances[addr].Add(coins...)
}

func (l *ledger) SendCoinsFromAccountToModule(_ context.Context, senderAddr sdk.AccAddress, _ string, amt sdk.Coins) error {
	balance, hasNeg := l.balances[senderAddr.String()].SafeSub(amt...)
	if hasNeg {
		return fmt.Errorf("insufficient funds: %s has %s, needs %s", senderAddr, l.balances[senderAddr.String()], amt)
	}
	l.balances[senderAddr.String()] = balance
	return nil
}

func (l *ledger) SendCoinsFromModuleToAccount(_ context.Context, _ string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	l.credit(recipientAddr.String(), amt)
	return nil
}

// outbox numbers packets per channel the way a channel end would.
type outbox struct {
	next map[string]uint64
	sent []Packet
}

func (o *outbox) SendPacket(
	_ sdk.Context,
	_ *capabilitytypes.Capability,
	sourcePort string,
	sourceChannel string,
	_ clienttypes.Height,
	timeoutTimestamp uint64,
	data []byte,
) (uint64, error) {
	envelope, err := types.DecodePacketData(data)
	if err != nil {
		return 0, err
	}
	if o.next == nil {
		o.next = make(map[string]uint64)
	}
	o.next[sourceChannel]++
	seq := o.next[sourceChannel]

	o.sent = append(o.sent, Packet{
		Sequence:         seq,
		SourcePort:       sourcePort,
		SourceChannel:    sourceChannel,
		TimeoutTimestamp: timeoutTimestamp,
		Type:             envelope.Type.String(),
		OrderID:          envelope.OrderID,
		Path:             envelope.Path,
		Payload:          envelope.Data,
	})
	return seq, nil
}

// openChannels grants every capability.
type openChannels struct{}

func (openChannels) GetCapability(_ sdk.Context, _ string) (*capabilitytypes.Capability, bool) {
	return &capabilitytypes.Capability{}, true
}

func (openChannels) AuthenticateCapability(sdk.Context, *capabilitytypes.Capability, string) bool {
	return true
}

func (openChannels) ClaimCapability(sdk.Context, *capabilitytypes.Capability, string) error {
	return nil
}
