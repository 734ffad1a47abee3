package types

import (
	"fmt"
)

// GenesisState is the module's exported state.
type GenesisState struct {
	Params         Params            `json:"params"`
	Config         Config            `json:"config"`
	PortID         string            `json:"port_id"`
	Channels       []ChannelInfo     `json:"channels"`
	SwapSequence   uint64            `json:"swap_sequence"`
	Orders         []AtomicSwapOrder `json:"orders"`
	ArchivedOrders []AtomicSwapOrder `json:"archived_orders"`
	Bids           []Bid             `json:"bids"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params: DefaultParams(),
		Config: Config{State: MarketActive},
		PortID: PortID,
	}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	if err := gs.Config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if gs.PortID == "" {
		return fmt.Errorf("port id cannot be empty")
	}

	channels := make(map[string]struct{}, len(gs.Channels))
	for _, ch := range gs.Channels {
		if ch.ID == "" {
			return fmt.Errorf("channel id cannot be empty")
		}
		if _, dup := channels[ch.ID]; dup {
			return fmt.Errorf("duplicate channel %s", ch.ID)
		}
		channels[ch.ID] = struct{}{}
	}

	ids := make(map[string]struct{}, len(gs.Orders)+len(gs.ArchivedOrders))
	for _, list := range [][]AtomicSwapOrder{gs.Orders, gs.ArchivedOrders} {
		for _, o := range list {
			if o.ID == "" {
				return fmt.Errorf("order id cannot be empty")
			}
			if _, dup := ids[o.ID]; dup {
				return fmt.Errorf("duplicate order %s", o.ID)
			}
			if OrderID(o.Path) != o.ID {
				return fmt.Errorf("order %s does not match its path", o.ID)
			}
			ids[o.ID] = struct{}{}
		}
	}

	bids := make(map[string]struct{}, len(gs.Bids))
	for _, b := range gs.Bids {
		if _, ok := ids[b.Order]; !ok {
			return fmt.Errorf("bid references unknown order %s", b.Order)
		}
		if !b.Status.Valid() {
			return fmt.Errorf("bid %s/%s has invalid status %q", b.Order, b.Bidder, b.Status)
		}
		key := b.Order + "/" + b.Bidder
		if _, dup := bids[key]; dup {
			return fmt.Errorf("duplicate bid %s", key)
		}
		bids[key] = struct{}{}
	}
	return nil
}
