package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// DefaultTimeoutSeconds is how far past the block time outbound packets time out.
	DefaultTimeoutSeconds uint64 = 600

	// MaxFeeBps caps maker and taker fees at 100%.
	MaxFeeBps uint64 = 10000
)

// Params are the module's tunable parameters.
type Params struct {
	TimeoutSeconds uint64 `json:"timeout_seconds"`
	MakerFeeBps    uint64 `json:"maker_fee_bps"`
	TakerFeeBps    uint64 `json:"taker_fee_bps"`
	Treasury       string `json:"treasury"`
}

// DefaultParams returns the default parameters: 600s packet timeout and no fees.
func DefaultParams() Params {
	return Params{
		TimeoutSeconds: DefaultTimeoutSeconds,
	}
}

// Validate validates the set of params
func (p Params) Validate() error {
	if p.TimeoutSeconds == 0 {
		return fmt.Errorf("timeout seconds must be positive")
	}
	if p.MakerFeeBps > MaxFeeBps || p.TakerFeeBps > MaxFeeBps {
		return fmt.Errorf("fees must not exceed %d bps", MaxFeeBps)
	}
	if p.Treasury != "" {
		if _, err := sdk.AccAddressFromBech32(p.Treasury); err != nil {
			return fmt.Errorf("invalid treasury address: %w", err)
		}
	} else if p.MakerFeeBps > 0 || p.TakerFeeBps > 0 {
		return fmt.Errorf("fees require a treasury address")
	}
	return nil
}

// MarketState gates update_bid.
type MarketState string

const (
	MarketActive MarketState = "Active"
	MarketPaused MarketState = "Paused"
)

// Config is the process-wide admin record.
type Config struct {
	Admin string      `json:"admin"`
	State MarketState `json:"state"`
}

// Validate checks the admin address and market state.
func (c Config) Validate() error {
	if c.Admin != "" {
		if _, err := sdk.AccAddressFromBech32(c.Admin); err != nil {
			return fmt.Errorf("invalid admin address: %w", err)
		}
	}
	if c.State != MarketActive && c.State != MarketPaused {
		return fmt.Errorf("invalid market state %q", c.State)
	}
	return nil
}

// Endpoint is a port/channel pair on one side of a channel.
type Endpoint struct {
	PortID    string `json:"port_id"`
	ChannelID string `json:"channel_id"`
}

// ChannelInfo records the counterparty of a local channel.
type ChannelInfo struct {
	ID           string   `json:"id"`
	Counterparty Endpoint `json:"counterparty_endpoint"`
	ConnectionID string   `json:"connection_id"`
}
