package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	vestingtypes "github.com/paw-chain/swapbook/x/vesting/types"
)

// Side records which chain originated an order.
type Side string

const (
	// SideNative orders were made on this chain; the maker's tokens are escrowed here.
	SideNative Side = "Native"
	// SideRemote orders mirror an order made on the counterparty chain.
	SideRemote Side = "Remote"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusInitial  Status = "Initial"
	StatusSync     Status = "Sync"
	StatusCancel   Status = "Cancel"
	StatusFailed   Status = "Failed"
	StatusComplete Status = "Complete"
)

// IsOpen reports whether an order in this status can still be taken or cancelled.
func (s Status) IsOpen() bool {
	return s == StatusInitial || s == StatusSync
}

// Height mirrors the IBC client height carried in swap requests.
type Height struct {
	RevisionNumber uint64 `json:"revision_number"`
	RevisionHeight uint64 `json:"revision_height"`
}

// AtomicSwapOrder is one order in the book. Taker is set at most once and
// only while the order is open; after that only terminal status changes apply.
type AtomicSwapOrder struct {
	ID                string                    `json:"id"`
	Side              Side                      `json:"side"`
	Maker             MakeSwapMsg               `json:"maker"`
	Status            Status                    `json:"status"`
	Path              string                    `json:"path"`
	Taker             *TakeSwapMsg              `json:"taker,omitempty"`
	CreateTimestamp   uint64                    `json:"create_timestamp"`
	CancelTimestamp   *uint64                   `json:"cancel_timestamp,omitempty"`
	CompleteTimestamp *uint64                   `json:"complete_timestamp,omitempty"`
	MinBidPrice       *math.Int                 `json:"min_bid_price,omitempty"`
	Vesting           *vestingtypes.VestingInfo `json:"vesting_details,omitempty"`
}

// IsExpired reports whether the order's expiration has passed at now.
func (o AtomicSwapOrder) IsExpired(now uint64) bool {
	return now > o.Maker.ExpirationTimestamp
}

// HasTaker reports whether a counterparty has already been assigned.
func (o AtomicSwapOrder) HasTaker() bool {
	return o.Taker != nil
}

// MakeSwapMsg holds the full terms of an order as published by the maker.
type MakeSwapMsg struct {
	SourcePort            string                    `json:"source_port"`
	SourceChannel         string                    `json:"source_channel"`
	SellToken             sdk.Coin                  `json:"sell_token"`
	BuyToken              sdk.Coin                  `json:"buy_token"`
	MakerAddress          string                    `json:"maker_address"`
	MakerReceivingAddress string                    `json:"maker_receiving_address"`
	DesiredTaker          string                    `json:"desired_taker"`
	TakeBids              bool                      `json:"take_bids"`
	MinBidPrice           *math.Int                 `json:"min_bid_price,omitempty"`
	Vesting               *vestingtypes.VestingInfo `json:"vesting,omitempty"`
	TimeoutHeight         Height                    `json:"timeout_height"`
	TimeoutTimestamp      uint64                    `json:"timeout_timestamp"`
	ExpirationTimestamp   uint64                    `json:"expiration_timestamp"`
}

// TakeSwapMsg accepts an order's full terms.
type TakeSwapMsg struct {
	OrderID               string   `json:"order_id"`
	SellToken             sdk.Coin `json:"sell_token"`
	TakerAddress          string   `json:"taker_address"`
	TakerReceivingAddress string   `json:"taker_receiving_address"`
	TimeoutHeight         Height   `json:"timeout_height"`
	TimeoutTimestamp      uint64   `json:"timeout_timestamp"`
}

// CancelSwapMsg asks to cancel an open order. Only its maker may send it.
type CancelSwapMsg struct {
	OrderID      string `json:"order_id"`
	MakerAddress string `json:"maker_address"`
}
