package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BidStatus is the lifecycle state of a bid.
type BidStatus string

const (
	BidStatusInitial   BidStatus = "Initial"
	BidStatusFailed    BidStatus = "Failed"
	BidStatusCancelled BidStatus = "Cancelled"
	BidStatusExecuted  BidStatus = "Executed"
	BidStatusPlaced    BidStatus = "Placed"
)

// IsActive reports whether a bid in this status blocks a new bid from the same bidder.
func (s BidStatus) IsActive() bool {
	return s == BidStatusInitial || s == BidStatusPlaced
}

// Valid reports whether s is a known bid status.
func (s BidStatus) Valid() bool {
	switch s {
	case BidStatusInitial, BidStatusFailed, BidStatusCancelled, BidStatusExecuted, BidStatusPlaced:
		return true
	}
	return false
}

// Bid is an auction counter-offer against an order, keyed by (Order, Bidder).
type Bid struct {
	Bid              sdk.Coin  `json:"bid"`
	Order            string    `json:"order"`
	Status           BidStatus `json:"status"`
	Bidder           string    `json:"bidder"`
	BidderReceiver   string    `json:"bidder_receiver"`
	ReceiveTimestamp uint64    `json:"receive_timestamp"`
	ExpireTimestamp  uint64    `json:"expire_timestamp"`
}

// IsExpired reports whether the bid's expiry has passed at now.
func (b Bid) IsExpired(now uint64) bool {
	return now > b.ExpireTimestamp
}

// MakeBidMsg places a bid on an auction-enabled order.
type MakeBidMsg struct {
	OrderID               string   `json:"order_id"`
	SellToken             sdk.Coin `json:"sell_token"`
	TakerAddress          string   `json:"taker_address"`
	TakerReceivingAddress string   `json:"taker_receiving_address"`
	ExpirationTimestamp   uint64   `json:"expiration_timestamp"`
}

// TakeBidMsg accepts a placed bid. Only the order's maker receiving address may send it.
type TakeBidMsg struct {
	OrderID string `json:"order_id"`
	Bidder  string `json:"bidder"`
}

// CancelBidMsg withdraws a bid.
type CancelBidMsg struct {
	OrderID string `json:"order_id"`
	Bidder  string `json:"bidder"`
}

// UpdateBidMsg raises a placed bid by Addition.
type UpdateBidMsg struct {
	OrderID  string   `json:"order_id"`
	Addition math.Int `json:"addition"`
	Bidder   string   `json:"bidder"`
}
