package types

import (
	"cosmossdk.io/math"
)

// Page size limits. Order lists and bid lists have separate caps.
const (
	DefaultOrderLimit uint32 = 20
	MaxOrderLimit     uint32 = 10000
	DefaultBidLimit   uint32 = 10
	MaxBidLimit       uint32 = 100
)

// Query tags understood by the keeper's query router.
const (
	QueryList                              = "list"
	QueryListReverse                       = "list_reverse"
	QueryListByDesiredTaker                = "list_by_desired_taker"
	QueryListByDesiredTakerReverse         = "list_by_desired_taker_reverse"
	QueryListByMaker                       = "list_by_maker"
	QueryListByMakerReverse                = "list_by_maker_reverse"
	QueryListByTaker                       = "list_by_taker"
	QueryListByTakerReverse                = "list_by_taker_reverse"
	QueryInactiveList                      = "inactive_list"
	QueryInactiveListReverse               = "inactive_list_reverse"
	QueryInactiveListByDesiredTaker        = "inactive_list_by_desired_taker"
	QueryInactiveListByDesiredTakerReverse = "inactive_list_by_desired_taker_reverse"
	QueryInactiveListByMaker               = "inactive_list_by_maker"
	QueryInactiveListByMakerReverse        = "inactive_list_by_maker_reverse"
	QueryInactiveListByTaker               = "inactive_list_by_taker"
	QueryInactiveListByTakerReverse        = "inactive_list_by_taker_reverse"
	QueryDetails                           = "details"
	QueryBidByAmount                       = "bid_by_amount"
	QueryBidByAmountReverse                = "bid_by_amount_reverse"
	QueryBidByOrder                        = "bid_by_order"
	QueryBidByOrderReverse                 = "bid_by_order_reverse"
	QueryBidDetails                        = "bid_details"
	QueryBidByBidder                       = "bid_by_bidder"
	QueryConfig                            = "config"
	QueryParams                            = "params"
	QueryChannel                           = "channel"
)

// ListRequest pages through active or archived orders by slot. Forward
// queries use StartAfter; reverse queries use StartBefore. The filter fields
// are only read by the list_by_* queries that name them.
type ListRequest struct {
	StartAfter   *uint64 `json:"start_after,omitempty"`
	StartBefore  *uint64 `json:"start_before,omitempty"`
	Limit        *uint32 `json:"limit,omitempty"`
	DesiredTaker string  `json:"desired_taker,omitempty"`
	Maker        string  `json:"maker,omitempty"`
	Taker        string  `json:"taker,omitempty"`
}

// ListResponse is a page of orders. LastOrderID is the slot of the last order
// returned, usable as the next cursor, or 0 for an empty page.
type ListResponse struct {
	Swaps       []AtomicSwapOrder `json:"swaps"`
	LastOrderID uint64            `json:"last_order_id"`
}

// DetailsRequest looks up one order by id.
type DetailsRequest struct {
	ID string `json:"id"`
}

// DetailsResponse summarises an order.
type DetailsResponse struct {
	ID                string       `json:"id"`
	Maker             MakeSwapMsg  `json:"maker"`
	Status            Status       `json:"status"`
	Path              string       `json:"path"`
	Taker             *TakeSwapMsg `json:"taker,omitempty"`
	CancelTimestamp   *uint64      `json:"cancel_timestamp,omitempty"`
	CompleteTimestamp *uint64      `json:"complete_timestamp,omitempty"`
	Archived          bool         `json:"archived"`
}

// BidOffset is a cursor into the price ordering of one order's bids.
type BidOffset struct {
	Amount math.Int `json:"amount"`
	Bidder string   `json:"bidder"`
}

// BidOffsetTime is a cursor into the time ordering of one order's bids.
type BidOffsetTime struct {
	Time   uint64 `json:"time"`
	Bidder string `json:"bidder"`
}

// BidsByAmountRequest lists one order's bids with the given status by price.
type BidsByAmountRequest struct {
	Order       string     `json:"order"`
	Status      BidStatus  `json:"status"`
	StartAfter  *BidOffset `json:"start_after,omitempty"`
	StartBefore *BidOffset `json:"start_before,omitempty"`
	Limit       *uint32    `json:"limit,omitempty"`
}

// BidsByTimeRequest lists one order's bids with the given status by receive time.
type BidsByTimeRequest struct {
	Order       string         `json:"order"`
	Status      BidStatus      `json:"status"`
	StartAfter  *BidOffsetTime `json:"start_after,omitempty"`
	StartBefore *BidOffsetTime `json:"start_before,omitempty"`
	Limit       *uint32        `json:"limit,omitempty"`
}

// BidsByBidderRequest lists a bidder's bids with the given status by order id.
// StartAfter is an order id.
type BidsByBidderRequest struct {
	Bidder     string    `json:"bidder"`
	Status     BidStatus `json:"status"`
	StartAfter *string   `json:"start_after,omitempty"`
	Limit      *uint32   `json:"limit,omitempty"`
}

// BidDetailsRequest looks up one bid.
type BidDetailsRequest struct {
	Order  string `json:"order"`
	Bidder string `json:"bidder"`
}

// BidsResponse is a page of bids.
type BidsResponse struct {
	Bids []Bid `json:"bids"`
}

// ChannelRequest looks up a registered channel.
type ChannelRequest struct {
	ID string `json:"id"`
}

// ClampLimit applies a default and a cap to an optional page size.
func ClampLimit(limit *uint32, def, max uint32) int {
	if limit == nil {
		return int(def)
	}
	if *limit > max {
		return int(max)
	}
	return int(*limit)
}
