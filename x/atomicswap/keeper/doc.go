// Package keeper implements the atomic swap module keeper.
//
// The module runs an ICS-100 order book between two chains connected by an
// IBC channel. A maker escrows tokens on the maker chain and asks for a
// token on the taker chain; a taker, or an auction bidder, escrows the asked
// token on the taker chain. Packets between the two chains settle or roll
// back both escrows.
//
// # Storage
//
// Orders live in two slot stores with an id index each: the active book and
// the archive. Slots are assigned from a store-owned counter and are never
// reused. An order leaves the active book exactly once, when it completes,
// is cancelled, fails or is found expired by take_swap.
//
// Bids have one primary record keyed by (order, bidder) and three secondary
// views keyed with orderedcode: by price, by receive time and by bidder.
// SetBid rewrites all four records together.
//
// # Entry Points
//
// Execute dispatches one ExecuteMsg inside a cache branch; a failed call
// leaves no writes, except that take_swap on an expired order still archives
// it.
//
// OnRecvPacket, OnAcknowledgementPacket and OnTimeoutPacket handle the
// counterparty side and the local finalization or rollback. Each is a
// table keyed by packet message type.
//
// Query answers {"<kind>": {...}} requests through a table keyed by kind.
//
// # Usage Patterns
//
// Making an order:
//
//	resp, err := keeper.Execute(ctx, types.MessageInfo{Sender: maker, Funds: funds},
//		types.ExecuteMsg{MakeSwap: &msg})
//
// Listing the open book newest first:
//
//	bz, err := keeper.Query(ctx, []byte(`{"list_reverse":{"limit":10}}`))
package keeper
