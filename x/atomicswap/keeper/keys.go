package keeper

import (
	"encoding/binary"

	"cosmossdk.io/math"
	"github.com/google/orderedcode"

	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

// amountWidth is the fixed width of an encoded bid amount. math.Int is
// bounded to 256 bits, so 32 big-endian bytes keep numeric order.
const amountWidth = 32

func slotBytes(slot uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, slot)
	return bz
}

func slotKey(prefix []byte, slot uint64) []byte {
	return append(append([]byte{}, prefix...), slotBytes(slot)...)
}

func idKey(prefix []byte, id string) []byte {
	return append(append([]byte{}, prefix...), []byte(id)...)
}

// encodeAmount returns a fixed-width big-endian encoding of a non-negative amount.
func encodeAmount(amount math.Int) string {
	bz := make([]byte, amountWidth)
	if !amount.IsNil() && amount.IsPositive() {
		amount.BigInt().FillBytes(bz)
	}
	return string(bz)
}

func ordered(prefix []byte, items ...interface{}) []byte {
	key, err := orderedcode.Append(append([]byte{}, prefix...), items...)
	if err != nil {
		// only strings and uint64s are passed, which orderedcode always accepts
		panic(err)
	}
	return key
}

// BidKey returns the primary key of the bid placed by bidder on order.
func BidKey(order, bidder string) []byte {
	return ordered(types.BidKeyPrefix, order, bidder)
}

// BidPriceKey returns the price view key of a bid.
func BidPriceKey(order string, amount math.Int, bidder string) []byte {
	return ordered(types.BidPriceKeyPrefix, order, encodeAmount(amount), bidder)
}

// BidPricePrefix returns the price view prefix of all bids on order.
func BidPricePrefix(order string) []byte {
	return ordered(types.BidPriceKeyPrefix, order)
}

// BidTimeKey returns the time view key of a bid.
func BidTimeKey(order string, receiveTimestamp uint64, bidder string) []byte {
	return ordered(types.BidTimeKeyPrefix, order, receiveTimestamp, bidder)
}

// BidTimePrefix returns the time view prefix of all bids on order.
func BidTimePrefix(order string) []byte {
	return ordered(types.BidTimeKeyPrefix, order)
}

// BidBidderKey returns the bidder view key of a bid.
func BidBidderKey(bidder, order string) []byte {
	return ordered(types.BidBidderKeyPrefix, bidder, order)
}

// BidBidderPrefix returns the bidder view prefix of all bids by bidder.
func BidBidderPrefix(bidder string) []byte {
	return ordered(types.BidBidderKeyPrefix, bidder)
}

// BidOrderPrefix returns the primary key prefix of all bids on order.
func BidOrderPrefix(order string) []byte {
	return ordered(types.BidKeyPrefix, order)
}

// parseBidPriceKey recovers (order, bidder) from a price view key.
func parseBidPriceKey(key []byte) (order, bidder string, err error) {
	var amount string
	_, err = orderedcode.Parse(string(key[len(types.BidPriceKeyPrefix):]), &order, &amount, &bidder)
	return order, bidder, err
}

// parseBidTimeKey recovers (order, bidder) from a time view key.
func parseBidTimeKey(key []byte) (order, bidder string, err error) {
	var ts uint64
	_, err = orderedcode.Parse(string(key[len(types.BidTimeKeyPrefix):]), &order, &ts, &bidder)
	return order, bidder, err
}

// parseBidBidderKey recovers (order, bidder) from a bidder view key.
func parseBidBidderKey(key []byte) (order, bidder string, err error) {
	_, err = orderedcode.Parse(string(key[len(types.BidBidderKeyPrefix):]), &bidder, &order)
	return order, bidder, err
}

// exclusiveStart returns the smallest key strictly greater than key.
func exclusiveStart(key []byte) []byte {
	return append(append([]byte{}, key...), 0x00)
}

// slotFromKey recovers the slot from an order store key.
func slotFromKey(key, prefix []byte) uint64 {
	return binary.BigEndian.Uint64(key[len(prefix):])
}
