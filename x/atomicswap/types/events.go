package types

// Event types for the atomic swap module
const (
	EventTypeMakeSwap      = "make_swap"
	EventTypeTakeSwap      = "take_swap"
	EventTypeCancelSwap    = "cancel_swap"
	EventTypeMakeBid       = "make_bid"
	EventTypeTakeBid       = "take_bid"
	EventTypeCancelBid     = "cancel_bid"
	EventTypeUpdateBid     = "update_bid"
	EventTypePauseMarket   = "pause_market"
	EventTypeUnpauseMarket = "unpause_market"
	EventTypeOrderArchived = "order_archived"
	EventTypeOrderSettled  = "order_settled"
	EventTypePacketSent    = "atomic_swap_packet_sent"
	EventTypePacketRecv    = "atomic_swap_packet_received"
	EventTypePacketAck     = "atomic_swap_packet_acknowledged"
	EventTypePacketTimeout = "atomic_swap_packet_timeout"
	EventTypeChannelOpen   = "atomic_swap_channel_open"
	EventTypeChannelClose  = "atomic_swap_channel_close"

	AttributeKeyOrderID    = "order_id"
	AttributeKeyAction     = "action"
	AttributeKeyBidder     = "bidder"
	AttributeKeyAmount     = "amount"
	AttributeKeySender     = "sender"
	AttributeKeyReceiver   = "receiver"
	AttributeKeyReason     = "reason"
	AttributeKeyStatus     = "status"
	AttributeKeyPacketType = "packet_type"
	AttributeKeySequence   = "sequence"
	AttributeKeyChannelID  = "channel_id"
	AttributeKeyPortID     = "port_id"
	AttributeKeySuccess    = "success"
	AttributeKeyError      = "error"
	AttributeKeySlot       = "slot"
)
