package types

const (
	// ModuleName defines the module name
	ModuleName = "atomicswap"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// QuerierRoute defines the module's query routing key
	QuerierRoute = ModuleName

	// PortID is the default port the module binds to
	PortID = "swap"

	// Version is the ICS-100 application version negotiated on channel open
	Version = "ics100-1"
)

// Store key prefixes
var (
	OrderKeyPrefix        = []byte{0x01} // active slot -> order
	OrderIndexKeyPrefix   = []byte{0x02} // order id -> active slot
	OrderCountKey         = []byte{0x03} // active slot counter
	SwapSequenceKey       = []byte{0x04} // path sequence counter
	ArchiveKeyPrefix      = []byte{0x05} // archive slot -> order
	ArchiveCountKey       = []byte{0x06} // archive slot counter
	ArchiveIndexKeyPrefix = []byte{0x07} // order id -> archive slot

	BidKeyPrefix       = []byte{0x10} // (order, bidder) -> bid
	BidPriceKeyPrefix  = []byte{0x11} // (order, amount, bidder)
	BidTimeKeyPrefix   = []byte{0x12} // (order, receive timestamp, bidder)
	BidBidderKeyPrefix = []byte{0x13} // (bidder, order)

	ConfigKey        = []byte{0x20}
	ParamsKey        = []byte{0x21}
	ChannelKeyPrefix = []byte{0x22} // local channel id -> ChannelInfo
	PortKey          = []byte{0x23}
)
