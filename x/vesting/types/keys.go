package types

const (
	// ModuleName defines the module name. It is distinct from the SDK's auth
	// vesting accounts; this module only holds swap proceeds released on a schedule.
	ModuleName = "swapvesting"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// TotalBasisPoints is the sum every swap vesting schedule must add up to.
	TotalBasisPoints = 10000
)

// Store key prefixes
var (
	VestingKeyPrefix = []byte{0x01} // order id -> VestingDetails
)

// GetVestingKey returns the store key for the vesting entry created for an order.
func GetVestingKey(orderID string) []byte {
	return append(append([]byte{}, VestingKeyPrefix...), []byte(orderID)...)
}
