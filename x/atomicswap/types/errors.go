package types

import (
	"cosmossdk.io/errors"
)

// Atomic swap module sentinel errors
var (
	ErrFundsMismatch       = errors.Register(ModuleName, 2, "funds mismatch")
	ErrEmptyBalance        = errors.Register(ModuleName, 3, "no funds attached")
	ErrInvalidStatus       = errors.Register(ModuleName, 4, "invalid order status")
	ErrOrderTaken          = errors.Register(ModuleName, 5, "order already taken")
	ErrInvalidSellToken    = errors.Register(ModuleName, 6, "invalid sell token")
	ErrInvalidTakerAddress = errors.Register(ModuleName, 7, "invalid taker address")
	ErrInvalidSender       = errors.Register(ModuleName, 8, "invalid sender")
	ErrInvalidMakerAddress = errors.Register(ModuleName, 9, "invalid maker address")
	ErrExpired             = errors.Register(ModuleName, 10, "expired")
	ErrBidAlreadyExists    = errors.Register(ModuleName, 11, "bid already exists")
	ErrBidDoesntExist      = errors.Register(ModuleName, 12, "bid doesn't exist")
	ErrInvalidBidAmount    = errors.Register(ModuleName, 13, "invalid bid amount")
	ErrTakeBidNotAllowed   = errors.Register(ModuleName, 14, "bids are not allowed on this order")
	ErrMinBidPrice         = errors.Register(ModuleName, 15, "bid price must not be smaller than minimum bid price")
	ErrInvalidVesting      = errors.Register(ModuleName, 16, "invalid vesting schedule")
	ErrMarketPaused        = errors.Register(ModuleName, 17, "market not active")
	ErrUnauthorized        = errors.Register(ModuleName, 18, "only admin allowed")
	ErrOrderNotFound       = errors.Register(ModuleName, 19, "order not found")
	ErrChannelNotFound     = errors.Register(ModuleName, 20, "channel not found")
	ErrInvalidPath         = errors.Register(ModuleName, 21, "invalid order path")
	ErrInvalidPacket       = errors.Register(ModuleName, 22, "invalid packet")
	ErrInvalidVersion      = errors.Register(ModuleName, 23, "invalid ICS-100 version")
	ErrInvalidQuery        = errors.Register(ModuleName, 24, "invalid query")
	ErrInvalidGenesis      = errors.Register(ModuleName, 25, "invalid genesis state")
	ErrEscrow              = errors.Register(ModuleName, 26, "escrow transfer failed")
	ErrOrderExists         = errors.Register(ModuleName, 27, "order already exists")
	ErrInvalidMessage      = errors.Register(ModuleName, 28, "invalid message")
	ErrChannelCapability   = errors.Register(ModuleName, 29, "channel capability not found")
	ErrWrongSide           = errors.Register(ModuleName, 30, "action not allowed on this side of the order")
)
