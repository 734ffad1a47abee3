package types

import (
	"cosmossdk.io/errors"
)

// Vesting module sentinel errors
var (
	ErrInvalidSchedule   = errors.Register(ModuleName, 2, "invalid vesting schedule")
	ErrVestingExists     = errors.Register(ModuleName, 3, "vesting already exists")
	ErrVestingNotFound   = errors.Register(ModuleName, 4, "vesting not found")
	ErrInvalidReceiver   = errors.Register(ModuleName, 5, "invalid vesting receiver")
	ErrNothingToClaim    = errors.Register(ModuleName, 6, "nothing to claim")
	ErrInvalidVestingAmt = errors.Register(ModuleName, 7, "invalid vesting amount")
)
