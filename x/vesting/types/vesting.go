package types

import (
	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Schedule is one vesting tranche. Interval is measured in seconds from the
// end of the previous tranche. Amount is in basis points when attached to a
// swap order and in base units once a vesting entry has been started.
type Schedule struct {
	Interval uint64   `json:"interval"`
	Amount   math.Int `json:"amount"`
}

// VestingInfo is the vesting request a maker attaches to an order.
type VestingInfo struct {
	Schedules []Schedule `json:"schedules"`
}

// Validate checks that the tranches add up to TotalBasisPoints.
func (v VestingInfo) Validate() error {
	if len(v.Schedules) == 0 {
		return errors.Wrap(ErrInvalidSchedule, "no schedules")
	}
	total := math.ZeroInt()
	for _, s := range v.Schedules {
		if s.Amount.IsNil() || s.Amount.IsNegative() {
			return errors.Wrap(ErrInvalidSchedule, "schedule amount must be non-negative")
		}
		total = total.Add(s.Amount)
	}
	if !total.Equal(math.NewInt(TotalBasisPoints)) {
		return errors.Wrapf(ErrInvalidSchedule, "total amount of tokens is %s, expected %d", total, TotalBasisPoints)
	}
	return nil
}

// VestingDetails is a started vesting entry.
type VestingDetails struct {
	OrderID       string     `json:"order_id"`
	StartTime     uint64     `json:"start_time"`
	Schedules     []Schedule `json:"schedules"`
	Receiver      string     `json:"receiver"`
	Token         sdk.Coin   `json:"token"`
	AmountClaimed math.Int   `json:"amount_claimed"`
}

// Released returns the total amount unlocked at now, claimed or not.
func (d VestingDetails) Released(now uint64) math.Int {
	released := math.ZeroInt()
	if now < d.StartTime {
		return released
	}
	cliff := d.StartTime
	for _, s := range d.Schedules {
		cliff += s.Interval
		if cliff > now {
			break
		}
		released = released.Add(s.Amount)
	}
	return released
}

// Claimable returns the amount unlocked at now that has not been claimed yet.
func (d VestingDetails) Claimable(now uint64) math.Int {
	claimable := d.Released(now).Sub(d.AmountClaimed)
	if claimable.IsNegative() {
		return math.ZeroInt()
	}
	return claimable
}

// ScaleSchedules converts basis point tranches into base-unit tranches of
// total. Rounding dust goes to the last tranche so the sum is exact.
func ScaleSchedules(bps []Schedule, total math.Int) []Schedule {
	out := make([]Schedule, len(bps))
	assigned := math.ZeroInt()
	for i, s := range bps {
		amt := total.Mul(s.Amount).QuoRaw(TotalBasisPoints)
		if i == len(bps)-1 {
			amt = total.Sub(assigned)
		}
		assigned = assigned.Add(amt)
		out[i] = Schedule{Interval: s.Interval, Amount: amt}
	}
	return out
}
