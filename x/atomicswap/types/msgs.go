package types

import (
	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MessageInfo describes who sent an action and what funds were attached to it.
type MessageInfo struct {
	Sender sdk.AccAddress
	Funds  sdk.Coins
}

// PauseMarketMsg and UnpauseMarketMsg carry no fields; the sender must be the admin.
type (
	PauseMarketMsg   struct{}
	UnpauseMarketMsg struct{}
)

// ExecuteMsg is the tagged union of every state-changing action. Exactly one
// field must be set.
type ExecuteMsg struct {
	MakeSwap      *MakeSwapMsg      `json:"make_swap,omitempty"`
	TakeSwap      *TakeSwapMsg      `json:"take_swap,omitempty"`
	CancelSwap    *CancelSwapMsg    `json:"cancel_swap,omitempty"`
	MakeBid       *MakeBidMsg       `json:"make_bid,omitempty"`
	TakeBid       *TakeBidMsg       `json:"take_bid,omitempty"`
	CancelBid     *CancelBidMsg     `json:"cancel_bid,omitempty"`
	UpdateBid     *UpdateBidMsg     `json:"update_bid,omitempty"`
	PauseMarket   *PauseMarketMsg   `json:"pause_market,omitempty"`
	UnpauseMarket *UnpauseMarketMsg `json:"unpause_market,omitempty"`
}

// Action returns the tag of the single populated variant.
func (m ExecuteMsg) Action() (string, error) {
	var actions []string
	if m.MakeSwap != nil {
		actions = append(actions, EventTypeMakeSwap)
	}
	if m.TakeSwap != nil {
		actions = append(actions, EventTypeTakeSwap)
	}
	if m.CancelSwap != nil {
		actions = append(actions, EventTypeCancelSwap)
	}
	if m.MakeBid != nil {
		actions = append(actions, EventTypeMakeBid)
	}
	if m.TakeBid != nil {
		actions = append(actions, EventTypeTakeBid)
	}
	if m.CancelBid != nil {
		actions = append(actions, EventTypeCancelBid)
	}
	if m.UpdateBid != nil {
		actions = append(actions, EventTypeUpdateBid)
	}
	if m.PauseMarket != nil {
		actions = append(actions, EventTypePauseMarket)
	}
	if m.UnpauseMarket != nil {
		actions = append(actions, EventTypeUnpauseMarket)
	}
	switch len(actions) {
	case 0:
		return "", errors.Wrap(ErrInvalidMessage, "no action set")
	case 1:
		return actions[0], nil
	default:
		return "", errors.Wrapf(ErrInvalidMessage, "multiple actions set: %v", actions)
	}
}

// ValidateBasic performs stateless validation of the populated variant.
func (m ExecuteMsg) ValidateBasic() error {
	if _, err := m.Action(); err != nil {
		return err
	}
	switch {
	case m.MakeSwap != nil:
		return m.MakeSwap.ValidateBasic()
	case m.TakeSwap != nil:
		return m.TakeSwap.ValidateBasic()
	case m.CancelSwap != nil:
		return m.CancelSwap.ValidateBasic()
	case m.MakeBid != nil:
		return m.MakeBid.ValidateBasic()
	case m.TakeBid != nil:
		return validateOrderBidder(m.TakeBid.OrderID, m.TakeBid.Bidder)
	case m.CancelBid != nil:
		return validateOrderBidder(m.CancelBid.OrderID, m.CancelBid.Bidder)
	case m.UpdateBid != nil:
		return m.UpdateBid.ValidateBasic()
	}
	return nil
}

// ValidateBasic checks the maker's terms.
func (m MakeSwapMsg) ValidateBasic() error {
	if m.SourcePort == "" || m.SourceChannel == "" {
		return errors.Wrap(ErrInvalidMessage, "source port and channel are required")
	}
	if err := validateToken(m.SellToken, "sell token"); err != nil {
		return err
	}
	if err := validateToken(m.BuyToken, "buy token"); err != nil {
		return err
	}
	if m.MakerAddress == "" || m.MakerReceivingAddress == "" {
		return errors.Wrap(ErrInvalidMakerAddress, "maker addresses are required")
	}
	if m.MinBidPrice != nil && (m.MinBidPrice.IsNil() || m.MinBidPrice.IsNegative()) {
		return errors.Wrap(ErrInvalidMessage, "min bid price must be non-negative")
	}
	return nil
}

// ValidateBasic checks the taker's terms.
func (m TakeSwapMsg) ValidateBasic() error {
	if m.OrderID == "" {
		return errors.Wrap(ErrInvalidMessage, "order id is required")
	}
	if err := validateToken(m.SellToken, "sell token"); err != nil {
		return err
	}
	if m.TakerAddress == "" || m.TakerReceivingAddress == "" {
		return errors.Wrap(ErrInvalidTakerAddress, "taker addresses are required")
	}
	return nil
}

// ValidateBasic checks the cancel request.
func (m CancelSwapMsg) ValidateBasic() error {
	if m.OrderID == "" {
		return errors.Wrap(ErrInvalidMessage, "order id is required")
	}
	if m.MakerAddress == "" {
		return errors.Wrap(ErrInvalidMakerAddress, "maker address is required")
	}
	return nil
}

// ValidateBasic checks the bid terms.
func (m MakeBidMsg) ValidateBasic() error {
	if m.OrderID == "" {
		return errors.Wrap(ErrInvalidMessage, "order id is required")
	}
	if err := validateToken(m.SellToken, "bid"); err != nil {
		return err
	}
	if m.TakerAddress == "" || m.TakerReceivingAddress == "" {
		return errors.Wrap(ErrInvalidTakerAddress, "bidder addresses are required")
	}
	return nil
}

// ValidateBasic checks the bid increase. Zero additions are rejected by the
// keeper with ErrInvalidBidAmount so the error matches the stateful check.
func (m UpdateBidMsg) ValidateBasic() error {
	if err := validateOrderBidder(m.OrderID, m.Bidder); err != nil {
		return err
	}
	if m.Addition.IsNil() || m.Addition.IsNegative() {
		return errors.Wrap(ErrInvalidBidAmount, "addition must be non-negative")
	}
	return nil
}

func validateOrderBidder(orderID, bidder string) error {
	if orderID == "" {
		return errors.Wrap(ErrInvalidMessage, "order id is required")
	}
	if bidder == "" {
		return errors.Wrap(ErrInvalidSender, "bidder is required")
	}
	return nil
}

func validateToken(coin sdk.Coin, name string) error {
	if err := sdk.ValidateDenom(coin.Denom); err != nil {
		return errors.Wrapf(ErrInvalidMessage, "%s: %s", name, err)
	}
	if coin.Amount.IsNil() || !coin.Amount.IsPositive() {
		return errors.Wrapf(ErrInvalidMessage, "%s amount must be positive", name)
	}
	return nil
}

// CoinEqual compares denom and amount.
func CoinEqual(a, b sdk.Coin) bool {
	if a.Denom != b.Denom {
		return false
	}
	if a.Amount.IsNil() || b.Amount.IsNil() {
		return a.Amount.IsNil() && b.Amount.IsNil()
	}
	return a.Amount.Equal(b.Amount)
}
