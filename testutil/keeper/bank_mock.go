package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MockBankKeeper tracks balances of accounts and module accounts in memory.
type MockBankKeeper struct {
	balances map[string]sdk.Coins
}

// NewMockBankKeeper creates a bank with no balances.
func NewMockBankKeeper() *MockBankKeeper {
	return &MockBankKeeper{balances: make(map[string]sdk.Coins)}
}

func moduleKey(name string) string {
	return "module/" + name
}

// Fund credits coins to an account.
func (m *MockBankKeeper) Fund(addr sdk.AccAddress, coins ...sdk.Coin) {
	m.balances[addr.String()] = m.balances[addr.String()].Add(coins...)
}

// Balance returns an account's balance of denom.
func (m *MockBankKeeper) Balance(addr sdk.AccAddress, denom string) sdk.Coin {
	return sdk.NewCoin(denom, m.balances[addr.String()].AmountOf(denom))
}

// ModuleBalance returns a module account's balance of denom.
func (m *MockBankKeeper) ModuleBalance(module, denom string) sdk.Coin {
	return sdk.NewCoin(denom, m.balances[moduleKey(module)].AmountOf(denom))
}

func (m *MockBankKeeper) move(from, to string, amt sdk.Coins) error {
	balance, hasNeg := m.balances[from].SafeSub(amt...)
	if hasNeg {
		return fmt.Errorf("insufficient funds: %s has %s, needs %s", from, m.balances[from], amt)
	}
	m.balances[from] = balance
	m.balances[to] = m.balances[to].Add(amt...)
	return nil
}

func (m *MockBankKeeper) SendCoinsFromAccountToModule(_ context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	return m.move(senderAddr.String(), moduleKey(recipientModule), amt)
}

func (m *MockBankKeeper) SendCoinsFromModuleToAccount(_ context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	return m.move(moduleKey(senderModule), recipientAddr.String(), amt)
}

func (m *MockBankKeeper) SendCoinsFromModuleToModule(_ context.Context, senderModule, recipientModule string, amt sdk.Coins) error {
	return m.move(moduleKey(senderModule), moduleKey(recipientModule), amt)
}

// FundModule credits coins to a module account.
func (m *MockBankKeeper) FundModule(module string, coins ...sdk.Coin) {
	m.balances[moduleKey(module)] = m.balances[moduleKey(module)].Add(coins...)
}
