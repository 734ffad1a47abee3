package keeper_test

import (
	keepertest "github.com/paw-chain/swapbook/testutil/keeper"
	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

func (s *KeeperTestSuite) TestChannelRegistry() {
	other := types.ChannelInfo{
		ID:           "channel-3",
		Counterparty: types.Endpoint{PortID: types.PortID, ChannelID: "channel-11"},
		ConnectionID: "connection-2",
	}
	s.Require().NoError(s.keeper().SetChannelInfo(s.ctx(), other))

	all := s.keeper().GetAllChannelInfo(s.ctx())
	s.Require().Len(all, 2)

	got, err := s.keeper().GetChannelInfo(s.ctx(), "channel-3")
	s.Require().NoError(err)
	s.Require().Equal(other, got)

	s.keeper().DeleteChannelInfo(s.ctx(), "channel-3")
	_, err = s.keeper().GetChannelInfo(s.ctx(), "channel-3")
	s.Require().ErrorIs(err, types.ErrChannelNotFound)
}

func (s *KeeperTestSuite) TestCountOpenOrdersOnChannel() {
	s.makeNative()
	s.mirrorRemote(0)
	s.mirrorRemote(1)
	s.Require().Equal(3, s.keeper().CountOpenOrdersOnChannel(s.ctx(), keepertest.TestChannel))
	s.Require().Zero(s.keeper().CountOpenOrdersOnChannel(s.ctx(), keepertest.CounterpartyChannel))
}

func (s *KeeperTestSuite) TestExecuteRequiresOneAction() {
	_, err := s.execute(makerAddr, nil, types.ExecuteMsg{})
	s.Require().ErrorIs(err, types.ErrInvalidMessage)

	msg := s.makeSwapMsg()
	_, err = s.execute(makerAddr, nil, types.ExecuteMsg{MakeSwap: &msg, PauseMarket: &types.PauseMarketMsg{}})
	s.Require().ErrorIs(err, types.ErrInvalidMessage)
}

func (s *KeeperTestSuite) TestSendFailsWithoutChannelCapability() {
	s.f.Scoped.CloseChannel(types.PortID, keepertest.TestChannel)
	msg := s.makeSwapMsg()
	s.f.Bank.Fund(makerAddr, msg.SellToken)
	_, err := s.execute(makerAddr, fundsOf(msg.SellToken), types.ExecuteMsg{MakeSwap: &msg})
	s.Require().ErrorIs(err, types.ErrChannelCapability)
	s.Require().Zero(s.keeper().ActiveOrderCount(s.ctx()))
}
