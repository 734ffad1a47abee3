package keeper_test

import (
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	keepertest "github.com/paw-chain/swapbook/testutil/keeper"
	"github.com/paw-chain/swapbook/x/atomicswap/types"
	vestingtypes "github.com/paw-chain/swapbook/x/vesting/types"
)

func (s *KeeperTestSuite) TestMakeSwap() {
	id := s.makeNative()

	order, err := s.keeper().GetOrder(s.ctx(), id)
	s.Require().NoError(err)
	s.Require().Equal(types.SideNative, order.Side)
	s.Require().Equal(types.StatusInitial, order.Status)
	s.Require().Equal(types.OrderPath(keepertest.TestChannel, types.PortID, keepertest.CounterpartyChannel, types.PortID, 0), order.Path)
	s.Require().Equal(types.OrderID(order.Path), id)
	s.Require().Equal(s.f.Now(), order.CreateTimestamp)

	s.Require().True(s.balance(makerAddr, "uatom").IsZero())
	s.Require().Equal(math.NewInt(100), s.escrowed("uatom"))
	s.Require().Equal(uint64(1), s.keeper().GetSwapSequence(s.ctx()))
	s.Require().Equal(uint64(1), s.keeper().ActiveOrderCount(s.ctx()))

	packet, data := s.f.LastSent(s.T())
	s.Require().Equal(keepertest.TestChannel, packet.SourceChannel)
	s.Require().Equal(types.TypeMakeSwap, data.Type)
	s.Require().Equal(id, data.OrderID)
	s.Require().Equal(order.Path, data.Path)
	s.Require().Equal(uint64(s.ctx().BlockTime().Add(600*time.Second).UnixNano()), packet.TimeoutTimestamp)

	second := s.makeNative()
	s.Require().NotEqual(id, second)
	s.Require().Equal(uint64(2), s.keeper().GetSwapSequence(s.ctx()))
	s.requireInvariants()
}

func (s *KeeperTestSuite) TestMakeSwapRejected() {
	tests := []struct {
		name  string
		funds sdk.Coins
		mut   func(*types.MakeSwapMsg)
		err   error
	}{
		{"no funds", nil, nil, types.ErrEmptyBalance},
		{"wrong amount", sdk.NewCoins(coin("uatom", 99)), nil, types.ErrFundsMismatch},
		{"sender is not maker", sdk.NewCoins(coin("uatom", 100)), func(m *types.MakeSwapMsg) {
			m.MakerAddress = takerAddr.String()
		}, types.ErrInvalidSender},
		{"unknown channel", sdk.NewCoins(coin("uatom", 100)), func(m *types.MakeSwapMsg) {
			m.SourceChannel = "channel-42"
		}, types.ErrChannelNotFound},
		{"bad vesting", sdk.NewCoins(coin("uatom", 100)), func(m *types.MakeSwapMsg) {
			m.Vesting = &vestingtypes.VestingInfo{Schedules: []vestingtypes.Schedule{{Interval: 60, Amount: math.NewInt(5000)}}}
		}, types.ErrInvalidVesting},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.f.Bank.Fund(makerAddr, coin("uatom", 1000))
			msg := s.makeSwapMsg()
			if tc.mut != nil {
				tc.mut(&msg)
			}
			_, err := s.execute(makerAddr, tc.funds, types.ExecuteMsg{MakeSwap: &msg})
			s.Require().ErrorIs(err, tc.err)

			s.Require().Zero(s.keeper().ActiveOrderCount(s.ctx()))
			s.Require().Zero(s.keeper().GetSwapSequence(s.ctx()))
			s.Require().Empty(s.f.ICS4.Sent)
			s.Require().True(s.escrowed("uatom").IsZero())
		})
	}
}

func (s *KeeperTestSuite) TestMakeSwapInsufficientBalanceLeavesNoOrder() {
	msg := s.makeSwapMsg()
	_, err := s.execute(makerAddr, sdk.NewCoins(msg.SellToken), types.ExecuteMsg{MakeSwap: &msg})
	s.Require().ErrorIs(err, types.ErrEscrow)
	s.Require().Zero(s.keeper().ActiveOrderCount(s.ctx()))
	s.Require().Zero(s.keeper().GetSwapSequence(s.ctx()))
}

func (s *KeeperTestSuite) TestMakeSwapAckAndTimeout() {
	s.Run("ack moves to sync", func() {
		s.SetupTest()
		id := s.makeNative()
		s.ackLast(true)
		order, err := s.keeper().GetOrder(s.ctx(), id)
		s.Require().NoError(err)
		s.Require().Equal(types.StatusSync, order.Status)
	})

	s.Run("timeout refunds and archives", func() {
		s.SetupTest()
		id := s.makeNative()
		s.timeoutLast()
		s.requireArchived(id, types.StatusFailed)
		s.Require().Equal(math.NewInt(100), s.balance(makerAddr, "uatom"))
		s.Require().True(s.escrowed("uatom").IsZero())
		s.requireInvariants()
	})

	s.Run("error ack refunds and archives", func() {
		s.SetupTest()
		id := s.makeNative()
		s.ackLast(false)
		s.requireArchived(id, types.StatusFailed)
		s.Require().Equal(math.NewInt(100), s.balance(makerAddr, "uatom"))
	})
}

func (s *KeeperTestSuite) takeMsg(id string) types.TakeSwapMsg {
	return types.TakeSwapMsg{
		OrderID:               id,
		SellToken:             coin("uosmo", 200),
		TakerAddress:          takerAddr.String(),
		TakerReceivingAddress: takerReceiver.String(),
	}
}

func (s *KeeperTestSuite) TestTakeSwapRoundTrip() {
	id := s.mirrorRemote(0)
	s.f.Bank.Fund(takerAddr, coin("uosmo", 200))

	take := s.takeMsg(id)
	_, err := s.execute(takerAddr, sdk.NewCoins(take.SellToken), types.ExecuteMsg{TakeSwap: &take})
	s.Require().NoError(err)

	order, err := s.keeper().GetOrder(s.ctx(), id)
	s.Require().NoError(err)
	s.Require().NotNil(order.Taker)
	s.Require().Equal(types.StatusSync, order.Status)
	s.Require().Equal(math.NewInt(200), s.escrowed("uosmo"))

	packet, data := s.f.LastSent(s.T())
	s.Require().Equal(keepertest.TestChannel, packet.SourceChannel)
	s.Require().Equal(types.TypeTakeSwap, data.Type)

	_, err = s.execute(takerAddr, sdk.NewCoins(take.SellToken), types.ExecuteMsg{TakeSwap: &take})
	s.Require().ErrorIs(err, types.ErrOrderTaken)

	s.ackLast(true)
	done := s.requireArchived(id, types.StatusComplete)
	s.Require().NotNil(done.CompleteTimestamp)
	s.Require().Equal(math.NewInt(200), s.balance(makerReceiver, "uosmo"))
	s.Require().True(s.escrowed("uosmo").IsZero())
	s.requireInvariants()
}

func (s *KeeperTestSuite) TestTakeSwapRefundClearsTaker() {
	id := s.mirrorRemote(0)
	s.f.Bank.Fund(takerAddr, coin("uosmo", 200))
	take := s.takeMsg(id)
	_, err := s.execute(takerAddr, sdk.NewCoins(take.SellToken), types.ExecuteMsg{TakeSwap: &take})
	s.Require().NoError(err)

	s.timeoutLast()

	order, err := s.keeper().GetOrder(s.ctx(), id)
	s.Require().NoError(err)
	s.Require().Nil(order.Taker)
	s.Require().Equal(math.NewInt(200), s.balance(takerAddr, "uosmo"))

	// the order can be taken again
	_, err = s.execute(takerAddr, sdk.NewCoins(take.SellToken), types.ExecuteMsg{TakeSwap: &take})
	s.Require().NoError(err)
}

func (s *KeeperTestSuite) TestTakeSwapRejected() {
	s.Run("wrong token", func() {
		s.SetupTest()
		id := s.mirrorRemote(0)
		s.f.Bank.Fund(takerAddr, coin("uosmo", 150))
		take := s.takeMsg(id)
		take.SellToken = coin("uosmo", 150)
		_, err := s.execute(takerAddr, sdk.NewCoins(take.SellToken), types.ExecuteMsg{TakeSwap: &take})
		s.Require().ErrorIs(err, types.ErrInvalidSellToken)
	})

	s.Run("reserved for another taker", func() {
		s.SetupTest()
		id := s.mirrorRemote(0, func(m *types.MakeSwapMsg) { m.DesiredTaker = "someone-else" })
		s.f.Bank.Fund(takerAddr, coin("uosmo", 200))
		take := s.takeMsg(id)
		_, err := s.execute(takerAddr, sdk.NewCoins(take.SellToken), types.ExecuteMsg{TakeSwap: &take})
		s.Require().ErrorIs(err, types.ErrInvalidTakerAddress)
	})

	s.Run("sender is not taker", func() {
		s.SetupTest()
		id := s.mirrorRemote(0)
		s.f.Bank.Fund(makerAddr, coin("uosmo", 200))
		take := s.takeMsg(id)
		_, err := s.execute(makerAddr, sdk.NewCoins(take.SellToken), types.ExecuteMsg{TakeSwap: &take})
		s.Require().ErrorIs(err, types.ErrInvalidSender)
	})

	s.Run("unknown order", func() {
		s.SetupTest()
		take := s.takeMsg("missing")
		_, err := s.execute(takerAddr, sdk.NewCoins(take.SellToken), types.ExecuteMsg{TakeSwap: &take})
		s.Require().ErrorIs(err, types.ErrOrderNotFound)
	})
}

func (s *KeeperTestSuite) TestTakeSwapExpiredArchivesOrder() {
	id := s.mirrorRemote(0)
	s.f.AdvanceTime(2 * time.Hour)
	s.f.Bank.Fund(takerAddr, coin("uosmo", 200))

	take := s.takeMsg(id)
	_, err := s.execute(takerAddr, sdk.NewCoins(take.SellToken), types.ExecuteMsg{TakeSwap: &take})
	s.Require().ErrorIs(err, types.ErrExpired)

	// the move to the archive survives the failed call, nothing else does
	s.requireArchived(id, types.StatusSync)
	s.Require().Equal(math.NewInt(200), s.balance(takerAddr, "uosmo"))
	s.Require().Len(s.f.ICS4.Sent, 0)
	s.requireInvariants()
}

func (s *KeeperTestSuite) TestCancelSwap() {
	id := s.makeNative()
	s.ackLast(true)

	cancel := types.CancelSwapMsg{OrderID: id, MakerAddress: makerAddr.String()}
	_, err := s.execute(takerAddr, nil, types.ExecuteMsg{CancelSwap: &cancel})
	s.Require().ErrorIs(err, types.ErrInvalidSender)

	_, err = s.execute(makerAddr, nil, types.ExecuteMsg{CancelSwap: &cancel})
	s.Require().NoError(err)

	order, err := s.keeper().GetOrder(s.ctx(), id)
	s.Require().NoError(err)
	s.Require().Equal(types.StatusSync, order.Status, "status waits for the acknowledgement")

	_, data := s.f.LastSent(s.T())
	s.Require().Equal(types.TypeCancelSwap, data.Type)

	s.ackLast(true)
	cancelled := s.requireArchived(id, types.StatusCancel)
	s.Require().NotNil(cancelled.CancelTimestamp)
	s.Require().Equal(math.NewInt(100), s.balance(makerAddr, "uatom"))
	s.requireInvariants()
}

func (s *KeeperTestSuite) TestCancelSwapRejectedByCounterparty() {
	id := s.makeNative()
	cancel := types.CancelSwapMsg{OrderID: id, MakerAddress: makerAddr.String()}
	_, err := s.execute(makerAddr, nil, types.ExecuteMsg{CancelSwap: &cancel})
	s.Require().NoError(err)

	s.ackLast(false)

	order, err := s.keeper().GetOrder(s.ctx(), id)
	s.Require().NoError(err)
	s.Require().True(order.Status.IsOpen())
	s.Require().Equal(math.NewInt(100), s.escrowed("uatom"))
}

func (s *KeeperTestSuite) TestTakerFeeGoesToTreasury() {
	params := s.keeper().GetParams(s.ctx())
	params.MakerFeeBps = 100
	params.Treasury = treasuryAddr.String()
	s.Require().NoError(s.keeper().SetParams(s.ctx(), params))

	id := s.mirrorRemote(0)
	s.f.Bank.Fund(takerAddr, coin("uosmo", 200))
	take := s.takeMsg(id)
	_, err := s.execute(takerAddr, sdk.NewCoins(take.SellToken), types.ExecuteMsg{TakeSwap: &take})
	s.Require().NoError(err)
	s.ackLast(true)

	s.Require().Equal(math.NewInt(2), s.balance(treasuryAddr, "uosmo"))
	s.Require().Equal(math.NewInt(198), s.balance(makerReceiver, "uosmo"))
}
