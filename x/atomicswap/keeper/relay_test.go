package keeper_test

import (
	"time"

	"cosmossdk.io/math"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"

	keepertest "github.com/paw-chain/swapbook/testutil/keeper"
	"github.com/paw-chain/swapbook/x/atomicswap/types"
	vestingtypes "github.com/paw-chain/swapbook/x/vesting/types"
)

func (s *KeeperTestSuite) TestRecvMakeSwap() {
	id := s.mirrorRemote(3)

	order, err := s.keeper().GetOrder(s.ctx(), id)
	s.Require().NoError(err)
	s.Require().Equal(types.SideRemote, order.Side)
	s.Require().Equal(types.StatusSync, order.Status)
	s.Require().Zero(s.keeper().GetSwapSequence(s.ctx()), "mirrors do not consume the local sequence")

	msg := s.makeSwapMsg()
	path := types.OrderPath(keepertest.CounterpartyChannel, types.PortID, keepertest.TestChannel, types.PortID, 3)
	data, err := types.NewPacketData(types.TypeMakeSwap, msg, id, path)
	s.Require().NoError(err)
	s.Require().ErrorIs(s.keeper().OnRecvPacket(s.ctx(), s.f.Inbound(s.T(), data)), types.ErrOrderExists)
}

func (s *KeeperTestSuite) TestRecvMakeSwapWrongChannel() {
	path := types.OrderPath(keepertest.CounterpartyChannel, types.PortID, "channel-9", types.PortID, 0)
	data, err := types.NewPacketData(types.TypeMakeSwap, s.makeSwapMsg(), types.OrderID(path), path)
	s.Require().NoError(err)

	err = s.keeper().OnRecvPacket(s.ctx(), s.f.Inbound(s.T(), data))
	s.Require().ErrorIs(err, types.ErrInvalidPath)
	s.Require().Zero(s.keeper().ActiveOrderCount(s.ctx()))
}

func (s *KeeperTestSuite) TestRecvGarbage() {
	packet := channeltypes.Packet{DestinationChannel: keepertest.TestChannel, Data: []byte("not json")}
	s.Require().ErrorIs(s.keeper().OnRecvPacket(s.ctx(), packet), types.ErrInvalidPacket)
}

func (s *KeeperTestSuite) TestRecvTakeSwapSettlesNativeOrder() {
	id := s.makeNative()
	s.ackLast(true)

	take := types.TakeSwapMsg{
		OrderID:               id,
		SellToken:             coin("uosmo", 200),
		TakerAddress:          takerAddr.String(),
		TakerReceivingAddress: takerReceiver.String(),
	}
	s.Require().NoError(s.deliver(types.TypeTakeSwap, take))

	order := s.requireArchived(id, types.StatusComplete)
	s.Require().Equal(takerAddr.String(), order.Taker.TakerAddress)
	s.Require().Equal(math.NewInt(100), s.balance(takerReceiver, "uatom"))
	s.Require().True(s.escrowed("uatom").IsZero())
	s.requireInvariants()

	settled := false
	for _, ev := range s.ctx().EventManager().Events() {
		if ev.Type != types.EventTypeOrderSettled {
			continue
		}
		receiver, ok := ev.GetAttribute(types.AttributeKeyReceiver)
		s.Require().True(ok)
		if receiver.Value == takerReceiver.String() {
			settled = true
		}
	}
	s.Require().True(settled)
}

func (s *KeeperTestSuite) TestRecvTakeSwapRejectedLeavesNoWrites() {
	id := s.makeNative()
	s.ackLast(true)

	take := types.TakeSwapMsg{
		OrderID:               id,
		SellToken:             coin("uosmo", 199),
		TakerAddress:          takerAddr.String(),
		TakerReceivingAddress: takerReceiver.String(),
	}
	s.Require().ErrorIs(s.deliver(types.TypeTakeSwap, take), types.ErrInvalidSellToken)

	take.SellToken = coin("uosmo", 200)
	s.f.AdvanceTime(2 * time.Hour)
	s.Require().ErrorIs(s.deliver(types.TypeTakeSwap, take), types.ErrExpired)

	order, err := s.keeper().GetOrder(s.ctx(), id)
	s.Require().NoError(err)
	s.Require().Nil(order.Taker)
	s.Require().Equal(math.NewInt(100), s.escrowed("uatom"))
}

func (s *KeeperTestSuite) TestRecvTakeSwapStartsVesting() {
	info := vestingtypes.VestingInfo{Schedules: []vestingtypes.Schedule{
		{Interval: 60, Amount: math.NewInt(2500)},
		{Interval: 60, Amount: math.NewInt(7500)},
	}}
	id := s.makeNative(func(m *types.MakeSwapMsg) { m.Vesting = &info })

	take := types.TakeSwapMsg{
		OrderID:               id,
		SellToken:             coin("uosmo", 200),
		TakerAddress:          takerAddr.String(),
		TakerReceivingAddress: takerReceiver.String(),
	}
	s.Require().NoError(s.deliver(types.TypeTakeSwap, take))

	s.Require().True(s.balance(takerReceiver, "uatom").IsZero())
	s.Require().Equal(math.NewInt(100), s.f.Bank.ModuleBalance(vestingtypes.ModuleName, "uatom").Amount)

	details, found := s.f.Vesting.GetVesting(s.ctx(), id)
	s.Require().True(found)
	s.Require().Equal(takerReceiver.String(), details.Receiver)
	s.Require().Equal(math.NewInt(25), details.Schedules[0].Amount)
	s.Require().Equal(math.NewInt(75), details.Schedules[1].Amount)

	paid, err := s.f.Vesting.Claim(s.ctx(), id, s.f.Now()+60)
	s.Require().NoError(err)
	s.Require().Equal(math.NewInt(25), paid.Amount)
	s.Require().Equal(math.NewInt(25), s.balance(takerReceiver, "uatom"))
}

func (s *KeeperTestSuite) TestRecvCancelSwapRefundsBids() {
	id := s.mirrorRemote(0, auction)
	s.placeBid(id, bidderA, 700)

	s.Require().ErrorIs(
		s.deliver(types.TypeCancelSwap, types.CancelSwapMsg{OrderID: id, MakerAddress: takerAddr.String()}),
		types.ErrInvalidMakerAddress,
	)

	s.Require().NoError(s.deliver(types.TypeCancelSwap, types.CancelSwapMsg{OrderID: id, MakerAddress: makerAddr.String()}))
	s.requireArchived(id, types.StatusCancel)

	bid, _ := s.keeper().GetBid(s.ctx(), id, bidderA.String())
	s.Require().Equal(types.BidStatusCancelled, bid.Status)
	s.Require().Equal(math.NewInt(700), s.balance(bidderA, "uosmo"))
	s.requireInvariants()
}

func (s *KeeperTestSuite) TestRecvCancelSwapAfterLocalTake() {
	id := s.mirrorRemote(0)
	s.f.Bank.Fund(takerAddr, coin("uosmo", 200))
	take := s.takeMsg(id)
	_, err := s.execute(takerAddr, nil, types.ExecuteMsg{TakeSwap: &take})
	s.Require().ErrorIs(err, types.ErrEmptyBalance)
	_, err = s.execute(takerAddr, fundsOf(take.SellToken), types.ExecuteMsg{TakeSwap: &take})
	s.Require().NoError(err)

	err = s.deliver(types.TypeCancelSwap, types.CancelSwapMsg{OrderID: id, MakerAddress: makerAddr.String()})
	s.Require().ErrorIs(err, types.ErrOrderTaken)
}

func (s *KeeperTestSuite) TestRecvBidLifecycle() {
	id := s.makeNative(auction)
	s.ackLast(true)

	bid := types.MakeBidMsg{
		OrderID:               id,
		SellToken:             coin("uosmo", 1000),
		TakerAddress:          bidderA.String(),
		TakerReceivingAddress: bidderA.String(),
		ExpirationTimestamp:   s.f.Now() + 600,
	}
	s.Require().NoError(s.deliver(types.TypeMakeBid, bid))
	s.Require().ErrorIs(s.deliver(types.TypeMakeBid, bid), types.ErrBidAlreadyExists)

	stored, found := s.keeper().GetBid(s.ctx(), id, bidderA.String())
	s.Require().True(found)
	s.Require().Equal(types.BidStatusPlaced, stored.Status)

	s.Require().NoError(s.deliver(types.TypeUpdateBid, types.UpdateBidMsg{OrderID: id, Bidder: bidderA.String(), Addition: math.NewInt(500)}))
	s.Require().ErrorIs(
		s.deliver(types.TypeUpdateBid, types.UpdateBidMsg{OrderID: id, Bidder: bidderA.String(), Addition: math.NewInt(4000)}),
		types.ErrInvalidBidAmount,
	)
	stored, _ = s.keeper().GetBid(s.ctx(), id, bidderA.String())
	s.Require().Equal(math.NewInt(1500), stored.Bid.Amount)

	bid.TakerAddress = bidderB.String()
	bid.TakerReceivingAddress = bidderB.String()
	s.Require().NoError(s.deliver(types.TypeMakeBid, bid))
	s.Require().NoError(s.deliver(types.TypeCancelBid, types.CancelBidMsg{OrderID: id, Bidder: bidderB.String()}))
	cancelled, _ := s.keeper().GetBid(s.ctx(), id, bidderB.String())
	s.Require().Equal(types.BidStatusCancelled, cancelled.Status)

	s.Require().ErrorIs(s.deliver(types.TypeTakeBid, types.TakeBidMsg{OrderID: id, Bidder: bidderB.String()}), types.ErrBidDoesntExist)
	s.Require().NoError(s.deliver(types.TypeTakeBid, types.TakeBidMsg{OrderID: id, Bidder: bidderA.String()}))

	order := s.requireArchived(id, types.StatusComplete)
	s.Require().Equal(bidderA.String(), order.Taker.TakerAddress)
	s.Require().Equal(math.NewInt(100), s.balance(bidderA, "uatom"))

	executed, _ := s.keeper().GetBid(s.ctx(), id, bidderA.String())
	s.Require().Equal(types.BidStatusExecuted, executed.Status)
	s.Require().ErrorIs(s.deliver(types.TypeCancelBid, types.CancelBidMsg{OrderID: id, Bidder: bidderA.String()}), types.ErrOrderTaken)
	s.requireInvariants()
}

func (s *KeeperTestSuite) TestRecvBidMessagesRejectedOnRemoteOrder() {
	first := s.mirrorRemote(0, auction)
	second := s.mirrorRemote(1, auction)
	s.placeBid(first, bidderA, 300)

	forged := types.MakeBidMsg{
		OrderID:               second,
		SellToken:             coin("uosmo", 250),
		TakerAddress:          bidderC.String(),
		TakerReceivingAddress: bidderC.String(),
		ExpirationTimestamp:   s.f.Now() + 600,
	}
	s.Require().ErrorIs(s.deliver(types.TypeMakeBid, forged), types.ErrWrongSide)
	s.Require().False(s.keeper().HasBid(s.ctx(), second, bidderC.String()))

	_, err := s.execute(makerReceiver, nil, types.ExecuteMsg{TakeBid: &types.TakeBidMsg{OrderID: second, Bidder: bidderC.String()}})
	s.Require().ErrorIs(err, types.ErrBidDoesntExist)

	s.Require().ErrorIs(s.deliver(types.TypeTakeBid, types.TakeBidMsg{OrderID: first, Bidder: bidderA.String()}), types.ErrWrongSide)
	s.Require().ErrorIs(s.deliver(types.TypeUpdateBid, types.UpdateBidMsg{OrderID: first, Bidder: bidderA.String(), Addition: math.NewInt(100)}), types.ErrWrongSide)
	s.Require().ErrorIs(s.deliver(types.TypeCancelBid, types.CancelBidMsg{OrderID: first, Bidder: bidderA.String()}), types.ErrWrongSide)

	bid, _ := s.keeper().GetBid(s.ctx(), first, bidderA.String())
	s.Require().Equal(types.BidStatusPlaced, bid.Status)
	s.Require().Equal(math.NewInt(300), bid.Bid.Amount)
	s.Require().Equal(math.NewInt(300), s.escrowed("uosmo"))
	for _, id := range []string{first, second} {
		order, err := s.keeper().GetOrder(s.ctx(), id)
		s.Require().NoError(err)
		s.Require().Nil(order.Taker)
	}

	_, err = s.execute(bidderA, nil, types.ExecuteMsg{CancelBid: &types.CancelBidMsg{OrderID: first, Bidder: bidderA.String()}})
	s.Require().NoError(err)
	s.ackLast(true)
	s.Require().Equal(math.NewInt(300), s.balance(bidderA, "uosmo"))
	s.Require().True(s.escrowed("uosmo").IsZero())
	s.requireInvariants()
}

func (s *KeeperTestSuite) TestRecvCancelSwapRejectedOnNativeOrder() {
	id := s.makeNative()
	s.ackLast(true)

	err := s.deliver(types.TypeCancelSwap, types.CancelSwapMsg{OrderID: id, MakerAddress: makerAddr.String()})
	s.Require().ErrorIs(err, types.ErrWrongSide)

	order, err := s.keeper().GetOrder(s.ctx(), id)
	s.Require().NoError(err)
	s.Require().True(order.Status.IsOpen())
	s.Require().Equal(math.NewInt(100), s.escrowed("uatom"))
}
