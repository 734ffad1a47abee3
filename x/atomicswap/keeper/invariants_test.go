package keeper_test

import (
	"github.com/paw-chain/swapbook/x/atomicswap/keeper"
)

func (s *KeeperTestSuite) TestOrderIndexInvariant() {
	id := s.makeNative()
	msg, broken := keeper.OrderIndexInvariant(*s.keeper())(s.ctx())
	s.Require().False(broken, msg)

	keeper.DeleteOrderIndexForTest(s.keeper(), s.ctx(), id)
	msg, broken = keeper.OrderIndexInvariant(*s.keeper())(s.ctx())
	s.Require().True(broken)
	s.Require().Contains(msg, "order-index")
}

func (s *KeeperTestSuite) TestArchiveDisjointInvariant() {
	id := s.mirrorRemote(0)
	order, err := s.keeper().GetOrder(s.ctx(), id)
	s.Require().NoError(err)
	_, err = keeper.ArchiveOrderForTest(s.keeper(), s.ctx(), id)
	s.Require().NoError(err)

	msg, broken := keeper.ArchiveDisjointInvariant(*s.keeper())(s.ctx())
	s.Require().False(broken, msg)

	_, err = keeper.AppendOrderForTest(s.keeper(), s.ctx(), order)
	s.Require().NoError(err)
	_, broken = keeper.ArchiveDisjointInvariant(*s.keeper())(s.ctx())
	s.Require().True(broken)
}

func (s *KeeperTestSuite) TestBidViewsInvariant() {
	id := s.mirrorRemote(0, auction)
	s.placeBid(id, bidderA, 100)
	s.placeBid(id, bidderB, 200)

	price, timed := keeper.CountBidViewForTest(s.keeper(), s.ctx(), id)
	s.Require().Equal(2, price)
	s.Require().Equal(2, timed)
	s.requireInvariants()

	bid, _ := s.keeper().GetBid(s.ctx(), id, bidderA.String())
	keeper.DeleteBidPriceViewForTest(s.keeper(), s.ctx(), bid)
	msg, broken := keeper.BidViewsInvariant(*s.keeper())(s.ctx())
	s.Require().True(broken)
	s.Require().Contains(msg, "missing from price view")
}

func (s *KeeperTestSuite) TestDeleteBidRemovesViews() {
	id := s.mirrorRemote(0, auction)
	s.placeBid(id, bidderA, 100)

	s.keeper().DeleteBid(s.ctx(), id, bidderA.String())
	s.Require().False(s.keeper().HasBid(s.ctx(), id, bidderA.String()))
	price, timed := keeper.CountBidViewForTest(s.keeper(), s.ctx(), id)
	s.Require().Zero(price)
	s.Require().Zero(timed)
	s.requireInvariants()
}
