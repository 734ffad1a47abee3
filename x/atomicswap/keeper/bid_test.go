package keeper_test

import (
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	keepertest "github.com/paw-chain/swapbook/testutil/keeper"
	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

var (
	bidderA = keepertest.TestAddr("bidder-a")
	bidderB = keepertest.TestAddr("bidder-b")
	bidderC = keepertest.TestAddr("bidder-c")
)

func auction(m *types.MakeSwapMsg) {
	m.TakeBids = true
	m.BuyToken = coin("uosmo", 5000)
}

// placeBid funds bidder, places a bid of amount uosmo and acknowledges it.
func (s *KeeperTestSuite) placeBid(id string, bidder sdk.AccAddress, amount int64) {
	s.Require().NoError(s.tryBid(id, bidder, amount))
	s.ackLast(true)
}

func (s *KeeperTestSuite) tryBid(id string, bidder sdk.AccAddress, amount int64) error {
	msg := types.MakeBidMsg{
		OrderID:               id,
		SellToken:             coin("uosmo", amount),
		TakerAddress:          bidder.String(),
		TakerReceivingAddress: bidder.String(),
		ExpirationTimestamp:   s.f.Now() + 600,
	}
	s.f.Bank.Fund(bidder, msg.SellToken)
	_, err := s.execute(bidder, sdk.NewCoins(msg.SellToken), types.ExecuteMsg{MakeBid: &msg})
	return err
}

func (s *KeeperTestSuite) TestMakeBid() {
	id := s.mirrorRemote(0, auction)

	s.Require().NoError(s.tryBid(id, bidderA, 300))
	bid, found := s.keeper().GetBid(s.ctx(), id, bidderA.String())
	s.Require().True(found)
	s.Require().Equal(types.BidStatusInitial, bid.Status)
	s.Require().Equal(s.f.Now(), bid.ReceiveTimestamp)
	s.Require().Equal(math.NewInt(300), s.escrowed("uosmo"))

	_, data := s.f.LastSent(s.T())
	s.Require().Equal(types.TypeMakeBid, data.Type)

	s.Require().ErrorIs(s.tryBid(id, bidderA, 400), types.ErrBidAlreadyExists)

	s.ackLast(true)
	bid, _ = s.keeper().GetBid(s.ctx(), id, bidderA.String())
	s.Require().Equal(types.BidStatusPlaced, bid.Status)
	s.requireInvariants()
}

func (s *KeeperTestSuite) TestMakeBidRejected() {
	s.Run("bids not allowed", func() {
		s.SetupTest()
		id := s.mirrorRemote(0)
		s.Require().ErrorIs(s.tryBid(id, bidderA, 100), types.ErrTakeBidNotAllowed)
	})

	s.Run("below minimum price", func() {
		s.SetupTest()
		min := math.NewInt(500)
		id := s.mirrorRemote(0, auction, func(m *types.MakeSwapMsg) { m.MinBidPrice = &min })
		s.Require().ErrorIs(s.tryBid(id, bidderA, 499), types.ErrMinBidPrice)
		s.Require().NoError(s.tryBid(id, bidderB, 500))
	})

	s.Run("wrong denom", func() {
		s.SetupTest()
		id := s.mirrorRemote(0, auction)
		msg := types.MakeBidMsg{
			OrderID:               id,
			SellToken:             coin("uatom", 10),
			TakerAddress:          bidderA.String(),
			TakerReceivingAddress: bidderA.String(),
		}
		s.f.Bank.Fund(bidderA, msg.SellToken)
		_, err := s.execute(bidderA, sdk.NewCoins(msg.SellToken), types.ExecuteMsg{MakeBid: &msg})
		s.Require().ErrorIs(err, types.ErrInvalidSellToken)
	})

	s.Run("failed bid is refunded and can be replaced", func() {
		s.SetupTest()
		id := s.mirrorRemote(0, auction)
		s.Require().NoError(s.tryBid(id, bidderA, 100))
		s.timeoutLast()

		bid, _ := s.keeper().GetBid(s.ctx(), id, bidderA.String())
		s.Require().Equal(types.BidStatusFailed, bid.Status)
		s.Require().Equal(math.NewInt(100), s.balance(bidderA, "uosmo"))

		s.Require().NoError(s.tryBid(id, bidderA, 150))
		s.requireInvariants()
	})
}

func (s *KeeperTestSuite) TestUpdateBid() {
	id := s.mirrorRemote(0, auction)
	s.placeBid(id, bidderA, 1000)

	update := types.UpdateBidMsg{OrderID: id, Bidder: bidderA.String(), Addition: math.NewInt(250)}
	s.f.Bank.Fund(bidderA, coin("uosmo", 250))
	_, err := s.execute(bidderA, sdk.NewCoins(coin("uosmo", 250)), types.ExecuteMsg{UpdateBid: &update})
	s.Require().NoError(err)

	bid, _ := s.keeper().GetBid(s.ctx(), id, bidderA.String())
	s.Require().Equal(math.NewInt(1250), bid.Bid.Amount)
	s.Require().Equal(math.NewInt(1250), s.escrowed("uosmo"))
	s.requireInvariants()

	s.timeoutLast()
	bid, _ = s.keeper().GetBid(s.ctx(), id, bidderA.String())
	s.Require().Equal(math.NewInt(1000), bid.Bid.Amount)
	s.Require().Equal(math.NewInt(250), s.balance(bidderA, "uosmo"))
	s.requireInvariants()
}

func (s *KeeperTestSuite) TestUpdateBidRejected() {
	id := s.mirrorRemote(0, auction)
	s.placeBid(id, bidderA, 4900)
	s.f.Bank.Fund(bidderA, coin("uosmo", 1000))

	update := func(amount int64) error {
		msg := types.UpdateBidMsg{OrderID: id, Bidder: bidderA.String(), Addition: math.NewInt(amount)}
		_, err := s.execute(bidderA, sdk.NewCoins(coin("uosmo", amount)), types.ExecuteMsg{UpdateBid: &msg})
		return err
	}

	s.Require().ErrorIs(update(101), types.ErrInvalidBidAmount)
	s.Require().NoError(update(100))

	zero := types.UpdateBidMsg{OrderID: id, Bidder: bidderA.String(), Addition: math.ZeroInt()}
	_, err := s.execute(bidderA, sdk.NewCoins(coin("uosmo", 1)), types.ExecuteMsg{UpdateBid: &zero})
	s.Require().Error(err)

	s.f.AdvanceTime(time.Hour)
	s.Require().ErrorIs(update(1), types.ErrExpired)
}

func (s *KeeperTestSuite) TestPauseOnlyBlocksUpdateBid() {
	s.setAdmin()
	id := s.mirrorRemote(0, auction)
	s.placeBid(id, bidderA, 100)

	_, err := s.execute(takerAddr, nil, types.ExecuteMsg{PauseMarket: &types.PauseMarketMsg{}})
	s.Require().ErrorIs(err, types.ErrUnauthorized)
	_, err = s.execute(adminAddr, nil, types.ExecuteMsg{PauseMarket: &types.PauseMarketMsg{}})
	s.Require().NoError(err)
	s.Require().False(s.keeper().IsMarketActive(s.ctx()))

	update := types.UpdateBidMsg{OrderID: id, Bidder: bidderA.String(), Addition: math.NewInt(10)}
	s.f.Bank.Fund(bidderA, coin("uosmo", 10))
	_, err = s.execute(bidderA, sdk.NewCoins(coin("uosmo", 10)), types.ExecuteMsg{UpdateBid: &update})
	s.Require().ErrorIs(err, types.ErrMarketPaused)

	// every other action keeps working
	s.Require().NoError(s.tryBid(id, bidderB, 200))
	cancel := types.CancelBidMsg{OrderID: id, Bidder: bidderA.String()}
	_, err = s.execute(bidderA, nil, types.ExecuteMsg{CancelBid: &cancel})
	s.Require().NoError(err)

	_, err = s.execute(adminAddr, nil, types.ExecuteMsg{UnpauseMarket: &types.UnpauseMarketMsg{}})
	s.Require().NoError(err)
	s.Require().True(s.keeper().IsMarketActive(s.ctx()))
}

func (s *KeeperTestSuite) TestTakeBidRoundTrip() {
	id := s.mirrorRemote(0, auction)
	s.placeBid(id, bidderA, 1000)
	s.placeBid(id, bidderB, 2000)
	s.placeBid(id, bidderC, 1500)

	take := types.TakeBidMsg{OrderID: id, Bidder: bidderB.String()}
	_, err := s.execute(makerAddr, nil, types.ExecuteMsg{TakeBid: &take})
	s.Require().ErrorIs(err, types.ErrInvalidSender)

	_, err = s.execute(makerReceiver, nil, types.ExecuteMsg{TakeBid: &take})
	s.Require().NoError(err)
	_, data := s.f.LastSent(s.T())
	s.Require().Equal(types.TypeTakeBid, data.Type)

	s.ackLast(true)

	order := s.requireArchived(id, types.StatusComplete)
	s.Require().NotNil(order.Taker)
	s.Require().Equal(bidderB.String(), order.Taker.TakerAddress)
	s.Require().Equal(math.NewInt(2000), s.balance(makerReceiver, "uosmo"))

	winner, _ := s.keeper().GetBid(s.ctx(), id, bidderB.String())
	s.Require().Equal(types.BidStatusExecuted, winner.Status)
	for _, loser := range []sdk.AccAddress{bidderA, bidderC} {
		bid, _ := s.keeper().GetBid(s.ctx(), id, loser.String())
		s.Require().Equal(types.BidStatusCancelled, bid.Status)
		s.Require().Equal(bid.Bid.Amount, s.balance(loser, "uosmo"))
	}
	s.Require().True(s.escrowed("uosmo").IsZero())
	s.requireInvariants()
}

func (s *KeeperTestSuite) TestTakeBidRejected() {
	id := s.mirrorRemote(0, auction)
	s.Require().NoError(s.tryBid(id, bidderA, 1000))

	take := types.TakeBidMsg{OrderID: id, Bidder: bidderA.String()}
	_, err := s.execute(makerReceiver, nil, types.ExecuteMsg{TakeBid: &take})
	s.Require().ErrorIs(err, types.ErrBidDoesntExist, "bid is not placed until acknowledged")

	s.ackLast(true)
	s.f.AdvanceTime(time.Hour)
	_, err = s.execute(makerReceiver, nil, types.ExecuteMsg{TakeBid: &take})
	s.Require().ErrorIs(err, types.ErrExpired)
}

func (s *KeeperTestSuite) TestCancelBid() {
	id := s.mirrorRemote(0, auction)
	s.placeBid(id, bidderA, 1000)

	cancel := types.CancelBidMsg{OrderID: id, Bidder: bidderA.String()}
	_, err := s.execute(bidderB, nil, types.ExecuteMsg{CancelBid: &cancel})
	s.Require().ErrorIs(err, types.ErrInvalidSender)

	_, err = s.execute(bidderA, nil, types.ExecuteMsg{CancelBid: &cancel})
	s.Require().NoError(err)
	s.ackLast(true)

	bid, _ := s.keeper().GetBid(s.ctx(), id, bidderA.String())
	s.Require().Equal(types.BidStatusCancelled, bid.Status)
	s.Require().Equal(math.NewInt(1000), s.balance(bidderA, "uosmo"))

	// a cancelled bid may be replaced
	s.placeBid(id, bidderA, 1200)
	bid, _ = s.keeper().GetBid(s.ctx(), id, bidderA.String())
	s.Require().Equal(types.BidStatusPlaced, bid.Status)
	s.Require().Equal(math.NewInt(1200), bid.Bid.Amount)
	s.requireInvariants()
}

func (s *KeeperTestSuite) TestCancelBidUnknown() {
	id := s.mirrorRemote(0, auction)
	cancel := types.CancelBidMsg{OrderID: id, Bidder: bidderA.String()}
	_, err := s.execute(bidderA, nil, types.ExecuteMsg{CancelBid: &cancel})
	s.Require().ErrorIs(err, types.ErrBidDoesntExist)
}

func (s *KeeperTestSuite) TestBidActionsRejectedOnNativeOrder() {
	id := s.makeNative(auction)
	s.ackLast(true)

	s.Require().ErrorIs(s.tryBid(id, bidderA, 300), types.ErrWrongSide)
	s.Require().False(s.keeper().HasBid(s.ctx(), id, bidderA.String()))
	s.Require().True(s.escrowed("uosmo").IsZero())

	mirrored := types.MakeBidMsg{
		OrderID:               id,
		SellToken:             coin("uosmo", 300),
		TakerAddress:          bidderA.String(),
		TakerReceivingAddress: bidderA.String(),
		ExpirationTimestamp:   s.f.Now() + 600,
	}
	s.Require().NoError(s.deliver(types.TypeMakeBid, mirrored))

	_, err := s.execute(makerReceiver, nil, types.ExecuteMsg{TakeBid: &types.TakeBidMsg{OrderID: id, Bidder: bidderA.String()}})
	s.Require().ErrorIs(err, types.ErrWrongSide)

	update := types.UpdateBidMsg{OrderID: id, Bidder: bidderA.String(), Addition: math.NewInt(100)}
	s.f.Bank.Fund(bidderA, coin("uosmo", 100))
	_, err = s.execute(bidderA, fundsOf(coin("uosmo", 100)), types.ExecuteMsg{UpdateBid: &update})
	s.Require().ErrorIs(err, types.ErrWrongSide)

	_, err = s.execute(bidderA, nil, types.ExecuteMsg{CancelBid: &types.CancelBidMsg{OrderID: id, Bidder: bidderA.String()}})
	s.Require().ErrorIs(err, types.ErrWrongSide)

	bid, _ := s.keeper().GetBid(s.ctx(), id, bidderA.String())
	s.Require().Equal(types.BidStatusPlaced, bid.Status)
	s.Require().Equal(math.NewInt(300), bid.Bid.Amount)
	s.Require().True(s.escrowed("uosmo").IsZero())
	s.requireInvariants()
}
