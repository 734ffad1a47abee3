package keeper_test

import (
	"time"

	keepertest "github.com/paw-chain/swapbook/testutil/keeper"
	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

func (s *KeeperTestSuite) TestGenesisRoundTrip() {
	native := s.makeNative()
	s.ackLast(true)
	remote := s.mirrorRemote(0, auction)
	s.placeBid(remote, bidderA, 300)
	s.f.AdvanceTime(time.Minute)
	s.placeBid(remote, bidderB, 400)
	done := s.mirrorRemote(1)
	s.Require().NoError(s.deliver(types.TypeCancelSwap, types.CancelSwapMsg{OrderID: done, MakerAddress: makerAddr.String()}))

	exported, err := s.keeper().ExportGenesis(s.ctx())
	s.Require().NoError(err)
	s.Require().NoError(exported.Validate())
	s.Require().Len(exported.Orders, 2)
	s.Require().Len(exported.ArchivedOrders, 1)
	s.Require().Len(exported.Bids, 2)
	s.Require().Equal(uint64(1), exported.SwapSequence)
	s.Require().Equal(native, exported.Orders[0].ID)

	fresh := keepertest.AtomicSwapKeeper(s.T())
	s.Require().NoError(fresh.Keeper.InitGenesis(fresh.Ctx, *exported))

	reexported, err := fresh.Keeper.ExportGenesis(fresh.Ctx)
	s.Require().NoError(err)
	s.Require().Equal(exported, reexported)

	order, archived, err := fresh.Keeper.LookupOrder(fresh.Ctx, done)
	s.Require().NoError(err)
	s.Require().True(archived)
	s.Require().Equal(types.StatusCancel, order.Status)

	// a new order continues the imported sequence
	s.f = fresh
	id := s.makeNative()
	s.Require().NotEqual(native, id)
	s.Require().Equal(uint64(2), s.keeper().GetSwapSequence(s.ctx()))
	s.requireInvariants()
}

func (s *KeeperTestSuite) TestInitGenesisRejectsInvalidState() {
	gs := types.DefaultGenesis()
	gs.Params.TimeoutSeconds = 0
	s.Require().Error(s.keeper().InitGenesis(s.ctx(), *gs))

	gs = types.DefaultGenesis()
	gs.Bids = []types.Bid{{Order: "missing", Bidder: "b", Status: types.BidStatusPlaced}}
	s.Require().Error(s.keeper().InitGenesis(s.ctx(), *gs))
}

func (s *KeeperTestSuite) TestInitGenesisBindsPort() {
	s.Require().True(s.f.Port.IsBound(s.ctx(), types.PortID))
	s.Require().True(s.keeper().IsBound(s.ctx(), types.PortID))
	s.Require().Equal(types.PortID, s.keeper().GetPort(s.ctx()))
}
