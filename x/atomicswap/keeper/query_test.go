package keeper_test

import (
	"encoding/json"
	"fmt"
	"time"

	"cosmossdk.io/math"

	keepertest "github.com/paw-chain/swapbook/testutil/keeper"
	"github.com/paw-chain/swapbook/x/atomicswap/keeper"
	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

func (s *KeeperTestSuite) query(kind, body string, out any) {
	bz, err := s.keeper().Query(s.ctx(), []byte(fmt.Sprintf(`{%q:%s}`, kind, body)))
	s.Require().NoError(err)
	s.Require().NoError(json.Unmarshal(bz, out))
}

func slotsOf(resp types.ListResponse, ids map[string]int) []int {
	slots := make([]int, 0, len(resp.Swaps))
	for _, o := range resp.Swaps {
		slots = append(slots, ids[o.ID])
	}
	return slots
}

// seedOrders mirrors n remote orders whose makers alternate between
// "maker-even" and "maker-odd". It returns order id -> creation index.
func (s *KeeperTestSuite) seedOrders(n int) (map[string]int, []string) {
	ids := make(map[string]int, n)
	list := make([]string, 0, n)
	for i := 0; i < n; i++ {
		maker := "maker-even"
		if i%2 == 1 {
			maker = "maker-odd"
		}
		id := s.mirrorRemote(uint64(i), func(m *types.MakeSwapMsg) { m.MakerAddress = maker })
		ids[id] = i
		list = append(list, id)
	}
	return ids, list
}

func (s *KeeperTestSuite) TestListOrders() {
	ids, _ := s.seedOrders(6)

	var page types.ListResponse
	s.query(types.QueryList, `{"limit":4}`, &page)
	s.Require().Equal([]int{0, 1, 2, 3}, slotsOf(page, ids))
	s.Require().Equal(uint64(3), page.LastOrderID)

	s.query(types.QueryList, fmt.Sprintf(`{"start_after":%d}`, page.LastOrderID), &page)
	s.Require().Equal([]int{4, 5}, slotsOf(page, ids))

	s.query(types.QueryListReverse, `{"limit":2}`, &page)
	s.Require().Equal([]int{5, 4}, slotsOf(page, ids))
	s.query(types.QueryListReverse, fmt.Sprintf(`{"limit":2,"start_before":%d}`, page.LastOrderID), &page)
	s.Require().Equal([]int{3, 2}, slotsOf(page, ids))

	s.query(types.QueryList, `{"limit":0}`, &page)
	s.Require().Empty(page.Swaps)
	s.Require().Zero(page.LastOrderID)
}

func (s *KeeperTestSuite) TestListDirectionComesFromKind() {
	ids, _ := s.seedOrders(3)

	var page types.ListResponse
	s.query(types.QueryList, `{"order":"desc"}`, &page)
	s.Require().Equal([]int{0, 1, 2}, slotsOf(page, ids))

	s.query(types.QueryListReverse, `{"order":"asc"}`, &page)
	s.Require().Equal([]int{2, 1, 0}, slotsOf(page, ids))
}

func (s *KeeperTestSuite) TestListFiltersBeforeLimit() {
	ids, _ := s.seedOrders(7)

	var page types.ListResponse
	s.query(types.QueryListByMaker, `{"maker":"maker-odd","limit":2}`, &page)
	s.Require().Equal([]int{1, 3}, slotsOf(page, ids))

	s.query(types.QueryListByMaker, fmt.Sprintf(`{"maker":"maker-odd","limit":2,"start_after":%d}`, page.LastOrderID), &page)
	s.Require().Equal([]int{5}, slotsOf(page, ids))

	s.query(types.QueryListByMakerReverse, `{"maker":"maker-even","limit":3}`, &page)
	s.Require().Equal([]int{6, 4, 2}, slotsOf(page, ids))

	s.query(types.QueryListByDesiredTaker, `{"desired_taker":"nobody"}`, &page)
	s.Require().Empty(page.Swaps)
}

func (s *KeeperTestSuite) TestListByTaker() {
	ids, list := s.seedOrders(3)
	s.f.Bank.Fund(takerAddr, coin("uosmo", 200))
	take := s.takeMsg(list[1])
	_, err := s.execute(takerAddr, fundsOf(take.SellToken), types.ExecuteMsg{TakeSwap: &take})
	s.Require().NoError(err)

	var page types.ListResponse
	s.query(types.QueryListByTaker, fmt.Sprintf(`{"taker":%q}`, takerAddr.String()), &page)
	s.Require().Equal([]int{1}, slotsOf(page, ids))

	s.ackLast(true)
	s.query(types.QueryListByTaker, fmt.Sprintf(`{"taker":%q}`, takerAddr.String()), &page)
	s.Require().Empty(page.Swaps)
	s.query(types.QueryInactiveListByTaker, fmt.Sprintf(`{"taker":%q}`, takerAddr.String()), &page)
	s.Require().Equal([]int{1}, slotsOf(page, ids))
}

func (s *KeeperTestSuite) TestInactiveListAndDetails() {
	ids, list := s.seedOrders(4)
	for _, i := range []int{2, 0, 3} {
		_, err := keeper.ArchiveOrderForTest(s.keeper(), s.ctx(), list[i])
		s.Require().NoError(err)
	}

	var page types.ListResponse
	s.query(types.QueryInactiveList, `{}`, &page)
	s.Require().Equal([]int{2, 0, 3}, slotsOf(page, ids), "archive slots follow archival order")
	s.query(types.QueryInactiveListReverse, `null`, &page)
	s.Require().Equal([]int{3, 0, 2}, slotsOf(page, ids))
	s.query(types.QueryInactiveListByMaker, `{"maker":"maker-even"}`, &page)
	s.Require().Equal([]int{2, 0}, slotsOf(page, ids))

	s.query(types.QueryList, `{}`, &page)
	s.Require().Equal([]int{1}, slotsOf(page, ids))

	var details types.DetailsResponse
	s.query(types.QueryDetails, fmt.Sprintf(`{"id":%q}`, list[0]), &details)
	s.Require().True(details.Archived)
	s.Require().Equal(list[0], details.ID)
	s.query(types.QueryDetails, fmt.Sprintf(`{"id":%q}`, list[1]), &details)
	s.Require().False(details.Archived)

	_, err := s.keeper().Details(s.ctx(), "missing")
	s.Require().ErrorIs(err, types.ErrOrderNotFound)
}

func (s *KeeperTestSuite) bidders(resp types.BidsResponse) []string {
	out := make([]string, 0, len(resp.Bids))
	for _, b := range resp.Bids {
		out = append(out, b.Bidder)
	}
	return out
}

func (s *KeeperTestSuite) TestBidQueries() {
	id := s.mirrorRemote(0, auction)
	s.placeBid(id, bidderA, 100)
	s.f.AdvanceTime(time.Second)
	s.placeBid(id, bidderB, 1000)
	s.f.AdvanceTime(time.Second)
	s.placeBid(id, bidderC, 100)
	s.Require().NoError(s.tryBid(id, keepertest.TestAddr("bidder-d"), 50))

	// bidders a and c tie on amount; ties are ordered by bidder
	lo, hi, b := bidderA.String(), bidderC.String(), bidderB.String()
	if hi < lo {
		lo, hi = hi, lo
	}

	var resp types.BidsResponse
	s.query(types.QueryBidByAmount, fmt.Sprintf(`{"order":%q,"status":"Placed"}`, id), &resp)
	s.Require().Equal([]string{lo, hi, b}, s.bidders(resp), "amount order is numeric")

	s.query(types.QueryBidByAmountReverse, fmt.Sprintf(`{"order":%q,"status":"Placed"}`, id), &resp)
	s.Require().Equal([]string{b, hi, lo}, s.bidders(resp))

	s.query(types.QueryBidByAmount, fmt.Sprintf(`{"order":%q,"status":"Placed","start_after":{"amount":"100","bidder":%q}}`, id, lo), &resp)
	s.Require().Equal([]string{hi, b}, s.bidders(resp))

	s.query(types.QueryBidByAmountReverse, fmt.Sprintf(`{"order":%q,"status":"Placed","start_before":{"amount":"1000","bidder":%q},"limit":1}`, id, b), &resp)
	s.Require().Equal([]string{hi}, s.bidders(resp))

	s.query(types.QueryBidByAmount, fmt.Sprintf(`{"order":%q,"status":"Initial"}`, id), &resp)
	s.Require().Len(resp.Bids, 1)

	a, c := bidderA.String(), bidderC.String()
	s.query(types.QueryBidByOrder, fmt.Sprintf(`{"order":%q,"status":"Placed"}`, id), &resp)
	s.Require().Equal([]string{a, b, c}, s.bidders(resp))
	s.query(types.QueryBidByOrderReverse, fmt.Sprintf(`{"order":%q,"status":"Placed","limit":2}`, id), &resp)
	s.Require().Equal([]string{c, b}, s.bidders(resp))

	var bid types.Bid
	s.query(types.QueryBidDetails, fmt.Sprintf(`{"order":%q,"bidder":%q}`, id, b), &bid)
	s.Require().Equal(math.NewInt(1000), bid.Bid.Amount)

	s.query(types.QueryBidByBidder, fmt.Sprintf(`{"bidder":%q,"status":"Placed"}`, b), &resp)
	s.Require().Equal([]string{b}, s.bidders(resp))
	s.Require().Equal(id, resp.Bids[0].Order)
}

func (s *KeeperTestSuite) TestBidsByBidderAcrossOrders() {
	first := s.mirrorRemote(0, auction)
	second := s.mirrorRemote(1, auction)
	s.placeBid(first, bidderA, 100)
	s.placeBid(second, bidderA, 200)

	all, err := s.keeper().BidsByBidder(s.ctx(), types.BidsByBidderRequest{Bidder: bidderA.String(), Status: types.BidStatusPlaced})
	s.Require().NoError(err)
	s.Require().Len(all.Bids, 2)

	after := all.Bids[0].Order
	rest, err := s.keeper().BidsByBidder(s.ctx(), types.BidsByBidderRequest{Bidder: bidderA.String(), Status: types.BidStatusPlaced, StartAfter: &after})
	s.Require().NoError(err)
	s.Require().Len(rest.Bids, 1)
	s.Require().Equal(all.Bids[1].Order, rest.Bids[0].Order)
}

func (s *KeeperTestSuite) TestQueryEnvelope() {
	for _, bad := range []string{`{}`, `{"list":{},"details":{}}`, `[]`, `{"nope":{}}`, `{"list":{"limit":"ten"}}`} {
		_, err := s.keeper().Query(s.ctx(), []byte(bad))
		s.Require().ErrorIs(err, types.ErrInvalidQuery, bad)
	}

	var cfg types.Config
	s.query(types.QueryConfig, `{}`, &cfg)
	s.Require().Equal(types.MarketActive, cfg.State)

	var params types.Params
	s.query(types.QueryParams, `{}`, &params)
	s.Require().Equal(types.DefaultTimeoutSeconds, params.TimeoutSeconds)

	var channel types.ChannelInfo
	s.query(types.QueryChannel, fmt.Sprintf(`{"id":%q}`, keepertest.TestChannel), &channel)
	s.Require().Equal(keepertest.CounterpartyChannel, channel.Counterparty.ChannelID)
}

func (s *KeeperTestSuite) TestQueryKindsAreAllAnswered() {
	kinds := keeper.QueryKinds()
	s.Require().Len(kinds, 26)
	for _, kind := range kinds {
		if kind == types.QueryDetails || kind == types.QueryBidDetails || kind == types.QueryChannel {
			continue
		}
		_, err := s.keeper().QueryKind(s.ctx(), kind, nil)
		s.Require().NoError(err, kind)
	}
}

func (s *KeeperTestSuite) TestListLimitIsCapped() {
	limit := types.MaxOrderLimit + 5
	resp, err := s.keeper().ListOrders(s.ctx(), false, types.ListRequest{Limit: &limit}, nil, false)
	s.Require().NoError(err)
	s.Require().Empty(resp.Swaps)
	s.Require().Equal(int(types.MaxOrderLimit), types.ClampLimit(&limit, types.DefaultOrderLimit, types.MaxOrderLimit))
}
