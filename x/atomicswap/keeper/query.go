package keeper

import (
	"encoding/json"
	"sort"

	errorsmod "cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

// queryHandler answers one query tag from its JSON body.
type queryHandler func(k Keeper, ctx sdk.Context, body json.RawMessage) (any, error)

// orderFilter selects orders in a list query.
type orderFilter func(order types.AtomicSwapOrder, req types.ListRequest) bool

func matchAll(types.AtomicSwapOrder, types.ListRequest) bool { return true }

func matchDesiredTaker(order types.AtomicSwapOrder, req types.ListRequest) bool {
	return order.Maker.DesiredTaker == req.DesiredTaker
}

func matchMaker(order types.AtomicSwapOrder, req types.ListRequest) bool {
	return order.Maker.MakerAddress == req.Maker
}

func matchTaker(order types.AtomicSwapOrder, req types.ListRequest) bool {
	return order.Taker != nil && order.Taker.TakerAddress == req.Taker
}

func listQuery(archived, reverse bool, filter orderFilter) queryHandler {
	return func(k Keeper, ctx sdk.Context, body json.RawMessage) (any, error) {
		var req types.ListRequest
		if err := decodeQuery(body, &req); err != nil {
			return nil, err
		}
		return k.ListOrders(ctx, archived, req, filter, reverse)
	}
}

var queryHandlers = map[string]queryHandler{
	types.QueryList:                              listQuery(false, false, matchAll),
	types.QueryListReverse:                       listQuery(false, true, matchAll),
	types.QueryListByDesiredTaker:                listQuery(false, false, matchDesiredTaker),
	types.QueryListByDesiredTakerReverse:         listQuery(false, true, matchDesiredTaker),
	types.QueryListByMaker:                       listQuery(false, false, matchMaker),
	types.QueryListByMakerReverse:                listQuery(false, true, matchMaker),
	types.QueryListByTaker:                       listQuery(false, false, matchTaker),
	types.QueryListByTakerReverse:                listQuery(false, true, matchTaker),
	types.QueryInactiveList:                      listQuery(true, false, matchAll),
	types.QueryInactiveListReverse:               listQuery(true, true, matchAll),
	types.QueryInactiveListByDesiredTaker:        listQuery(true, false, matchDesiredTaker),
	types.QueryInactiveListByDesiredTakerReverse: listQuery(true, true, matchDesiredTaker),
	types.QueryInactiveListByMaker:               listQuery(true, false, matchMaker),
	types.QueryInactiveListByMakerReverse:        listQuery(true, true, matchMaker),
	types.QueryInactiveListByTaker:               listQuery(true, false, matchTaker),
	types.QueryInactiveListByTakerReverse:        listQuery(true, true, matchTaker),

	types.QueryDetails: func(k Keeper, ctx sdk.Context, body json.RawMessage) (any, error) {
		var req types.DetailsRequest
		if err := decodeQuery(body, &req); err != nil {
			return nil, err
		}
		return k.Details(ctx, req.ID)
	},
	types.QueryBidByAmount: func(k Keeper, ctx sdk.Context, body json.RawMessage) (any, error) {
		var req types.BidsByAmountRequest
		if err := decodeQuery(body, &req); err != nil {
			return nil, err
		}
		return k.BidsByAmount(ctx, req, false)
	},
	types.QueryBidByAmountReverse: func(k Keeper, ctx sdk.Context, body json.RawMessage) (any, error) {
		var req types.BidsByAmountRequest
		if err := decodeQuery(body, &req); err != nil {
			return nil, err
		}
		return k.BidsByAmount(ctx, req, true)
	},
	types.QueryBidByOrder: func(k Keeper, ctx sdk.Context, body json.RawMessage) (any, error) {
		var req types.BidsByTimeRequest
		if err := decodeQuery(body, &req); err != nil {
			return nil, err
		}
		return k.BidsByTime(ctx, req, false)
	},
	types.QueryBidByOrderReverse: func(k Keeper, ctx sdk.Context, body json.RawMessage) (any, error) {
		var req types.BidsByTimeRequest
		if err := decodeQuery(body, &req); err != nil {
			return nil, err
		}
		return k.BidsByTime(ctx, req, true)
	},
	types.QueryBidDetails: func(k Keeper, ctx sdk.Context, body json.RawMessage) (any, error) {
		var req types.BidDetailsRequest
		if err := decodeQuery(body, &req); err != nil {
			return nil, err
		}
		bid, found := k.GetBid(ctx, req.Order, req.Bidder)
		if !found {
			return nil, errorsmod.Wrapf(types.ErrBidDoesntExist, "%s/%s", req.Order, req.Bidder)
		}
		return bid, nil
	},
	types.QueryBidByBidder: func(k Keeper, ctx sdk.Context, body json.RawMessage) (any, error) {
		var req types.BidsByBidderRequest
		if err := decodeQuery(body, &req); err != nil {
			return nil, err
		}
		return k.BidsByBidder(ctx, req)
	},
	types.QueryConfig: func(k Keeper, ctx sdk.Context, _ json.RawMessage) (any, error) {
		return k.GetConfig(ctx), nil
	},
	types.QueryParams: func(k Keeper, ctx sdk.Context, _ json.RawMessage) (any, error) {
		return k.GetParams(ctx), nil
	},
	types.QueryChannel: func(k Keeper, ctx sdk.Context, body json.RawMessage) (any, error) {
		var req types.ChannelRequest
		if err := decodeQuery(body, &req); err != nil {
			return nil, err
		}
		return k.GetChannelInfo(ctx, req.ID)
	},
}

// QueryKinds lists every query tag the keeper answers, sorted.
func QueryKinds() []string {
	kinds := make([]string, 0, len(queryHandlers))
	for kind := range queryHandlers {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Query answers a request of the form {"<kind>": {...}} and returns the
// JSON encoded result.
func (k Keeper) Query(ctx sdk.Context, request []byte) ([]byte, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(request, &envelope); err != nil {
		return nil, errorsmod.Wrapf(types.ErrInvalidQuery, "malformed request: %s", err)
	}
	if len(envelope) != 1 {
		return nil, errorsmod.Wrapf(types.ErrInvalidQuery, "expected exactly one query kind, got %d", len(envelope))
	}
	for kind, body := range envelope {
		return k.QueryKind(ctx, kind, body)
	}
	return nil, types.ErrInvalidQuery
}

// QueryKind answers a single query tag with its JSON body.
func (k Keeper) QueryKind(ctx sdk.Context, kind string, body json.RawMessage) ([]byte, error) {
	handler, ok := queryHandlers[kind]
	if !ok {
		return nil, errorsmod.Wrapf(types.ErrInvalidQuery, "unknown query %q", kind)
	}
	result, err := handler(k, ctx, body)
	if err != nil {
		return nil, err
	}
	bz, err := json.Marshal(result)
	if err != nil {
		return nil, errorsmod.Wrap(err, "failed to marshal query result")
	}
	return bz, nil
}

func decodeQuery(body json.RawMessage, out any) error {
	if len(body) == 0 || string(body) == "null" {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errorsmod.Wrapf(types.ErrInvalidQuery, "malformed query body: %s", err)
	}
	return nil
}

// ListOrders pages through the active book, or the archive when archived is
// set. The filter runs while scanning, so a page holds up to limit matching
// orders no matter how many non-matching orders lie between them.
func (k Keeper) ListOrders(ctx sdk.Context, archived bool, req types.ListRequest, filter orderFilter, reverse bool) (types.ListResponse, error) {
	resp := types.ListResponse{Swaps: []types.AtomicSwapOrder{}}
	limit := types.ClampLimit(req.Limit, types.DefaultOrderLimit, types.MaxOrderLimit)
	if limit == 0 {
		return resp, nil
	}
	if filter == nil {
		filter = matchAll
	}

	orders := k.activeOrders(ctx)
	if archived {
		orders = k.archivedOrders(ctx)
	}

	var after, before *uint64
	if reverse {
		before = req.StartBefore
	} else {
		after = req.StartAfter
	}
	iterator := orders.iterator(after, before, reverse)
	defer iterator.Close()

	for ; iterator.Valid() && len(resp.Swaps) < limit; iterator.Next() {
		var order types.AtomicSwapOrder
		if err := json.Unmarshal(iterator.Value(), &order); err != nil {
			return resp, errorsmod.Wrap(err, "failed to unmarshal order")
		}
		if !filter(order, req) {
			continue
		}
		resp.Swaps = append(resp.Swaps, order)
		resp.LastOrderID = slotFromKey(iterator.Key(), orders.slotPrefix)
	}
	return resp, nil
}

// Details looks an order up in the active book, then in the archive.
func (k Keeper) Details(ctx sdk.Context, id string) (types.DetailsResponse, error) {
	order, archived, err := k.LookupOrder(ctx, id)
	if err != nil {
		return types.DetailsResponse{}, err
	}
	return types.DetailsResponse{
		ID:                order.ID,
		Maker:             order.Maker,
		Status:            order.Status,
		Path:              order.Path,
		Taker:             order.Taker,
		CancelTimestamp:   order.CancelTimestamp,
		CompleteTimestamp: order.CompleteTimestamp,
		Archived:          archived,
	}, nil
}

// BidsByAmount lists one order's bids in price order, ties broken by bidder.
func (k Keeper) BidsByAmount(ctx sdk.Context, req types.BidsByAmountRequest, reverse bool) (types.BidsResponse, error) {
	prefix := BidPricePrefix(req.Order)
	start, end := prefix, storetypes.PrefixEndBytes(prefix)
	if reverse {
		if req.StartBefore != nil {
			end = BidPriceKey(req.Order, req.StartBefore.Amount, req.StartBefore.Bidder)
		}
	} else if req.StartAfter != nil {
		start = exclusiveStart(BidPriceKey(req.Order, req.StartAfter.Amount, req.StartAfter.Bidder))
	}
	limit := types.ClampLimit(req.Limit, types.DefaultBidLimit, types.MaxBidLimit)
	bids, err := k.scanBids(ctx, priceView, start, end, reverse, req.Status, limit)
	return types.BidsResponse{Bids: bids}, err
}

// BidsByTime lists one order's bids in receive order, ties broken by bidder.
func (k Keeper) BidsByTime(ctx sdk.Context, req types.BidsByTimeRequest, reverse bool) (types.BidsResponse, error) {
	prefix := BidTimePrefix(req.Order)
	start, end := prefix, storetypes.PrefixEndBytes(prefix)
	if reverse {
		if req.StartBefore != nil {
			end = BidTimeKey(req.Order, req.StartBefore.Time, req.StartBefore.Bidder)
		}
	} else if req.StartAfter != nil {
		start = exclusiveStart(BidTimeKey(req.Order, req.StartAfter.Time, req.StartAfter.Bidder))
	}
	limit := types.ClampLimit(req.Limit, types.DefaultBidLimit, types.MaxBidLimit)
	bids, err := k.scanBids(ctx, timeView, start, end, reverse, req.Status, limit)
	return types.BidsResponse{Bids: bids}, err
}

// BidsByBidder lists a bidder's bids ordered by order id.
func (k Keeper) BidsByBidder(ctx sdk.Context, req types.BidsByBidderRequest) (types.BidsResponse, error) {
	prefix := BidBidderPrefix(req.Bidder)
	start, end := prefix, storetypes.PrefixEndBytes(prefix)
	if req.StartAfter != nil {
		start = exclusiveStart(BidBidderKey(req.Bidder, *req.StartAfter))
	}
	limit := types.ClampLimit(req.Limit, types.DefaultBidLimit, types.MaxBidLimit)
	bids, err := k.scanBids(ctx, bidderView, start, end, false, req.Status, limit)
	return types.BidsResponse{Bids: bids}, err
}
