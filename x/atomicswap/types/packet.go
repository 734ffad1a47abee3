package types

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/errors"
)

// SwapMessageType tags the payload carried by an AtomicSwapPacketData.
type SwapMessageType int32

const (
	TypeUnspecified SwapMessageType = 0
	TypeMakeSwap    SwapMessageType = 1
	TypeTakeSwap    SwapMessageType = 2
	TypeCancelSwap  SwapMessageType = 3
	TypeMakeBid     SwapMessageType = 4
	TypeTakeBid     SwapMessageType = 5
	TypeCancelBid   SwapMessageType = 6
	TypeUpdateBid   SwapMessageType = 7
)

var swapMessageTypeNames = map[SwapMessageType]string{
	TypeUnspecified: "TYPE_UNSPECIFIED",
	TypeMakeSwap:    "TYPE_MSG_MAKE_SWAP",
	TypeTakeSwap:    "TYPE_MSG_TAKE_SWAP",
	TypeCancelSwap:  "TYPE_MSG_CANCEL_SWAP",
	TypeMakeBid:     "TYPE_MSG_MAKE_BID",
	TypeTakeBid:     "TYPE_MSG_TAKE_BID",
	TypeCancelBid:   "TYPE_MSG_CANCEL_BID",
	TypeUpdateBid:   "TYPE_MSG_UPDATE_BID",
}

var swapMessageTypeValues = func() map[string]SwapMessageType {
	m := make(map[string]SwapMessageType, len(swapMessageTypeNames))
	for k, v := range swapMessageTypeNames {
		m[v] = k
	}
	return m
}()

func (t SwapMessageType) String() string {
	if name, ok := swapMessageTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("SwapMessageType(%d)", int32(t))
}

// MarshalJSON encodes the type by name.
func (t SwapMessageType) MarshalJSON() ([]byte, error) {
	name, ok := swapMessageTypeNames[t]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidPacket, "unknown message type %d", int32(t))
	}
	return json.Marshal(name)
}

// UnmarshalJSON accepts the type name or its numeric value.
func (t *SwapMessageType) UnmarshalJSON(bz []byte) error {
	var name string
	if err := json.Unmarshal(bz, &name); err == nil {
		v, ok := swapMessageTypeValues[name]
		if !ok {
			return errors.Wrapf(ErrInvalidPacket, "unknown message type %q", name)
		}
		*t = v
		return nil
	}
	var n int32
	if err := json.Unmarshal(bz, &n); err != nil {
		return errors.Wrap(ErrInvalidPacket, "message type must be a name or number")
	}
	if _, ok := swapMessageTypeNames[SwapMessageType(n)]; !ok {
		return errors.Wrapf(ErrInvalidPacket, "unknown message type %d", n)
	}
	*t = SwapMessageType(n)
	return nil
}

// AtomicSwapPacketData is the envelope sent over the channel for every action.
// Data holds the JSON encoding of the originating request.
type AtomicSwapPacketData struct {
	Type    SwapMessageType `json:"type"`
	Data    []byte          `json:"data"`
	OrderID string          `json:"order_id,omitempty"`
	Path    string          `json:"path,omitempty"`
	Memo    string          `json:"memo"`
}

// NewPacketData wraps msg into an envelope of the given type.
func NewPacketData(t SwapMessageType, msg any, orderID, path string) (AtomicSwapPacketData, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return AtomicSwapPacketData{}, errors.Wrap(err, "failed to marshal packet payload")
	}
	return AtomicSwapPacketData{
		Type:    t,
		Data:    data,
		OrderID: orderID,
		Path:    path,
	}, nil
}

// ValidateBasic performs stateless checks on the envelope.
func (p AtomicSwapPacketData) ValidateBasic() error {
	if p.Type == TypeUnspecified {
		return errors.Wrap(ErrInvalidPacket, "message type unspecified")
	}
	if _, ok := swapMessageTypeNames[p.Type]; !ok {
		return errors.Wrapf(ErrInvalidPacket, "unknown message type %d", int32(p.Type))
	}
	if len(p.Data) == 0 {
		return errors.Wrap(ErrInvalidPacket, "empty payload")
	}
	if p.Type == TypeMakeSwap {
		if p.Path == "" || p.OrderID == "" {
			return errors.Wrap(ErrInvalidPacket, "make swap packet requires order id and path")
		}
		if OrderID(p.Path) != p.OrderID {
			return errors.Wrap(ErrInvalidPacket, "order id does not match path")
		}
	}
	return nil
}

// GetBytes returns the JSON wire encoding of the envelope.
func (p AtomicSwapPacketData) GetBytes() ([]byte, error) {
	bz, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal packet data")
	}
	return bz, nil
}

// DecodePacketData parses and validates a wire envelope.
func DecodePacketData(bz []byte) (AtomicSwapPacketData, error) {
	var p AtomicSwapPacketData
	if err := json.Unmarshal(bz, &p); err != nil {
		return AtomicSwapPacketData{}, errors.Wrapf(ErrInvalidPacket, "failed to unmarshal packet data: %s", err)
	}
	if err := p.ValidateBasic(); err != nil {
		return AtomicSwapPacketData{}, err
	}
	return p, nil
}

// DecodePayload unmarshals the envelope's payload into out.
func (p AtomicSwapPacketData) DecodePayload(out any) error {
	if err := json.Unmarshal(p.Data, out); err != nil {
		return errors.Wrapf(ErrInvalidPacket, "failed to unmarshal %s payload: %s", p.Type, err)
	}
	return nil
}
