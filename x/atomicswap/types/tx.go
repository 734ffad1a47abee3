package types

import (
	"context"
	"encoding/json"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgExecute is the transaction form of an ExecuteMsg: the signer, the funds
// attached to the call and the JSON encoded action.
type MsgExecute struct {
	Sender string          `json:"sender"`
	Funds  sdk.Coins       `json:"funds"`
	Msg    json.RawMessage `json:"msg"`
}

// MsgExecuteResponse reports which action ran and the order it touched.
type MsgExecuteResponse struct {
	Action  string `json:"action"`
	OrderID string `json:"order_id,omitempty"`
}

// MsgServer is the transaction service of the module.
type MsgServer interface {
	Execute(context.Context, *MsgExecute) (*MsgExecuteResponse, error)
}

// NewMsgExecute encodes msg for sender.
func NewMsgExecute(sender string, funds sdk.Coins, msg ExecuteMsg) (*MsgExecute, error) {
	bz, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidMessage, err.Error())
	}
	return &MsgExecute{Sender: sender, Funds: funds, Msg: bz}, nil
}

// Action decodes the wrapped ExecuteMsg.
func (m MsgExecute) Action() (ExecuteMsg, error) {
	var msg ExecuteMsg
	if len(m.Msg) == 0 {
		return msg, errors.Wrap(ErrInvalidMessage, "empty msg")
	}
	if err := json.Unmarshal(m.Msg, &msg); err != nil {
		return msg, errors.Wrapf(ErrInvalidMessage, "malformed msg: %s", err)
	}
	return msg, nil
}

// Info returns the sender and funds as seen by the keeper.
func (m MsgExecute) Info() (MessageInfo, error) {
	sender, err := sdk.AccAddressFromBech32(m.Sender)
	if err != nil {
		return MessageInfo{}, errors.Wrapf(ErrInvalidSender, "invalid sender address: %s", err)
	}
	return MessageInfo{Sender: sender, Funds: m.Funds}, nil
}

// ValidateBasic checks the sender, the funds and the wrapped action.
func (m MsgExecute) ValidateBasic() error {
	if _, err := m.Info(); err != nil {
		return err
	}
	if err := m.Funds.Validate(); err != nil {
		return errors.Wrapf(ErrInvalidMessage, "invalid funds: %s", err)
	}
	msg, err := m.Action()
	if err != nil {
		return err
	}
	return msg.ValidateBasic()
}
