package sim

import "time"

// ActionType enumerates the three permitted trade actions.
type ActionType int

const (
	ActionHold ActionType = iota
	ActionBuy
	ActionSell
)

func (a ActionType) String() string {
	switch a {
	case ActionBuy:
		return "buy"
	case ActionSell:
		return "sell"
	default:
		return "hold"
	}
}

// Action is one trade instruction. Amount is denominated in quote
// currency for buys and in base units for sells; it is ignored for holds.
type Action struct {
	Type   ActionType
	Amount float64
}

func Buy(amount float64) Action  { return Action{Type: ActionBuy, Amount: amount} }
func Sell(amount float64) Action { return Action{Type: ActionSell, Amount: amount} }
func Hold() Action               { return Action{Type: ActionHold} }

// TradeRecord is one entry in the append-only trade history: the account
// balance as it stood before the action, and the action itself.
type TradeRecord struct {
	ID            string
	Time          time.Time
	AccountBefore float64
	Action        Action
}
