package models

// Transaction types
const (
	TxTypeRegister = "register"
	TxTypeReward   = "reward"
	TxTypeTransfer = "transfer"
	TxTypeVerify   = "verify"
)

// SystemAddress is the origin of minted value (account markers, rewards, payouts).
const SystemAddress = "SYSTEM"

type Transaction struct {
	ID        string `json:"id,omitempty"`
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    int64  `json:"amount"`
	Type      string `json:"type"`
	Memo      string `json:"memo"`
	Timestamp int64  `json:"timestamp"` // unix ms
}

// Touches reports whether address is either side of the transaction.
func (t Transaction) Touches(address string) bool {
	return t.From == address || t.To == address
}
