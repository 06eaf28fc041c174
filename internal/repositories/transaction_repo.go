package repositories

import (
	"github.com/google/uuid"
	"github.com/learn2earn/backend/internal/models"
)

// AppendTransaction stamps tx with an id and a timestamp and appends it to the
// ledger. Timestamps never decrease along the ledger, even if the clock does.
func (t *Tx) AppendTransaction(tx models.Transaction) models.Transaction {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	ts := t.now().UnixMilli()
	if n := len(t.db.Transactions); n > 0 && t.db.Transactions[n-1].Timestamp > ts {
		ts = t.db.Transactions[n-1].Timestamp
	}
	tx.Timestamp = ts
	t.db.Transactions = append(t.db.Transactions, tx)
	return tx
}

// TransactionsFor returns ledger entries touching address, in ledger order.
func (t *Tx) TransactionsFor(address string) []models.Transaction {
	out := []models.Transaction{}
	for _, tx := range t.db.Transactions {
		if tx.Touches(address) {
			out = append(out, tx)
		}
	}
	return out
}

// Now is the store clock in unix milliseconds.
func (t *Tx) Now() int64 {
	return t.now().UnixMilli()
}
