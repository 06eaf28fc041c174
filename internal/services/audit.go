package services

import (
	"fmt"
	"sort"

	"github.com/learn2earn/backend/internal/models"
)

// AuditLedger reconciles a store document: every wallet balance must equal
// what the ledger moved in and out of it, and every earned token must be
// backed by a reward transaction. It does not modify db.
func AuditLedger(db *models.Database) *models.LedgerAudit {
	a := &models.LedgerAudit{
		Users:        len(db.Users),
		Wallets:      len(db.Wallets),
		Sessions:     len(db.Sessions),
		Courses:      len(db.Courses),
		Transactions: len(db.Transactions),
		CountByType:  make(map[string]int),
		VolumeByType: make(map[string]int64),
		Issues:       []models.AuditIssue{},
	}
	issue := func(kind, subject, format string, args ...any) {
		a.Issues = append(a.Issues, models.AuditIssue{Kind: kind, Subject: subject, Detail: fmt.Sprintf(format, args...)})
	}

	net := make(map[string]int64)
	rewards := make(map[string]int)
	for i, tx := range db.Transactions {
		a.CountByType[tx.Type]++
		a.VolumeByType[tx.Type] += tx.Amount

		if i > 0 && tx.Timestamp < db.Transactions[i-1].Timestamp {
			issue(models.IssueTimestampOrder, tx.ID, "timestamp %d before previous %d", tx.Timestamp, db.Transactions[i-1].Timestamp)
		}

		if tx.From == models.SystemAddress {
			a.Minted += tx.Amount
		} else {
			net[tx.From] -= tx.Amount
		}
		net[tx.To] += tx.Amount

		if tx.Type == models.TxTypeReward {
			rewards[tx.To]++
		}
		for _, addr := range []string{tx.From, tx.To} {
			if addr == models.SystemAddress {
				continue
			}
			if _, ok := db.Wallets[addr]; !ok {
				issue(models.IssueUnknownWallet, tx.ID, "references missing wallet %s", addr)
			}
		}
	}

	owners := make(map[string]bool, len(db.Users))
	for _, u := range db.Users {
		owners[u.WalletAddress] = true
	}

	addrs := make([]string, 0, len(db.Wallets))
	for addr := range db.Wallets {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)

	for _, addr := range addrs {
		w := db.Wallets[addr]
		a.TotalBalance += w.Balance
		a.ClaimedTokens += len(w.Tokens)

		if !owners[addr] {
			issue(models.IssueOrphanWallet, addr, "no user owns this wallet")
		}
		if w.Balance < 0 {
			issue(models.IssueNegativeBalance, addr, "balance %d", w.Balance)
		}
		if w.Balance != net[addr] {
			issue(models.IssueBalanceMismatch, addr, "balance %d, ledger says %d", w.Balance, net[addr])
		}

		var resume int64
		seen := make(map[string]bool, len(w.Tokens))
		for _, t := range w.Tokens {
			resume += t.TokenValue
			if seen[t.CourseID] {
				issue(models.IssueDuplicateToken, addr, "course %s claimed twice", t.CourseID)
			}
			seen[t.CourseID] = true
		}
		if resume != w.ResumeValue {
			issue(models.IssueResumeValueMismatch, addr, "resumeValue %d, tokens sum to %d", w.ResumeValue, resume)
		}
		if rewards[addr] < len(w.Tokens) {
			issue(models.IssueMissingReward, addr, "%d tokens but %d reward transactions", len(w.Tokens), rewards[addr])
		}
	}

	if a.Minted != a.TotalBalance {
		issue(models.IssueBalanceMismatch, "total", "minted %d, wallets hold %d", a.Minted, a.TotalBalance)
	}
	return a
}
