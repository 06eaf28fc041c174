package models

// LedgerAudit is the result of reconciling wallets against the ledger.
type LedgerAudit struct {
	Users         int              `json:"users"`
	Wallets       int              `json:"wallets"`
	Sessions      int              `json:"sessions"`
	Courses       int              `json:"courses"`
	Transactions  int              `json:"transactions"`
	CountByType   map[string]int   `json:"countByType"`
	VolumeByType  map[string]int64 `json:"volumeByType"`
	Minted        int64            `json:"minted"`
	TotalBalance  int64            `json:"totalBalance"`
	ClaimedTokens int              `json:"claimedTokens"`
	Issues        []AuditIssue     `json:"issues"`
}

// AuditIssue is one broken invariant.
type AuditIssue struct {
	Kind    string `json:"kind"`
	Subject string `json:"subject"`
	Detail  string `json:"detail"`
}

// Audit issue kinds
const (
	IssueBalanceMismatch     = "balance_mismatch"
	IssueResumeValueMismatch = "resume_value_mismatch"
	IssueMissingReward       = "missing_reward"
	IssueDuplicateToken      = "duplicate_token"
	IssueTimestampOrder      = "timestamp_order"
	IssueUnknownWallet       = "unknown_wallet"
	IssueOrphanWallet        = "orphan_wallet"
	IssueNegativeBalance     = "negative_balance"
)

func (a *LedgerAudit) OK() bool {
	return len(a.Issues) == 0
}
