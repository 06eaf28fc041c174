package models

type Wallet struct {
	WalletAddress string        `json:"walletAddress"`
	Balance       int64         `json:"balance"`
	Tokens        []EarnedToken `json:"tokens"`
	ResumeValue   int64         `json:"resumeValue"`
}

// EarnedToken is minted into a wallet when a course reward is claimed.
type EarnedToken struct {
	CourseID   string `json:"courseId"`
	Title      string `json:"title"`
	Platform   string `json:"platform"`
	TokenValue int64  `json:"tokenValue"`
	EarnedAt   int64  `json:"earnedAt"` // unix ms
}

// HasToken reports whether the wallet already holds the token for courseID.
func (w *Wallet) HasToken(courseID string) bool {
	return w.Token(courseID) != nil
}

func (w *Wallet) Token(courseID string) *EarnedToken {
	for i := range w.Tokens {
		if w.Tokens[i].CourseID == courseID {
			return &w.Tokens[i]
		}
	}
	return nil
}

// RecomputeResumeValue sets ResumeValue to the sum of the held token values.
func (w *Wallet) RecomputeResumeValue() {
	var total int64
	for _, t := range w.Tokens {
		total += t.TokenValue
	}
	w.ResumeValue = total
}

// Clone copies the wallet so it can leave the store lock.
func (w *Wallet) Clone() *Wallet {
	cp := *w
	cp.Tokens = append([]EarnedToken{}, w.Tokens...)
	return &cp
}
