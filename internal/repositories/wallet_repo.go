package repositories

import "github.com/learn2earn/backend/internal/models"

func (t *Tx) GetWallet(address string) (*models.Wallet, bool) {
	w, ok := t.db.Wallets[address]
	return w, ok
}

func (t *Tx) CreateWallet(address string) *models.Wallet {
	w := &models.Wallet{
		WalletAddress: address,
		Tokens:        []models.EarnedToken{},
	}
	t.db.Wallets[address] = w
	return w
}

func (t *Tx) WalletExists(address string) bool {
	_, ok := t.db.Wallets[address]
	return ok
}
