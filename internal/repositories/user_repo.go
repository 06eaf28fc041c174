package repositories

import "github.com/learn2earn/backend/internal/models"

func (t *Tx) GetUser(email string) (*models.User, bool) {
	u, ok := t.db.Users[email]
	return u, ok
}

func (t *Tx) CreateUser(u *models.User) {
	t.db.Users[u.Email] = u
}
