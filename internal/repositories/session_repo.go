package repositories

// CreateSession maps token to email. Existing sessions of the user stay valid.
func (t *Tx) CreateSession(token, email string) {
	t.db.Sessions[token] = email
}

// SessionEmail resolves a token. Sessions pointing at an unknown user are ignored.
func (t *Tx) SessionEmail(token string) (string, bool) {
	email, ok := t.db.Sessions[token]
	if !ok {
		return "", false
	}
	if _, exists := t.db.Users[email]; !exists {
		return "", false
	}
	return email, true
}

func (t *Tx) HasSession(token string) bool {
	_, ok := t.db.Sessions[token]
	return ok
}
