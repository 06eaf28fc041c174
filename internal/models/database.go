package models

// Database is the whole persisted document. It is read and written as one unit.
type Database struct {
	Users        map[string]*User   `json:"users"`
	Sessions     map[string]string  `json:"sessions"`
	Wallets      map[string]*Wallet `json:"wallets"`
	Courses      []Course           `json:"courses"`
	Transactions []Transaction      `json:"transactions"`
}

func NewDatabase() *Database {
	return &Database{
		Users:        make(map[string]*User),
		Sessions:     make(map[string]string),
		Wallets:      make(map[string]*Wallet),
		Courses:      []Course{},
		Transactions: []Transaction{},
	}
}

// Normalize fills collections a hand-edited or older document may be missing
// and drops null user and wallet entries.
func (d *Database) Normalize() {
	if d.Users == nil {
		d.Users = make(map[string]*User)
	}
	if d.Sessions == nil {
		d.Sessions = make(map[string]string)
	}
	if d.Wallets == nil {
		d.Wallets = make(map[string]*Wallet)
	}
	if d.Courses == nil {
		d.Courses = []Course{}
	}
	if d.Transactions == nil {
		d.Transactions = []Transaction{}
	}
	for email, u := range d.Users {
		if u == nil {
			delete(d.Users, email)
		}
	}
	for addr, w := range d.Wallets {
		if w == nil {
			delete(d.Wallets, addr)
			continue
		}
		if w.Tokens == nil {
			w.Tokens = []EarnedToken{}
		}
	}
}
