package models

// User is keyed by Email in the store.
type User struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	DisplayName   string `json:"displayName"`
	WalletAddress string `json:"walletAddress"`
}

// Profile is the public view of a User.
type Profile struct {
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	WalletAddress string `json:"walletAddress"`
}

func (u *User) Profile() Profile {
	return Profile{Email: u.Email, DisplayName: u.DisplayName, WalletAddress: u.WalletAddress}
}
