package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CertificateClaims state that a wallet earned a course token.
type CertificateClaims struct {
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	WalletAddress string `json:"walletAddress"`
	CourseID      string `json:"courseId"`
	CourseTitle   string `json:"courseTitle"`
	Platform      string `json:"platform"`
	TokenValue    int64  `json:"tokenValue"`
	jwt.RegisteredClaims
}

// Certifier signs and checks HS256 certificates. Certificates do not expire.
type Certifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewCertifier(secret, issuer string) *Certifier {
	return &Certifier{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// Issue fills the registered claims of claims and signs it.
func (c *Certifier) Issue(claims *CertificateClaims) (string, error) {
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:   c.issuer,
		Subject:  claims.WalletAddress,
		IssuedAt: jwt.NewNumericDate(c.now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

func (c *Certifier) Parse(tokenStr string) (*CertificateClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &CertificateClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithIssuer(c.issuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CertificateClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid certificate")
	}
	if claims.WalletAddress == "" || claims.CourseID == "" {
		return nil, fmt.Errorf("certificate is missing wallet or course")
	}
	return claims, nil
}
