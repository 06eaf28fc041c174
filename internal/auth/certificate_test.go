package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleClaims() *CertificateClaims {
	return &CertificateClaims{
		Email:         "a@b.com",
		DisplayName:   "a",
		WalletAddress: "0x0123456789abcdef0123456789abcdef01234567",
		CourseID:      "c4",
		CourseTitle:   "Cloud Basics for Beginners",
		Platform:      "Google",
		TokenValue:    45,
	}
}

func TestCertifier_RoundTrip(t *testing.T) {
	c := NewCertifier("secret", "learn2earn")

	tok, err := c.Issue(sampleClaims())
	require.NoError(t, err)

	got, err := c.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "c4", got.CourseID)
	assert.Equal(t, int64(45), got.TokenValue)
	assert.Equal(t, "learn2earn", got.Issuer)
	assert.Equal(t, got.WalletAddress, got.Subject)
}

func TestCertifier_WrongSecret(t *testing.T) {
	tok, err := NewCertifier("secret", "learn2earn").Issue(sampleClaims())
	require.NoError(t, err)

	_, err = NewCertifier("other", "learn2earn").Parse(tok)
	assert.Error(t, err)
}

func TestCertifier_WrongIssuer(t *testing.T) {
	tok, err := NewCertifier("secret", "someone-else").Issue(sampleClaims())
	require.NoError(t, err)

	_, err = NewCertifier("secret", "learn2earn").Parse(tok)
	assert.Error(t, err)
}

func TestCertifier_RejectsNoneAlg(t *testing.T) {
	claims := sampleClaims()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewCertifier("secret", "").Parse(tok)
	assert.Error(t, err)
}

func TestCertifier_MissingCourse(t *testing.T) {
	c := NewCertifier("secret", "learn2earn")
	claims := sampleClaims()
	claims.CourseID = ""

	tok, err := c.Issue(claims)
	require.NoError(t, err)

	_, err = c.Parse(tok)
	assert.Error(t, err)
}

func TestCertifier_Garbage(t *testing.T) {
	_, err := NewCertifier("secret", "learn2earn").Parse("not-a-jwt")
	assert.Error(t, err)
}
