package dto

import (
	"github.com/learn2earn/backend/internal/auth"
	"github.com/learn2earn/backend/internal/models"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// QuizErrorResponse is returned when MCQ answers are wrong.
type QuizErrorResponse struct {
	Error   string `json:"error"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
}

type AuthResponse struct {
	Token         string `json:"token"`
	DisplayName   string `json:"displayName"`
	WalletAddress string `json:"walletAddress"`
}

type TransferResponse struct {
	OK          bool               `json:"ok"`
	Transaction models.Transaction `json:"transaction"`
	Balance     int64              `json:"balance"`
}

type CompleteCourseResponse struct {
	OK          bool               `json:"ok"`
	Transaction models.Transaction `json:"transaction"`
	Wallet      *models.Wallet     `json:"wallet"`
}

type VerifyResponse struct {
	OK          bool                    `json:"ok"`
	Certificate *auth.CertificateClaims `json:"certificate"`
	Transaction models.Transaction      `json:"transaction"`
}

type CertificateResponse struct {
	Certificate string                  `json:"certificate"`
	Claims      *auth.CertificateClaims `json:"claims"`
}

type PlatformResponse struct {
	Name    string   `json:"name"`
	Initial string   `json:"initial"`
	Courses []string `json:"courses"`
}
