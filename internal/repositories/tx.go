package repositories

import (
	"time"

	"github.com/learn2earn/backend/internal/models"
)

// Tx is the view of the document handed to View and Update callbacks.
// It must not be retained after the callback returns.
type Tx struct {
	db  *models.Database
	now func() time.Time
}
