package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// StatementLine is a single line read from a bank or card statement.
// Only Descriptor feeds merchant resolution; the rest is carried for display.
type StatementLine struct {
	Date       time.Time
	ID         string
	Descriptor string // Raw statement text
	AccountID  string
	Type       string // e.g. DEBIT, FEE, ATM
	Hash       string
	Amount     float64
}

// GenerateHash creates a stable hash for duplicate detection.
func (l *StatementLine) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		l.Date.Format("2006-01-02"),
		l.Amount,
		l.Descriptor,
		l.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
