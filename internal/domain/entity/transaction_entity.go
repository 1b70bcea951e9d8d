package entity

import "time"

// Transaction types as stored and sent over the wire.
const (
	TransactionIncome  = "I"
	TransactionExpense = "E"
)

// Transaction is an income or expense owned by a profile. Owner fields are
// only populated by per-profile listings.
type Transaction struct {
	ID         int64     `json:"id"`
	Amount     int64     `json:"monto"`
	Type       string    `json:"tipo"`
	Date       time.Time `json:"fecha"`
	ProfileID  int64     `json:"usuarioId"`
	Concept    *string   `json:"concepto"`
	OwnerName  string    `json:"nombrecompleto,omitempty"`
	OwnerEmail string    `json:"email,omitempty"`
}

func ValidTransactionType(t string) bool {
	return t == TransactionIncome || t == TransactionExpense
}
