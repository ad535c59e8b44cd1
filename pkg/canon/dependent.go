package canon

import "time"

// Transaction is a store purchase made by a person. Raw transaction
// records reference the person by phone; PersonID is filled in by the
// dependent-entity linker before the transaction is written.
type Transaction struct {
	ID        string
	PersonID  string
	ClientRef string // phone or email as it appeared in the source
	Store     string
	Timestamp time.Time

	Items []TransactionItem
}

// TransactionItem is one line of a transaction. Seq preserves source
// order within the transaction when no explicit ordering field exists.
type TransactionItem struct {
	TransactionID string
	Seq           int
	Name          string
	UnitPrice     float64
	LineTotal     float64
	Quantity      int
}

// Transfer is a person-to-person money movement. Both ends must resolve
// to canonical people before the transfer is written.
type Transfer struct {
	ID           string
	SenderID     string
	RecipientID  string
	SenderRef    string // external id or phone from the source
	RecipientRef string
	Amount       float64
	Date         time.Time
}

// Promotion is a marketing offer sent to a person, referenced by email
// or phone in the source.
type Promotion struct {
	ID        string
	PersonID  string
	ClientRef string
	Item      string
	Responded bool
}
