package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	Income  TxnType = "income"
	Expense TxnType = "expense"
)

type (
	TxnType string

	// Transaction is the canonical record shape. ID is assigned by the
	// document store on creation and immutable thereafter. Type is derived
	// from the sign of Amount at create/update time and stored; it is never
	// reconciled on later reads.
	Transaction struct {
		ID     string
		Name   string
		Amount float64
		Type   TxnType
		Date   time.Time
	}

	// Draft holds raw form input before validation. Amount stays a string
	// until Parse so "abc" and "" can be told apart from a real number.
	Draft struct {
		Name   string
		Amount string
	}
)

var (
	ErrEmptyName     = errors.New("empty transaction name")
	ErrNameTooLong   = errors.New("transaction name too long (max 200 characters)")
	ErrEmptyAmount   = errors.New("empty amount")
	ErrInvalidAmount = errors.New("invalid amount")
)

// TypeForAmount classifies an amount: non-negative is income, negative is
// expense. This is the only place the classification rule lives.
func TypeForAmount(amount float64) TxnType {
	if amount >= 0 {
		return Income
	}
	return Expense
}

// IsValid reports whether t is one of the two known types.
func (t TxnType) IsValid() bool {
	return t == Income || t == Expense
}

// Parse validates the draft and returns the trimmed name and parsed amount.
// Validation failures never reach a store.
func (d Draft) Parse() (string, float64, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return "", 0, ErrEmptyName
	}
	if len(name) > 200 {
		return "", 0, ErrNameTooLong
	}

	raw := strings.TrimSpace(d.Amount)
	if raw == "" {
		return "", 0, ErrEmptyAmount
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", 0, ErrInvalidAmount
	}

	return name, amount, nil
}

// IsEmpty reports whether the draft carries no input at all.
func (d Draft) IsEmpty() bool {
	return strings.TrimSpace(d.Name) == "" && strings.TrimSpace(d.Amount) == ""
}

// IsValidation reports whether err is a local input-validation failure, as
// opposed to a store-boundary failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrNameTooLong) ||
		errors.Is(err, ErrEmptyAmount) ||
		errors.Is(err, ErrInvalidAmount)
}

func (tx Transaction) Validate() error {
	if len(strings.TrimSpace(tx.Name)) == 0 {
		return ErrEmptyName
	}
	if len(tx.Name) > 200 {
		return ErrNameTooLong
	}
	if !tx.Type.IsValid() {
		return errors.New("invalid transaction type")
	}
	return nil
}
