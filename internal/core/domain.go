package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	Savings  AccountType = "savings"
	Credit   AccountType = "credit"
	Cash     AccountType = "cash"
	Checking AccountType = "checking"
)

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

// FallbackCategoryID labels transactions whose category reference no longer
// resolves. It is part of the seeded set and must never be deleted.
const FallbackCategoryID = "other"

type (
	AccountType string
	EntryType   string

	Money struct {
		Cents int64 `json:"cents"`
	}

	Account struct {
		ID            string      `json:"id"`
		Name          string      `json:"name"`
		Type          AccountType `json:"type"`
		Balance       Money       `json:"balance"`
		CardNumber    string      `json:"cardNumber,omitempty"`
		BankName      string      `json:"bankName,omitempty"`
		Color         string      `json:"color,omitempty"`
		Icon          string      `json:"icon,omitempty"`
		CreditLimit   Money       `json:"creditLimit"`
		BillDate      string      `json:"billDate,omitempty"`
		RepaymentDate string      `json:"repaymentDate,omitempty"`
	}

	Category struct {
		ID       string    `json:"id"`
		Name     string    `json:"name"`
		Icon     string    `json:"icon,omitempty"`
		Color    string    `json:"color,omitempty"`
		Type     EntryType `json:"type"`
		ParentID string    `json:"parentId,omitempty"`
	}

	// Transaction is immutable once created: the store appends and deletes,
	// never updates. Amount is always non-negative; the sign is implied by Type.
	Transaction struct {
		ID          string    `json:"id"`
		Type        EntryType `json:"type"`
		Amount      Money     `json:"amount"`
		CategoryID  string    `json:"categoryId"`
		AccountID   string    `json:"accountId"`
		Date        time.Time `json:"date"`
		Description string    `json:"description,omitempty"`
		Note        string    `json:"note,omitempty"`
		Tags        []string  `json:"tags,omitempty"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid entry type")
	ErrInvalidAccount  = errors.New("invalid account type")
	ErrMissingCategory = errors.New("missing category")
	ErrMissingAccount  = errors.New("missing account")
	ErrMissingName     = errors.New("missing name")
	ErrZeroDate        = errors.New("date cannot be zero")
)

// NewID returns a fresh unique identifier. Wall-clock derived ids collide
// when two entities are created within the same millisecond, so ids are
// random UUIDs instead.
func NewID() string {
	return uuid.NewString()
}

func (t EntryType) Valid() bool {
	return t == Income || t == Expense
}

func (t AccountType) Valid() bool {
	switch t {
	case Savings, Credit, Cash, Checking:
		return true
	}
	return false
}

// Signed returns the transaction's contribution to a balance: positive for
// income, negative for expense.
func (tx Transaction) Signed() Money {
	if tx.Type == Income {
		return tx.Amount
	}
	return Money{Cents: -tx.Amount.Cents}
}

func (tx Transaction) Validate() error {
	if !tx.Type.Valid() {
		return ErrInvalidType
	}
	if tx.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(tx.CategoryID) == "" {
		return ErrMissingCategory
	}
	if strings.TrimSpace(tx.AccountID) == "" {
		return ErrMissingAccount
	}
	if tx.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrMissingName
	}
	if !a.Type.Valid() {
		return ErrInvalidAccount
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrMissingName
	}
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

// DefaultCategories returns the seeded category set. The fallback category
// comes last and absorbs transactions with dangling category references.
func DefaultCategories() []Category {
	return []Category{
		{ID: "food", Name: "Food & Dining", Icon: "🍽️", Color: "#FF6B6B", Type: Expense},
		{ID: "transport", Name: "Transport", Icon: "🚗", Color: "#4ECDC4", Type: Expense},
		{ID: "shopping", Name: "Shopping", Icon: "🛍️", Color: "#45B7D1", Type: Expense},
		{ID: "entertainment", Name: "Entertainment", Icon: "🎮", Color: "#96CEB4", Type: Expense},
		{ID: "medical", Name: "Medical", Icon: "🏥", Color: "#FFEAA7", Type: Expense},
		{ID: "salary", Name: "Salary", Icon: "💰", Color: "#00B894", Type: Income},
		{ID: "investment", Name: "Investment", Icon: "📈", Color: "#6C5CE7", Type: Income},
		{ID: FallbackCategoryID, Name: "Other", Icon: "💰", Color: "#B2BEC3", Type: Expense},
	}
}
