// Package store holds the in-memory ledger state: accounts, categories and
// transactions behind one mutex-guarded handle. Components receive the
// handle explicitly instead of reaching for a package global, and can
// subscribe to be notified after each successful mutation.
package store

import (
	"errors"
	"sync"

	"tally/internal/core"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// AccountPatch carries the mutable account fields; nil fields are left
// untouched.
type AccountPatch struct {
	Name          *string
	Balance       *core.Money
	CardNumber    *string
	BankName      *string
	Color         *string
	Icon          *string
	CreditLimit   *core.Money
	BillDate      *string
	RepaymentDate *string
}

type Ledger struct {
	mu           sync.Mutex
	accounts     []core.Account
	categories   []core.Category
	transactions []core.Transaction
	darkMode     bool

	subscribers map[int]func()
	nextSub     int
}

// New builds a ledger from injected initial state. Empty categories fall
// back to the seeded default set so the fallback category always exists.
func New(accounts []core.Account, categories []core.Category, transactions []core.Transaction) *Ledger {
	if len(categories) == 0 {
		categories = core.DefaultCategories()
	}
	return &Ledger{
		accounts:     append([]core.Account(nil), accounts...),
		categories:   append([]core.Category(nil), categories...),
		transactions: append([]core.Transaction(nil), transactions...),
		subscribers:  make(map[int]func()),
	}
}

// Subscribe registers fn to run after every successful mutation and returns
// an unsubscribe func. Callbacks run synchronously outside the lock.
func (l *Ledger) Subscribe(fn func()) func() {
	l.mu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subscribers[id] = fn
	l.mu.Unlock()
	return func() {
		l.mu.Lock()
		delete(l.subscribers, id)
		l.mu.Unlock()
	}
}

func (l *Ledger) notify() {
	l.mu.Lock()
	fns := make([]func(), 0, len(l.subscribers))
	for _, fn := range l.subscribers {
		fns = append(fns, fn)
	}
	l.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// AddTransaction validates tx, assigns it a fresh id and appends it.
// The assigned id is returned. State is unchanged on validation failure.
func (l *Ledger) AddTransaction(tx core.Transaction) (string, error) {
	tx.ID = core.NewID()
	if err := tx.Validate(); err != nil {
		return "", err
	}
	l.mu.Lock()
	l.transactions = append(l.transactions, tx)
	l.mu.Unlock()
	l.notify()
	return tx.ID, nil
}

func (l *Ledger) DeleteTransaction(id string) error {
	l.mu.Lock()
	idx := -1
	for i, tx := range l.transactions {
		if tx.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return ErrTransactionNotFound
	}
	l.transactions = append(l.transactions[:idx], l.transactions[idx+1:]...)
	l.mu.Unlock()
	l.notify()
	return nil
}

func (l *Ledger) AddAccount(a core.Account) (string, error) {
	a.ID = core.NewID()
	if err := a.Validate(); err != nil {
		return "", err
	}
	l.mu.Lock()
	l.accounts = append(l.accounts, a)
	l.mu.Unlock()
	l.notify()
	return a.ID, nil
}

// PatchAccount applies the non-nil fields of p to the account with the
// given id.
func (l *Ledger) PatchAccount(id string, p AccountPatch) error {
	l.mu.Lock()
	idx := -1
	for i, a := range l.accounts {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return ErrAccountNotFound
	}
	a := &l.accounts[idx]
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Balance != nil {
		a.Balance = *p.Balance
	}
	if p.CardNumber != nil {
		a.CardNumber = *p.CardNumber
	}
	if p.BankName != nil {
		a.BankName = *p.BankName
	}
	if p.Color != nil {
		a.Color = *p.Color
	}
	if p.Icon != nil {
		a.Icon = *p.Icon
	}
	if p.CreditLimit != nil {
		a.CreditLimit = *p.CreditLimit
	}
	if p.BillDate != nil {
		a.BillDate = *p.BillDate
	}
	if p.RepaymentDate != nil {
		a.RepaymentDate = *p.RepaymentDate
	}
	l.mu.Unlock()
	l.notify()
	return nil
}

// Replace swaps all three collections at once. Used by import, which must
// apply a fully parsed document or nothing.
func (l *Ledger) Replace(accounts []core.Account, categories []core.Category, transactions []core.Transaction) {
	l.mu.Lock()
	l.accounts = append([]core.Account(nil), accounts...)
	l.categories = append([]core.Category(nil), categories...)
	l.transactions = append([]core.Transaction(nil), transactions...)
	l.mu.Unlock()
	l.notify()
}

func (l *Ledger) SetDarkMode(on bool) {
	l.mu.Lock()
	l.darkMode = on
	l.mu.Unlock()
	l.notify()
}

func (l *Ledger) DarkMode() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.darkMode
}

// Accounts returns a defensive copy.
func (l *Ledger) Accounts() []core.Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Account(nil), l.accounts...)
}

// Categories returns a defensive copy.
func (l *Ledger) Categories() []core.Category {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Category(nil), l.categories...)
}

// Transactions returns a defensive copy.
func (l *Ledger) Transactions() []core.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Transaction(nil), l.transactions...)
}

// ResolveCategory maps a category id to its category, falling back to the
// "Other" placeholder on a dangling reference so rendering never fails.
func (l *Ledger) ResolveCategory(id string) core.Category {
	l.mu.Lock()
	defer l.mu.Unlock()
	var fallback core.Category
	for _, c := range l.categories {
		if c.ID == id {
			return c
		}
		if c.ID == core.FallbackCategoryID {
			fallback = c
		}
	}
	if fallback.ID == "" {
		fallback = core.Category{ID: core.FallbackCategoryID, Name: "Other", Type: core.Expense}
	}
	return fallback
}

// AccountName maps an account id to its display name, empty on a miss.
func (l *Ledger) AccountName(id string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, a := range l.accounts {
		if a.ID == id {
			return a.Name
		}
	}
	return ""
}
