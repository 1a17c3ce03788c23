package store

import (
	"errors"
	"testing"
	"time"

	"tally/internal/core"
)

func testTx() core.Transaction {
	return core.Transaction{
		Type:       core.Expense,
		Amount:     core.Money{Cents: 500},
		CategoryID: "food",
		AccountID:  "a1",
		Date:       time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC),
	}
}

func TestAddTransactionAssignsID(t *testing.T) {
	l := New(nil, nil, nil)
	id, err := l.AddTransaction(testTx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatalf("expected assigned id")
	}
	txs := l.Transactions()
	if len(txs) != 1 || txs[0].ID != id {
		t.Fatalf("transaction not stored: %+v", txs)
	}
}

func TestAddTransactionValidationLeavesStateUnchanged(t *testing.T) {
	l := New(nil, nil, nil)
	bad := testTx()
	bad.CategoryID = ""
	if _, err := l.AddTransaction(bad); !errors.Is(err, core.ErrMissingCategory) {
		t.Fatalf("expected ErrMissingCategory, got %v", err)
	}
	if len(l.Transactions()) != 0 {
		t.Fatalf("failed validation must not mutate state")
	}
}

func TestDeleteTransaction(t *testing.T) {
	l := New(nil, nil, nil)
	id, _ := l.AddTransaction(testTx())
	if err := l.DeleteTransaction(id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l.Transactions()) != 0 {
		t.Fatalf("transaction not deleted")
	}
	if err := l.DeleteTransaction(id); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestPatchAccount(t *testing.T) {
	l := New([]core.Account{{ID: "a1", Name: "Wallet", Type: core.Cash, Balance: core.Money{Cents: 100}}}, nil, nil)

	name := "Pocket"
	balance := core.Money{Cents: 2500}
	if err := l.PatchAccount("a1", AccountPatch{Name: &name, Balance: &balance}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := l.Accounts()[0]
	if a.Name != "Pocket" || a.Balance.Cents != 2500 {
		t.Fatalf("patch not applied: %+v", a)
	}
	if a.Type != core.Cash {
		t.Fatalf("untouched field changed: %+v", a)
	}

	if err := l.PatchAccount("missing", AccountPatch{Name: &name}); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestSubscribeNotifiesAfterMutation(t *testing.T) {
	l := New(nil, nil, nil)
	calls := 0
	unsub := l.Subscribe(func() { calls++ })

	if _, err := l.AddTransaction(testTx()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 notification, got %d", calls)
	}

	bad := testTx()
	bad.AccountID = ""
	_, _ = l.AddTransaction(bad)
	if calls != 1 {
		t.Fatalf("failed mutation must not notify, got %d", calls)
	}

	unsub()
	l.SetDarkMode(true)
	if calls != 1 {
		t.Fatalf("unsubscribed observer must not fire, got %d", calls)
	}
}

func TestDefaultCategoriesSeeded(t *testing.T) {
	l := New(nil, nil, nil)
	if len(l.Categories()) == 0 {
		t.Fatalf("expected seeded categories")
	}
}

func TestResolveCategoryFallback(t *testing.T) {
	l := New(nil, nil, nil)
	if got := l.ResolveCategory("food"); got.Name != "Food & Dining" {
		t.Fatalf("expected resolved category, got %+v", got)
	}
	if got := l.ResolveCategory("ghost"); got.ID != core.FallbackCategoryID {
		t.Fatalf("dangling id should resolve to fallback, got %+v", got)
	}
}

func TestAccountNameMiss(t *testing.T) {
	l := New([]core.Account{{ID: "a1", Name: "Wallet", Type: core.Cash}}, nil, nil)
	if got := l.AccountName("a1"); got != "Wallet" {
		t.Fatalf("expected Wallet, got %q", got)
	}
	if got := l.AccountName("ghost"); got != "" {
		t.Fatalf("expected empty name on miss, got %q", got)
	}
}

func TestReplaceSwapsAllCollections(t *testing.T) {
	l := New(nil, nil, nil)
	_, _ = l.AddTransaction(testTx())

	accounts := []core.Account{{ID: "a9", Name: "New", Type: core.Savings}}
	cats := []core.Category{{ID: "c9", Name: "Imported", Type: core.Expense}}
	l.Replace(accounts, cats, nil)

	if len(l.Transactions()) != 0 {
		t.Fatalf("transactions should be replaced")
	}
	if len(l.Accounts()) != 1 || l.Accounts()[0].ID != "a9" {
		t.Fatalf("accounts should be replaced")
	}
	if len(l.Categories()) != 1 {
		t.Fatalf("categories should be replaced")
	}
}
