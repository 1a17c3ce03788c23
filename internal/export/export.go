// Package export renders the ledger to portable JSON and CSV documents and
// parses the JSON form back. ToJSON and FromJSON are exact structural
// inverses; a document that fails to parse is rejected whole.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"tally/internal/core"
)

// FormatVersion tags every exported JSON document.
const FormatVersion = "1.0.0"

// ErrBadFormat is returned for malformed JSON or a missing/unknown version
// tag. The import aborts; nothing partial is ever applied.
var ErrBadFormat = errors.New("invalid export document")

// Document is the JSON export envelope.
type Document struct {
	Accounts     []core.Account     `json:"accounts"`
	Transactions []core.Transaction `json:"transactions"`
	Categories   []core.Category    `json:"categories"`
	ExportDate   time.Time          `json:"exportDate"`
	Version      string             `json:"version"`
}

// DateRange narrows which transactions an export includes.
type DateRange string

const (
	RangeAll   DateRange = "all"
	RangeMonth DateRange = "month"
	RangeYear  DateRange = "year"
)

// FilterTransactions keeps the transactions matching the range relative
// to now.
func FilterTransactions(txs []core.Transaction, r DateRange, now time.Time) []core.Transaction {
	if r == RangeAll {
		return txs
	}
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		switch r {
		case RangeMonth:
			if tx.Date.Month() == now.Month() && tx.Date.Year() == now.Year() {
				out = append(out, tx)
			}
		case RangeYear:
			if tx.Date.Year() == now.Year() {
				out = append(out, tx)
			}
		}
	}
	return out
}

// ToJSON serializes the three collections plus an export timestamp and a
// format-version tag.
func ToJSON(accounts []core.Account, txs []core.Transaction, cats []core.Category, now time.Time) (string, error) {
	doc := Document{
		Accounts:     accounts,
		Transactions: txs,
		Categories:   cats,
		ExportDate:   now,
		Version:      FormatVersion,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal export: %w", err)
	}
	return string(data), nil
}

// FromJSON parses an exported document. It is the structural inverse of
// ToJSON and fails with ErrBadFormat on malformed JSON or a version tag it
// does not understand.
func FromJSON(text string) (Document, error) {
	var doc Document
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if doc.Version != FormatVersion {
		return Document{}, fmt.Errorf("%w: unsupported version %q", ErrBadFormat, doc.Version)
	}
	return doc, nil
}

// ToCSV renders one row per transaction with category and account names
// resolved by id. Unresolved references render as empty strings here, not as
// the "Other" placeholder the statistics use: a spreadsheet cell should stay
// blank rather than claim a category. Quoting follows RFC 4180, so embedded
// double quotes are doubled.
func ToCSV(txs []core.Transaction, cats []core.Category, accounts []core.Account) (string, error) {
	catName := make(map[string]string, len(cats))
	for _, c := range cats {
		catName[c.ID] = c.Name
	}
	acctName := make(map[string]string, len(accounts))
	for _, a := range accounts {
		acctName[a.ID] = a.Name
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write([]string{"Date", "Type", "Amount", "Category", "Account", "Description"}); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, tx := range txs {
		label := "Expense"
		if tx.Type == core.Income {
			label = "Income"
		}
		row := []string{
			tx.Date.Format("2006-01-02"),
			label,
			tx.Amount.String(),
			catName[tx.CategoryID],
			acctName[tx.AccountID],
			tx.Description,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return sb.String(), nil
}

// JSONFileName returns the export filename for the given day, e.g.
// accounting-data-2024-03-01.json.
func JSONFileName(now time.Time) string {
	return fmt.Sprintf("accounting-data-%s.json", now.Format("2006-01-02"))
}

// CSVFileName returns the export filename for the given day, e.g.
// transactions-2024-03-01.csv.
func CSVFileName(now time.Time) string {
	return fmt.Sprintf("transactions-%s.csv", now.Format("2006-01-02"))
}
