package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tally/internal/checkin"
	"tally/internal/cli"
	"tally/internal/core"
	"tally/internal/export"
	"tally/internal/feedback"
	"tally/internal/services"
)

const usage = `usage: tally <command> [flags]

commands:
  add        record a transaction
  list       list transactions
  accounts   list accounts
  account    create an account
  stats      window totals (income/expense/balance)
  breakdown  category breakdown for a window
  checkin    record today's check-in
  streak     check-in statistics
  export     write a JSON or CSV export file
  import     replace the ledger from a JSON export
  feedback   submit, list, update or delete feedback
`

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(slog.LevelInfo)
	cfg := cli.LoadAndValidateConfig(logger)
	if level, err := cfg.SlogLevel(); err == nil {
		logger = cli.SetupLogger(level)
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	svc := cli.InitService(ctx, logger, cfg.DBPath)
	defer svc.Close()

	var err error
	switch os.Args[1] {
	case "add":
		err = runAdd(ctx, svc, os.Args[2:])
	case "list":
		err = runList(svc)
	case "accounts":
		err = runAccounts(svc)
	case "account":
		err = runAccount(ctx, svc, os.Args[2:])
	case "stats":
		err = runStats(svc, os.Args[2:])
	case "breakdown":
		err = runBreakdown(svc, os.Args[2:])
	case "checkin":
		err = runCheckIn(ctx, svc)
	case "streak":
		err = runStreak(svc)
	case "export":
		err = runExport(svc, cfg.ExportDir, os.Args[2:])
	case "import":
		err = runImport(ctx, svc, os.Args[2:])
	case "feedback":
		err = runFeedback(ctx, svc, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("Command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func runAdd(ctx context.Context, svc *services.LedgerService, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	typ := fs.String("type", "expense", "income or expense")
	amount := fs.String("amount", "", "decimal amount, e.g. 12.34")
	category := fs.String("category", "", "category id")
	account := fs.String("account", "", "account id")
	date := fs.String("date", "", "YYYY-MM-DD (default today)")
	desc := fs.String("desc", "", "description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cents, err := core.ParseDecimalToCents(*amount)
	if err != nil {
		return fmt.Errorf("parse amount: %w", err)
	}
	when := time.Now()
	if *date != "" {
		if when, err = checkin.ParseDay(*date); err != nil {
			return err
		}
	}

	id, err := svc.AddTransaction(ctx, core.Transaction{
		Type:        core.EntryType(*typ),
		Amount:      core.Money{Cents: cents},
		CategoryID:  *category,
		AccountID:   *account,
		Date:        when,
		Description: *desc,
	})
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

func runList(svc *services.LedgerService) error {
	for _, tx := range svc.Ledger().Transactions() {
		cat := svc.Ledger().ResolveCategory(tx.CategoryID)
		fmt.Printf("%s  %s  %-7s  %8s  %-16s  %s\n",
			tx.ID, tx.Date.Format("2006-01-02"), tx.Type, tx.Amount, cat.Name, tx.Description)
	}
	return nil
}

func runAccounts(svc *services.LedgerService) error {
	for _, a := range svc.Ledger().Accounts() {
		fmt.Printf("%s  %-10s  %-16s  %10s\n", a.ID, a.Type, a.Name, a.Balance)
	}
	return nil
}

func runAccount(ctx context.Context, svc *services.LedgerService, args []string) error {
	fs := flag.NewFlagSet("account", flag.ExitOnError)
	name := fs.String("name", "", "account name")
	typ := fs.String("type", "cash", "savings, credit, cash or checking")
	balance := fs.String("balance", "0.00", "opening balance")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cents := int64(0)
	if *balance != "" && *balance != "0" && *balance != "0.00" {
		c, err := core.ParseDecimalToCents(*balance)
		if err != nil {
			return fmt.Errorf("parse balance: %w", err)
		}
		cents = c
	}
	id, err := svc.AddAccount(ctx, core.Account{
		Name:    *name,
		Type:    core.AccountType(*typ),
		Balance: core.Money{Cents: cents},
	})
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

func runStats(svc *services.LedgerService, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	window := fs.String("window", "month", "today, week, month, year or all")
	if err := fs.Parse(args); err != nil {
		return err
	}
	w, err := core.ParseWindow(*window)
	if err != nil {
		return err
	}
	st := svc.WindowStats(w, time.Now())
	fmt.Printf("income  %10s\nexpense %10s\nbalance %10s\ncount   %10d\n",
		st.Income, st.Expense, st.Balance, st.Count)
	return nil
}

func runBreakdown(svc *services.LedgerService, args []string) error {
	fs := flag.NewFlagSet("breakdown", flag.ExitOnError)
	window := fs.String("window", "month", "today, week, month, year or all")
	typ := fs.String("type", "expense", "income or expense")
	top := fs.Int("top", 5, "number of categories to show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	w, err := core.ParseWindow(*window)
	if err != nil {
		return err
	}
	for _, slice := range svc.Breakdown(w, core.EntryType(*typ), time.Now(), *top) {
		fmt.Printf("%-16s  %10s  %5.1f%%\n", slice.Name, slice.Amount, slice.Percentage)
	}
	return nil
}

func runCheckIn(ctx context.Context, svc *services.LedgerService) error {
	already, err := svc.CheckIn(ctx, time.Now())
	if err != nil {
		return err
	}
	if already {
		fmt.Println("already checked in today")
		return nil
	}
	st, err := svc.CheckInStats(time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("checked in, streak %d\n", st.ConsecutiveDays)
	return nil
}

func runStreak(svc *services.LedgerService) error {
	st, err := svc.CheckInStats(time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("total days      %d\ncurrent streak  %d\nmax streak      %d\nthis month      %d\nlast check-in   %s\n",
		st.TotalDays, st.ConsecutiveDays, st.MaxConsecutiveDays, st.CurrentMonthDays, st.LastCheckInDate)
	return nil
}

func runExport(svc *services.LedgerService, dir string, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "json", "json or csv")
	dateRange := fs.String("range", "all", "all, month or year")
	if err := fs.Parse(args); err != nil {
		return err
	}

	now := time.Now()
	var text, name string
	var err error
	switch *format {
	case "csv":
		text, err = svc.ExportCSV(export.DateRange(*dateRange), now)
		name = export.CSVFileName(now)
	default:
		text, err = svc.ExportJSON(export.DateRange(*dateRange), now)
		name = export.JSONFileName(now)
	}
	if err != nil {
		return err
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	fmt.Println(path)
	return nil
}

func runImport(ctx context.Context, svc *services.LedgerService, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	file := fs.String("file", "", "JSON export file")
	yes := fs.Bool("yes", false, "confirm overwriting current data")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return fmt.Errorf("import overwrites existing data; re-run with -yes to confirm")
	}
	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	return svc.Import(ctx, string(data))
}

func runFeedback(ctx context.Context, svc *services.LedgerService, args []string) error {
	fs := flag.NewFlagSet("feedback", flag.ExitOnError)
	kind := fs.String("kind", "general", "feedback kind")
	content := fs.String("message", "", "feedback text")
	contact := fs.String("contact", "", "optional contact")
	list := fs.Bool("list", false, "list feedback records")
	id := fs.String("id", "", "feedback id to update or delete")
	status := fs.String("status", "", "new status: pending, reviewed or resolved")
	del := fs.Bool("delete", false, "delete the record given by -id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *list:
		for _, fb := range svc.Feedback() {
			fmt.Printf("%s  %s  %-8s  %-8s  %s\n",
				fb.ID, fb.CreatedAt.Format("2006-01-02"), fb.Status, fb.Kind, fb.Content)
		}
		return nil
	case *del:
		if *id == "" {
			return fmt.Errorf("-delete requires -id")
		}
		return svc.DeleteFeedback(ctx, *id)
	case *status != "":
		if *id == "" {
			return fmt.Errorf("-status requires -id")
		}
		return svc.UpdateFeedbackStatus(ctx, *id, feedback.Status(*status))
	default:
		fb, err := svc.SubmitFeedback(ctx, *kind, *content, *contact, time.Now())
		if err != nil {
			return err
		}
		fmt.Println(fb.ID)
		return nil
	}
}
