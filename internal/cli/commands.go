package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"wallet/internal/core"
	"wallet/internal/ledger"
	"wallet/internal/metrics"
)

// ErrUsage marks bad command lines; callers exit with status 2 on it.
var ErrUsage = errors.New("usage")

type command struct {
	summary string
	run     func(ctx context.Context, args []string) error
}

// Runner executes wallet subcommands against a ledger store.
type Runner struct {
	store *ledger.Store
	out   io.Writer
	topN  int
	now   func() time.Time
}

// Option configures a Runner
type Option func(r *Runner)

// WithOutput sets where command output is written
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.out = w
		}
	}
}

// WithTopN sets how many categories summary and top show by default
func WithTopN(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.topN = n
		}
	}
}

// WithClock sets the clock used for the default -date
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRunner returns a Runner writing to stdout unless WithOutput says otherwise.
func NewRunner(store *ledger.Store, opts ...Option) *Runner {
	r := &Runner{
		store: store,
		out:   os.Stdout,
		topN:  metrics.DefaultTopN,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) commands() map[string]command {
	return map[string]command{
		"add-expense": {"record an expense", func(ctx context.Context, args []string) error {
			return r.add(ctx, "add-expense", core.Expense, args)
		}},
		"add-income": {"record income", func(ctx context.Context, args []string) error {
			return r.add(ctx, "add-income", core.Income, args)
		}},
		"edit":        {"change fields of a transaction", r.edit},
		"rm":          {"remove a transaction", r.remove},
		"list":        {"list transactions, newest first", r.list},
		"summary":     {"show totals and top categories", r.summary},
		"top":         {"show the biggest expense categories", r.top},
		"deposit":     {"add money to the opening balance", r.deposit},
		"set-balance": {"replace the opening balance", r.setBalance},
		"categories":  {"list the category catalog", r.categories},
	}
}

// Run dispatches args[0] to its subcommand.
func (r *Runner) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		r.Usage()
		return usageError("missing command")
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		r.Usage()
		return nil
	}
	cmd, ok := r.commands()[args[0]]
	if !ok {
		r.Usage()
		return usageError("unknown command %q", args[0])
	}
	return cmd.run(ctx, args[1:])
}

// Usage prints the list of subcommands.
func (r *Runner) Usage() {
	cmds := r.commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(r.out, "Usage: wallet <command> [flags]")
	fmt.Fprintln(r.out)
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%s\n", name, cmds[name].summary)
	}
	w.Flush()
}

func (r *Runner) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.out)
	return fs
}

func (r *Runner) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usageError("%s: %v", fs.Name(), err)
	}
	if fs.NArg() > 0 {
		return usageError("%s: unexpected argument %q", fs.Name(), fs.Arg(0))
	}
	return nil
}

func (r *Runner) add(ctx context.Context, name string, typ core.TransactionType, args []string) error {
	fs := r.flagSet(name)
	title := fs.String("title", "", "short description")
	amount := fs.String("amount", "", "positive amount, e.g. 12.50")
	category := fs.String("category", "", "category, see 'wallet categories'")
	date := fs.String("date", r.now().Format(core.DateLayout), "date as YYYY-MM-DD")
	if err := r.parse(fs, args); err != nil {
		return err
	}

	tx, err := r.store.Add(ctx, core.Draft{
		Title:    *title,
		Amount:   *amount,
		Category: *category,
		Date:     *date,
		Type:     typ,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "Added %s %s: %s %s (%s)\n", tx.Type, tx.ID, tx.Title, tx.Amount, tx.Category)
	r.printAvailable()
	return nil
}

func (r *Runner) edit(ctx context.Context, args []string) error {
	fs := r.flagSet("edit")
	id := fs.String("id", "", "id of the transaction to change")
	fs.String("title", "", "new description")
	fs.String("amount", "", "new amount")
	fs.String("category", "", "new category")
	fs.String("date", "", "new date as YYYY-MM-DD")
	if err := r.parse(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return usageError("edit: -id is required")
	}

	// only flags given on the command line become part of the patch
	var patch core.Patch
	fs.Visit(func(f *flag.Flag) {
		v := f.Value.String()
		switch f.Name {
		case "title":
			patch.Title = &v
		case "amount":
			patch.Amount = &v
		case "category":
			patch.Category = &v
		case "date":
			patch.Date = &v
		}
	})
	if patch.IsEmpty() {
		return usageError("edit: nothing to change")
	}

	tx, err := r.store.Update(ctx, *id, patch)
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "Updated %s %s: %s %s (%s) on %s\n", tx.Type, tx.ID, tx.Title, tx.Amount, tx.Category, tx.Date)
	r.printAvailable()
	return nil
}

func (r *Runner) remove(ctx context.Context, args []string) error {
	fs := r.flagSet("rm")
	id := fs.String("id", "", "id of the transaction to remove")
	if err := r.parse(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return usageError("rm: -id is required")
	}

	removed, err := r.store.Remove(ctx, *id)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintf(r.out, "No transaction %s\n", *id)
		return nil
	}

	fmt.Fprintf(r.out, "Removed %s\n", *id)
	r.printAvailable()
	return nil
}

func (r *Runner) list(_ context.Context, args []string) error {
	fs := r.flagSet("list")
	if err := r.parse(fs, args); err != nil {
		return err
	}

	recent := metrics.RecentTransactions(r.store.Snapshot())
	if len(recent) == 0 {
		fmt.Fprintln(r.out, "No transactions yet")
		return nil
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTYPE\tCATEGORY\tAMOUNT\tTITLE\tID")
	for _, tx := range recent {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", tx.Date, tx.Type, tx.Category, tx.Amount, tx.Title, tx.ID)
	}
	return w.Flush()
}

func (r *Runner) summary(_ context.Context, args []string) error {
	fs := r.flagSet("summary")
	n := fs.Int("n", r.topN, "number of top categories")
	if err := r.parse(fs, args); err != nil {
		return err
	}

	s := metrics.Summarize(r.store.Snapshot(), *n)

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Total income\t%s\n", s.TotalIncome)
	fmt.Fprintf(w, "Total expenses\t%s\n", s.TotalExpenses)
	fmt.Fprintf(w, "Net balance\t%s\n", s.NetBalance)
	fmt.Fprintf(w, "Remaining\t%.2f%%\n", s.IncomeSharePercent)
	fmt.Fprintf(w, "Spent\t%.2f%%\n", s.ExpenseSharePercent)
	if err := w.Flush(); err != nil {
		return err
	}

	if len(s.TopCategories) > 0 {
		fmt.Fprintln(r.out)
		r.printShares(s.TopCategories)
	}
	return nil
}

func (r *Runner) top(_ context.Context, args []string) error {
	fs := r.flagSet("top")
	n := fs.Int("n", r.topN, "number of categories")
	if err := r.parse(fs, args); err != nil {
		return err
	}

	s := metrics.Summarize(r.store.Snapshot(), *n)
	if len(s.TopCategories) == 0 {
		fmt.Fprintln(r.out, "No expenses yet")
		return nil
	}
	r.printShares(s.TopCategories)
	return nil
}

func (r *Runner) deposit(ctx context.Context, args []string) error {
	fs := r.flagSet("deposit")
	amount := fs.String("amount", "", "positive amount to add")
	if err := r.parse(fs, args); err != nil {
		return err
	}

	if err := r.store.Deposit(ctx, *amount); err != nil {
		return err
	}
	r.printAvailable()
	return nil
}

func (r *Runner) setBalance(ctx context.Context, args []string) error {
	fs := r.flagSet("set-balance")
	amount := fs.String("amount", "", "new opening balance, zero allowed")
	if err := r.parse(fs, args); err != nil {
		return err
	}

	if err := r.store.SetOpeningBalance(ctx, *amount); err != nil {
		return err
	}
	r.printAvailable()
	return nil
}

func (r *Runner) categories(_ context.Context, args []string) error {
	fs := r.flagSet("categories")
	typ := fs.String("type", string(core.Expense), "expense or income")
	if err := r.parse(fs, args); err != nil {
		return err
	}

	t, err := core.ParseTransactionType(*typ)
	if err != nil {
		return usageError("categories: %v", err)
	}
	for _, c := range core.CategoriesFor(t) {
		fmt.Fprintln(r.out, c)
	}
	return nil
}

func (r *Runner) printShares(shares []metrics.CategoryShare) {
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tAMOUNT\tSHARE")
	for _, c := range shares {
		fmt.Fprintf(w, "%s\t%s\t%d%%\n", c.Name, c.Amount, c.Percent)
	}
	w.Flush()
}

func (r *Runner) printAvailable() {
	fmt.Fprintf(r.out, "Available: %s\n", r.store.Available())
}
