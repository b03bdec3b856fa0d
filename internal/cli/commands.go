package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/report"
	"fintrack/internal/services"
)

// ErrUsage marks malformed command lines.
var ErrUsage = errors.New("usage error")

// IsUserError reports whether err should be shown to the user as a form
// message rather than treated as a failure.
func IsUserError(err error) bool {
	for _, target := range []error{
		ErrUsage,
		core.ErrChooseCategory,
		core.ErrMissingField,
		core.ErrNameTooLong,
		core.ErrAmountTooLarge,
		core.ErrInvalidAmount,
		core.ErrInvalidType,
		core.ErrInvalidTimePeriod,
		core.ErrInvalidTarget,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// App runs fintrack commands against a Tracker.
type App struct {
	Tracker *services.Tracker
	Out     io.Writer
	Err     io.Writer

	// Now is used to pick the current month. Defaults to time.Now.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now().In(a.Tracker.Location())
	}
	return time.Now().In(a.Tracker.Location())
}

func (a *App) report() *report.Report {
	return report.New(a.Out)
}

// Run dispatches args[0] to its command.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.PrintUsage()
		return fmt.Errorf("%w: missing command", ErrUsage)
	}
	rest := args[1:]
	log.FromContext(ctx).WithComponent(log.ComponentCLI).DebugContext(ctx, "Running command", log.FieldOperation, args[0])
	switch args[0] {
	case "add":
		return a.runAdd(ctx, rest)
	case "edit":
		return a.runEdit(ctx, rest)
	case "delete":
		return a.runDelete(ctx, rest)
	case "list":
		return a.runList(rest)
	case "budget":
		return a.runTarget(ctx, core.BudgetTarget, rest)
	case "goal":
		return a.runTarget(ctx, core.GoalTarget, rest)
	case "category":
		return a.runCategory(ctx, rest)
	case "summary":
		return a.runSummary(rest)
	case "dashboard":
		return a.runDashboard()
	case "chart":
		return a.runChart(rest)
	case "help", "-h", "--help":
		a.PrintUsage()
		return nil
	}
	a.PrintUsage()
	return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
}

// PrintUsage writes the command overview.
func (a *App) PrintUsage() {
	fmt.Fprint(a.Out, `fintrack - personal finance tracker

Usage:
  fintrack <command> [options]

Commands:
  add        Record a transaction (-type -name -category -amount [-new-category])
  edit       Edit a transaction (-id -name -category -amount)
  delete     Delete a transaction (-id)
  list       List transactions ([-month N] [-type expense|income])
  budget     Manage budgets (set|delete|list [-raw])
  goal       Manage savings goals (set|delete|list [-raw])
  category   Manage categories (add|list)
  summary    Monthly income, expenses and category totals ([-month N])
  dashboard  Overall totals, current month, budgets and goals
  chart      Category charts ([-type bar|pie])
  help       Show this help message

Run 'fintrack <command> -h' for more information on a command.
`)
}

func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.Err)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return nil
}

func (a *App) runAdd(ctx context.Context, args []string) error {
	fs := a.flags("add")
	typ := fs.String("type", string(core.Expense), "expense or income")
	name := fs.String("name", "", "transaction name (max 30 characters)")
	category := fs.String("category", core.ChooseCategory, "category from the registry")
	amount := fs.String("amount", "", "amount, e.g. 12.50 (max 10000)")
	newCategory := fs.String("new-category", "", "register this category first and book on it")
	if err := parse(fs, args); err != nil {
		return err
	}

	t := core.TransactionType(*typ)
	if err := t.Validate(); err != nil {
		return err
	}
	if c := strings.TrimSpace(*newCategory); c != "" {
		a.Tracker.AddCategory(ctx, c, t)
		*category = c
	}

	form := core.TransactionForm{Type: t, Name: *name, Category: *category, Amount: *amount}
	tx, err := form.Transaction()
	if err != nil {
		return err
	}
	if !a.Tracker.HasCategory(tx.Category, t) {
		return core.ErrChooseCategory
	}

	tx = a.Tracker.AddTransaction(ctx, tx.Name, tx.Category, tx.Amount, tx.Type)
	fmt.Fprintf(a.Out, "Added %s %q %s in %s (id %d)\n", tx.Type, tx.Name, report.FormatMoney(tx.Amount), tx.Category, tx.ID)
	return nil
}

func (a *App) runEdit(ctx context.Context, args []string) error {
	fs := a.flags("edit")
	id := fs.Int64("id", 0, "transaction id")
	name := fs.String("name", "", "new name")
	category := fs.String("category", core.ChooseCategory, "new category")
	amount := fs.String("amount", "", "new amount")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id == 0 {
		return fmt.Errorf("%w: -id is required", ErrUsage)
	}

	patch, err := core.EditForm{Name: *name, Category: *category, Amount: *amount}.Patch()
	if err != nil {
		return err
	}
	if tx, ok := a.Tracker.Transaction(*id); ok && !a.Tracker.HasCategory(*patch.Category, tx.Type) {
		return core.ErrChooseCategory
	}

	if a.Tracker.EditTransaction(ctx, *id, patch) {
		fmt.Fprintf(a.Out, "Updated transaction %d\n", *id)
	} else {
		fmt.Fprintf(a.Out, "No transaction with id %d\n", *id)
	}
	return nil
}

func (a *App) runDelete(ctx context.Context, args []string) error {
	fs := a.flags("delete")
	id := fs.Int64("id", 0, "transaction id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id == 0 {
		return fmt.Errorf("%w: -id is required", ErrUsage)
	}

	if a.Tracker.DeleteTransaction(ctx, *id) {
		fmt.Fprintf(a.Out, "Deleted transaction %d\n", *id)
	} else {
		fmt.Fprintf(a.Out, "No transaction with id %d\n", *id)
	}
	return nil
}

func (a *App) runList(args []string) error {
	fs := a.flags("list")
	month := fs.Int("month", 0, "only transactions created in this month (1-12), any year")
	typ := fs.String("type", "", "only expense or income")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *typ != "" {
		if err := core.TransactionType(*typ).Validate(); err != nil {
			return fmt.Errorf("%w: %q", err, *typ)
		}
	}
	if *month != 0 {
		if _, err := checkMonth(*month); err != nil {
			return err
		}
	}

	loc := a.Tracker.Location()
	var out []core.Transaction
	for _, tx := range a.Tracker.Transactions() {
		if *typ != "" && string(tx.Type) != *typ {
			continue
		}
		if *month != 0 && core.CreatedAt(tx.ID, loc).Month() != time.Month(*month) {
			continue
		}
		out = append(out, tx)
	}
	a.report().Transactions(out, loc)
	return nil
}

func (a *App) runTarget(ctx context.Context, kind core.TargetType, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: %s needs set, delete or list", ErrUsage, kind)
	}
	switch args[0] {
	case "set":
		fs := a.flags(string(kind) + " set")
		category := fs.String("category", core.ChooseCategory, "category")
		period := fs.String("period", string(core.Monthly), "monthly or weekly")
		amount := fs.String("amount", "", "target amount")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		target, err := core.TargetForm{
			Type:       kind,
			Category:   *category,
			TimePeriod: core.TimePeriod(*period),
			Amount:     *amount,
		}.Target()
		if err != nil {
			return err
		}
		if !a.Tracker.HasCategory(target.Category, kind.CategoryType()) {
			return core.ErrChooseCategory
		}
		if kind == core.GoalTarget {
			a.Tracker.SetGoal(ctx, target)
		} else {
			a.Tracker.SetBudget(ctx, target)
		}
		fmt.Fprintf(a.Out, "Set %s %s %s for %s\n", target.TimePeriod, kind, report.FormatMoney(target.Amount), target.Category)
		return nil

	case "delete":
		fs := a.flags(string(kind) + " delete")
		category := fs.String("category", "", "category")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if strings.TrimSpace(*category) == "" {
			return fmt.Errorf("%w: -category is required", ErrUsage)
		}
		var n int
		if kind == core.GoalTarget {
			n = a.Tracker.DeleteGoal(ctx, *category)
		} else {
			n = a.Tracker.DeleteBudget(ctx, *category)
		}
		fmt.Fprintf(a.Out, "Removed %d %s(s) for %s\n", n, kind, *category)
		return nil

	case "list":
		fs := a.flags(string(kind) + " list")
		raw := fs.Bool("raw", false, "list the stored amounts without progress")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		switch {
		case *raw && kind == core.GoalTarget:
			a.report().Targets("Goals", a.Tracker.Goals())
		case *raw:
			a.report().Targets("Budgets", a.Tracker.Budgets())
		case kind == core.GoalTarget:
			a.report().Goals(a.Tracker.GoalProgresses())
		default:
			a.report().Budgets(a.Tracker.BudgetUsages())
		}
		return nil
	}
	return fmt.Errorf("%w: unknown %s action %q", ErrUsage, kind, args[0])
}

func (a *App) runCategory(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: category needs add or list", ErrUsage)
	}
	switch args[0] {
	case "add":
		fs := a.flags("category add")
		typ := fs.String("type", string(core.Expense), "expense or income")
		name := fs.String("name", "", "category label")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		t := core.TransactionType(*typ)
		if err := t.Validate(); err != nil {
			return err
		}
		label := strings.TrimSpace(*name)
		if label == "" {
			return fmt.Errorf("%w: name", core.ErrMissingField)
		}
		if a.Tracker.AddCategory(ctx, label, t) {
			fmt.Fprintf(a.Out, "Added %s category %s\n", t, label)
		} else {
			fmt.Fprintf(a.Out, "%s category %s already exists\n", t, label)
		}
		return nil
	case "list":
		if err := parse(a.flags("category list"), args[1:]); err != nil {
			return err
		}
		a.report().Categories(a.Tracker.Categories())
		return nil
	}
	return fmt.Errorf("%w: unknown category action %q", ErrUsage, args[0])
}

func (a *App) monthFlag(fs *flag.FlagSet) *int {
	return fs.Int("month", int(a.now().Month()), "month number (1-12)")
}

func checkMonth(m int) (time.Month, error) {
	if m < 1 || m > 12 {
		return 0, fmt.Errorf("%w: month must be between 1 and 12, got %d", ErrUsage, m)
	}
	return time.Month(m), nil
}

func (a *App) runSummary(args []string) error {
	fs := a.flags("summary")
	m := a.monthFlag(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	month, err := checkMonth(*m)
	if err != nil {
		return err
	}
	a.report().MonthSummary(
		a.Tracker.MonthTotals(month),
		a.Tracker.CategoryTotals(month, core.Expense),
		a.Tracker.CategoryTotals(month, core.Income),
	)
	return nil
}

func (a *App) runDashboard() error {
	a.report().Dashboard(
		a.Tracker.OverallTotals(),
		a.Tracker.MonthTotals(a.now().Month()),
		a.Tracker.BudgetUsages(),
		a.Tracker.GoalProgresses(),
	)
	return nil
}

func (a *App) runChart(args []string) error {
	fs := a.flags("chart")
	kind := fs.String("type", "bar", "bar (all-time by category) or pie (current month expense share)")
	if err := parse(fs, args); err != nil {
		return err
	}
	r := a.report()
	switch *kind {
	case "bar":
		r.BarChart("Expenses by category", a.Tracker.CategoryTotalsByType(core.Expense), core.Expense)
		r.BarChart("Income by category", a.Tracker.CategoryTotalsByType(core.Income), core.Income)
	case "pie":
		month := a.now().Month()
		r.Shares("Expense share for "+month.String(), a.Tracker.CategoryTotals(month, core.Expense))
	default:
		return fmt.Errorf("%w: unknown chart type %q", ErrUsage, *kind)
	}
	return nil
}
