package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/subcommands"

	"github.com/MrJamesThe3rd/pocket/internal/bill"
	"github.com/MrJamesThe3rd/pocket/internal/projection"
)

type summaryCmd struct {
	period periodFlag
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show the balance of a budget month" }
func (*summaryCmd) Usage() string {
	return `pocket summary [-period YYYY-MM]

  Shows income, expenses and balance of the budget month, the first goals and
  the bills due soon.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) { c.period.register(f) }

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	defer a.close()

	if err := c.period.apply(ctx, a); err != nil {
		fail(err)
		return subcommands.ExitUsageError
	}

	v := a.session.Views()
	cur := a.cfg.App.Currency

	fmt.Println(titleStyle.Render(fmt.Sprintf("%s · %s", v.User.Name, v.Period)))

	totals := newTable("", "Amount").
		Row("Income", v.Totals.TotalIncome.Format(cur)).
		Row("Expenses", v.Totals.TotalExpense.Format(cur)).
		Row("Balance", v.Totals.Balance.Format(cur))
	fmt.Println(totals)

	if len(v.DashboardGoals) > 0 {
		goals := newTable("Goal", "Saved", "Target", "Progress")
		for _, g := range v.DashboardGoals {
			goals.Row(g.Goal.Name, g.Goal.Current.Format(cur), g.Goal.Target.Format(cur), percent(g))
		}

		fmt.Println(goals)
	}

	if len(v.UpcomingBills) > 0 {
		fmt.Println(billsTable(v.UpcomingBills, cur))
	}

	return subcommands.ExitSuccess
}

type feedCmd struct {
	period periodFlag
	limit  int
}

func (*feedCmd) Name() string     { return "feed" }
func (*feedCmd) Synopsis() string { return "list the transactions of a budget month" }
func (*feedCmd) Usage() string {
	return `pocket feed [-period YYYY-MM] [-n count]

  Lists incomes and expenses newest first. Row numbers are the feed indexes
  the API uses to edit or delete a transaction.
`
}

func (c *feedCmd) SetFlags(f *flag.FlagSet) {
	c.period.register(f)
	f.IntVar(&c.limit, "n", 0, "show only the first n transactions")
}

func (c *feedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	defer a.close()

	if err := c.period.apply(ctx, a); err != nil {
		fail(err)
		return subcommands.ExitUsageError
	}

	feed := a.session.Views().Feed
	if c.limit > 0 && c.limit < len(feed) {
		feed = feed[:c.limit]
	}

	if len(feed) == 0 {
		fmt.Println("No transactions.")
		return subcommands.ExitSuccess
	}

	t := newTable("#", "Date", "Description", "Category", "Account", "Amount")
	for i, tx := range feed {
		t.Row(strconv.Itoa(i), tx.Date, tx.Description, tx.Category, tx.Account, tx.Amount.Format(a.cfg.App.Currency))
	}

	fmt.Println(t)

	return subcommands.ExitSuccess
}

type billsCmd struct{}

func (*billsCmd) Name() string     { return "bills" }
func (*billsCmd) Synopsis() string { return "list bills with their payment status" }
func (*billsCmd) Usage() string {
	return `pocket bills

  Lists unpaid bills first, soonest due first.
`
}

func (*billsCmd) SetFlags(*flag.FlagSet) {}

func (*billsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	defer a.close()

	bills := a.session.Views().Bills
	if len(bills) == 0 {
		fmt.Println("No bills.")
		return subcommands.ExitSuccess
	}

	fmt.Println(billsTable(bills, a.cfg.App.Currency))

	return subcommands.ExitSuccess
}

func billsTable(bills []bill.View, currency string) fmt.Stringer {
	t := newTable("Bill", "Due", "Amount", "Status")
	for _, b := range bills {
		t.Row(b.Bill.Name, b.Bill.DueDate, b.Bill.Amount.Format(currency), describe(b.Status))
	}

	return t
}

// describe renders a bill status the way the dashboard shows it.
func describe(s bill.Status) string {
	switch s.Kind {
	case bill.KindPaid:
		return "Paid"
	case bill.KindToday:
		return "Due today"
	case bill.KindOverdue:
		return plural(s.DaysOverdue(), "Overdue by %d day")
	}

	if !s.Dated {
		return "Unpaid"
	}

	label := plural(s.RemainingDays, "Due in %d day")
	if s.Urgent {
		label = strings.ToUpper(label)
	}

	return label
}

func plural(n int, format string) string {
	out := fmt.Sprintf(format, n)
	if n != 1 {
		out += "s"
	}

	return out
}

func percent(g projection.GoalView) string {
	return g.Progress.Shift(2).StringFixed(0) + "%"
}
