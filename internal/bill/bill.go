package bill

import (
	"slices"

	"github.com/MrJamesThe3rd/pocket/internal/date"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
)

// Kind is the payment status of a bill relative to today.
type Kind string

const (
	KindPaid    Kind = "paid"
	KindToday   Kind = "today"
	KindOverdue Kind = "overdue"
	KindUnpaid  Kind = "unpaid"
)

const (
	urgentWithinDays   = 3
	upcomingWithinDays = 7
	upcomingLimit      = 3
)

type Status struct {
	Kind          Kind `json:"kind"`
	RemainingDays int  `json:"remainingDays"`
	Urgent        bool `json:"urgent"`
	// Dated is false when the due date could not be parsed.
	Dated bool `json:"dated"`
}

// DaysOverdue is the number of days past the due date, 0 unless overdue.
func (s Status) DaysOverdue() int {
	if s.Kind != KindOverdue {
		return 0
	}

	return -s.RemainingDays
}

// Classify computes the status of b on the calendar day today.
func Classify(today date.Date, b ledger.Bill) Status {
	due, err := date.Parse(b.DueDate)
	if err != nil {
		if b.Paid {
			return Status{Kind: KindPaid}
		}

		return Status{Kind: KindUnpaid}
	}

	remaining := today.DaysUntil(due)
	st := Status{
		RemainingDays: remaining,
		Urgent:        !b.Paid && remaining <= urgentWithinDays,
		Dated:         true,
	}

	switch {
	case b.Paid:
		st.Kind = KindPaid
	case remaining == 0:
		st.Kind = KindToday
	case remaining < 0:
		st.Kind = KindOverdue
	default:
		st.Kind = KindUnpaid
	}

	return st
}

// View is a bill with its status. Index is the bill's position in the stored
// collection, which differs from its position in a sorted list.
type View struct {
	Index  int         `json:"index"`
	Bill   ledger.Bill `json:"bill"`
	Status Status      `json:"status"`
}

// Sorted classifies every bill and orders them unpaid first, then by
// ascending due date. Bills without a valid due date go last in their group.
func Sorted(today date.Date, bills []ledger.Bill) []View {
	views := make([]View, len(bills))
	for i, b := range bills {
		views[i] = View{Index: i, Bill: b, Status: Classify(today, b)}
	}

	slices.SortStableFunc(views, func(a, b View) int {
		if a.Bill.Paid != b.Bill.Paid {
			if a.Bill.Paid {
				return 1
			}

			return -1
		}

		switch {
		case a.Status.Dated && b.Status.Dated:
			return a.Status.RemainingDays - b.Status.RemainingDays
		case a.Status.Dated:
			return -1
		case b.Status.Dated:
			return 1
		}

		return 0
	})

	return views
}

// Upcoming returns the unpaid bills due within a week (overdue included), at
// most three, from an already sorted list.
func Upcoming(sorted []View) []View {
	out := make([]View, 0, upcomingLimit)

	for _, v := range sorted {
		if len(out) == upcomingLimit {
			break
		}

		if v.Bill.Paid || !v.Status.Dated || v.Status.RemainingDays > upcomingWithinDays {
			continue
		}

		out = append(out, v)
	}

	return out
}
