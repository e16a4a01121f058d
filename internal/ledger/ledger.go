// Package ledger derives presentation data from a transaction list. All
// functions are pure and deterministic given their input.
package ledger

import (
	"fmt"

	"tracker/internal/core"
)

// Point is one bar in the per-transaction series. Label is positional
// ("T1", "T2", ...) and not stable across reordering.
type Point struct {
	Label      string
	Amount     float64
	ColorClass string
}

// Overview is a compact snapshot feeding the balance line and charts.
type Overview struct {
	Count   int
	Balance float64
	Income  float64
	Expense float64
}

// TotalBalance sums raw amounts across all transactions regardless of the
// stored Type field. Empty input yields 0.
func TotalBalance(txns []core.Transaction) float64 {
	var total float64
	for _, tx := range txns {
		total += tx.Amount
	}
	return total
}

// IncomeTotal sums amounts of transactions whose stored Type is income.
// Classification uses the stored field, not a re-derived sign check, so a
// record whose type fell out of sync with its amount stays misclassified
// here while TotalBalance still counts it correctly.
func IncomeTotal(txns []core.Transaction) float64 {
	return totalByType(txns, core.Income)
}

// ExpenseTotal sums amounts of transactions whose stored Type is expense.
func ExpenseTotal(txns []core.Transaction) float64 {
	return totalByType(txns, core.Expense)
}

func totalByType(txns []core.Transaction, t core.TxnType) float64 {
	var total float64
	for _, tx := range txns {
		if tx.Type == t {
			total += tx.Amount
		}
	}
	return total
}

// Breakdown returns the income/expense totals pair driving the pie chart.
func Breakdown(txns []core.Transaction) (income, expense float64) {
	return IncomeTotal(txns), ExpenseTotal(txns)
}

// Series produces one labeled point per transaction, in input order.
func Series(txns []core.Transaction) []Point {
	points := make([]Point, len(txns))
	for i, tx := range txns {
		points[i] = Point{
			Label:      fmt.Sprintf("T%d", i+1),
			Amount:     tx.Amount,
			ColorClass: string(tx.Type),
		}
	}
	return points
}

// Summarize computes the full overview in a single pass.
func Summarize(txns []core.Transaction) Overview {
	ov := Overview{Count: len(txns)}
	for _, tx := range txns {
		ov.Balance += tx.Amount
		switch tx.Type {
		case core.Income:
			ov.Income += tx.Amount
		case core.Expense:
			ov.Expense += tx.Amount
		}
	}
	return ov
}
