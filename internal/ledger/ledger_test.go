package ledger

import (
	"math"
	"testing"

	"tracker/internal/core"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTotalBalanceEmpty(t *testing.T) {
	if got := TotalBalance(nil); got != 0 {
		t.Fatalf("TotalBalance(nil) = %v, want 0", got)
	}
	if got := TotalBalance([]core.Transaction{}); got != 0 {
		t.Fatalf("TotalBalance(empty) = %v, want 0", got)
	}
}

func TestTotalBalanceSumsRawAmounts(t *testing.T) {
	txns := []core.Transaction{
		{Name: "Salary", Amount: 1000, Type: core.Income},
		{Name: "Rent", Amount: -400, Type: core.Expense},
		{Name: "Coffee", Amount: -3.5, Type: core.Expense},
	}
	if got := TotalBalance(txns); !almostEqual(got, 596.5) {
		t.Fatalf("TotalBalance = %v, want 596.5", got)
	}
}

// A record whose stored type disagrees with its amount's sign must still be
// counted by raw amount in the balance, while the income/expense split
// follows the stored type.
func TestDesyncedTypeClassification(t *testing.T) {
	txns := []core.Transaction{
		{Name: "Salary", Amount: 1000, Type: core.Income},
		// amount edited to negative without re-deriving the type
		{Name: "Refund gone wrong", Amount: -50, Type: core.Income},
		{Name: "Rent", Amount: -400, Type: core.Expense},
	}

	if got := TotalBalance(txns); !almostEqual(got, 550) {
		t.Fatalf("TotalBalance = %v, want 550", got)
	}
	if got := IncomeTotal(txns); !almostEqual(got, 950) {
		t.Fatalf("IncomeTotal = %v, want 950 (stored type, not sign)", got)
	}
	if got := ExpenseTotal(txns); !almostEqual(got, -400) {
		t.Fatalf("ExpenseTotal = %v, want -400", got)
	}

	// income + expense over stored types covers every typed record
	income, expense := Breakdown(txns)
	if !almostEqual(income+expense, TotalBalance(txns)) {
		t.Fatalf("Breakdown sum %v != balance %v", income+expense, TotalBalance(txns))
	}
}

func TestSeriesLabelsAndColors(t *testing.T) {
	txns := []core.Transaction{
		{Name: "Salary", Amount: 1000, Type: core.Income},
		{Name: "Rent", Amount: -400, Type: core.Expense},
		{Name: "Bonus", Amount: 200, Type: core.Income},
	}

	points := Series(txns)
	if len(points) != 3 {
		t.Fatalf("Series length = %d, want 3", len(points))
	}

	wantLabels := []string{"T1", "T2", "T3"}
	wantColors := []string{"income", "expense", "income"}
	for i, p := range points {
		if p.Label != wantLabels[i] {
			t.Errorf("point %d label = %q, want %q", i, p.Label, wantLabels[i])
		}
		if p.ColorClass != wantColors[i] {
			t.Errorf("point %d color = %q, want %q", i, p.ColorClass, wantColors[i])
		}
		if p.Amount != txns[i].Amount {
			t.Errorf("point %d amount = %v, want %v", i, p.Amount, txns[i].Amount)
		}
	}
}

func TestSeriesEmpty(t *testing.T) {
	if points := Series(nil); len(points) != 0 {
		t.Fatalf("Series(nil) length = %d, want 0", len(points))
	}
}

func TestSummarize(t *testing.T) {
	txns := []core.Transaction{
		{Amount: 100, Type: core.Income},
		{Amount: -30, Type: core.Expense},
		{Amount: -20, Type: core.Expense},
	}
	ov := Summarize(txns)
	if ov.Count != 3 {
		t.Errorf("Count = %d, want 3", ov.Count)
	}
	if !almostEqual(ov.Balance, 50) {
		t.Errorf("Balance = %v, want 50", ov.Balance)
	}
	if !almostEqual(ov.Income, 100) {
		t.Errorf("Income = %v, want 100", ov.Income)
	}
	if !almostEqual(ov.Expense, -50) {
		t.Errorf("Expense = %v, want -50", ov.Expense)
	}
}
