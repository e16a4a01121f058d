package core

import (
	"testing"
)

func TestTypeForAmount(t *testing.T) {
	cases := []struct {
		amount float64
		want   TxnType
	}{
		{100, Income},
		{0.01, Income},
		{0, Income}, // zero counts as income
		{-0.01, Expense},
		{-500, Expense},
	}
	for i, tc := range cases {
		if got := TypeForAmount(tc.amount); got != tc.want {
			t.Fatalf("case %d: TypeForAmount(%v) = %q, want %q", i, tc.amount, got, tc.want)
		}
	}
}

func TestDraftParse(t *testing.T) {
	tests := []struct {
		name       string
		draft      Draft
		wantName   string
		wantAmount float64
		wantErr    error
	}{
		{
			name:       "valid income",
			draft:      Draft{Name: "Salary", Amount: "2500"},
			wantName:   "Salary",
			wantAmount: 2500,
		},
		{
			name:       "valid expense with whitespace",
			draft:      Draft{Name: "  Coffee  ", Amount: " -5 "},
			wantName:   "Coffee",
			wantAmount: -5,
		},
		{
			name:       "decimal amount",
			draft:      Draft{Name: "Lunch", Amount: "-12.50"},
			wantName:   "Lunch",
			wantAmount: -12.5,
		},
		{
			name:    "empty name",
			draft:   Draft{Name: "", Amount: "10"},
			wantErr: ErrEmptyName,
		},
		{
			name:    "whitespace-only name",
			draft:   Draft{Name: "   ", Amount: "10"},
			wantErr: ErrEmptyName,
		},
		{
			name:    "empty amount",
			draft:   Draft{Name: "Coffee", Amount: ""},
			wantErr: ErrEmptyAmount,
		},
		{
			name:    "non-numeric amount",
			draft:   Draft{Name: "Coffee", Amount: "abc"},
			wantErr: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, amount, err := tt.draft.Parse()
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Fatalf("Parse() error = %v, want %v", err, tt.wantErr)
				}
				if !IsValidation(err) {
					t.Fatalf("IsValidation(%v) = false, want true", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if name != tt.wantName {
				t.Errorf("Parse() name = %q, want %q", name, tt.wantName)
			}
			if amount != tt.wantAmount {
				t.Errorf("Parse() amount = %v, want %v", amount, tt.wantAmount)
			}
		})
	}
}

func TestDraftParseNameTooLong(t *testing.T) {
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'x'
	}
	d := Draft{Name: string(long), Amount: "1"}
	if _, _, err := d.Parse(); err != ErrNameTooLong {
		t.Fatalf("expected ErrNameTooLong, got %v", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{ID: "abc", Name: "Rent", Amount: -800, Type: Expense}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{ID: "a", Name: "", Amount: 1, Type: Income},
		{ID: "a", Name: "x", Amount: 1, Type: TxnType("savings")},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
