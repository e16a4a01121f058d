package sheets

import (
	"testing"
	"time"

	"tracker/internal/core"
	"tracker/internal/store"
)

func TestRowToDocument(t *testing.T) {
	tests := []struct {
		name   string
		row    []any
		wantOK bool
		wantID string
	}{
		{
			name:   "complete row",
			row:    []any{"id-1", "Coffee", "-5.5", "expense", "2025-03-14T09:26:53Z"},
			wantOK: true,
			wantID: "id-1",
		},
		{
			name:   "numeric amount cell",
			row:    []any{"id-2", "Salary", 1000.0, "income", "2025-03-14T09:26:53Z"},
			wantOK: true,
			wantID: "id-2",
		},
		{
			name:   "short row skipped",
			row:    []any{"id-3", "Coffee"},
			wantOK: false,
		},
		{
			name:   "blank id skipped",
			row:    []any{"  ", "Coffee", "-5", "expense", "2025-03-14T09:26:53Z"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, ok := rowToDocument(tt.row)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && doc.ID != tt.wantID {
				t.Fatalf("id = %s, want %s", doc.ID, tt.wantID)
			}
		})
	}
}

func TestRowToDocumentDecodesThroughCodec(t *testing.T) {
	doc, ok := rowToDocument([]any{"id-1", "Coffee", "-5.5", "expense", "2025-03-14T09:26:53Z"})
	if !ok {
		t.Fatal("rowToDocument rejected a valid row")
	}
	tx, err := store.DecodeDocument(doc)
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	if tx.Name != "Coffee" || tx.Amount != -5.5 || tx.Type != core.Expense {
		t.Fatalf("decoded = %+v", tx)
	}
}

func TestMalformedAmountRejectedByCodec(t *testing.T) {
	doc, ok := rowToDocument([]any{"id-1", "Coffee", "five", "expense", "2025-03-14T09:26:53Z"})
	if !ok {
		t.Fatal("row should still produce a document for the codec to reject")
	}
	if _, err := store.DecodeDocument(doc); err == nil {
		t.Fatal("expected strict codec to reject non-numeric amount")
	}
}

func TestDocumentToRow(t *testing.T) {
	fields := store.EncodeTransaction(core.Transaction{
		Name:   "Rent",
		Amount: -800,
		Type:   core.Expense,
		Date:   time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
	})

	row, err := documentToRow("id-9", fields)
	if err != nil {
		t.Fatalf("documentToRow: %v", err)
	}
	if len(row) != 5 {
		t.Fatalf("row length = %d, want 5", len(row))
	}
	if row[0] != "id-9" || row[1] != "Rent" || row[3] != "expense" {
		t.Fatalf("row = %v", row)
	}

	if _, err := documentToRow("id-9", map[string]any{"name": "x"}); err == nil {
		t.Fatal("expected error for malformed fields")
	}
}
