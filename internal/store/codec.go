package store

import (
	"fmt"
	"time"

	"tracker/internal/core"
)

// Field names used in stored documents.
const (
	FieldName   = "name"
	FieldAmount = "amount"
	FieldType   = "type"
	FieldDate   = "date"
)

// EncodeTransaction flattens a transaction into document fields. The id is
// not part of the fields; backends key documents by it separately.
func EncodeTransaction(tx core.Transaction) map[string]any {
	return map[string]any{
		FieldName:   tx.Name,
		FieldAmount: tx.Amount,
		FieldType:   string(tx.Type),
		FieldDate:   tx.Date.UTC().Format(time.RFC3339),
	}
}

// DecodeDocument applies the strict schema to a raw document. Documents
// missing required fields or carrying the wrong types are rejected rather
// than trusted implicitly.
func DecodeDocument(doc Document) (core.Transaction, error) {
	if doc.ID == "" {
		return core.Transaction{}, fmt.Errorf("document has no id")
	}

	name, err := stringField(doc, FieldName)
	if err != nil {
		return core.Transaction{}, err
	}
	if name == "" {
		return core.Transaction{}, fmt.Errorf("document %s: empty %q field", doc.ID, FieldName)
	}

	amount, err := numberField(doc, FieldAmount)
	if err != nil {
		return core.Transaction{}, err
	}

	rawType, err := stringField(doc, FieldType)
	if err != nil {
		return core.Transaction{}, err
	}
	txType := core.TxnType(rawType)
	if !txType.IsValid() {
		return core.Transaction{}, fmt.Errorf("document %s: unknown type %q", doc.ID, rawType)
	}

	rawDate, err := stringField(doc, FieldDate)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := time.Parse(time.RFC3339, rawDate)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("document %s: parse date %q: %w", doc.ID, rawDate, err)
	}

	return core.Transaction{
		ID:     doc.ID,
		Name:   name,
		Amount: amount,
		Type:   txType,
		Date:   date,
	}, nil
}

func stringField(doc Document, field string) (string, error) {
	raw, ok := doc.Fields[field]
	if !ok {
		return "", fmt.Errorf("document %s: missing %q field", doc.ID, field)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("document %s: field %q is %T, want string", doc.ID, field, raw)
	}
	return s, nil
}

func numberField(doc Document, field string) (float64, error) {
	raw, ok := doc.Fields[field]
	if !ok {
		return 0, fmt.Errorf("document %s: missing %q field", doc.ID, field)
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("document %s: field %q is %T, want number", doc.ID, field, raw)
	}
}
