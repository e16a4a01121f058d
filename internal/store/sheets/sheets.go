// Package sheets backs the document store with a Google Sheets spreadsheet.
// Each transaction is one row keyed by an id column; the spreadsheet is the
// remote authoritative copy when this backend is selected directly, or the
// mirror target when the worker replicates from SQLite.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"tracker/internal/store"
)

// Row layout: A=id, B=name, C=amount, D=type, E=date. Row 1 is the header.
const (
	dataRange  = "!A2:E"
	idColRange = "!A2:A"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	sheetID       int64
}

var _ store.DocumentStore = (*Client)(nil)

// NewFromEnv creates a Sheets-backed store from environment variables.
// Required: GOOGLE_SPREADSHEET_ID. Auth: GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
// Optional: GOOGLE_SHEET_NAME (default "Transactions").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Transactions"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	c := &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}
	if err := c.resolveSheetID(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// resolveSheetID looks up the numeric sheet id needed by row-deletion requests.
func (c *Client) resolveSheetID(ctx context.Context) error {
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet metadata: %w", err)
	}
	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == c.sheetName {
			c.sheetID = sheet.Properties.SheetId
			return nil
		}
	}
	return fmt.Errorf("sheet %q not found in spreadsheet", c.sheetName)
}

func (c *Client) ListAll(ctx context.Context) ([]store.Document, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}

	rng := c.sheetName + dataRange
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	docs := make([]store.Document, 0, len(resp.Values))
	for _, row := range resp.Values {
		doc, ok := rowToDocument(row)
		if !ok {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (c *Client) Create(ctx context.Context, fields map[string]any) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	id := uuid.NewString()
	row, err := documentToRow(id, fields)
	if err != nil {
		return "", err
	}

	rng := c.sheetName + dataRange
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append row to %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Transaction row appended", "id", id, "sheet", c.sheetName)
	return id, nil
}

func (c *Client) Overwrite(ctx context.Context, id string, fields map[string]any) error {
	rowIndex, err := c.findRow(ctx, id)
	if err != nil {
		return err
	}
	if rowIndex < 0 {
		return store.ErrNotFound
	}

	row, err := documentToRow(id, fields)
	if err != nil {
		return err
	}

	rng := fmt.Sprintf("%s!A%d:E%d", c.sheetName, rowIndex, rowIndex)
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update row %d in %s: %w", rowIndex, c.sheetName, err)
	}
	return nil
}

// Put writes a row under a caller-chosen id, updating in place when the id
// already has a row and appending otherwise.
func (c *Client) Put(ctx context.Context, id string, fields map[string]any) error {
	rowIndex, err := c.findRow(ctx, id)
	if err != nil {
		return err
	}

	row, err := documentToRow(id, fields)
	if err != nil {
		return err
	}

	if rowIndex < 0 {
		rng := c.sheetName + dataRange
		vr := &gsheet.ValueRange{Values: [][]any{row}}
		_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
			ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("append row to %s: %w", c.sheetName, err)
		}
		return nil
	}

	rng := fmt.Sprintf("%s!A%d:E%d", c.sheetName, rowIndex, rowIndex)
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update row %d in %s: %w", rowIndex, c.sheetName, err)
	}
	return nil
}

// Remove deletes the row holding id. A missing id is not an error.
func (c *Client) Remove(ctx context.Context, id string) error {
	rowIndex, err := c.findRow(ctx, id)
	if err != nil {
		return err
	}
	if rowIndex < 0 {
		return nil
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    c.sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowIndex - 1), // zero-based, inclusive
					EndIndex:   int64(rowIndex),     // exclusive
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d in %s: %w", rowIndex, c.sheetName, err)
	}
	return nil
}

// findRow returns the 1-based spreadsheet row holding id, or -1.
func (c *Client) findRow(ctx context.Context, id string) (int, error) {
	rng := c.sheetName + idColRange
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return -1, fmt.Errorf("read id column %s: %w", rng, err)
	}
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == id {
			return i + 2, nil // +2: values start at row 2
		}
	}
	return -1, nil
}

func rowToDocument(row []any) (store.Document, bool) {
	if len(row) < 5 {
		return store.Document{}, false
	}
	id := strings.TrimSpace(fmt.Sprint(row[0]))
	if id == "" {
		return store.Document{}, false
	}

	amountStr := strings.TrimSpace(fmt.Sprint(row[2]))
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		// Leave the raw string in place; the strict codec rejects it with
		// a proper decode error instead of this layer guessing.
		return store.Document{ID: id, Fields: map[string]any{
			store.FieldName:   strings.TrimSpace(fmt.Sprint(row[1])),
			store.FieldAmount: amountStr,
			store.FieldType:   strings.TrimSpace(fmt.Sprint(row[3])),
			store.FieldDate:   strings.TrimSpace(fmt.Sprint(row[4])),
		}}, true
	}

	return store.Document{ID: id, Fields: map[string]any{
		store.FieldName:   strings.TrimSpace(fmt.Sprint(row[1])),
		store.FieldAmount: amount,
		store.FieldType:   strings.TrimSpace(fmt.Sprint(row[3])),
		store.FieldDate:   strings.TrimSpace(fmt.Sprint(row[4])),
	}}, true
}

func documentToRow(id string, fields map[string]any) ([]any, error) {
	tx, err := store.DecodeDocument(store.Document{ID: id, Fields: fields})
	if err != nil {
		return nil, fmt.Errorf("reject malformed document: %w", err)
	}
	return []any{
		id,
		tx.Name,
		tx.Amount,
		string(tx.Type),
		fields[store.FieldDate],
	}, nil
}
