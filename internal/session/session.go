// Package session holds the form state machine for a single user session
// and orchestrates repository calls. All state lives in an explicit State
// value; every operation returns the next state plus the notifications to
// surface, never mutating ambient globals.
package session

import (
	"context"
	"log/slog"
	"strconv"

	"tracker/internal/core"
	"tracker/internal/repository"
)

type Mode string

const (
	ModeIdle    Mode = "idle"
	ModeEditing Mode = "editing"
)

// State is the complete form state: the draft inputs and, when editing,
// the id of the transaction being edited.
type State struct {
	Mode   Mode
	EditID string
	Draft  core.Draft
}

// Idle returns the empty idle state.
func Idle() State {
	return State{Mode: ModeIdle}
}

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	// LevelConfirm marks a non-auto-dismissing prompt with explicit
	// yes/no choices.
	LevelConfirm Level = "confirm"
)

type Notification struct {
	Level   Level
	Message string
}

const (
	msgValidation   = "Please enter both transaction name and amount"
	msgSaved        = "Transaction saved successfully!"
	msgSaveFailed   = "Something went wrong while saving your transaction."
	msgVanished     = "This transaction no longer exists."
	msgNothingClear = "No transactions to clear."
	msgConfirmClear = "Are you sure you want to clear all transactions?"
	msgCleared      = "All transactions cleared!"
)

// Controller drives the state machine against the repository.
type Controller struct {
	repo *repository.Repository
}

func NewController(repo *repository.Repository) *Controller {
	return &Controller{repo: repo}
}

// ActionLabel is the primary button label for the given state.
func ActionLabel(s State) string {
	if s.Mode == ModeEditing {
		return "Update Transaction"
	}
	return "Add Transaction"
}

// Submit handles the primary action. Invalid input never reaches the store
// and leaves the state unchanged. A valid submission adds or updates
// depending on the mode and returns to idle with a cleared form; an update
// against a vanished id surfaces the failure and still returns to idle.
func (c *Controller) Submit(ctx context.Context, s State, draft core.Draft) (State, []Notification) {
	name, amount, err := draft.Parse()
	if err != nil {
		return s, notify(LevelError, msgValidation)
	}

	switch s.Mode {
	case ModeEditing:
		err = c.repo.Update(ctx, s.EditID, name, amount)
		if err != nil {
			slog.ErrorContext(ctx, "Update failed", "id", s.EditID, "error", err)
			if repository.IsNotFound(err) {
				return Idle(), notify(LevelError, msgVanished)
			}
			return Idle(), notify(LevelError, msgSaveFailed)
		}
	default:
		if _, err := c.repo.Add(ctx, name, amount); err != nil {
			slog.ErrorContext(ctx, "Add failed", "error", err)
			return s, notify(LevelError, msgSaveFailed)
		}
	}

	return Idle(), notify(LevelSuccess, msgSaved)
}

// BeginEdit pre-fills the form from the cached transaction and switches to
// editing mode. An unknown id leaves the state unchanged.
func (c *Controller) BeginEdit(s State, id string) (State, []Notification) {
	tx, ok := c.repo.Find(id)
	if !ok {
		return s, notify(LevelError, msgVanished)
	}
	return State{
		Mode:   ModeEditing,
		EditID: tx.ID,
		Draft: core.Draft{
			Name:   tx.Name,
			Amount: formatAmount(tx.Amount),
		},
	}, nil
}

// Delete removes one transaction and refreshes. It deliberately leaves the
// form and edit target untouched, even when the deleted id is the one being
// edited; a later submit then hits the vanished-id path in Submit.
func (c *Controller) Delete(ctx context.Context, s State, id string) (State, []Notification) {
	if err := c.repo.Delete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Delete refresh failed", "id", id, "error", err)
		return s, notify(LevelError, msgSaveFailed)
	}
	return s, nil
}

// RequestClearAll starts the clear-all flow: an info notice when there is
// nothing to clear, otherwise a blocking confirmation prompt. Nothing is
// deleted here.
func (c *Controller) RequestClearAll(s State) (State, []Notification) {
	if len(c.repo.Snapshot()) == 0 {
		return s, notify(LevelInfo, msgNothingClear)
	}
	return s, notify(LevelConfirm, msgConfirmClear)
}

// ConfirmClearAll runs the best-effort bulk delete after an explicit
// affirmative response. The aggregate success is announced even when some
// individual deletes failed; partial failures are logged from the outcome.
func (c *Controller) ConfirmClearAll(ctx context.Context, s State) (State, []Notification) {
	outcome, err := c.repo.ClearAll(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Clear-all refresh failed", "error", err)
		return s, notify(LevelError, msgSaveFailed)
	}
	if len(outcome.Failed) > 0 {
		slog.WarnContext(ctx, "Clear-all completed with failures",
			"succeeded", len(outcome.Succeeded),
			"failed", len(outcome.Failed))
	}
	return s, notify(LevelSuccess, msgCleared)
}

func notify(level Level, message string) []Notification {
	return []Notification{{Level: level, Message: message}}
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
