package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"tracker/internal/core"
	"tracker/internal/ledger"
	"tracker/internal/session"
)

// formView is what the form partial renders from.
type formView struct {
	Name        string
	Amount      string
	EditID      string
	Editing     bool
	ActionLabel string
}

func formViewFromState(st session.State) formView {
	return formView{
		Name:        st.Draft.Name,
		Amount:      st.Draft.Amount,
		EditID:      st.EditID,
		Editing:     st.Mode == session.ModeEditing,
		ActionLabel: session.ActionLabel(st),
	}
}

// rowView is one transaction row in the list partial.
type rowView struct {
	ID     string
	Name   string
	Amount string
	Type   string
	Sign   string
}

type listView struct {
	Rows    []rowView
	Balance string
	Count   int
}

func (s *Server) listViewFromSnapshot(txns []core.Transaction) listView {
	view := listView{Count: len(txns), Balance: formatDollars(ledger.TotalBalance(txns))}
	for _, tx := range txns {
		sign := "+"
		amount := tx.Amount
		if amount < 0 {
			sign = "-"
			amount = -amount
		}
		view.Rows = append(view.Rows, rowView{
			ID:     tx.ID,
			Name:   tx.Name,
			Amount: formatDollars(amount),
			Type:   string(tx.Type),
			Sign:   sign,
		})
	}
	return view
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	if _, err := s.repo.List(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Initial list failed", "error", err)
	}

	st := s.currentState()
	data := struct {
		Form formView
		List listView
	}{
		Form: formViewFromState(st),
		List: s.listViewFromSnapshot(s.repo.Snapshot()),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleTransactionList renders the list partial: one row per transaction
// plus the balance line.
func (s *Server) handleTransactionList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if _, err := s.repo.List(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Transaction list error", "error", err)
		_, _ = w.Write([]byte(`<div class="error">Could not load transactions</div>`))
		return
	}

	view := s.listViewFromSnapshot(s.repo.Snapshot())
	if err := s.templates.ExecuteTemplate(w, "transactions.html", view); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "transactions.html")
		_, _ = w.Write([]byte(`<div class="error">Could not render transactions</div>`))
	}
}

// handleSubmit is the primary form action: add in idle mode, update in
// editing mode. The response re-renders the form partial and triggers a
// list refresh plus a notification.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	draft := core.Draft{
		Name:   sanitizeInput(r.Form.Get("name")),
		Amount: sanitizeInput(r.Form.Get("amount")),
	}

	st := s.currentState()
	next, notes := s.controller.Submit(r.Context(), st, draft)
	s.setState(next)

	// keep what the user typed in the form when the submit did not land
	renderState := next
	if hasError(notes) {
		renderState.Draft = draft
	}
	body, err := s.renderForm(renderState)
	if err != nil {
		slog.ErrorContext(r.Context(), "Form render error", "error", err)
		InternalServerError("Could not render form").Write(w)
		return
	}

	builder := NewHTMXResponse().TriggerNotifications(notes).BodyHTML(body)
	if changed(notes) {
		builder.TriggerTransactionsChanged().TriggerFormReset()
	}
	builder.Write(w)
}

// handleBeginEdit switches the form into editing mode, pre-filled from the
// cached transaction.
func (s *Server) handleBeginEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	id := sanitizeInput(r.Form.Get("id"))
	if id == "" {
		BadRequestError("Missing transaction id").Write(w)
		return
	}

	st := s.currentState()
	next, notes := s.controller.BeginEdit(st, id)
	s.setState(next)

	body, err := s.renderForm(next)
	if err != nil {
		slog.ErrorContext(r.Context(), "Form render error", "error", err)
		InternalServerError("Could not render form").Write(w)
		return
	}

	NewHTMXResponse().TriggerNotifications(notes).BodyHTML(body).Write(w)
}

// handleDelete removes one transaction. The form state is deliberately left
// alone even when the deleted id is the one being edited.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := sanitizeInput(r.PathValue("id"))
	if id == "" {
		BadRequestError("Missing transaction id").Write(w)
		return
	}

	st := s.currentState()
	next, notes := s.controller.Delete(r.Context(), st, id)
	s.setState(next)

	builder := NewHTMXResponse().TriggerNotifications(notes)
	if !hasError(notes) {
		builder.TriggerTransactionsChanged()
	}
	builder.Write(w)
}

// handleClear drives the two-step clear-all flow. Without confirm=yes it
// only raises the confirmation prompt (or an info notice when the list is
// already empty); deletion happens on the confirmed request.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	st := s.currentState()

	switch r.Form.Get("confirm") {
	case "yes":
		next, notes := s.controller.ConfirmClearAll(r.Context(), st)
		s.setState(next)
		builder := NewHTMXResponse().TriggerNotifications(notes)
		if !hasError(notes) {
			builder.TriggerTransactionsChanged()
		}
		builder.Write(w)
	case "no":
		NewHTMXResponse().Write(w)
	default:
		next, notes := s.controller.RequestClearAll(st)
		s.setState(next)
		NewHTMXResponse().TriggerNotifications(notes).Write(w)
	}
}

// chartPayload is the Chart.js-shaped data for one chart.
type chartPayload struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Colors []string  `json:"colors"`
}

var typeColors = map[string]string{
	string(core.Income):  "#4caf50",
	string(core.Expense): "#f44336",
}

// handleCharts returns the pie (income vs expense) and bar (per-transaction
// series) datasets as JSON.
func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	if _, err := s.repo.List(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Chart list error", "error", err)
		http.Error(w, "could not load transactions", http.StatusInternalServerError)
		return
	}

	txns := s.repo.Snapshot()
	income, expense := ledger.Breakdown(txns)

	pie := chartPayload{
		Labels: []string{"Income", "Expense"},
		Values: []float64{income, expense},
		Colors: []string{typeColors[string(core.Income)], typeColors[string(core.Expense)]},
	}

	var bar chartPayload
	for _, p := range ledger.Series(txns) {
		bar.Labels = append(bar.Labels, p.Label)
		bar.Values = append(bar.Values, p.Amount)
		bar.Colors = append(bar.Colors, typeColors[p.ColorClass])
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(struct {
		Pie chartPayload `json:"pie"`
		Bar chartPayload `json:"bar"`
	}{Pie: pie, Bar: bar}); err != nil {
		slog.ErrorContext(r.Context(), "Chart encode error", "error", err)
	}
}

func (s *Server) renderForm(st session.State) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "txn_form.html", formViewFromState(st)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func changed(notes []session.Notification) bool {
	for _, n := range notes {
		if n.Level == session.LevelSuccess {
			return true
		}
	}
	return false
}

func hasError(notes []session.Notification) bool {
	for _, n := range notes {
		if n.Level == session.LevelError {
			return true
		}
	}
	return false
}
