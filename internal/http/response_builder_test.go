package http

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"tracker/internal/session"
)

func decodeTriggers(t *testing.T, header string) map[string]interface{} {
	t.Helper()
	var triggers map[string]interface{}
	if err := json.Unmarshal([]byte(header), &triggers); err != nil {
		t.Fatalf("HX-Trigger is not valid JSON: %v (%s)", err, header)
	}
	return triggers
}

func TestBuilderDefaults(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHTMXResponse().Write(rr)

	if rr.Code != 200 {
		t.Errorf("default status = %d, want 200", rr.Code)
	}
	if rr.Header().Get("HX-Trigger") != "" {
		t.Errorf("no triggers should emit no header")
	}
}

func TestBuilderStatusAndBody(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHTMXResponse().Status(422).BodyHTML("<div>nope</div>").Write(rr)

	if rr.Code != 422 {
		t.Errorf("status = %d, want 422", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/html") {
		t.Errorf("Content-Type = %q", got)
	}
	if rr.Body.String() != "<div>nope</div>" {
		t.Errorf("body = %q", rr.Body.String())
	}
}

func TestBuilderTriggers(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHTMXResponse().
		TriggerTransactionsChanged().
		TriggerFormReset().
		TriggerNotification(session.LevelSuccess, "done", 3000).
		Write(rr)

	triggers := decodeTriggers(t, rr.Header().Get("HX-Trigger"))
	for _, name := range []string{"transactions:changed", "form:reset", "show-notification"} {
		if _, ok := triggers[name]; !ok {
			t.Errorf("missing trigger %s in %v", name, triggers)
		}
	}

	note, _ := triggers["show-notification"].(map[string]interface{})
	if note["type"] != "success" || note["message"] != "done" {
		t.Errorf("notification payload = %v", note)
	}
}

func TestBuilderNotificationMapping(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHTMXResponse().TriggerNotifications([]session.Notification{
		{Level: session.LevelConfirm, Message: "sure?"},
	}).Write(rr)

	triggers := decodeTriggers(t, rr.Header().Get("HX-Trigger"))
	confirm, ok := triggers["confirm-clear"].(map[string]interface{})
	if !ok {
		t.Fatalf("confirm notification should map to confirm-clear trigger: %v", triggers)
	}
	if confirm["message"] != "sure?" {
		t.Errorf("confirm payload = %v", confirm)
	}
	if _, ok := triggers["show-notification"]; ok {
		t.Errorf("confirm must not also emit a toast")
	}
}

func TestErrorResponseEscapesHTML(t *testing.T) {
	rr := httptest.NewRecorder()
	ErrorResponse(400, `<script>alert("x")</script>`).Write(rr)

	body := rr.Body.String()
	if strings.Contains(body, "<script>") {
		t.Errorf("message must be escaped: %s", body)
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Errorf("expected escaped markup: %s", body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	MethodNotAllowedError("POST").Write(rr)

	if rr.Code != 405 {
		t.Errorf("status = %d, want 405", rr.Code)
	}
	if rr.Header().Get("Allow") != "POST" {
		t.Errorf("Allow = %q", rr.Header().Get("Allow"))
	}
}
