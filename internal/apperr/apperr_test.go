package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		Validation:     http.StatusBadRequest,
		Duplicate:      http.StatusBadRequest,
		Authentication: http.StatusUnauthorized,
		Authorization:  http.StatusForbidden,
		NotFound:       http.StatusNotFound,
		Conflict:       http.StatusConflict,
		Internal:       http.StatusInternalServerError,
	}
	for kind, expect := range cases {
		if got := Status(New(kind, "code")); got != expect {
			t.Fatalf("kind %d: expected %d, got %d", kind, expect, got)
		}
	}
	if Status(errors.New("plain")) != http.StatusInternalServerError {
		t.Fatalf("expected plain errors to map to 500")
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("review event: %w", New(Conflict, "event_already_decided"))
	if KindOf(err) != Conflict {
		t.Fatalf("expected wrapped error to keep its kind")
	}
	if CodeOf(err) != "event_already_decided" {
		t.Fatalf("expected wrapped error to keep its code, got %s", CodeOf(err))
	}
	if CodeOf(errors.New("plain")) != "server_error" {
		t.Fatalf("expected unknown errors to report server_error")
	}
}
