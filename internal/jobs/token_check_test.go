package jobs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"gradecanvas/internal/model"
)

type fakeLister struct {
	rows []model.UserSettings
}

func (f *fakeLister) ListSyncEnabledSettings(_ context.Context) ([]model.UserSettings, error) {
	return f.rows, nil
}

func strPtr(s string) *string { return &s }

func TestCheckTokens(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"name":"Pat"}`))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"Invalid access token."}]}`))
	}))
	defer bad.Close()

	lister := &fakeLister{rows: []model.UserSettings{
		{UserID: "u1", CanvasURL: strPtr(good.URL), CanvasToken: strPtr("tok")},
		{UserID: "u2", CanvasURL: strPtr(bad.URL), CanvasToken: strPtr("tok")},
		{UserID: "u3"}, // incomplete row is skipped
	}}

	checked, failed := checkTokens(context.Background(), lister)
	if checked != 2 {
		t.Fatalf("expected 2 checked, got %d", checked)
	}
	if failed != 1 {
		t.Fatalf("expected 1 failed, got %d", failed)
	}
}
