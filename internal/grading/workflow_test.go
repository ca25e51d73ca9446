package grading

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gradecanvas/internal/canvas"
)

// fakeCanvas routes the Canvas endpoints the workflow touches.
func fakeCanvas(t *testing.T, handler http.HandlerFunc) *canvas.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return canvas.New(server.URL, "tok")
}

func TestGetAssignment(t *testing.T) {
	client := fakeCanvas(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/courses/1/assignments/2" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":2,"course_id":1,"name":"Essay","points_possible":100}`))
	})

	assignment, err := GetAssignment(context.Background(), client, 1, 2)
	if err != nil {
		t.Fatalf("get assignment: %v", err)
	}
	if assignment.ID != 2 || assignment.Name != "Essay" {
		t.Fatalf("unexpected assignment %+v", assignment)
	}
}

func TestGetAssignmentNotFound(t *testing.T) {
	client := fakeCanvas(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"message":"not found"}]}`))
	})

	_, err := GetAssignment(context.Background(), client, 1, 2)
	var opErr *Error
	if !errors.As(err, &opErr) || opErr.Code != ErrAssignmentNotFound {
		t.Fatalf("expected assignment_not_found, got %v", err)
	}
}

func TestFetchSubmissionFull(t *testing.T) {
	client := fakeCanvas(t, func(w http.ResponseWriter, r *http.Request) {
		// Submission comes back without its nested user.
		_, _ = w.Write([]byte(`{"id":10,"assignment_id":2,"user_id":9,"workflow_state":"submitted","body":"my essay"}`))
	})

	result, err := FetchSubmission(context.Background(), client, 1, 2, 9, []string{"user"})
	if err != nil {
		t.Fatalf("fetch submission: %v", err)
	}
	if result.Kind != SubmissionFull {
		t.Fatalf("expected full result, got %v", result.Kind)
	}
	if result.Submission.User == nil {
		t.Fatalf("expected placeholder user synthesized")
	}
	if result.Submission.User.ID != 9 || result.Submission.User.Name != "Student 9" {
		t.Fatalf("unexpected placeholder user %+v", result.Submission.User)
	}
}

func TestFetchSubmissionDegradesToAssignment(t *testing.T) {
	client := fakeCanvas(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/submissions/") {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"errors":[{"message":"submission unavailable"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":2,"course_id":1,"name":"Essay","points_possible":100}`))
	})

	result, err := FetchSubmission(context.Background(), client, 1, 2, 9, nil)
	if err != nil {
		t.Fatalf("fetch submission: %v", err)
	}
	if result.Kind != SubmissionPartial {
		t.Fatalf("expected partial result, got %v", result.Kind)
	}
	if result.Assignment == nil || result.Assignment.ID != 2 {
		t.Fatalf("expected assignment in partial result, got %+v", result.Assignment)
	}
	if result.Placeholder.ID != "unknown" {
		t.Fatalf("expected placeholder id unknown, got %q", result.Placeholder.ID)
	}
	if result.Placeholder.UserID != 9 || result.Placeholder.AssignmentID != 2 {
		t.Fatalf("unexpected placeholder %+v", result.Placeholder)
	}
	if result.Placeholder.User.Name != "Student 9" {
		t.Fatalf("unexpected placeholder user %+v", result.Placeholder.User)
	}
	if !strings.Contains(result.FetchError, "submission unavailable") {
		t.Fatalf("expected fetch error preserved, got %q", result.FetchError)
	}
}

func TestFetchSubmissionNotFoundWhenAssignmentAlsoFails(t *testing.T) {
	client := fakeCanvas(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"message":"gone"}]}`))
	})

	_, err := FetchSubmission(context.Background(), client, 1, 2, 9, nil)
	var opErr *Error
	if !errors.As(err, &opErr) || opErr.Code != ErrSubmissionNotFound {
		t.Fatalf("expected submission_not_found, got %v", err)
	}
}

func TestUpdateGrade(t *testing.T) {
	client := fakeCanvas(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		_, _ = w.Write([]byte(`{"id":10,"assignment_id":2,"user_id":9,"score":95,"grade":"95","workflow_state":"graded"}`))
	})

	submission, err := UpdateGrade(context.Background(), client, 1, 2, 9, canvas.GradeUpdate{PostedGrade: "95", TextComment: "Great work"})
	if err != nil {
		t.Fatalf("update grade: %v", err)
	}
	if submission.Score == nil || *submission.Score != 95 {
		t.Fatalf("expected score 95, got %+v", submission.Score)
	}
	if submission.User == nil || submission.User.ID != 9 {
		t.Fatalf("expected user ensured, got %+v", submission.User)
	}
}
