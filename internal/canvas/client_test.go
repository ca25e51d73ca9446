package canvas

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNormalizeBaseURL(t *testing.T) {
	cases := map[string]string{
		"foo.edu":                   "https://foo.edu/",
		"https://foo.edu":           "https://foo.edu/",
		"https://foo.edu/":          "https://foo.edu/",
		"http://foo.edu":            "http://foo.edu/",
		"  school.instructure.com ": "https://school.instructure.com/",
		"https://foo.edu//":         "https://foo.edu/",
		"":                          "",
	}
	for input, expect := range cases {
		if got := NormalizeBaseURL(input); got != expect {
			t.Fatalf("NormalizeBaseURL(%q) = %q, want %q", input, got, expect)
		}
	}
}

func TestNormalizeBaseURLIdempotent(t *testing.T) {
	once := NormalizeBaseURL("foo.edu")
	if twice := NormalizeBaseURL(once); twice != once {
		t.Fatalf("expected idempotent normalization, got %q then %q", once, twice)
	}
}

func TestListCoursesRequest(t *testing.T) {
	var gotPath, gotAuth, gotAccept string
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":101,"name":"Biology 1","course_code":"BIO-1","workflow_state":"available"}]`))
	}))
	defer server.Close()

	client := New(server.URL, "tok-123")
	courses, err := client.ListCourses(context.Background(), ListCoursesOptions{
		Include:         []string{"term", "total_students"},
		EnrollmentState: "active",
		EnrollmentType:  "teacher",
	})
	if err != nil {
		t.Fatalf("list courses: %v", err)
	}
	if gotPath != "/api/v1/courses" {
		t.Fatalf("expected path /api/v1/courses, got %s", gotPath)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer auth, got %q", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Fatalf("expected json accept header, got %q", gotAccept)
	}
	if got := gotQuery["per_page"]; len(got) != 1 || got[0] != "100" {
		t.Fatalf("expected per_page=100, got %v", got)
	}
	if got := gotQuery["include[]"]; len(got) != 2 || got[0] != "term" || got[1] != "total_students" {
		t.Fatalf("expected include[] values, got %v", got)
	}
	if got := gotQuery["enrollment_state"]; len(got) != 1 || got[0] != "active" {
		t.Fatalf("expected enrollment_state=active, got %v", got)
	}
	if len(courses) != 1 || courses[0].ID != 101 || courses[0].Name != "Biology 1" {
		t.Fatalf("unexpected courses payload: %+v", courses)
	}
}

func TestRequestURLHasSingleSlash(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"id":7}`))
	}))
	defer server.Close()

	// Trailing slash on the configured base URL must not double up.
	client := New(server.URL+"/", "tok")
	if _, err := client.GetCourse(context.Background(), 7, nil); err != nil {
		t.Fatalf("get course: %v", err)
	}
	if gotPath != "/api/v1/courses/7" {
		t.Fatalf("expected path /api/v1/courses/7, got %s", gotPath)
	}
}

func TestAPIErrorMessageExtraction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"message":"The specified resource does not exist."}]}`))
	}))
	defer server.Close()

	client := New(server.URL, "tok")
	_, err := client.GetAssignment(context.Background(), 1, 2)
	if err == nil {
		t.Fatalf("expected error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "The specified resource does not exist." {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
	if !IsNotFound(err) {
		t.Fatalf("expected IsNotFound")
	}
}

func TestAPIErrorFallsBackToStatusLine(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client := New(server.URL, "bad-token")
	_, err := client.GetSelf(context.Background())
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if !strings.Contains(apiErr.Message, "401") {
		t.Fatalf("expected status line fallback, got %q", apiErr.Message)
	}
}

func TestTransportErrorNamesURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	client := New(serverURL, "tok")
	_, err := client.GetSelf(context.Background())
	if err == nil {
		t.Fatalf("expected transport error")
	}
	if !strings.Contains(err.Error(), serverURL+"/api/v1/users/self") {
		t.Fatalf("expected error to name the request URL, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "Check your Canvas URL") {
		t.Fatalf("expected actionable hint, got %q", err.Error())
	}
}

func TestGetUserOptionalSwallowsErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"message":"not found"}]}`))
	}))
	defer server.Close()

	client := New(server.URL, "tok")
	if user := client.GetUserOptional(context.Background(), 42); user != nil {
		t.Fatalf("expected absent user, got %+v", user)
	}
}

func TestUpdateSubmissionGrade(t *testing.T) {
	var gotMethod string
	var gotBody map[string]map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"id":55,"assignment_id":2,"user_id":9,"score":95,"grade":"95","workflow_state":"graded"}`))
	}))
	defer server.Close()

	client := New(server.URL, "tok")
	submission, err := client.UpdateSubmissionGrade(context.Background(), 1, 2, 9, GradeUpdate{
		PostedGrade: "95",
		TextComment: "Great work",
	})
	if err != nil {
		t.Fatalf("update grade: %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Fatalf("expected PUT, got %s", gotMethod)
	}
	if gotBody["submission"]["posted_grade"] != "95" {
		t.Fatalf("expected posted_grade forwarded, got %v", gotBody)
	}
	if gotBody["comment"]["text_comment"] != "Great work" {
		t.Fatalf("expected text_comment forwarded, got %v", gotBody)
	}
	if submission.Score == nil || *submission.Score != 95 {
		t.Fatalf("expected score 95, got %+v", submission.Score)
	}
	if submission.WorkflowState != "graded" {
		t.Fatalf("expected graded state, got %s", submission.WorkflowState)
	}
}

func TestUpdateSubmissionGradeOmitsEmptyComment(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"id":55,"user_id":9}`))
	}))
	defer server.Close()

	client := New(server.URL, "tok")
	if _, err := client.UpdateSubmissionGrade(context.Background(), 1, 2, 9, GradeUpdate{PostedGrade: "8"}); err != nil {
		t.Fatalf("update grade: %v", err)
	}
	if _, ok := gotBody["comment"]; ok {
		t.Fatalf("expected comment omitted, got %v", gotBody)
	}
}

func TestTestConnectionReshapesSelf(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/users/self" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":3,"name":"Pat Teacher","login_id":"pat@school.edu","avatar_url":"https://cdn/avatar.png"}`))
	}))
	defer server.Close()

	client := New(server.URL, "tok")
	status, err := client.TestConnection(context.Background())
	if err != nil {
		t.Fatalf("test connection: %v", err)
	}
	if !status.Success {
		t.Fatalf("expected success")
	}
	if status.User.ID != 3 || status.User.Name != "Pat Teacher" {
		t.Fatalf("unexpected user: %+v", status.User)
	}
	if status.User.Email != "pat@school.edu" {
		t.Fatalf("expected login_id fallback for email, got %q", status.User.Email)
	}
}

func TestTestConnectionPropagatesFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"Invalid access token."}]}`))
	}))
	defer server.Close()

	client := New(server.URL, "tok")
	_, err := client.TestConnection(context.Background())
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "Invalid access token." {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}

func TestEnsureUser(t *testing.T) {
	sub := &Submission{ID: 1, UserID: 42}
	EnsureUser(sub, 42)
	if sub.User == nil {
		t.Fatalf("expected placeholder user")
	}
	if sub.User.ID != 42 {
		t.Fatalf("expected placeholder id 42, got %d", sub.User.ID)
	}
	if sub.User.Name != "Student 42" {
		t.Fatalf("expected placeholder name, got %q", sub.User.Name)
	}

	existing := &Submission{ID: 2, UserID: 7, User: &User{ID: 7, Name: "Real Student"}}
	EnsureUser(existing, 7)
	if existing.User.Name != "Real Student" {
		t.Fatalf("expected real user kept, got %q", existing.User.Name)
	}
}
