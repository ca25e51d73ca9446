package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	apiPrefix = "api/v1/"
	pageSize  = "100"
)

var requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "canvas_client_requests_total",
	Help: "Canvas API requests by operation and outcome.",
}, []string{"operation", "outcome"})

func init() {
	prometheus.MustRegister(requestsTotal)
}

// APIError is a failure reported by the Canvas API itself (non-2xx response).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("canvas: %s (status %d)", e.Message, e.StatusCode)
}

func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// NormalizeBaseURL prefixes https:// when the value has no scheme and
// guarantees exactly one trailing slash. It is idempotent.
func NormalizeBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return strings.TrimRight(base, "/") + "/"
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    NormalizeBaseURL(baseURL),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// BaseURL returns the normalized base URL the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, operation, method, endpoint string, query url.Values, body interface{}, out interface{}) error {
	requestURL := c.baseURL + apiPrefix + endpoint
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues(operation, "transport_error").Inc()
		return fmt.Errorf("could not reach %s: %v. Check your Canvas URL and network connection", requestURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		requestsTotal.WithLabelValues(operation, "api_error").Inc()
		return &APIError{StatusCode: resp.StatusCode, Message: extractErrorMessage(resp)}
	}

	requestsTotal.WithLabelValues(operation, "ok").Inc()
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// extractErrorMessage pulls a human-readable message out of a Canvas error
// body. Canvas reports either {"errors":[{"message":...}]} or {"message":...};
// anything unparseable falls back to the status line.
func extractErrorMessage(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && len(raw) > 0 {
		var body struct {
			Errors []struct {
				Message string `json:"message"`
			} `json:"errors"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &body); err == nil {
			if len(body.Errors) > 0 && body.Errors[0].Message != "" {
				return body.Errors[0].Message
			}
			if body.Message != "" {
				return body.Message
			}
		}
	}
	return resp.Status
}

// Typed operations

func (c *Client) GetSelf(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, "get_self", http.MethodGet, "users/self", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUser(ctx context.Context, userID int64) (*User, error) {
	var user User
	endpoint := "users/" + strconv.FormatInt(userID, 10)
	if err := c.do(ctx, "get_user", http.MethodGet, endpoint, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserOptional is the no-throw variant of GetUser: lookup failures are
// logged and reported as an absent user.
func (c *Client) GetUserOptional(ctx context.Context, userID int64) *User {
	user, err := c.GetUser(ctx, userID)
	if err != nil {
		log.Printf("canvas: user %d lookup failed: %v", userID, err)
		return nil
	}
	return user
}

type ListCoursesOptions struct {
	Include         []string
	EnrollmentState string
	State           []string
	EnrollmentType  string
}

func (c *Client) ListCourses(ctx context.Context, opts ListCoursesOptions) ([]Course, error) {
	query := url.Values{"per_page": {pageSize}}
	for _, include := range opts.Include {
		query.Add("include[]", include)
	}
	if opts.EnrollmentState != "" {
		query.Set("enrollment_state", opts.EnrollmentState)
	}
	for _, state := range opts.State {
		query.Add("state[]", state)
	}
	if opts.EnrollmentType != "" {
		query.Set("enrollment_type", opts.EnrollmentType)
	}

	var courses []Course
	if err := c.do(ctx, "list_courses", http.MethodGet, "courses", query, nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) GetCourse(ctx context.Context, courseID int64, include []string) (*Course, error) {
	query := url.Values{}
	for _, value := range include {
		query.Add("include[]", value)
	}
	var course Course
	endpoint := "courses/" + strconv.FormatInt(courseID, 10)
	if err := c.do(ctx, "get_course", http.MethodGet, endpoint, query, nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

type ListAssignmentsOptions struct {
	Include       []string
	Bucket        string
	AssignmentIDs []int64
}

func (c *Client) ListAssignments(ctx context.Context, courseID int64, opts ListAssignmentsOptions) ([]Assignment, error) {
	query := url.Values{"per_page": {pageSize}}
	for _, include := range opts.Include {
		query.Add("include[]", include)
	}
	if opts.Bucket != "" {
		query.Set("bucket", opts.Bucket)
	}
	for _, id := range opts.AssignmentIDs {
		query.Add("assignment_ids[]", strconv.FormatInt(id, 10))
	}

	var assignments []Assignment
	endpoint := "courses/" + strconv.FormatInt(courseID, 10) + "/assignments"
	if err := c.do(ctx, "list_assignments", http.MethodGet, endpoint, query, nil, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (c *Client) GetAssignment(ctx context.Context, courseID, assignmentID int64) (*Assignment, error) {
	var assignment Assignment
	endpoint := "courses/" + strconv.FormatInt(courseID, 10) + "/assignments/" + strconv.FormatInt(assignmentID, 10)
	if err := c.do(ctx, "get_assignment", http.MethodGet, endpoint, nil, nil, &assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (c *Client) ListSubmissions(ctx context.Context, courseID, assignmentID int64, include []string) ([]Submission, error) {
	query := url.Values{"per_page": {pageSize}}
	for _, value := range include {
		query.Add("include[]", value)
	}

	var submissions []Submission
	endpoint := "courses/" + strconv.FormatInt(courseID, 10) +
		"/assignments/" + strconv.FormatInt(assignmentID, 10) + "/submissions"
	if err := c.do(ctx, "list_submissions", http.MethodGet, endpoint, query, nil, &submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}

func (c *Client) GetSubmission(ctx context.Context, courseID, assignmentID, userID int64, include []string) (*Submission, error) {
	query := url.Values{}
	for _, value := range include {
		query.Add("include[]", value)
	}

	var submission Submission
	endpoint := "courses/" + strconv.FormatInt(courseID, 10) +
		"/assignments/" + strconv.FormatInt(assignmentID, 10) +
		"/submissions/" + strconv.FormatInt(userID, 10)
	if err := c.do(ctx, "get_submission", http.MethodGet, endpoint, query, nil, &submission); err != nil {
		return nil, err
	}
	return &submission, nil
}

type GradeUpdate struct {
	PostedGrade string
	TextComment string
}

func (c *Client) UpdateSubmissionGrade(ctx context.Context, courseID, assignmentID, userID int64, update GradeUpdate) (*Submission, error) {
	body := map[string]interface{}{
		"submission": map[string]string{"posted_grade": update.PostedGrade},
	}
	if update.TextComment != "" {
		body["comment"] = map[string]string{"text_comment": update.TextComment}
	}

	var submission Submission
	endpoint := "courses/" + strconv.FormatInt(courseID, 10) +
		"/assignments/" + strconv.FormatInt(assignmentID, 10) +
		"/submissions/" + strconv.FormatInt(userID, 10)
	if err := c.do(ctx, "update_submission_grade", http.MethodPut, endpoint, nil, body, &submission); err != nil {
		return nil, err
	}
	return &submission, nil
}

// TestConnection verifies the credential pair by fetching the current user and
// reshaping it. Failures from the underlying call propagate unchanged.
func (c *Client) TestConnection(ctx context.Context) (*ConnectionStatus, error) {
	self, err := c.GetSelf(ctx)
	if err != nil {
		return nil, err
	}
	email := self.Email
	if email == "" {
		email = self.LoginID
	}
	return &ConnectionStatus{
		Success: true,
		User: ConnectionUser{
			ID:        self.ID,
			Name:      self.Name,
			Email:     email,
			AvatarURL: self.AvatarURL,
		},
	}, nil
}
