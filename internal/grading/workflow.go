package grading

import (
	"context"
	"fmt"

	"gradecanvas/internal/canvas"
)

const (
	ErrAssignmentNotFound = "assignment_not_found"
	ErrSubmissionNotFound = "submission_not_found"
)

type Error struct {
	Code string
}

func (e *Error) Error() string {
	return e.Code
}

// GetAssignment fetches one assignment. A Canvas 404 becomes a typed
// not-found error; any other failure (including transport failures with their
// rewritten messages) passes through untouched.
func GetAssignment(ctx context.Context, client *canvas.Client, courseID, assignmentID int64) (*canvas.Assignment, error) {
	assignment, err := client.GetAssignment(ctx, courseID, assignmentID)
	if err != nil {
		if canvas.IsNotFound(err) {
			return nil, &Error{Code: ErrAssignmentNotFound}
		}
		return nil, err
	}
	return assignment, nil
}

type SubmissionResultKind int

const (
	SubmissionFull SubmissionResultKind = iota
	SubmissionPartial
)

// PlaceholderSubmission stands in for a submission that could not be fetched,
// so the grading screen can still render the assignment context.
type PlaceholderSubmission struct {
	ID            string       `json:"id"`
	UserID        int64        `json:"user_id"`
	AssignmentID  int64        `json:"assignment_id"`
	WorkflowState string       `json:"workflow_state"`
	User          *canvas.User `json:"user"`
}

// SubmissionResult is either the full submission or, when only the assignment
// was recoverable, a partial result carrying a placeholder submission and the
// fetch error. The not-found case is reported as an error instead.
type SubmissionResult struct {
	Kind        SubmissionResultKind
	Submission  *canvas.Submission
	Assignment  *canvas.Assignment
	Placeholder *PlaceholderSubmission
	FetchError  string
}

func FetchSubmission(ctx context.Context, client *canvas.Client, courseID, assignmentID, userID int64, include []string) (*SubmissionResult, error) {
	submission, err := client.GetSubmission(ctx, courseID, assignmentID, userID, include)
	if err == nil {
		canvas.EnsureUser(submission, userID)
		return &SubmissionResult{Kind: SubmissionFull, Submission: submission}, nil
	}

	// The submission lookup failed; degrade to the assignment alone so the
	// caller still gets something to render.
	assignment, assignmentErr := client.GetAssignment(ctx, courseID, assignmentID)
	if assignmentErr != nil {
		return nil, &Error{Code: ErrSubmissionNotFound}
	}
	return &SubmissionResult{
		Kind:       SubmissionPartial,
		Assignment: assignment,
		Placeholder: &PlaceholderSubmission{
			ID:            "unknown",
			UserID:        userID,
			AssignmentID:  assignmentID,
			WorkflowState: "unsubmitted",
			User: &canvas.User{
				ID:   userID,
				Name: fmt.Sprintf("Student %d", userID),
			},
		},
		FetchError: err.Error(),
	}, nil
}

// UpdateGrade forwards the posted grade and optional comment unchanged and
// returns whatever submission Canvas reports back.
func UpdateGrade(ctx context.Context, client *canvas.Client, courseID, assignmentID, userID int64, update canvas.GradeUpdate) (*canvas.Submission, error) {
	submission, err := client.UpdateSubmissionGrade(ctx, courseID, assignmentID, userID, update)
	if err != nil {
		return nil, err
	}
	canvas.EnsureUser(submission, userID)
	return submission, nil
}
