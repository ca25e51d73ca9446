package canvas

import (
	"fmt"
	"time"
)

type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	SortableName string `json:"sortable_name,omitempty"`
	ShortName    string `json:"short_name,omitempty"`
	Email        string `json:"email,omitempty"`
	LoginID      string `json:"login_id,omitempty"`
	AvatarURL    string `json:"avatar_url,omitempty"`
}

type Term struct {
	ID      int64      `json:"id"`
	Name    string     `json:"name"`
	StartAt *time.Time `json:"start_at"`
	EndAt   *time.Time `json:"end_at"`
}

type Course struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	CourseCode    string     `json:"course_code"`
	WorkflowState string     `json:"workflow_state"`
	StartAt       *time.Time `json:"start_at"`
	EndAt         *time.Time `json:"end_at"`
	TotalStudents int        `json:"total_students,omitempty"`
	Term          *Term      `json:"term,omitempty"`
	Teachers      []User     `json:"teachers,omitempty"`
}

type RubricCriterion struct {
	ID              string  `json:"id"`
	Description     string  `json:"description"`
	LongDescription string  `json:"long_description,omitempty"`
	Points          float64 `json:"points"`
}

type Assignment struct {
	ID              int64             `json:"id"`
	CourseID        int64             `json:"course_id"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	DueAt           *time.Time        `json:"due_at"`
	PointsPossible  float64           `json:"points_possible"`
	GradingType     string            `json:"grading_type"`
	SubmissionTypes []string          `json:"submission_types"`
	Published       bool              `json:"published"`
	HTMLURL         string            `json:"html_url"`
	Rubric          []RubricCriterion `json:"rubric,omitempty"`
	NeedsGrading    int               `json:"needs_grading_count,omitempty"`
}

type SubmissionComment struct {
	ID         int64      `json:"id"`
	AuthorID   int64      `json:"author_id"`
	AuthorName string     `json:"author_name"`
	Comment    string     `json:"comment"`
	CreatedAt  *time.Time `json:"created_at"`
}

// Submission mirrors a Canvas submission record. The workflow_state values
// (unsubmitted, submitted, graded, pending_review) are defined by Canvas.
type Submission struct {
	ID            int64               `json:"id"`
	AssignmentID  int64               `json:"assignment_id"`
	UserID        int64               `json:"user_id"`
	Attempt       int                 `json:"attempt,omitempty"`
	Body          string              `json:"body,omitempty"`
	URL           string              `json:"url,omitempty"`
	Grade         *string             `json:"grade"`
	Score         *float64            `json:"score"`
	SubmittedAt   *time.Time          `json:"submitted_at"`
	GradedAt      *time.Time          `json:"graded_at"`
	WorkflowState string              `json:"workflow_state"`
	SubmissionType string             `json:"submission_type,omitempty"`
	Late          bool                `json:"late"`
	Missing       bool                `json:"missing"`
	User          *User               `json:"user,omitempty"`
	Comments      []SubmissionComment `json:"submission_comments,omitempty"`
}

// EnsureUser fills in a placeholder identity when Canvas returned a submission
// without its nested user, so consumers never see a nil user.
func EnsureUser(sub *Submission, fallbackID int64) *Submission {
	if sub == nil {
		return nil
	}
	if sub.User == nil {
		sub.User = &User{
			ID:   fallbackID,
			Name: fmt.Sprintf("Student %d", fallbackID),
		}
	}
	return sub
}

type ConnectionUser struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type ConnectionStatus struct {
	Success bool           `json:"success"`
	User    ConnectionUser `json:"user"`
}
