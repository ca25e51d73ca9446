package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMissingFields is returned when a grading request lacks one of the two
// required inputs.
var ErrMissingFields = errors.New("assignment description and submission content are required")

type Input struct {
	AssignmentDescription string
	SubmissionContent     string
	PointsPossible        *float64
	Rubric                string
}

// Suggestion is the fixed shape the model is instructed to return. It is never
// persisted; the teacher may copy its fields into a grade update.
type Suggestion struct {
	Grade               float64  `json:"grade"`
	Feedback            string   `json:"feedback"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areasForImprovement"`
	Summary             string   `json:"summary"`
}

// ParseError carries the raw model output so a malformed response can be
// diagnosed by the operator.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ai: model response is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Completer is the injected completion capability. Tests substitute a
// deterministic stub.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Generator struct {
	completer Completer
}

func NewGenerator(completer Completer) *Generator {
	return &Generator{completer: completer}
}

func (g *Generator) Grade(ctx context.Context, input Input) (*Suggestion, error) {
	if strings.TrimSpace(input.AssignmentDescription) == "" || strings.TrimSpace(input.SubmissionContent) == "" {
		return nil, ErrMissingFields
	}
	raw, err := g.completer.Complete(ctx, BuildPrompt(input))
	if err != nil {
		return nil, err
	}
	return ParseSuggestion(raw)
}

// BuildPrompt renders the fixed grading template. All inputs are embedded
// verbatim; points default to 100 when the caller did not supply any.
func BuildPrompt(input Input) string {
	points := 100.0
	if input.PointsPossible != nil {
		points = *input.PointsPossible
	}
	pointsText := strconv.FormatFloat(points, 'f', -1, 64)

	var b strings.Builder
	b.WriteString("You are an experienced teacher grading a student submission.\n\n")
	b.WriteString("Assignment description:\n")
	b.WriteString(input.AssignmentDescription)
	b.WriteString("\n\n")
	if strings.TrimSpace(input.Rubric) != "" {
		b.WriteString("Rubric:\n")
		b.WriteString(input.Rubric)
		b.WriteString("\n\n")
	}
	b.WriteString("Student submission:\n")
	b.WriteString(input.SubmissionContent)
	b.WriteString("\n\n")
	b.WriteString("Grade the submission out of " + pointsText + " points.\n")
	b.WriteString("Respond with a single JSON object and nothing else, using exactly these keys:\n")
	b.WriteString(`- "grade": the numeric grade out of ` + pointsText + "\n")
	b.WriteString(`- "feedback": detailed feedback that references specific parts of the submission` + "\n")
	b.WriteString(`- "strengths": an array of strings listing what the student did well` + "\n")
	b.WriteString(`- "areasForImprovement": an array of strings listing what could be improved` + "\n")
	b.WriteString(`- "summary": a short summary of the evaluation` + "\n")
	return b.String()
}

// ParseSuggestion parses the raw model text strictly as JSON. No retry and no
// partial recovery: a malformed response surfaces as a ParseError.
func ParseSuggestion(raw string) (*Suggestion, error) {
	var suggestion Suggestion
	if err := json.Unmarshal([]byte(raw), &suggestion); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	return &suggestion, nil
}
