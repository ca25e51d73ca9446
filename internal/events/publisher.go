package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const gradePostedQueue = "grades.posted"

// GradePosted is emitted after a grade was successfully posted back to Canvas
// for a teacher whose settings enable grade notifications.
type GradePosted struct {
	ID           string    `json:"id"`
	TeacherID    string    `json:"teacher_id"`
	CourseID     int64     `json:"course_id"`
	AssignmentID int64     `json:"assignment_id"`
	StudentID    int64     `json:"student_id"`
	PostedGrade  string    `json:"posted_grade"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishGradePosted(ctx context.Context, event GradePosted) error
}

// AMQPPublisher publishes events over a fresh connection per publish. Grade
// posting is low-volume and delivery is best effort; callers log failures and
// never fail the request over them.
type AMQPPublisher struct {
	url string
}

func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url}
}

func (p *AMQPPublisher) PublishGradePosted(ctx context.Context, event GradePosted) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	channel, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = channel.Close() }()

	if _, err := channel.QueueDeclare(gradePostedQueue, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return channel.PublishWithContext(ctx, "", gradePostedQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
}
