package models

import "time"

// Message is one direct chat message between two users.
type Message struct {
	ID         string    `db:"id" json:"id"`
	SenderID   string    `db:"sender_id" json:"sender_id"`
	ReceiverID string    `db:"receiver_id" json:"receiver_id"`
	Body       string    `db:"body" json:"body"`
	ReadAt     *time.Time `db:"read_at" json:"read_at,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// SendMessageRequest posts a chat message to another user.
type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	Body       string `json:"body" validate:"required,max=4000"`
}

// Favorite marks a mentor saved by a student.
type Favorite struct {
	StudentID string    `db:"student_id" json:"student_id"`
	MentorID  string    `db:"mentor_id" json:"mentor_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
