package kafka

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventBorrowed EventType = "BORROWED"
	EventReturned EventType = "RETURNED"
	EventOverdue  EventType = "OVERDUE"
)

// LendingEvent is the wire shape published to LendingTopic after every
// successful borrow, return or overdue transition.
type LendingEvent struct {
	EventID   string    `json:"eventId"`
	Timestamp time.Time `json:"timestamp"`
	EventType EventType `json:"eventType"`
	UserID    int64     `json:"userId"`
	BookID    int64     `json:"bookId"`
	LoanID    int64     `json:"loanId"`
}

func NewLendingEvent(eventType EventType, userID, bookID, loanID int64) LendingEvent {
	return LendingEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		BookID:    bookID,
		LoanID:    loanID,
	}
}
