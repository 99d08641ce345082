package model

import (
	"time"
)

type Event struct {
	ID        int64     `json:"-" db:"id"`
	EventUID  string    `json:"eventId" db:"event_uid"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	EventType string    `json:"eventType" db:"event_type"`
	UserID    int64     `json:"userId" db:"user_id"`
	BookID    int64     `json:"bookId" db:"book_id"`
	LoanID    int64     `json:"loanId" db:"loan_id"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type EventFeed struct {
	Paging `json:",inline"`
	Items  []Event `json:"items"`
}
