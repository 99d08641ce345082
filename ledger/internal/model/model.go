package model

import (
	"time"
)

type Status string

const (
	StatusBorrowed Status = "BORROWED"
	StatusReturned Status = "RETURNED"
	StatusOverdue  Status = "OVERDUE"
)

// Active reports whether a loan still holds a copy.
// OVERDUE and BORROWED are equivalent from the allocator's point of view.
func (s Status) Active() bool {
	return s == StatusBorrowed || s == StatusOverdue
}

type Book struct {
	ID              int64     `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Author          string    `json:"author" db:"author"`
	ISBN            string    `json:"isbn" db:"isbn"`
	Publisher       string    `json:"publisher" db:"publisher"`
	Description     string    `json:"description" db:"description"`
	Category        string    `json:"category" db:"category"`
	TotalCopies     int       `json:"totalCopies" db:"total_copies"`
	AvailableCopies int       `json:"availableCopies" db:"available_copies"`
	CreatedAt       time.Time `json:"-" db:"created_at"`
	UpdatedAt       time.Time `json:"-" db:"updated_at"`
}

type Loan struct {
	ID         int64      `json:"id" db:"id"`
	UserID     int64      `json:"userId" db:"user_id"`
	BookID     int64      `json:"bookId" db:"book_id"`
	BorrowDate time.Time  `json:"borrowDate" db:"borrow_date"`
	DueDate    time.Time  `json:"dueDate" db:"due_date"`
	ReturnDate *time.Time `json:"returnDate,omitempty" db:"return_date"`
	Status     Status     `json:"status" db:"status"`
	CreatedAt  time.Time  `json:"-" db:"created_at"`
	UpdatedAt  time.Time  `json:"-" db:"updated_at"`
}

// User lives in the external user directory; the ledger consumes it read-only.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// LoanView is the read-side projection: a loan decorated with book and user
// lookups at the response boundary. Never persisted.
type LoanView struct {
	Loan
	Book *Book `json:"book,omitempty"`
	User *User `json:"user,omitempty"`
}

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []Book `json:"items"`
}

type ListLoans struct {
	Paging `json:",inline"`
	Items  []Loan `json:"items"`
}

type LoanHistory struct {
	Paging `json:",inline"`
	Items  []LoanView `json:"items"`
}

type BorrowRequest struct {
	BookID int64 `json:"bookId" validate:"required"`
}

type AdjustTotalRequest struct {
	TotalCopies int `json:"totalCopies" validate:"gte=0"`
}

// Outcome is the envelope every workflow call answers with: a definite
// success/failure plus a human-readable reason.
type Outcome struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Record  *LoanView `json:"record,omitempty"`
}

type SweepResponse struct {
	Count int `json:"count"`
}
