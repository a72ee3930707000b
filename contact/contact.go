// Package contact implements the contact form endpoint: validation of a
// submission, persistence in the contacts table and the JSON handler.
package contact

import (
	"context"
	"errors"
	"net/mail"
	"time"
	"unicode/utf8"
)

// MinMessageLength is the shortest accepted message, in characters.
const MinMessageLength = 10

// Validation messages, in field order.
const (
	MsgNameRequired = "Name is required"
	MsgInvalidEmail = "Invalid email address"
	MsgShortMessage = "Message must be at least 10 characters"
)

// ErrInvalid is wrapped by every ValidationError.
var ErrInvalid = errors.New("contact: invalid submission")

// Submission is the request body of POST /api/contact.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Contact is a persisted submission.
type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidationError lists every failed rule of a submission.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return ErrInvalid.Error()
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

// Validate checks every rule and returns a *ValidationError listing all of
// the failures, or nil.
func (s Submission) Validate() error {
	var details []string
	if s.Name == "" {
		details = append(details, MsgNameRequired)
	}
	if !validEmail(s.Email) {
		details = append(details, MsgInvalidEmail)
	}
	if utf8.RuneCountInString(s.Message) < MinMessageLength {
		details = append(details, MsgShortMessage)
	}
	if len(details) > 0 {
		return &ValidationError{Details: details}
	}
	return nil
}

// validEmail accepts a bare RFC 5322 address. Display names and angle
// brackets are rejected.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && addr.Name == ""
}

// Store persists validated submissions.
type Store interface {
	Insert(ctx context.Context, s Submission) (Contact, error)
}
