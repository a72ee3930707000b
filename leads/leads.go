// Package leads captures early-access sign-ups from the landing page into a
// document collection.
package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status messages shown to the visitor.
const (
	MsgThanks = "Thank you for your interest! We'll be in touch soon."
	MsgFailed = "Something went wrong. Please try again."
)

var (
	// ErrEmailRequired is returned for a request without an email.
	ErrEmailRequired = errors.New("leads: email is required")
	// ErrNotFound is returned by Get for an unknown document ID.
	ErrNotFound = errors.New("leads: document not found")
)

// Request is the body of POST /api/leads.
type Request struct {
	Email      string `json:"email"`
	ClinicName string `json:"clinicName"`
}

// Lead is the stored document.
type Lead struct {
	Email      string    `json:"email"`
	ClinicName string    `json:"clinicName"`
	Timestamp  time.Time `json:"timestamp"`
}

// Collection is a document store collection. Add assigns the document ID.
type Collection interface {
	Add(ctx context.Context, doc Lead) (string, error)
}

// Service validates requests and writes them to a collection.
type Service struct {
	coll Collection
	now  func() time.Time
}

// NewService returns a service writing to coll.
func NewService(coll Collection) *Service {
	return &Service{coll: coll, now: time.Now}
}

// Submit stores req with the current UTC time and returns the document ID.
func (s *Service) Submit(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Email) == "" {
		return "", ErrEmailRequired
	}
	id, err := s.coll.Add(ctx, Lead{
		Email:      req.Email,
		ClinicName: req.ClinicName,
		Timestamp:  s.now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("add lead: %w", err)
	}
	return id, nil
}
