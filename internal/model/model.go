// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

import "time"

// Candidate is a person in the hiring pipeline.
type Candidate struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	ResumeURL string    `json:"resume_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JobStatus is the lifecycle of a posting.
type JobStatus string

const (
	JobOpen   JobStatus = "open"
	JobClosed JobStatus = "closed"
)

// JobPosting is an open or closed position recruiters hire for.
type JobPosting struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Department  string    `json:"department"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	Status      JobStatus `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ApplicationStatus is a stage in the hiring pipeline.
type ApplicationStatus string

const (
	ApplicationApplied   ApplicationStatus = "applied"
	ApplicationScreening ApplicationStatus = "screening"
	ApplicationInterview ApplicationStatus = "interview"
	ApplicationOffer     ApplicationStatus = "offer"
	ApplicationHired     ApplicationStatus = "hired"
	ApplicationRejected  ApplicationStatus = "rejected"
)

// Application ties a candidate to a job posting. IDs are time-ordered
// UUIDv7 strings, so cursor paging over id follows application order.
type Application struct {
	ID          string            `json:"id"`
	CandidateID int64             `json:"candidate_id"`
	JobID       int64             `json:"job_id"`
	Status      ApplicationStatus `json:"status"`
	Notes       string            `json:"notes,omitempty"`
	AppliedAt   time.Time         `json:"applied_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// EmailStatus is the delivery state of a queued message.
type EmailStatus string

const (
	EmailPending EmailStatus = "pending"
	EmailSent    EmailStatus = "sent"
	EmailFailed  EmailStatus = "failed"
)

// EmailMessage is an outbox row: rendered content waiting for the worker
// to hand it to a sender. DedupeKey guards against double enqueue.
type EmailMessage struct {
	ID            int64       `json:"id"`
	CandidateID   int64       `json:"candidate_id"`
	ApplicationID string      `json:"application_id,omitempty"`
	Template      string      `json:"template"`
	Subject       string      `json:"subject"`
	Body          string      `json:"body"`
	Status        EmailStatus `json:"status"`
	Attempts      int         `json:"attempts"`
	LastError     string      `json:"last_error,omitempty"`
	DedupeKey     string      `json:"dedupe_key"`
	CreatedAt     time.Time   `json:"created_at"`
	SentAt        *time.Time  `json:"sent_at,omitempty"`
}
