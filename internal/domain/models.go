package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserID uniquely identifies a candidate user
type UserID = uuid.UUID

// CompanyID uniquely identifies a company
type CompanyID = uuid.UUID

// JobID uniquely identifies a job posting
type JobID = uuid.UUID

// ApplicationID uniquely identifies a job application
type ApplicationID = uuid.UUID

// User is a candidate who may browse and apply to jobs.
// ResumeURL stays empty until the first upload and is overwritten after.
type User struct {
	ID         UserID
	ExternalID string
	Name       string
	Email      string
	ResumeURL  string
	ImageURL   string
	CreatedAt  time.Time
}

// Company is a recruiter account that posts jobs
type Company struct {
	ID           CompanyID
	Name         string
	Email        string
	PasswordHash string
	LogoURL      string
	CreatedAt    time.Time
}

// Job is a posting owned by a company. Jobs are never hard-deleted;
// Visible controls whether candidates can see and apply to them.
type Job struct {
	ID          JobID
	Title       string
	Description string
	Location    string
	Category    string
	Level       string
	Salary      int64
	CompanyID   CompanyID
	Visible     bool
	CreatedAt   time.Time
}

// ApplicationStatus enumerates the lifecycle states of an application
type ApplicationStatus string

const (
	StatusPending   ApplicationStatus = "Pending"
	StatusAccepted  ApplicationStatus = "Accepted"
	StatusRejected  ApplicationStatus = "Rejected"
	StatusInterview ApplicationStatus = "Interview"
)

// ValidStatus reports whether s is a known application status
func ValidStatus(s ApplicationStatus) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusInterview:
		return true
	}
	return false
}

// Application links a user to a job. CompanyID is denormalized from the
// job at creation time for query convenience. At most one application
// exists per (user, job) pair.
type Application struct {
	ID        ApplicationID
	JobID     JobID
	UserID    UserID
	CompanyID CompanyID
	Status    ApplicationStatus
	CreatedAt time.Time
}

// CompanySummary is the response-friendly company view
type CompanySummary struct {
	ID      CompanyID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	LogoURL string    `json:"image"`
}

// JobView is a job joined with its owning company
type JobView struct {
	Job     Job
	Company CompanySummary
}

// JobWithApplicants is a company-facing job row with its applicant count
type JobWithApplicants struct {
	Job        Job
	Applicants int
}

// ApplicationView is an application joined with its user and job
type ApplicationView struct {
	Application Application
	User        User
	Job         Job
	Company     CompanySummary
}

// ResumeAnalysis holds the structured fields the scorer returns for one
// (resume, job description) pair
type ResumeAnalysis struct {
	Score         float64
	Summary       string
	Strengths     []string
	Weaknesses    []string
	MatchedSkills []string
	MissingSkills []string
}

// ScoreResult pairs an application with its scorer output. It lives only
// for the duration of one screening pass and is never persisted.
type ScoreResult struct {
	Application Application
	Analysis    ResumeAnalysis
}

// JobPostedEvent is the broadcast payload published when a job is created
type JobPostedEvent struct {
	JobID       JobID     `json:"job_id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	CompanyName string    `json:"company_name"`
	PostedAt    time.Time `json:"posted_at"`
}

// ShortlistSummary reports the outcome of one screening pass
type ShortlistSummary struct {
	AcceptedCount int
}
