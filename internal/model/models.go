// Package model defines the shared data structures for the matching and
// pipeline services.
package model

import (
	"fmt"
	"time"
)

// ExperienceTier is the ordinal seniority level of a job or a seeker.
type ExperienceTier string

const (
	TierEntry  ExperienceTier = "entry"
	TierMid    ExperienceTier = "mid"
	TierSenior ExperienceTier = "senior"
	TierLead   ExperienceTier = "lead"
)

// tierRanks orders tiers for gap computations: entry < mid < senior < lead.
var tierRanks = map[ExperienceTier]int{
	TierEntry:  1,
	TierMid:    2,
	TierSenior: 3,
	TierLead:   4,
}

// Rank returns the ordinal rank of the tier (1–4), or 0 for unknown values.
func (t ExperienceTier) Rank() int { return tierRanks[t] }

// ParseExperienceTier converts a raw string to an ExperienceTier, returning an
// error for unknown values.
func ParseExperienceTier(s string) (ExperienceTier, error) {
	t := ExperienceTier(s)
	switch t {
	case TierEntry, TierMid, TierSenior, TierLead:
		return t, nil
	}
	return "", fmt.Errorf("unknown experience tier %q", s)
}

// ApplicationStatus mirrors the application_status enum in PostgreSQL.
type ApplicationStatus string

const (
	StatusApplied   ApplicationStatus = "applied"
	StatusInterview ApplicationStatus = "interview"
	StatusOffered   ApplicationStatus = "offered"
	StatusRejected  ApplicationStatus = "rejected"
)

// ParseApplicationStatus converts a raw string to an ApplicationStatus,
// returning an error for unknown values.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	switch st {
	case StatusApplied, StatusInterview, StatusOffered, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// JobPosting is a scraped job offer. Postings are written by the discovery
// pipeline and only read here.
type JobPosting struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Company      string         `json:"company"`
	Location     string         `json:"location"`
	Description  string         `json:"description"`
	Requirements []string       `json:"requirements"`
	Tier         ExperienceTier `json:"experienceTier"`
	Available    bool           `json:"available"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Preferences captures what a seeker wants out of the next role.
type Preferences struct {
	Locations []string         `json:"locations"`
	Tiers     []ExperienceTier `json:"tiers"`
	Keywords  []string         `json:"keywords"`
	RemoteOK  bool             `json:"remoteOk"`
	SalaryMin *int             `json:"salaryMin,omitempty"`
	SalaryMax *int             `json:"salaryMax,omitempty"`
}

// SeekerProfile is the seeker's skill set and preferences. One per user.
type SeekerProfile struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	Skills      []string       `json:"skills"`
	Tier        ExperienceTier `json:"experienceTier"`
	Preferences Preferences    `json:"preferences"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Application tracks one seeker's pursuit of one job. Unique per
// (seeker, job); the status field is mutated only through the state machine.
type Application struct {
	ID            string            `json:"id"`
	SeekerID      string            `json:"seekerId"`
	JobID         string            `json:"jobId"`
	Status        ApplicationStatus `json:"status"`
	AppliedAt     time.Time         `json:"appliedAt"`
	CoverLetter   *string           `json:"coverLetter,omitempty"`
	Notes         *string           `json:"notes,omitempty"`
	InterviewDate *time.Time        `json:"interviewDate,omitempty"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// StatusChange is one row of an application's append-only audit log.
// From is nil only for the initial applied entry written at creation.
type StatusChange struct {
	ID            string             `json:"id"`
	ApplicationID string             `json:"applicationId"`
	From          *ApplicationStatus `json:"from,omitempty"`
	To            ApplicationStatus  `json:"to"`
	ChangedAt     time.Time          `json:"changedAt"`
	Notes         *string            `json:"notes,omitempty"`
}
