package domain

import "time"

type Decision string

const (
	Approved Decision = "Approved"
	Rejected Decision = "Rejected"
)

// PredictionRecord is one entry of the dashboard history.
type PredictionRecord struct {
	ID            string         `json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	Input         ApplicantInput `json:"input"`
	Decision      Decision       `json:"decision"`
	ApprovedVotes int            `json:"approved_votes"`
	K             int            `json:"k"`
}

type PredictionStats struct {
	Total    int64 `json:"total"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}
