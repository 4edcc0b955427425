package model

import "github.com/ivankudzin/estate-backoffice/internal/domain/enums"

// StatusCount is one row of a count-by-status query before normalization.
type StatusCount struct {
	Status           string
	AwaitingDecision bool
	Count            int64
}

type QueueCounts struct {
	New        int64 `json:"new"`
	InProgress int64 `json:"in_progress"`
}

type Counts map[enums.Category]QueueCounts
