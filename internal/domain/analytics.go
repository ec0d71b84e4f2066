package domain

import "time"

// LogFilter bounds an analytics query. From/To are optional but must form a
// valid range together; BillingPeriod is an optional YYYY-MM month filter.
type LogFilter struct {
	From          *time.Time
	To            *time.Time
	BillingPeriod string
}

// AnimalActivity aggregates conversation traffic for one animal.
type AnimalActivity struct {
	AnimalID      string `json:"animalId"`
	AnimalName    string `json:"animalName"`
	Conversations int    `json:"conversations"`
	Turns         int    `json:"turns"`
	FlaggedTurns  int    `json:"flaggedTurns"`
}
