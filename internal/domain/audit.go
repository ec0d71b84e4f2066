package domain

import "time"

// Actor identifies who performed an audited operation.
type Actor struct {
	UserID      string `json:"userId" dynamodbav:"user_id"`
	DisplayName string `json:"displayName" dynamodbav:"display_name"`
	Email       string `json:"email" dynamodbav:"email"`
}

// Stamp records when and by whom a record was created/modified/deleted.
type Stamp struct {
	At time.Time `json:"at" dynamodbav:"at"`
	By Actor     `json:"by" dynamodbav:"by"`
}

// StampNow builds a Stamp for the given actor at the current UTC time.
func StampNow(by Actor) Stamp {
	return Stamp{At: time.Now().UTC(), By: by}
}
