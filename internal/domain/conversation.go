package domain

import "time"

// Turn is a single prompt/reply exchange inside a conversation. Flagged turns
// record which guardrail tripped; their reply is the guardrail's redirect
// message rather than a model answer.
type Turn struct {
	TurnID      string    `json:"turnId" dynamodbav:"turn_id"`
	Prompt      string    `json:"prompt" dynamodbav:"prompt"`
	Reply       string    `json:"reply" dynamodbav:"reply"`
	Flagged     bool      `json:"flagged" dynamodbav:"flagged"`
	GuardrailID *string   `json:"guardrailId,omitempty" dynamodbav:"guardrail_id"`
	At          time.Time `json:"at" dynamodbav:"at"`
}

type Conversation struct {
	ConversationID string `json:"conversationId" dynamodbav:"conversation_id"`
	AnimalID       string `json:"animalId" dynamodbav:"animal_id"`
	UserID         string `json:"userId" dynamodbav:"user_id"`
	Turns          []Turn `json:"turns" dynamodbav:"turns"`
	SoftDelete     bool   `json:"softDelete" dynamodbav:"soft_delete"`
	Created        Stamp  `json:"created" dynamodbav:"created"`
	Modified       *Stamp `json:"modified,omitempty" dynamodbav:"modified"`
	Deleted        *Stamp `json:"deleted,omitempty" dynamodbav:"deleted"`
}

type StartConversationRequest struct {
	ConversationID *string `json:"conversationId"`
	AnimalID       string  `json:"animalId" validate:"required"`
	UserID         string  `json:"userId"` // defaults to the caller when empty
}

// TurnRequest records one exchange. Reply is what the chat engine answered;
// it is discarded and replaced by the redirect message when a guardrail trips.
type TurnRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	Reply  string `json:"reply"`
}
