package domain

// Guardrail scopes.
const (
	GuardrailScopeGlobal = "global"
	GuardrailScopeAnimal = "animal"
)

type Guardrail struct {
	GuardrailID     string   `json:"guardrailId" dynamodbav:"guardrail_id"`
	Name            string   `json:"name" dynamodbav:"name"`
	Description     string   `json:"description" dynamodbav:"description"`
	BlockedPhrases  []string `json:"blockedPhrases" dynamodbav:"blocked_phrases"`
	RedirectMessage string   `json:"redirectMessage" dynamodbav:"redirect_message"`
	Scope           string   `json:"scope" dynamodbav:"scope"`
	Active          bool     `json:"active" dynamodbav:"active"`
	SoftDelete      bool     `json:"softDelete" dynamodbav:"soft_delete"`
	Created         Stamp    `json:"created" dynamodbav:"created"`
	Modified        *Stamp   `json:"modified,omitempty" dynamodbav:"modified"`
	Deleted         *Stamp   `json:"deleted,omitempty" dynamodbav:"deleted"`
}

type CreateGuardrailRequest struct {
	GuardrailID     *string  `json:"guardrailId"`
	Name            string   `json:"name" validate:"required"`
	Description     string   `json:"description"`
	BlockedPhrases  []string `json:"blockedPhrases" validate:"required,min=1"`
	RedirectMessage string   `json:"redirectMessage" validate:"required"`
	Scope           string   `json:"scope" validate:"required,oneof=global animal"`
	Active          *bool    `json:"active"`
}

type UpdateGuardrailRequest struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	BlockedPhrases  []string `json:"blockedPhrases"`
	RedirectMessage *string  `json:"redirectMessage"`
	Scope           *string  `json:"scope" validate:"omitempty,oneof=global animal"`
	Active          *bool    `json:"active"`
}
