package domain

type Animal struct {
	AnimalID       string   `json:"animalId" dynamodbav:"animal_id"`
	Name           string   `json:"name" dynamodbav:"name"`
	Species        string   `json:"species" dynamodbav:"species"`
	Personality    string   `json:"personality" dynamodbav:"personality"`
	WelcomeMessage string   `json:"welcomeMessage" dynamodbav:"welcome_message"`
	ChatEnabled    bool     `json:"chatEnabled" dynamodbav:"chat_enabled"`
	GuardrailIDs   []string `json:"guardrailIds,omitempty" dynamodbav:"guardrail_ids"`
	SoftDelete     bool     `json:"softDelete" dynamodbav:"soft_delete"`
	Created        Stamp    `json:"created" dynamodbav:"created"`
	Modified       *Stamp   `json:"modified,omitempty" dynamodbav:"modified"`
	Deleted        *Stamp   `json:"deleted,omitempty" dynamodbav:"deleted"`
}

// AnimalListing is the chat-facing view exposed to family users: no
// personality prompt, no guardrail wiring.
type AnimalListing struct {
	AnimalID       string `json:"animalId"`
	Name           string `json:"name"`
	Species        string `json:"species"`
	WelcomeMessage string `json:"welcomeMessage"`
}

// Listing projects the animal into its chat-facing view.
func (a *Animal) Listing() AnimalListing {
	return AnimalListing{
		AnimalID:       a.AnimalID,
		Name:           a.Name,
		Species:        a.Species,
		WelcomeMessage: a.WelcomeMessage,
	}
}

type CreateAnimalRequest struct {
	AnimalID       *string  `json:"animalId"`
	Name           string   `json:"name" validate:"required"`
	Species        string   `json:"species" validate:"required"`
	Personality    string   `json:"personality" validate:"required"`
	WelcomeMessage string   `json:"welcomeMessage"`
	ChatEnabled    *bool    `json:"chatEnabled"`
	GuardrailIDs   []string `json:"guardrailIds"`
}

type UpdateAnimalRequest struct {
	Name           *string  `json:"name"`
	Species        *string  `json:"species"`
	Personality    *string  `json:"personality"`
	WelcomeMessage *string  `json:"welcomeMessage"`
	ChatEnabled    *bool    `json:"chatEnabled"`
	GuardrailIDs   []string `json:"guardrailIds"`
}
