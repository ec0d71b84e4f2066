package domain

type Family struct {
	FamilyID   string   `json:"familyId" dynamodbav:"family_id"`
	Name       string   `json:"name" dynamodbav:"name"`
	Parents    []string `json:"parents" dynamodbav:"parents"`
	Students   []string `json:"students" dynamodbav:"students"`
	SoftDelete bool     `json:"softDelete" dynamodbav:"soft_delete"`
	Created    Stamp    `json:"created" dynamodbav:"created"`
	Modified   *Stamp   `json:"modified,omitempty" dynamodbav:"modified"`
	Deleted    *Stamp   `json:"deleted,omitempty" dynamodbav:"deleted"`
}

type CreateFamilyRequest struct {
	FamilyID *string  `json:"familyId"`
	Name     string   `json:"name" validate:"required"`
	Parents  []string `json:"parents"`
	Students []string `json:"students"`
}

type UpdateFamilyRequest struct {
	Name     *string  `json:"name"`
	Parents  []string `json:"parents"`
	Students []string `json:"students"`
}
