package domain

type User struct {
	UserID       string  `json:"userId" dynamodbav:"user_id"`
	Email        string  `json:"email" dynamodbav:"email"`
	DisplayName  string  `json:"displayName" dynamodbav:"display_name"`
	Role         string  `json:"role" dynamodbav:"role"`
	UserType     string  `json:"userType" dynamodbav:"user_type"`
	PasswordHash string  `json:"-" dynamodbav:"password_hash"`
	FamilyID     *string `json:"familyId,omitempty" dynamodbav:"family_id"`
	Enabled      bool    `json:"enabled" dynamodbav:"enabled"`
	SoftDelete   bool    `json:"softDelete" dynamodbav:"soft_delete"`
	Created      Stamp   `json:"created" dynamodbav:"created"`
	Modified     *Stamp  `json:"modified,omitempty" dynamodbav:"modified"`
	Deleted      *Stamp  `json:"deleted,omitempty" dynamodbav:"deleted"`
}

// Actor returns the audit-stamp identity for this user.
func (u *User) Actor() Actor {
	return Actor{UserID: u.UserID, DisplayName: u.DisplayName, Email: u.Email}
}

// CreateUserRequest is the POST /users payload. UserID is present only so a
// client-supplied ID can be rejected — the server always generates IDs.
type CreateUserRequest struct {
	UserID      *string `json:"userId"`
	Email       string  `json:"email" validate:"required,email"`
	DisplayName string  `json:"displayName" validate:"required"`
	Password    string  `json:"password" validate:"required,min=8,max=72"`
	Role        string  `json:"role" validate:"required"`
	FamilyID    *string `json:"familyId"`
}

type UpdateUserRequest struct {
	Email       *string `json:"email" validate:"omitempty,email"`
	DisplayName *string `json:"displayName"`
	Role        *string `json:"role"`
	FamilyID    *string `json:"familyId"`
	Enabled     *bool   `json:"enabled"`
}
