package models

// Account is the durable record for an authenticated user.
type Account struct {
	UserID       string `dynamodbav:"userId" json:"id"`
	Name         string `dynamodbav:"name" json:"name"`
	Email        string `dynamodbav:"email" json:"email"`
	PasswordHash string `dynamodbav:"passwordHash" json:"-"`
	Gender       string `dynamodbav:"gender" json:"gender"`
	PhotoURL     string `dynamodbav:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	Bio          string `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Birthday     string `dynamodbav:"birthday" json:"birthday"`
	Age          int    `dynamodbav:"age" json:"age"`
	CreatedAt    string `dynamodbav:"createdAt" json:"createdAt"`
}

// PublicAccount is the projection of an account exposed to other users.
type PublicAccount struct {
	UserID   string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoUrl,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Gender   string `json:"gender,omitempty"`
}

// Public strips credential fields from an account.
func (a *Account) Public() PublicAccount {
	return PublicAccount{
		UserID:   a.UserID,
		Name:     a.Name,
		Email:    a.Email,
		PhotoURL: a.PhotoURL,
		Bio:      a.Bio,
		Gender:   a.Gender,
	}
}

// AccountsTable is the DynamoDB table name for accounts
const AccountsTable = "Accounts"

// AccountsEmailIndex is the GSI used to look accounts up by email
const AccountsEmailIndex = "email-index"
