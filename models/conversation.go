package models

// ConversationSummary is one row of a user's conversation list.
type ConversationSummary struct {
	ConversationID  string `json:"conversationId"`
	UserID          string `json:"userId"`
	UserName        string `json:"userName"`
	UserPhoto       string `json:"userPhoto,omitempty"`
	LastMessage     string `json:"lastMessage"`
	LastMessageTime string `json:"lastMessageTime"`
	UnreadCount     int    `json:"unreadCount"`
	IsOnline        bool   `json:"isOnline"`
}

// CandidateProfile is a browsable profile enriched with the owning
// account's public fields.
type CandidateProfile struct {
	UserID    string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Age       int      `json:"age"`
	Bio       string   `json:"bio,omitempty"`
	PhotoURL  string   `json:"photoUrl,omitempty"`
	Location  string   `json:"location,omitempty"`
	Interests []string `json:"interests,omitempty"`
	Gender    string   `json:"gender,omitempty"`
}
