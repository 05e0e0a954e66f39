package models

// Match records a mutual like between two accounts. User1 is always the
// lexicographically smaller id, so one unordered pair has exactly one record.
// Unmatching flips Active to false; the record itself is never deleted.
type Match struct {
	PairKey   string `dynamodbav:"pairKey" json:"pairKey"`
	User1     string `dynamodbav:"user1" json:"user1"`
	User2     string `dynamodbav:"user2" json:"user2"`
	Active    bool   `dynamodbav:"active" json:"active"`
	MatchedAt string `dynamodbav:"matchedAt" json:"matchedAt"`
}

// Counterpart returns the other participant of the match.
func (m *Match) Counterpart(userID string) string {
	if m.User1 == userID {
		return m.User2
	}
	return m.User1
}

// MatchResult is what the engine reports back from a like action.
type MatchResult struct {
	IsMatch          bool   `json:"isMatch"`
	MatchedUserID    string `json:"matchedUserId,omitempty"`
	MatchedUserName  string `json:"matchedUserName,omitempty"`
	MatchedUserPhoto string `json:"matchedUserPhoto,omitempty"`
	MatchedAt        string `json:"matchedAt,omitempty"`
}

// MatchesTable is the DynamoDB table name for match records
const MatchesTable = "Matches"
