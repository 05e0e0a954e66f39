package models

// Profile is the matching record attached 1:1 to an account. The swipe
// history fields are stored as DynamoDB string sets so membership updates
// are idempotent.
type Profile struct {
	UserID         string   `dynamodbav:"userId" json:"userId"`
	Age            int      `dynamodbav:"age" json:"age"`
	Location       string   `dynamodbav:"location,omitempty" json:"location,omitempty"`
	Interests      []string `dynamodbav:"interests,omitempty" json:"interests,omitempty"`
	LikedProfiles  []string `dynamodbav:"likedProfiles,stringset,omitempty" json:"likedProfiles,omitempty"`
	PassedProfiles []string `dynamodbav:"passedProfiles,stringset,omitempty" json:"passedProfiles,omitempty"`
	Matches        []string `dynamodbav:"matches,stringset,omitempty" json:"matches,omitempty"`
	CreatedAt      string   `dynamodbav:"createdAt" json:"createdAt"`
}

// Has reports whether id is a member of the given swipe-history set.
func Has(set []string, id string) bool {
	for _, member := range set {
		if member == id {
			return true
		}
	}
	return false
}

// Profile set attribute names used with set-membership updates.
const (
	ProfileFieldLiked   = "likedProfiles"
	ProfileFieldPassed  = "passedProfiles"
	ProfileFieldMatches = "matches"
)

// ProfilesTable is the DynamoDB table name for matching profiles
const ProfilesTable = "Profiles"
