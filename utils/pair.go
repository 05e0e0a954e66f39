package utils

// CanonicalPair orders two account ids so the lexicographically smaller one
// comes first. Every unordered pair has exactly one canonical form.
func CanonicalPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// PairKey builds the storage key for an unordered pair of account ids.
func PairKey(a, b string) string {
	first, second := CanonicalPair(a, b)
	return first + "_" + second
}

// ConversationID derives the conversation key for two participants. It is
// commutative: ConversationID(a, b) == ConversationID(b, a).
func ConversationID(a, b string) string {
	return PairKey(a, b)
}
