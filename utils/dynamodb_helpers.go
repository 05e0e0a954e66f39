package utils

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ExtractString safely extracts a string from a DynamoDB attribute map
func ExtractString(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberS); ok {
			return v.Value
		}
	}
	return ""
}

// ExtractBool extracts a boolean attribute, defaulting to false.
func ExtractBool(item map[string]types.AttributeValue, field string) bool {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberBOOL); ok {
			return v.Value
		}
	}
	return false
}
