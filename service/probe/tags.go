package probe

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// NameTag is the tag key used for display names.
const NameTag = "Name"

// Placeholder stands in for a missing display name.
const Placeholder = "-"

// ResolveTag returns the value stored under key, or fallback when the key is absent.
func ResolveTag(tags map[string]string, key, fallback string) string {
	if value, ok := tags[key]; ok {
		return value
	}
	return fallback
}

func ec2TagMap(tags []ec2types.Tag) map[string]string {
	if len(tags) == 0 {
		return nil
	}

	m := make(map[string]string, len(tags))
	for _, tag := range tags {
		if tag.Key == nil {
			continue
		}
		m[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return m
}

func displayName(tags []ec2types.Tag) string {
	return ResolveTag(ec2TagMap(tags), NameTag, Placeholder)
}
