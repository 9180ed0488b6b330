package validation

import (
	"errors"
	"strings"
)

// ValidateHashtags checks the fixed hashtag string: non-empty, every
// whitespace-separated token starting with '#'.
func ValidateHashtags(hashtags string) error {
	fields := strings.Fields(hashtags)
	if len(fields) == 0 {
		return errors.New("at least one hashtag is required")
	}

	for _, f := range fields {
		if !strings.HasPrefix(f, "#") || len(f) == 1 {
			return errors.New("hashtags must start with '#'")
		}
	}

	return nil
}
