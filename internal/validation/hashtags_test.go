package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateHashtags(t *testing.T) {
	valid := []string{
		"#test",
		"#sunset #travel",
		"  #a   #b  ",
	}
	for _, s := range valid {
		assert.NoError(t, ValidateHashtags(s), s)
	}

	invalid := []string{
		"",
		"   ",
		"nohash",
		"#ok nohash",
		"#",
		"# #valid",
	}
	for _, s := range invalid {
		assert.Error(t, ValidateHashtags(s), s)
	}
}
