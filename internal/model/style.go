package model

const (
	// DefaultGuidance is used when no style file has been saved yet.
	DefaultGuidance = "Write in a friendly, upbeat tone that makes the studio feel welcoming."

	// DefaultHashtags is the studio's fixed tag set.
	DefaultHashtags = "#boxing #boxfit #fitness #adulthobbies #stressrelief"
)

// StyleProfile is the user-editable guidance for caption tone plus the
// fixed hashtag string appended to every post. Persisted as a single
// markdown file: YAML frontmatter holds the hashtags, the body holds
// the free-text guidance and past post examples.
type StyleProfile struct {
	Guidance string
	Hashtags string
}

// DefaultStyleProfile returns the built-in fallback used when the style
// file is absent.
func DefaultStyleProfile() *StyleProfile {
	return &StyleProfile{
		Guidance: DefaultGuidance,
		Hashtags: DefaultHashtags,
	}
}
