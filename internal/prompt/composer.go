// Package prompt builds the generation prompt from the style profile.
package prompt

import "fmt"

// template is the fixed instruction block. The hashtag placement at the
// end is an instruction to the model, not something this package can
// enforce on the result.
const template = `Analyze the image and write exactly ONE Instagram caption for it.
Do not include headings like "Option 1", introductions, explanations or greetings.
Output only the caption body, ready to copy and post as-is.

[Style guidance / past post examples]
%s

[Required hashtags]
%s

Always include the hashtags above, verbatim, at the end of the caption.`

// Compose merges the style guidance and the fixed hashtag string into
// the prompt text. Pure: identical inputs yield byte-identical output.
func Compose(guidance, hashtags string) string {
	return fmt.Sprintf(template, guidance, hashtags)
}
