package gemini

// Request is the generateContent request body.
type Request struct {
	Contents []Content `json:"contents"`
}

// Content is one turn of content in the request.
type Content struct {
	Parts []Part `json:"parts"`
}

// Part is a single text or inline-image part.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData carries a base64-encoded image with its MIME type.
type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Response is the generateContent response body.
type Response struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is one generated answer.
type Candidate struct {
	Content      ResponseContent `json:"content"`
	FinishReason string          `json:"finishReason,omitempty"`
}

// ResponseContent holds the parts of a candidate.
type ResponseContent struct {
	Parts []Part `json:"parts"`
	Role  string `json:"role,omitempty"`
}
