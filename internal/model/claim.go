package model

// Citation is a source link the host platform already embedded in a message
type Citation struct {
	URL   string `json:"url"`   // Absolute http(s) URL
	Title string `json:"title"` // Link title, "Citation" when nothing better is available
}

// DefaultCitationTitle is used when a citation link carries neither a title nor text
const DefaultCitationTitle = "Citation"

// Message is an assistant message handed over by the presentation layer
type Message struct {
	Text     string `json:"text"`               // Visible natural-language text
	HTML     string `json:"html,omitempty"`     // Rendered markup, used to find native citations
	Platform string `json:"platform,omitempty"` // Platform identifier (chatgpt, gemini, ...)
}
