// Package wordcloud provides the HTTP handler that renders comments as a word-cloud PNG.
package wordcloud

// Request lists the comment fragments and the canvas settings.
// Zero or missing values select the defaults (800x400, white).
type Request struct {
	Texts           []string `json:"texts"`
	Width           int      `json:"width,omitempty" example:"800"`
	Height          int      `json:"height,omitempty" example:"400"`
	BackgroundColor string   `json:"background_color,omitempty" example:"white"`
}

// Response holds the base64-encoded PNG, or null when there were no words to draw.
type Response struct {
	ImageBase64 *string  `json:"image_base64"`
	TopWords    []string `json:"top_words"`
}
