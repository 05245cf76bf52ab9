// Package transcript holds the ordered conversation state for one agent
// session: goals, reasoning steps, invocations, results, and observations.
package transcript

// ContentKind identifies the media type of a content item.
type ContentKind string

const (
	ContentText  ContentKind = "text"
	ContentImage ContentKind = "image"
)

// Content is one opaque item of an observation: plain text or richer
// media. Content has no persistence beyond the turn that consumed it.
type Content struct {
	Kind ContentKind `json:"kind"`

	// Text is set for text content.
	Text string `json:"text,omitempty"`

	// MediaType and Data are set for binary content, e.g. "image/png".
	MediaType string `json:"media_type,omitempty"`
	Data      []byte `json:"data,omitempty"`
}

// TextContent creates a text content item.
func TextContent(text string) Content {
	return Content{Kind: ContentText, Text: text}
}

// ImageContent creates an image content item.
func ImageContent(mediaType string, data []byte) Content {
	return Content{Kind: ContentImage, MediaType: mediaType, Data: data}
}
