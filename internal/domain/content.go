package domain

// ContentKind discriminates the media union for relayed content.
type ContentKind string

const (
	ContentText        ContentKind = "text"
	ContentPhoto       ContentKind = "photo"
	ContentDocument    ContentKind = "document"
	ContentVoice       ContentKind = "voice"
	ContentVideo       ContentKind = "video"
	ContentVideoNote   ContentKind = "video_note"
	ContentSticker     ContentKind = "sticker"
	ContentAnimation   ContentKind = "animation"
	ContentLocation    ContentKind = "location"
	ContentContact     ContentKind = "contact"
	ContentUnsupported ContentKind = "unsupported"
)

// Content is a tagged union over the media kinds the relay can deliver.
// Only the fields relevant to Kind are populated: Text for text, FileID
// (plus optional Caption) for media, coordinates for locations, phone and
// first name for contacts.
type Content struct {
	Kind        ContentKind
	Text        string
	FileID      string
	Caption     string
	Latitude    float64
	Longitude   float64
	PhoneNumber string
	FirstName   string
}

// TextContent builds a plain-text Content value.
func TextContent(text string) Content {
	return Content{Kind: ContentText, Text: text}
}
