package schema

// Image is an inline image attached to a message
type Image struct {
	// MimeType image mime type, e.g. image/png
	MimeType string `json:"mime_type,omitempty"`
	// Data raw encoded image bytes
	Data []byte `json:"-"`
}

// Attachement message attachement
type Attachement struct {
	// ImageURLs attached image_url
	ImageURLs []string `json:"image_url,omitempty"`
	// Images attached inline images
	Images []Image `json:"images,omitempty"`
}

// HasImages returns true if attachement carries any image
func (a *Attachement) HasImages() bool {
	return a != nil && (len(a.Images) > 0 || len(a.ImageURLs) > 0)
}
