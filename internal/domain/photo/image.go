package photo

// Image is a matched photo: its URL and text summary.
type Image struct {
	url     string
	summary string
}

// NewImage creates an Image. ok is false when either part is empty.
func NewImage(url, summary string) (Image, bool) {
	if url == "" || summary == "" {
		return Image{}, false
	}
	return Image{url: url, summary: summary}, true
}

// URL returns the image URL.
func (i Image) URL() string { return i.url }

// Summary returns the image summary.
func (i Image) Summary() string { return i.summary }
