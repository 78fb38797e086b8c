package pdfdoc

// Line is a single line of text with its geometry and dominant font size.
// Coordinates are page space with a top-left origin (Y grows downward).
type Line struct {
	Text     string  `json:"text"`
	X0       float64 `json:"x0"`
	Y0       float64 `json:"y0"`
	X1       float64 `json:"x1"`
	Y1       float64 `json:"y1"`
	FontSize float64 `json:"font_size,omitempty"`
}

// TextBlock is a group of vertically adjacent lines
type TextBlock struct {
	X0    float64 `json:"x0"`
	Y0    float64 `json:"y0"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	Lines []Line  `json:"lines"`
}

// ImageBlock is a placed image or graphic, bounding box only
type ImageBlock struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Page is the per-page view the layout core consumes: pixel dimensions,
// ordered text blocks and ordered image blocks.
type Page struct {
	Number      int          `json:"number"` // 1-based
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`
	TextBlocks  []TextBlock  `json:"text_blocks"`
	ImageBlocks []ImageBlock `json:"image_blocks"`

	// Scanned marks a page with no extractable text at all. Such pages are
	// represented downstream as a single whole-page image; raster analysis
	// is delegated to external tooling.
	Scanned bool `json:"scanned"`
}

// Document is the ordered page sequence of one opened document
type Document struct {
	Pages     []Page `json:"pages"`
	Encrypted bool   `json:"encrypted"`
}
