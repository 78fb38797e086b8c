package pdfdoc

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ProviderConfig holds the geometry thresholds of the page provider.
type ProviderConfig struct {
	// LineTolerance is the maximum baseline delta, in points, for two text
	// fragments to belong to the same line.
	LineTolerance float64 `json:"line_tolerance"`

	// BlockGap is the vertical gap, in points, that separates two text
	// blocks.
	BlockGap float64 `json:"block_gap"`

	// DefaultPageWidth and DefaultPageHeight are used when a page carries
	// no readable MediaBox. US Letter.
	DefaultPageWidth  float64 `json:"default_page_width"`
	DefaultPageHeight float64 `json:"default_page_height"`

	// DefaultFontSize substitutes for fragments without font metadata.
	DefaultFontSize float64 `json:"default_font_size"`
}

// DefaultProviderConfig returns the default provider configuration.
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		LineTolerance:     2.0,
		BlockGap:          18.0,
		DefaultPageWidth:  612.0,
		DefaultPageHeight: 792.0,
		DefaultFontSize:   12.0,
	}
}

// Provider reads pages, line geometry and font metrics out of a PDF and
// presents them in the top-left-origin block model the layout core consumes.
type Provider struct {
	config ProviderConfig
}

// NewProvider creates a provider with default configuration.
func NewProvider() *Provider {
	return NewProviderWithConfig(DefaultProviderConfig())
}

// NewProviderWithConfig creates a provider with custom configuration.
func NewProviderWithConfig(config ProviderConfig) *Provider {
	return &Provider{config: config}
}

// Open reads the whole document described by src. Document-level failures
// return a ParseError; page-level failures degrade to scanned pages and
// never abort the document.
func (p *Provider) Open(ctx context.Context, src *Source) (*Document, error) {
	reader, cleanup, err := p.openReader(src)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if enc := reader.Trailer().Key("Encrypt"); !enc.IsNull() {
		return nil, NewEncryptedError(src.Path())
	}

	doc := &Document{Pages: make([]Page, 0, reader.NumPage())}
	for n := 1; n <= reader.NumPage(); n++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		page := reader.Page(n)
		if page.V.IsNull() {
			doc.Pages = append(doc.Pages, Page{
				Number:  n,
				Width:   p.config.DefaultPageWidth,
				Height:  p.config.DefaultPageHeight,
				Scanned: true,
			})
			continue
		}
		doc.Pages = append(doc.Pages, p.buildPage(page, n))
	}
	return doc, nil
}

// openReader opens a pdf.Reader over either backing of the source.
func (p *Provider) openReader(src *Source) (*pdf.Reader, func(), error) {
	if path := src.Path(); path != "" {
		f, reader, err := pdf.Open(path)
		if err != nil {
			return nil, nil, mapOpenError(err, path)
		}
		return reader, func() { f.Close() }, nil
	}

	data := src.Data()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, mapOpenError(err, "")
	}
	return reader, func() {}, nil
}

// mapOpenError converts a library open failure into a ParseError.
func mapOpenError(err error, path string) error {
	if strings.Contains(strings.ToLower(err.Error()), "encrypted") {
		pe := NewEncryptedError(path)
		pe.Err = err
		return pe
	}
	pe := NewCorruptError("cannot read document", err)
	pe.Path = path
	return pe
}

// buildPage extracts one page. Malformed content streams are absorbed: the
// page degrades to scanned rather than failing the document.
func (p *Provider) buildPage(page pdf.Page, num int) (out Page) {
	out = Page{Number: num}
	out.Width, out.Height = p.pageSize(page)

	defer func() {
		if r := recover(); r != nil {
			out.TextBlocks = nil
			out.ImageBlocks = nil
			out.Scanned = true
		}
	}()

	texts := page.Content().Text
	if len(texts) == 0 {
		out.Scanned = true
		return out
	}

	lines := p.groupLines(texts, out.Height)
	out.TextBlocks = p.groupBlocks(lines)
	out.ImageBlocks = p.imageBlocks(page, out.Width, out.Height)
	return out
}

// pageSize reads the page MediaBox, falling back to US Letter when the
// entry is missing or malformed.
func (p *Provider) pageSize(page pdf.Page) (width, height float64) {
	width, height = p.config.DefaultPageWidth, p.config.DefaultPageHeight

	defer func() {
		if recover() != nil {
			width, height = p.config.DefaultPageWidth, p.config.DefaultPageHeight
		}
	}()

	mediaBox := page.V.Key("MediaBox")
	if mediaBox.IsNull() || mediaBox.Kind() != pdf.Array || mediaBox.Len() != 4 {
		return width, height
	}
	coords := make([]float64, 4)
	for i := 0; i < 4; i++ {
		val := mediaBox.Index(i)
		switch val.Kind() {
		case pdf.Integer:
			coords[i] = float64(val.Int64())
		case pdf.Real:
			coords[i] = val.Float64()
		default:
			return width, height
		}
	}
	w := coords[2] - coords[0]
	h := coords[3] - coords[1]
	if w <= 0 || h <= 0 {
		return width, height
	}
	return w, h
}

// groupLines merges positioned text fragments into lines by baseline
// proximity and converts the geometry to a top-left origin.
func (p *Provider) groupLines(texts []pdf.Text, pageHeight float64) []Line {
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y // higher on page first
		}
		return sorted[i].X < sorted[j].X
	})

	lines := make([]Line, 0)
	var group []pdf.Text
	baseline := 0.0

	flush := func() {
		if len(group) == 0 {
			return
		}
		lines = append(lines, p.buildLine(group, pageHeight))
		group = group[:0]
	}

	for _, t := range sorted {
		if strings.TrimSpace(t.S) == "" && t.S != " " {
			continue
		}
		if len(group) > 0 && absFloat(t.Y-baseline) > p.config.LineTolerance {
			flush()
		}
		if len(group) == 0 {
			baseline = t.Y
		}
		group = append(group, t)
	}
	flush()
	return lines
}

// buildLine collapses one baseline group into a Line. The dominant font
// size is the most frequent positive size in the group.
func (p *Provider) buildLine(group []pdf.Text, pageHeight float64) Line {
	sort.SliceStable(group, func(i, j int) bool { return group[i].X < group[j].X })

	var sb strings.Builder
	x0, x1 := group[0].X, group[0].X+group[0].W
	sizeCount := make(map[float64]int)
	for _, t := range group {
		sb.WriteString(t.S)
		if t.X < x0 {
			x0 = t.X
		}
		if right := t.X + t.W; right > x1 {
			x1 = right
		}
		if t.FontSize > 0 {
			sizeCount[t.FontSize]++
		}
	}

	fontSize := p.config.DefaultFontSize
	best := 0
	for size, count := range sizeCount {
		if count > best || (count == best && size > fontSize) {
			best = count
			fontSize = size
		}
	}

	// Flip from the PDF's bottom-left origin: the baseline sits at
	// group Y, the glyphs extend one font size above it.
	baseline := group[0].Y
	y0 := pageHeight - baseline - fontSize
	y1 := pageHeight - baseline
	if y0 < 0 {
		y0 = 0
	}
	if y1 > pageHeight {
		y1 = pageHeight
	}

	return Line{
		Text:     sb.String(),
		X0:       x0,
		Y0:       y0,
		X1:       x1,
		Y1:       y1,
		FontSize: fontSize,
	}
}

// groupBlocks splits the top-to-bottom line sequence into blocks at large
// vertical gaps.
func (p *Provider) groupBlocks(lines []Line) []TextBlock {
	if len(lines) == 0 {
		return nil
	}

	blocks := make([]TextBlock, 0)
	current := TextBlock{X0: lines[0].X0, Y0: lines[0].Y0, X1: lines[0].X1, Y1: lines[0].Y1}
	current.Lines = append(current.Lines, lines[0])

	for _, line := range lines[1:] {
		if line.Y0-current.Y1 > p.config.BlockGap {
			blocks = append(blocks, current)
			current = TextBlock{X0: line.X0, Y0: line.Y0, X1: line.X1, Y1: line.Y1}
			current.Lines = []Line{line}
			continue
		}
		current.Lines = append(current.Lines, line)
		if line.X0 < current.X0 {
			current.X0 = line.X0
		}
		if line.X1 > current.X1 {
			current.X1 = line.X1
		}
		if line.Y0 < current.Y0 {
			current.Y0 = line.Y0
		}
		if line.Y1 > current.Y1 {
			current.Y1 = line.Y1
		}
	}
	blocks = append(blocks, current)
	return blocks
}

// imageBlocks lists the image XObjects of the page. The library exposes no
// placement matrix, so boxes are intrinsic dimensions clamped to the page.
func (p *Provider) imageBlocks(page pdf.Page, pageWidth, pageHeight float64) (blocks []ImageBlock) {
	defer func() {
		if r := recover(); r != nil {
			blocks = nil
		}
	}()

	resources := page.V.Key("Resources")
	if resources.IsNull() {
		return nil
	}
	xObjects := resources.Key("XObject")
	if xObjects.IsNull() || xObjects.Kind() != pdf.Dict {
		return nil
	}

	for _, key := range xObjects.Keys() {
		obj := xObjects.Key(key)
		if obj.IsNull() {
			continue
		}
		subtype := obj.Key("Subtype")
		if subtype.IsNull() || subtype.Name() != "Image" {
			continue
		}
		w := float64(obj.Key("Width").Int64())
		h := float64(obj.Key("Height").Int64())
		if w <= 0 || h <= 0 {
			continue
		}
		if w > pageWidth {
			w = pageWidth
		}
		if h > pageHeight {
			h = pageHeight
		}
		blocks = append(blocks, ImageBlock{X0: 0, Y0: 0, X1: w, Y1: h})
	}
	return blocks
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// PageCount opens the document just far enough to count pages.
func (p *Provider) PageCount(src *Source) (int, error) {
	reader, cleanup, err := p.openReader(src)
	if err != nil {
		return 0, err
	}
	defer cleanup()
	count := reader.NumPage()
	if count < 0 {
		return 0, NewCorruptError(fmt.Sprintf("invalid page count %d", count), nil)
	}
	return count, nil
}
