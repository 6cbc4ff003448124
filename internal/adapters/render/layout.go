package render

// Page geometry in PDF points. Vertical offsets are measured from the
// bottom edge.
const (
	PageWidth  = 842.0
	PageHeight = 595.0

	NameFontSize    = 36.0
	NameBaseline    = 300.0
	NameSideMargin  = 40.0
	MinNameFontSize = 12.0

	SerialFontSize    = 12.0
	SerialBaseline    = 20.0
	SerialRightMargin = 20.0
	MinSerialFontSize = 6.0

	CodeSize   = 80.0
	CodeBottom = 20.0
	CodeGap    = 6.0
)

// Accent color of the recipient name.
var NameColor = [3]int{129, 32, 99}

// measureFunc returns the width of text at size points.
type measureFunc func(text string, size float64) float64

// placement is where each element goes, in top-origin page coordinates
// (the convention of the PDF writer).
type placement struct {
	NameX, NameY, NameSize       float64
	SerialX, SerialY, SerialSize float64
	CodeX, CodeY, CodeSide       float64
}

// layout places the name, the serial and the code. The name is centered and
// shrunk to fit between the side margins. The serial is right-aligned and
// shrunk so it never reaches into the code's column.
func layout(measure measureFunc, name, serial string) placement {
	p := placement{
		CodeX:    (PageWidth - CodeSize) / 2,
		CodeY:    PageHeight - CodeBottom - CodeSize,
		CodeSide: CodeSize,
	}

	p.NameSize = fitSize(measure, name, NameFontSize, MinNameFontSize, PageWidth-2*NameSideMargin)
	nameWidth := measure(name, p.NameSize)
	p.NameX = (PageWidth - nameWidth) / 2
	p.NameY = PageHeight - NameBaseline

	codeRight := p.CodeX + CodeSize
	serialRoom := PageWidth - SerialRightMargin - codeRight - CodeGap
	p.SerialSize = fitSize(measure, serial, SerialFontSize, MinSerialFontSize, serialRoom)
	p.SerialX = PageWidth - measure(serial, p.SerialSize) - SerialRightMargin
	if p.SerialX < codeRight+CodeGap {
		p.SerialX = codeRight + CodeGap
	}
	p.SerialY = PageHeight - SerialBaseline

	return p
}

// fitSize returns the largest size in [min, max] at which text fits in
// width. Glyph widths scale linearly with size.
func fitSize(measure measureFunc, text string, max, min, width float64) float64 {
	w := measure(text, max)
	if w <= width || w == 0 {
		return max
	}
	size := max * width / w
	if size < min {
		return min
	}
	return size
}
