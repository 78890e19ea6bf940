package overlay

import (
	"bytes"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"
)

// whitespace fills gaps between the background and the overlay.
type whitespace struct {
	style termenv.Style
	chars string
}

func (w whitespace) render(width int) string {
	if width <= 0 {
		return ""
	}
	if w.chars == "" {
		w.chars = " "
	}
	r := []rune(w.chars)
	var b strings.Builder
	for i, j := 0, 0; i < width; {
		b.WriteRune(r[j])
		i += runewidth.RuneWidth(r[j])
		j = (j + 1) % len(r)
	}
	return w.style.Styled(b.String())
}

// WhitespaceOption sets a styling rule for rendering whitespace.
type WhitespaceOption func(*whitespace)

// WithWhitespaceChars fills gaps with the given characters.
func WithWhitespaceChars(s string) WhitespaceOption {
	return func(w *whitespace) { w.chars = s }
}

// WithWhitespaceStyle styles the gap filler.
func WithWhitespaceStyle(s termenv.Style) WhitespaceOption {
	return func(w *whitespace) { w.style = s }
}

var shadowChar = termenv.String("░").Faint().String()

// PlaceOverlay places fg on top of bg. With center set, x and y are ignored
// and fg is centered. With shadow set, a one cell shadow is drawn to the
// right and below fg.
func PlaceOverlay(x, y int, fg, bg string, shadow, center bool, opts ...WhitespaceOption) string {
	fgLines, fgWidth := getLines(fg)
	bgLines, bgWidth := getLines(bg)
	bgHeight := len(bgLines)

	if shadow {
		fgLines, fgWidth = addShadow(fgLines, fgWidth)
	}
	fgHeight := len(fgLines)

	if fgWidth >= bgWidth && fgHeight >= bgHeight {
		return strings.Join(fgLines, "\n")
	}

	if center {
		x = (bgWidth - fgWidth) / 2
		y = (bgHeight - fgHeight) / 2
	}
	x = clamp(x, 0, max(bgWidth-fgWidth, 0))
	y = clamp(y, 0, max(bgHeight-fgHeight, 0))

	ws := &whitespace{}
	for _, opt := range opts {
		opt(ws)
	}

	var b strings.Builder
	for i, bgLine := range bgLines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i < y || i >= y+fgHeight {
			b.WriteString(bgLine)
			continue
		}

		pos := 0
		if x > 0 {
			left := truncate.String(bgLine, uint(x))
			pos = ansi.PrintableRuneWidth(left)
			b.WriteString(left)
			if pos < x {
				b.WriteString(ws.render(x - pos))
				pos = x
			}
		}

		fgLine := fgLines[i-y]
		b.WriteString(fgLine)
		pos += ansi.PrintableRuneWidth(fgLine)

		right := cutLeft(bgLine, pos)
		bgLineWidth := ansi.PrintableRuneWidth(bgLine)
		rightWidth := ansi.PrintableRuneWidth(right)
		if rightWidth <= bgLineWidth-pos {
			b.WriteString(ws.render(bgLineWidth - rightWidth - pos))
		}
		b.WriteString(right)
	}

	return b.String()
}

func addShadow(lines []string, width int) ([]string, int) {
	out := make([]string, 0, len(lines)+1)
	for i, line := range lines {
		pad := strings.Repeat(" ", max(width-ansi.PrintableRuneWidth(line), 0))
		if i == 0 {
			out = append(out, line+pad+" ")
			continue
		}
		out = append(out, line+pad+shadowChar)
	}
	out = append(out, " "+strings.Repeat(shadowChar, width))
	return out, width + 1
}

// cutLeft cuts printable characters from the left, keeping ANSI sequences
// that style the remainder.
func cutLeft(s string, cutWidth int) string {
	var (
		pos    int
		isAnsi bool
		ab     bytes.Buffer
		b      bytes.Buffer
	)
	for _, c := range s {
		var w int
		if c == ansi.Marker || isAnsi {
			isAnsi = true
			ab.WriteRune(c)
			if ansi.IsTerminator(c) {
				isAnsi = false
				if bytes.HasSuffix(ab.Bytes(), []byte("[0m")) {
					ab.Reset()
				}
			}
		} else {
			w = runewidth.RuneWidth(c)
		}

		if pos >= cutWidth {
			if b.Len() == 0 {
				if ab.Len() > 0 {
					b.Write(ab.Bytes())
				}
				if pos-cutWidth > 1 {
					b.WriteByte(' ')
					continue
				}
			}
			b.WriteRune(c)
		}
		pos += w
	}
	return b.String()
}

func getLines(s string) (lines []string, widest int) {
	lines = strings.Split(s, "\n")
	for _, l := range lines {
		widest = max(widest, ansi.PrintableRuneWidth(l))
	}
	return lines, widest
}

func clamp(v, lower, upper int) int {
	return min(max(v, lower), upper)
}
