package ui

import (
	"fmt"
	"strings"
	"time"

	"pirani-measure/calibration"
	"pirani-measure/inspect"
	"pirani-measure/lookup"
	"pirani-measure/measure"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

var mainTitle = lipgloss.NewStyle().
	Background(lipgloss.Color("62")).
	Foreground(lipgloss.Color("230"))

var sectionStyle = lipgloss.NewStyle().
	Padding(1, 1, 0, 1).
	Foreground(TextPrimary).
	Bold(true)

var fieldStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Foreground(TextSecondary)

var valueStyle = lipgloss.NewStyle().
	Foreground(TextPrimary)

var mmStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

var panelBorder = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border)

// InfoPanel is the side panel showing the size, product record and readout.
type InfoPanel struct {
	width, height int

	size    calibration.SizeKey
	record  *lookup.Record
	code    string
	fetched time.Time
	readout measure.Readout

	hideDetails bool
	// contentLines and shownLines are from the last render; the panel
	// clips rows that do not fit.
	contentLines, shownLines int
	// now is used for the fetched age.
	now func() time.Time
}

func NewInfoPanel() *InfoPanel {
	return &InfoPanel{now: time.Now}
}

// SetSize sets the outer size of the panel including its border.
func (p *InfoPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

func (p *InfoPanel) SetHideDetails(hide bool) {
	p.hideDetails = hide
}

func (p *InfoPanel) SetCalibrationSize(size calibration.SizeKey) {
	p.size = size
}

// SetRecord shows a fetched product. A nil record clears it.
func (p *InfoPanel) SetRecord(code string, rec *lookup.Record, fetched time.Time) {
	p.code = code
	p.record = rec
	p.fetched = fetched
}

func (p *InfoPanel) Record() *lookup.Record {
	return p.record
}

func (p *InfoPanel) Code() string {
	return p.code
}

func (p *InfoPanel) SetReadout(r measure.Readout) {
	p.readout = r
}

func (p *InfoPanel) innerWidth() int {
	return max(p.width-2, 1)
}

func (p *InfoPanel) field(name, value string) string {
	w := p.innerWidth() - 2
	line := fmt.Sprintf("%s %s", name+":", valueStyle.Render(value))
	return fieldStyle.Render(truncate.StringWithTail(line, uint(max(w, 1)), "..."))
}

func (p *InfoPanel) String() string {
	if p.width <= 2 || p.height <= 2 {
		return ""
	}

	var b strings.Builder
	b.WriteString(lipgloss.Place(p.innerWidth(), 1, lipgloss.Left, lipgloss.Bottom, mainTitle.Render(" Measure ")))
	b.WriteString("\n")

	rec := calibration.MustLookup(p.size)
	b.WriteString(sectionStyle.Render("Size " + string(p.size)))
	b.WriteString("\n")
	b.WriteString(p.field("Physical", fmt.Sprintf("%.0f mm", rec.PhysicalHeightMm)))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Readout"))
	b.WriteString("\n")
	b.WriteString(fieldStyle.Render(mmStyle.Render(calibration.FormatMm(p.readout.HeightMm) + " mm")))
	b.WriteString("\n")
	b.WriteString(p.field("Height", fmt.Sprintf("%.0fpx", p.readout.HeightPx)))
	b.WriteString("\n")
	b.WriteString(p.field("Baseline", fmt.Sprintf("%.0fpx (%s mm)", p.readout.BaselineY, calibration.FormatMm(p.readout.BaselineMm))))
	b.WriteString("\n")
	b.WriteString(p.field("Container", fmt.Sprintf("%.0fpx", p.readout.ContainerHeightPx)))
	b.WriteString("\n")
	b.WriteString(p.field("Drag", p.readout.Drag.String()))
	b.WriteString("\n")

	if p.record != nil && !p.hideDetails {
		b.WriteString(sectionStyle.Render("Product"))
		b.WriteString("\n")
		b.WriteString(p.field("Code", p.code))
		b.WriteString("\n")
		for _, f := range [][2]string{
			{"Title", p.record.Title},
			{"Variant", p.record.VariantTitle},
			{"SKU", p.record.SKU},
			{"Color", p.record.Color},
			{"Text", p.record.CustomizationValue},
			{"Font", p.record.CustomizationFont},
		} {
			if f[1] == "" {
				continue
			}
			b.WriteString(p.field(f[0], f[1]))
			b.WriteString("\n")
		}
		if p.record.Quantity > 0 {
			b.WriteString(p.field("Qty", fmt.Sprintf("%d", p.record.Quantity)))
			b.WriteString("\n")
		}
		b.WriteString(p.field("Fetched", FormatFetched(p.fetched, p.now())))
		b.WriteString("\n")
	} else if p.record == nil {
		b.WriteString("\n")
		hint := wordwrap.String("No product loaded. Press o to look up a code.", max(p.innerWidth()-2, 1))
		b.WriteString(fieldStyle.Render(TextStyles.Muted.Render(hint)))
	}

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	p.contentLines = len(lines)
	if len(lines) > p.height-2 {
		lines = lines[:p.height-2]
	}
	p.shownLines = len(lines)
	content := lipgloss.Place(p.innerWidth(), p.height-2, lipgloss.Left, lipgloss.Top, strings.Join(lines, "\n"))
	return panelBorder.Render(content)
}

// InspectNode implements inspect.Introspectable.
func (p *InfoPanel) InspectNode() *inspect.Node {
	n := inspect.NewNode("InfoPanel").
		WithBounds(0, 0, p.width, p.height).
		WithState("size", string(p.size)).
		WithState("code", p.code).
		WithReadout(p.readout).
		WithState("hide_details", p.hideDetails).
		WithTruncation(p.contentLines, p.shownLines, false)
	if p.record != nil {
		n.WithState("title", p.record.Title)
	}
	return n
}
