// Package pdf extracts product price lists from PDF exports of the billing
// system. Text is grouped into cells by horizontal position and the price is
// taken from the column under the "Lista" header.
package pdf

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"github.com/famago/crm-ventas/pkg/importers/text"
	"github.com/famago/crm-ventas/pkg/models/domain"
)

const (
	productHeader = "Producto"
	priceHeader   = "Lista"

	// Horizontal gap, as a multiple of the font size, that separates two cells.
	cellGapFactor = 1.2
	wordGapFactor = 0.15
	minFontSize   = 4.0
)

// Cell is a run of text on one line. X and End are in PDF user space units.
type Cell struct {
	X    float64
	End  float64
	Text string
}

// Line is one visual row of a page, cells ordered left to right.
type Line []Cell

// ReadPriceList parses every page of the PDF in r.
func ReadPriceList(r io.ReaderAt, size int64, logger zerolog.Logger) ([]domain.PriceListItem, error) {
	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var items []domain.PriceListItem
	total := doc.NumPage()
	for i := 1; i <= total; i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", i, err)
		}

		lines := make([]Line, 0, len(rows))
		for _, row := range rows {
			if line := buildLine(row.Content); len(line) > 0 {
				lines = append(lines, line)
			}
		}

		pageItems := ParsePriceLines(lines)
		logger.Info().
			Int("page", i).
			Int("pages", total).
			Int("products", len(pageItems)).
			Msg("processed price list page")
		items = append(items, pageItems...)
	}
	return items, nil
}

func buildLine(texts []pdf.Text) Line {
	sorted := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if t.S != "" {
			sorted = append(sorted, t)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var (
		line    Line
		current *Cell
		b       strings.Builder
	)
	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.Join(strings.Fields(b.String()), " ")
		if current.Text != "" {
			line = append(line, *current)
		}
		current = nil
		b.Reset()
	}

	for _, t := range sorted {
		fontSize := math.Max(t.FontSize, minFontSize)
		if current != nil {
			gap := t.X - current.End
			switch {
			case gap > fontSize*cellGapFactor:
				flush()
			case gap > fontSize*wordGapFactor:
				b.WriteByte(' ')
			}
		}
		if current == nil {
			current = &Cell{X: t.X}
		}
		b.WriteString(t.S)
		current.End = math.Max(current.End, t.X+t.W)
	}
	flush()
	return line
}

// ParsePriceLines turns the lines of one page into price list items. Lines
// before the Producto/Lista header are ignored; pages without it yield nothing.
func ParsePriceLines(lines []Line) []domain.PriceListItem {
	headerIdx, priceCol, ok := findHeader(lines)
	if !ok {
		return nil
	}

	items := make([]domain.PriceListItem, 0)
	for _, line := range lines[headerIdx+1:] {
		if item, ok := parseLine(line, priceCol); ok {
			items = append(items, item)
		}
	}
	return items
}

func findHeader(lines []Line) (int, Cell, bool) {
	for i, line := range lines {
		var (
			hasProduct, hasPrice bool
			price                Cell
		)
		for _, c := range line {
			if strings.Contains(c.Text, productHeader) {
				hasProduct = true
			}
			if !hasPrice && containsWord(c.Text, priceHeader) {
				price, hasPrice = c, true
			}
		}
		if hasProduct && hasPrice {
			return i, price, true
		}
	}
	return 0, Cell{}, false
}

func parseLine(line Line, priceCol Cell) (domain.PriceListItem, bool) {
	priceIdx := -1
	best := math.Inf(1)
	headerCenter := (priceCol.X + priceCol.End) / 2
	for i, c := range line {
		if i == 0 || !text.IsMoneyToken(c.Text) {
			continue
		}
		if d := math.Abs((c.X+c.End)/2 - headerCenter); d < best {
			best, priceIdx = d, i
		}
	}
	if priceIdx < 0 {
		return domain.PriceListItem{}, false
	}

	parts := make([]string, 0, priceIdx)
	for _, c := range line[:priceIdx] {
		parts = append(parts, c.Text)
	}
	product := strings.Join(parts, " ")
	if text.IsSectionHeader(product) {
		return domain.PriceListItem{}, false
	}

	code := text.ExtractCode(product)
	name := text.CleanName(product, code)
	if name == "" {
		return domain.PriceListItem{}, false
	}

	price, err := text.ParseLocalizedNumber(line[priceIdx].Text)
	if err != nil || !price.IsPositive() {
		return domain.PriceListItem{}, false
	}
	return domain.PriceListItem{Code: code, Name: name, BasePrice: price}, true
}

func containsWord(s, word string) bool {
	for _, f := range strings.Fields(s) {
		if f == word {
			return true
		}
	}
	return false
}
