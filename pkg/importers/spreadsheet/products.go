// Package spreadsheet reads and writes the .xlsx files exchanged with the
// sales team: product price lists and the customer register.
package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/famago/crm-ventas/pkg/importers/text"
	"github.com/famago/crm-ventas/pkg/models/domain"
)

const (
	productHeader = "Producto"
	priceHeader   = "Lista"
)

// priceListLayout records where the columns of a price list sheet live.
type priceListLayout struct {
	codeCol    int // -1 when absent
	productCol int
	nameCol    int // -1 when absent
	priceCol   int
}

// ReadPriceList extracts (code, name, price) rows from every sheet of a price
// list workbook. Sheets without a Producto/Lista header are ignored.
func ReadPriceList(r io.Reader, logger zerolog.Logger) ([]domain.PriceListItem, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var items []domain.PriceListItem
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		sheetItems := ParsePriceListRows(rows)
		logger.Info().
			Str("sheet", sheet).
			Int("rows", len(rows)).
			Int("products", len(sheetItems)).
			Msg("processed price list sheet")
		items = append(items, sheetItems...)
	}
	return items, nil
}

// ParsePriceListRows turns the raw rows of one sheet into price list items.
func ParsePriceListRows(rows [][]string) []domain.PriceListItem {
	headerIdx, layout, ok := findPriceListHeader(rows)
	if !ok {
		return nil
	}

	items := make([]domain.PriceListItem, 0)
	for _, row := range rows[headerIdx+1:] {
		item, ok := layout.parse(row)
		if ok {
			items = append(items, item)
		}
	}
	return items
}

func findPriceListHeader(rows [][]string) (int, priceListLayout, bool) {
	for i, row := range rows {
		productCol, priceCol := -1, -1
		for j, cell := range row {
			switch strings.TrimSpace(cell) {
			case productHeader:
				productCol = j
			case priceHeader:
				priceCol = j
			}
		}
		if productCol < 0 || priceCol < 0 {
			continue
		}

		layout := priceListLayout{codeCol: -1, productCol: productCol, nameCol: -1, priceCol: priceCol}
		if productCol > 0 {
			layout.codeCol = 0
		}
		if productCol+1 != priceCol {
			layout.nameCol = productCol + 1
		}
		return i, layout, true
	}
	return 0, priceListLayout{}, false
}

func (l priceListLayout) parse(row []string) (domain.PriceListItem, bool) {
	rawPrice := cell(row, l.priceCol)
	if rawPrice == "" {
		return domain.PriceListItem{}, false
	}

	product := cell(row, l.productCol)
	if text.IsSectionHeader(product) {
		return domain.PriceListItem{}, false
	}

	var code, name string
	switch {
	case product != "":
		// "140 (05001) Caja De Dinero Acero 5 Divisiones"
		code = text.ExtractCode(product)
		name = text.CleanName(product, code)
	case cell(row, l.codeCol) != "" && cell(row, l.nameCol) != "":
		// code "90557/56 (28323)" in the first column, name beside Producto
		code = text.ExtractCode(cell(row, l.codeCol))
		name = cell(row, l.nameCol)
	default:
		name = cell(row, l.nameCol)
	}
	if name == "" {
		return domain.PriceListItem{}, false
	}

	price, err := text.ParseCellNumber(rawPrice)
	if err != nil || !price.IsPositive() {
		return domain.PriceListItem{}, false
	}

	return domain.PriceListItem{Code: code, Name: name, BasePrice: price}, true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
