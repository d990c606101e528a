package pdf

import (
	"bytes"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cells(parts ...interface{}) Line {
	var line Line
	for i := 0; i+2 < len(parts); i += 3 {
		line = append(line, Cell{X: parts[i].(float64), End: parts[i+1].(float64), Text: parts[i+2].(string)})
	}
	return line
}

func TestParsePriceLines(t *testing.T) {
	lines := []Line{
		cells(20.0, 200.0, "FAMAGO Lista de precios"),
		cells(20.0, 80.0, "Producto", 300.0, 330.0, "Lista", 380.0, 420.0, "Contado"),
		cells(20.0, 120.0, "Categoría: Bazar"),
		cells(20.0, 250.0, "140 (05001) Caja De Dinero Acero 5 Divisiones", 290.0, 340.0, "173.673,00", 370.0, 420.0, "113.946,86"),
		cells(20.0, 60.0, "90557/56", 70.0, 200.0, "Canasto De Mano", 300.0, 335.0, "25.400,50"),
		cells(20.0, 150.0, "Balde Plastico 10", 310.0, 330.0, "850"),
		cells(20.0, 150.0, "Sin Precio"),
		cells(20.0, 150.0, "Precio Cero", 310.0, 330.0, "0"),
		cells(20.0, 60.0, "Linea: Cocina", 310.0, 330.0, "1"),
	}

	items := ParsePriceLines(lines)
	require.Len(t, items, 3)

	assert.Equal(t, "05001", items[0].Code)
	assert.Equal(t, "Caja De Dinero Acero 5 Divisiones", items[0].Name)
	assert.Equal(t, "173673.00", items[0].BasePrice.StringFixed(2))

	assert.Equal(t, "90557/56", items[1].Code)
	assert.Equal(t, "Canasto De Mano", items[1].Name)
	assert.Equal(t, "25400.50", items[1].BasePrice.StringFixed(2))

	assert.Empty(t, items[2].Code)
	assert.Equal(t, "Balde Plastico 10", items[2].Name)
	assert.Equal(t, "850", items[2].BasePrice.String())
}

func TestParsePriceLines_NoHeader(t *testing.T) {
	lines := []Line{
		cells(20.0, 150.0, "Caja De Dinero", 310.0, 330.0, "850"),
	}
	assert.Empty(t, ParsePriceLines(lines))
	assert.Empty(t, ParsePriceLines(nil))
}

func TestBuildLine(t *testing.T) {
	line := buildLine([]pdf.Text{
		{S: "Lista", X: 300, W: 25, FontSize: 8},
		{S: "Caja", X: 20, W: 16, FontSize: 8},
		{S: "De", X: 38, W: 8, FontSize: 8},
		{S: "Dinero", X: 48, W: 24, FontSize: 8},
		{S: "", X: 100, W: 0, FontSize: 8},
		{S: "1", X: 400, W: 4, FontSize: 8},
		{S: "2", X: 404, W: 4, FontSize: 8},
	})

	require.Len(t, line, 3)
	assert.Equal(t, "Caja De Dinero", line[0].Text)
	assert.Equal(t, 20.0, line[0].X)
	assert.Equal(t, 72.0, line[0].End)
	assert.Equal(t, "Lista", line[1].Text)
	assert.Equal(t, "12", line[2].Text)
}

func TestReadPriceList_NotAPDF(t *testing.T) {
	data := []byte("plain text, not a pdf")
	_, err := ReadPriceList(bytes.NewReader(data), int64(len(data)), zerolog.Nop())
	assert.Error(t, err)
}
