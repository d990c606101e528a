package spreadsheet

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/famago/crm-ventas/pkg/models/domain"
)

func TestParsePriceListRows(t *testing.T) {
	rows := [][]string{
		{"Lista de precios 115"},
		{"", "Producto", "", "Lista"},
		{"", "Categoría: Bazar", "", ""},
		{"", "140 (05001) Caja De Dinero Acero 5 Divisiones", "", "173673"},
		{"90557/56 (28323)", "", "Canasto De Mano Mimbre", "25400.5"},
		{"", "", "Balde Plastico 10L", "8.500,00"},
		{"", "Sin Precio", "", ""},
		{"", "Precio Cero", "", "0"},
		{"", "Linea: Cocina"},
		{"", "", "", "1200"},
	}

	items := ParsePriceListRows(rows)
	require.Len(t, items, 3)

	assert.Equal(t, "05001", items[0].Code)
	assert.Equal(t, "Caja De Dinero Acero 5 Divisiones", items[0].Name)
	assert.Equal(t, "173673", items[0].BasePrice.String())

	assert.Equal(t, "28323", items[1].Code)
	assert.Equal(t, "Canasto De Mano Mimbre", items[1].Name)
	assert.Equal(t, "25400.5", items[1].BasePrice.String())

	assert.Empty(t, items[2].Code)
	assert.Equal(t, "Balde Plastico 10L", items[2].Name)
	assert.Equal(t, "8500", items[2].BasePrice.String())
}

func TestParsePriceListRows_NoHeader(t *testing.T) {
	assert.Empty(t, ParsePriceListRows([][]string{{"a", "b"}, {"c", "d"}}))
	assert.Empty(t, ParsePriceListRows(nil))
}

func TestReadPriceList_AllSheets(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	first := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(first, "A1", &[]interface{}{"", "Producto", "", "Lista"}))
	require.NoError(t, f.SetSheetRow(first, "A2", &[]interface{}{"", "(A1) Pava Electrica", "", 45000}))

	_, err := f.NewSheet("Hoja2")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Hoja2", "A1", &[]interface{}{"", "Producto", "", "Lista"}))
	require.NoError(t, f.SetSheetRow("Hoja2", "A2", &[]interface{}{"", "", "Anafe Doble", 32000.75}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	items, err := ReadPriceList(&buf, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A1", items[0].Code)
	assert.Equal(t, "Pava Electrica", items[0].Name)
	assert.Equal(t, "Anafe Doble", items[1].Name)
	assert.Equal(t, "32000.75", items[1].BasePrice.String())
}

func TestReadPriceList_NotAWorkbook(t *testing.T) {
	_, err := ReadPriceList(bytes.NewBufferString("not a zip"), zerolog.Nop())
	assert.Error(t, err)
}

func TestParseCustomerRows(t *testing.T) {
	rows := [][]string{
		{"FECHA", "CLIENTE", "LOCALIDAD", "INTERES 1 ", "INTENCION DE COMPRAR", "FECHA DE NACIMIENTO", "AÑOS", "OTRA"},
		{"2024-03-05", "Maria Gomez", "Posadas", "Heladera", "alta", "17/05/1980", "44", "x"},
		{"", "  ", "Obera"},
		{"45292", "Jose Ruiz", "", "", "", "", "n/a"},
	}

	customers := ParseCustomerRows(rows)
	require.Len(t, customers, 2)

	maria := customers[0]
	assert.Equal(t, "Maria Gomez", maria.Name)
	assert.Equal(t, "Posadas", maria.Locality)
	assert.Equal(t, "Heladera", maria.Interest1)
	assert.Equal(t, "ALTA", maria.Intention)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), maria.RegisteredAt)
	require.NotNil(t, maria.BirthDate)
	assert.Equal(t, time.Date(1980, 5, 17, 0, 0, 0, 0, time.UTC), *maria.BirthDate)
	require.NotNil(t, maria.Age)
	assert.Equal(t, 44, *maria.Age)

	jose := customers[1]
	assert.Equal(t, domain.DefaultIntention, jose.Intention)
	assert.Equal(t, 2024, jose.RegisteredAt.Year())
	assert.Equal(t, time.January, jose.RegisteredAt.Month())
	assert.Nil(t, jose.Age)
}

func TestWriteCustomers_ReadBack(t *testing.T) {
	birth := time.Date(1990, 2, 1, 0, 0, 0, 0, time.UTC)
	age := 35
	customers := []domain.Customer{{
		RegisteredAt: time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC),
		Name:         "Ana Diaz",
		BusinessName: "Almacen Ana",
		Phone:        "3764123456",
		Intention:    "MEDIA",
		BirthDate:    &birth,
		Age:          &age,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCustomers(&buf, customers))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []string{CustomersSheet}, f.GetSheetList())
	require.NoError(t, f.Close())

	got, err := ReadCustomers(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ana Diaz", got[0].Name)
	assert.Equal(t, "Almacen Ana", got[0].BusinessName)
	assert.Equal(t, "3764123456", got[0].Phone)
	assert.Equal(t, "MEDIA", got[0].Intention)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), got[0].RegisteredAt)
	require.NotNil(t, got[0].BirthDate)
	assert.Equal(t, birth, *got[0].BirthDate)
	require.NotNil(t, got[0].Age)
	assert.Equal(t, 35, *got[0].Age)
}

func TestExportFilename(t *testing.T) {
	at := time.Date(2025, 10, 15, 9, 5, 7, 0, time.UTC)
	assert.Equal(t, "clientes_export_20251015_090507.xlsx", ExportFilename(at))
}

func TestParseDate(t *testing.T) {
	_, ok := ParseDate("not a date")
	assert.False(t, ok)
	_, ok = ParseDate("")
	assert.False(t, ok)

	got, ok := ParseDate("2/1/2006")
	require.True(t, ok)
	assert.Equal(t, time.Date(2006, 1, 2, 0, 0, 0, 0, time.UTC), got)
}
