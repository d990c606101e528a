package spreadsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/famago/crm-ventas/pkg/models/domain"
)

const CustomersSheet = "Clientes"

// CustomerHeaders is the column order used on export.
var CustomerHeaders = []string{
	"FECHA", "CLIENTE", "NOMBRE NEGOCIO", "LOCALIDAD", "DIRECCION", "BARRIO", "DNI", "TELEFONO",
	"ES CLIENTE?", "DETALLE", "INTERES 1", "INTERES 2", "INTERES 3", "CANTIDAD COMPRAS",
	"INTENCION DE COMPRAR", "ACCION", "COMENTARIO", "FECHA DE NACIMIENTO", "AÑOS",
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"02/01/06",
}

type customerSetter func(c *domain.Customer, raw string)

var customerColumns = map[string]customerSetter{
	"CLIENTE":              func(c *domain.Customer, v string) { c.Name = v },
	"NOMBRE NEGOCIO":       func(c *domain.Customer, v string) { c.BusinessName = v },
	"LOCALIDAD":            func(c *domain.Customer, v string) { c.Locality = v },
	"DIRECCION":            func(c *domain.Customer, v string) { c.Address = v },
	"BARRIO":               func(c *domain.Customer, v string) { c.Neighborhood = v },
	"DNI":                  func(c *domain.Customer, v string) { c.DNI = v },
	"TELEFONO":             func(c *domain.Customer, v string) { c.Phone = v },
	"ES CLIENTE?":          func(c *domain.Customer, v string) { c.IsCustomer = v },
	"DETALLE":              func(c *domain.Customer, v string) { c.Detail = v },
	"INTERES 1":            func(c *domain.Customer, v string) { c.Interest1 = v },
	"INTERES 2":            func(c *domain.Customer, v string) { c.Interest2 = v },
	"INTERES 3":            func(c *domain.Customer, v string) { c.Interest3 = v },
	"CANTIDAD COMPRAS":     func(c *domain.Customer, v string) { c.PurchaseCount = v },
	"INTENCION DE COMPRAR": func(c *domain.Customer, v string) { c.Intention = strings.ToUpper(v) },
	"ACCION":               func(c *domain.Customer, v string) { c.Action = v },
	"COMENTARIO":           func(c *domain.Customer, v string) { c.Comment = v },
	"FECHA": func(c *domain.Customer, v string) {
		if t, ok := ParseDate(v); ok {
			c.RegisteredAt = t
		}
	},
	"FECHA DE NACIMIENTO": func(c *domain.Customer, v string) {
		if t, ok := ParseDate(v); ok {
			c.BirthDate = &t
		}
	},
	"AÑOS": func(c *domain.Customer, v string) {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			age := int(n)
			c.Age = &age
		}
	},
}

// ReadCustomers reads the first sheet of a customer register. The first row
// holds the headers; rows without a customer name are skipped. RegisteredAt
// is left zero when the FECHA cell is missing or unreadable.
func ReadCustomers(r io.Reader) ([]domain.Customer, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return ParseCustomerRows(rows), nil
}

func ParseCustomerRows(rows [][]string) []domain.Customer {
	if len(rows) == 0 {
		return nil
	}

	setters := make([]customerSetter, len(rows[0]))
	for i, h := range rows[0] {
		setters[i] = customerColumns[strings.ToUpper(strings.TrimSpace(h))]
	}

	customers := make([]domain.Customer, 0, len(rows)-1)
	for _, row := range rows[1:] {
		var c domain.Customer
		for i, raw := range row {
			v := strings.TrimSpace(raw)
			if i >= len(setters) || setters[i] == nil || v == "" {
				continue
			}
			setters[i](&c, v)
		}
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		if c.Intention == "" {
			c.Intention = domain.DefaultIntention
		}
		customers = append(customers, c)
	}
	return customers
}

// ParseDate accepts an Excel serial date or one of the common text layouts.
func ParseDate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// WriteCustomers writes customers as a single "Clientes" sheet.
func WriteCustomers(w io.Writer, customers []domain.Customer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), CustomersSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(CustomerHeaders))
	for i, h := range CustomerHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(CustomersSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, c := range customers {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := customerRow(c)
		if err := f.SetSheetRow(CustomersSheet, cellName, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func customerRow(c domain.Customer) []interface{} {
	var registered, birth string
	if !c.RegisteredAt.IsZero() {
		registered = c.RegisteredAt.Format("2006-01-02")
	}
	if c.BirthDate != nil {
		birth = c.BirthDate.Format("2006-01-02")
	}
	var age interface{} = ""
	if c.Age != nil {
		age = *c.Age
	}
	return []interface{}{
		registered, c.Name, c.BusinessName, c.Locality, c.Address, c.Neighborhood, c.DNI, c.Phone,
		c.IsCustomer, c.Detail, c.Interest1, c.Interest2, c.Interest3, c.PurchaseCount,
		c.Intention, c.Action, c.Comment, birth, age,
	}
}

// ExportFilename names an export taken at t.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("clientes_export_%s.xlsx", t.Format("20060102_150405"))
}
