package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"140 (05001) Caja De Dinero Acero 5 Divisiones", "05001"},
		{"90557/56 (28323)", "28323"},
		{"90557/56 Canasto De Mano", "90557/56"},
		{"AB-12 Pava Electrica", "AB-12"},
		{"Canasto De Mano", ""},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractCode(tc.in))
		})
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		in, code, want string
	}{
		{"140 (05001) Caja De Dinero Acero 5 Divisiones", "05001", "Caja De Dinero Acero 5 Divisiones"},
		{"AB-12 Pava  Electrica", "AB-12", "Pava Electrica"},
		{"Canasto De Mano", "", "Canasto De Mano"},
		{"(05001)", "05001", ""},
		{"5 Sillas Plegables", "", "5 Sillas Plegables"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, CleanName(tc.in, tc.code))
		})
	}
}

func TestIsSectionHeader(t *testing.T) {
	assert.True(t, IsSectionHeader("Categoría: Bazar"))
	assert.True(t, IsSectionHeader("Linea: Cocina"))
	assert.True(t, IsSectionHeader("Línea: Cocina"))
	assert.False(t, IsSectionHeader("Caja De Dinero"))
}

func TestParseLocalizedNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"173.673,50", "173673.5"},
		{"173.673", "173673"},
		{"$ 1.200,00", "1200"},
		{"850", "850"},
		{"12,5", "12.5"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLocalizedNumber(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}

	_, err := ParseLocalizedNumber("")
	assert.Error(t, err)
	_, err = ParseLocalizedNumber("abc")
	assert.Error(t, err)
}

func TestParseCellNumber(t *testing.T) {
	got, err := ParseCellNumber("173673.5")
	require.NoError(t, err)
	assert.Equal(t, "173673.5", got.String())

	got, err = ParseCellNumber("173.673,50")
	require.NoError(t, err)
	assert.Equal(t, "173673.5", got.String())
}

func TestIsMoneyToken(t *testing.T) {
	assert.True(t, IsMoneyToken("173.673,00"))
	assert.True(t, IsMoneyToken("$1.200"))
	assert.True(t, IsMoneyToken("850"))
	assert.False(t, IsMoneyToken("Divisiones"))
	assert.False(t, IsMoneyToken("90557/56"))
}
