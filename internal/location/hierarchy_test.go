package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTable = `{
	"Istanbul": {
		"Kadikoy": ["Moda", "Caferaga", "Fenerbahce"],
		"Besiktas": ["Bebek", "Etiler"],
		"Atasehir": []
	},
	"Ankara": {
		"Cankaya": ["Kizilay", "Bahcelievler"]
	}
}`

func newTestHierarchy(t *testing.T) *Hierarchy {
	t.Helper()
	h, err := Parse([]byte(testTable))
	require.NoError(t, err)
	return h
}

func TestParse_PreservesDocumentOrder(t *testing.T) {
	h := newTestHierarchy(t)

	assert.Equal(t, []string{"Istanbul", "Ankara"}, h.ListCities())
	assert.Equal(t, []string{"Kadikoy", "Besiktas", "Atasehir"}, h.ListDistricts("Istanbul"))
	assert.Equal(t, []string{"Moda", "Caferaga", "Fenerbahce"}, h.ListNeighborhoods("Istanbul", "Kadikoy"))
}

func TestListCities_Idempotent(t *testing.T) {
	h := newTestHierarchy(t)

	first := h.ListCities()
	second := h.ListCities()
	assert.Equal(t, first, second)

	// изменение результата не должно влиять на справочник
	first[0] = "Izmir"
	assert.Equal(t, second, h.ListCities())
}

func TestUnknownPaths_ReturnEmpty(t *testing.T) {
	h := newTestHierarchy(t)

	assert.Empty(t, h.ListDistricts("Izmir"))
	assert.Empty(t, h.ListNeighborhoods("Istanbul", "Cankaya"))
	assert.Empty(t, h.ListNeighborhoods("Izmir", "Kadikoy"))
	assert.NotNil(t, h.ListDistricts("Izmir"))
}

func TestIsValidPath(t *testing.T) {
	h := newTestHierarchy(t)

	assert.True(t, h.IsValidPath("Istanbul", "Kadikoy", "Moda"))
	assert.False(t, h.IsValidPath("Istanbul", "Kadikoy", "Nonexistent"))
	assert.False(t, h.IsValidPath("Istanbul", "Besiktas", "Moda"))
	assert.False(t, h.IsValidPath("Ankara", "Kadikoy", "Moda"))
	assert.False(t, h.IsValidPath("", "", ""))
}

func TestSoleCity(t *testing.T) {
	h := newTestHierarchy(t)
	_, ok := h.SoleCity()
	assert.False(t, ok)

	single, err := Parse([]byte(`{"Istanbul": {"Kadikoy": ["Moda"]}}`))
	require.NoError(t, err)
	city, ok := single.SoleCity()
	assert.True(t, ok)
	assert.Equal(t, "Istanbul", city)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"invalid json":          `{"Istanbul": `,
		"top level array":       `["Istanbul"]`,
		"districts not object":  `{"Istanbul": ["Kadikoy"]}`,
		"neighborhoods object":  `{"Istanbul": {"Kadikoy": {"Moda": 1}}}`,
		"neighborhood number":   `{"Istanbul": {"Kadikoy": [1]}}`,
		"duplicate city":        `{"Istanbul": {}, "Istanbul": {}}`,
		"duplicate district":    `{"Istanbul": {"Kadikoy": [], "Kadikoy": []}}`,
		"duplicate neighborood": `{"Istanbul": {"Kadikoy": ["Moda", "Moda"]}}`,
		"empty city":            `{"": {}}`,
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(input))
			assert.Error(t, err)
		})
	}
}

func TestLoadDefault(t *testing.T) {
	h, err := LoadDefault()
	require.NoError(t, err)

	assert.True(t, h.IsValidPath("Istanbul", "Kadikoy", "Moda"))
	city, ok := h.SoleCity()
	assert.True(t, ok)
	assert.Equal(t, "Istanbul", city)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("/nonexistent/locations.json")
	assert.Error(t, err)
}
