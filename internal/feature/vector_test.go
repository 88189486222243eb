package feature

import (
	"errors"
	"testing"

	"house-price-gateway/internal/location"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSelection(t *testing.T, city, district, neighborhood string) location.Selection {
	t.Helper()
	h, err := location.Parse([]byte(`{
		"Istanbul": {"Kadikoy": ["Moda", "Caferaga"], "Besiktas": ["Bebek"]},
		"Ankara": {"Cankaya": ["Kizilay"]}
	}`))
	require.NoError(t, err)
	return location.FromPath(h, city, district, neighborhood)
}

func validRaw() RawFields {
	return RawFields{
		NetArea:         "100",
		RoomCount:       "2",
		LivingRoomCount: "1",
		BuildingAge:     "5",
		BalconyCount:    "1",
		InComplex:       "1",
		FloorType:       "Normal",
	}
}

func requireValidationError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %T", err)
	assert.Equal(t, field, verr.Field)
}

func TestBuild_Valid(t *testing.T) {
	vec, err := Build(validRaw(), testSelection(t, "Istanbul", "Kadikoy", "Moda"), Options{RequireNeighborhood: true})
	require.NoError(t, err)

	assert.Equal(t, Vector{
		NetArea:         100,
		RoomCount:       2,
		LivingRoomCount: 1,
		BuildingAge:     5,
		BalconyCount:    1,
		InComplex:       true,
		FloorType:       FloorNormal,
		City:            "Istanbul",
		District:        "Kadikoy",
		Neighborhood:    "Moda",
	}, vec)
}

func TestBuild_NetArea(t *testing.T) {
	sel := testSelection(t, "Istanbul", "Kadikoy", "Moda")

	for _, value := range []string{"0", "-5"} {
		raw := validRaw()
		raw.NetArea = value
		_, err := Build(raw, sel, Options{})
		requireValidationError(t, err, FieldNetArea)
	}

	raw := validRaw()
	raw.NetArea = "100"
	_, err := Build(raw, sel, Options{})
	assert.NoError(t, err)
}

func TestBuild_NumericParsing(t *testing.T) {
	sel := testSelection(t, "Istanbul", "Kadikoy", "Moda")

	cases := []struct {
		name  string
		edit  func(*RawFields)
		field string
	}{
		{"missing net area", func(r *RawFields) { r.NetArea = "" }, FieldNetArea},
		{"text room count", func(r *RawFields) { r.RoomCount = "iki" }, FieldRoomCount},
		{"nan living rooms", func(r *RawFields) { r.LivingRoomCount = "NaN" }, FieldLivingRoomCount},
		{"infinite age", func(r *RawFields) { r.BuildingAge = "+Inf" }, FieldBuildingAge},
		{"missing balconies", func(r *RawFields) { r.BalconyCount = " " }, FieldBalconyCount},
		{"bad complex flag", func(r *RawFields) { r.InComplex = "2" }, FieldInComplex},
		{"negative rooms", func(r *RawFields) { r.RoomCount = "-1" }, FieldRoomCount},
		{"negative age", func(r *RawFields) { r.BuildingAge = "-0.5" }, FieldBuildingAge},
		{"negative balconies", func(r *RawFields) { r.BalconyCount = "-2" }, FieldBalconyCount},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := validRaw()
			tc.edit(&raw)
			_, err := Build(raw, sel, Options{})
			requireValidationError(t, err, tc.field)
		})
	}
}

func TestBuild_ZeroCountsAccepted(t *testing.T) {
	raw := validRaw()
	raw.RoomCount = "0"
	raw.LivingRoomCount = "0"
	raw.BuildingAge = "0"
	raw.BalconyCount = "0"
	raw.InComplex = ""

	vec, err := Build(raw, testSelection(t, "Istanbul", "Kadikoy", "Moda"), Options{})
	require.NoError(t, err)
	assert.False(t, vec.InComplex)
}

func TestBuild_FirstFailureWins(t *testing.T) {
	raw := validRaw()
	raw.NetArea = "-1"
	raw.FloorType = "Penthouse"

	_, err := Build(raw, testSelection(t, "", "", ""), Options{})
	requireValidationError(t, err, FieldNetArea)

	raw = validRaw()
	raw.FloorType = "Penthouse"
	_, err = Build(raw, testSelection(t, "", "", ""), Options{})
	requireValidationError(t, err, FieldFloorType)
}

func TestBuild_FloorType(t *testing.T) {
	sel := testSelection(t, "Istanbul", "Kadikoy", "Moda")

	raw := validRaw()
	raw.FloorType = "Penthouse"
	_, err := Build(raw, sel, Options{})
	requireValidationError(t, err, FieldFloorType)

	raw.FloorType = "Dubleks"
	vec, err := Build(raw, sel, Options{})
	require.NoError(t, err)
	assert.Equal(t, FloorDuplex, vec.FloorType)

	raw.FloorType = "triplex"
	vec, err = Build(raw, sel, Options{})
	require.NoError(t, err)
	assert.Equal(t, "Tripleks", vec.FloorType.WireName())
}

func TestBuild_Location(t *testing.T) {
	cases := []struct {
		name                         string
		city, district, neighborhood string
		field                        string
	}{
		{"nothing selected", "", "", "", FieldCity},
		{"unknown city", "Izmir", "", "", FieldCity},
		{"no district", "Istanbul", "", "", FieldDistrict},
		{"foreign district", "Ankara", "Kadikoy", "", FieldDistrict},
		{"no neighborhood", "Istanbul", "Kadikoy", "", FieldNeighborhood},
		{"unknown neighborhood", "Istanbul", "Kadikoy", "Nonexistent", FieldNeighborhood},
		{"foreign neighborhood", "Istanbul", "Kadikoy", "Bebek", FieldNeighborhood},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(validRaw(), testSelection(t, tc.city, tc.district, tc.neighborhood), Options{RequireNeighborhood: true})
			requireValidationError(t, err, tc.field)
		})
	}
}

func TestBuild_OptionalNeighborhood(t *testing.T) {
	opts := Options{RequireNeighborhood: false}

	vec, err := Build(validRaw(), testSelection(t, "Istanbul", "Kadikoy", ""), opts)
	require.NoError(t, err)
	assert.Empty(t, vec.Neighborhood)

	_, err = Build(validRaw(), testSelection(t, "Istanbul", "Kadikoy", "Nonexistent"), opts)
	requireValidationError(t, err, FieldNeighborhood)
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Field: FieldNetArea, Reason: "must be greater than 0"}
	assert.Equal(t, "NetAlan: must be greater than 0", err.Error())
}
