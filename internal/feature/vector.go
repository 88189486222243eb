// Package feature строит и валидирует вектор признаков объекта недвижимости.
package feature

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"house-price-gateway/internal/location"
)

// Имена полей в том виде, в котором их присылает форма
const (
	FieldNetArea         = "NetAlan"
	FieldRoomCount       = "OdaSayisi"
	FieldLivingRoomCount = "SalonSayisi"
	FieldBuildingAge     = "BinaYasi"
	FieldBalconyCount    = "BalkonSayisi"
	FieldInComplex       = "SiteIcerisinde"
	FieldFloorType       = "KatTipi"
	FieldCity            = "Sehir"
	FieldDistrict        = "Ilce"
	FieldNeighborhood    = "Mahalle"
)

// ValidationError ошибка пользовательского ввода с именем поля
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// RawFields сырые значения полей формы до разбора
type RawFields struct {
	NetArea         string
	RoomCount       string
	LivingRoomCount string
	BuildingAge     string
	BalconyCount    string
	InComplex       string
	FloorType       string
}

// Vector проверенный набор признаков для оценки стоимости
type Vector struct {
	NetArea         float64
	RoomCount       float64
	LivingRoomCount float64
	BuildingAge     float64
	BalconyCount    float64
	InComplex       bool
	FloorType       FloorType
	City            string
	District        string
	Neighborhood    string
}

// Options настройки построения вектора
type Options struct {
	// RequireNeighborhood делает микрорайон обязательным.
	// Если false, микрорайон можно не указывать, но указанный должен существовать.
	RequireNeighborhood bool
}

// Build проверяет поля и выбор локации. Правила проверяются по порядку, возвращается первая ошибка:
// числа разбираются, затем проверяются диапазоны, тип этажа и, в конце, путь в справочнике.
func Build(raw RawFields, sel location.Selection, opts Options) (Vector, error) {
	numeric := []struct {
		field string
		value string
	}{
		{FieldNetArea, raw.NetArea},
		{FieldRoomCount, raw.RoomCount},
		{FieldLivingRoomCount, raw.LivingRoomCount},
		{FieldBuildingAge, raw.BuildingAge},
		{FieldBalconyCount, raw.BalconyCount},
	}

	values := make([]float64, len(numeric))
	for i, n := range numeric {
		v, err := parseNumber(n.value)
		if err != nil {
			return Vector{}, invalid(n.field, err.Error())
		}
		values[i] = v
	}

	inComplex, err := parseFlag(raw.InComplex)
	if err != nil {
		return Vector{}, invalid(FieldInComplex, err.Error())
	}

	if values[0] <= 0 {
		return Vector{}, invalid(FieldNetArea, "must be greater than 0")
	}
	for i := 1; i < len(values); i++ {
		if values[i] < 0 {
			return Vector{}, invalid(numeric[i].field, "must not be negative")
		}
	}

	floor, ok := ParseFloorType(raw.FloorType)
	if !ok {
		return Vector{}, invalid(FieldFloorType, fmt.Sprintf("unknown floor type %q", raw.FloorType))
	}

	if verr := checkLocation(sel, opts); verr != nil {
		return Vector{}, verr
	}

	return Vector{
		NetArea:         values[0],
		RoomCount:       values[1],
		LivingRoomCount: values[2],
		BuildingAge:     values[3],
		BalconyCount:    values[4],
		InComplex:       inComplex,
		FloorType:       floor,
		City:            sel.City(),
		District:        sel.District(),
		Neighborhood:    sel.Neighborhood(),
	}, nil
}

func checkLocation(sel location.Selection, opts Options) *ValidationError {
	h := sel.Hierarchy()

	if sel.City() == "" {
		return invalid(FieldCity, "required")
	}
	if !h.HasCity(sel.City()) {
		return invalid(FieldCity, fmt.Sprintf("unknown city %q", sel.City()))
	}
	if sel.District() == "" {
		return invalid(FieldDistrict, "required")
	}
	if !h.HasDistrict(sel.City(), sel.District()) {
		return invalid(FieldDistrict, fmt.Sprintf("district %q does not belong to %q", sel.District(), sel.City()))
	}
	if sel.Neighborhood() == "" {
		if opts.RequireNeighborhood {
			return invalid(FieldNeighborhood, "required")
		}
		return nil
	}
	if !h.IsValidPath(sel.City(), sel.District(), sel.Neighborhood()) {
		return invalid(FieldNeighborhood, fmt.Sprintf("neighborhood %q does not belong to %q/%q", sel.Neighborhood(), sel.City(), sel.District()))
	}
	return nil
}

// parseNumber разбирает конечное вещественное число
func parseNumber(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("required")
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("must be a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("must be a finite number")
	}
	return v, nil
}

// parseFlag разбирает признак 0/1 (true/false); пустое значение означает false
func parseFlag(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	}
	return false, fmt.Errorf("must be 0 or 1")
}
