package feature

import (
	"strings"
)

// FloorType тип этажности квартиры
type FloorType int

const (
	FloorNormal FloorType = iota + 1
	FloorDuplex
	FloorTriplex
)

// WireName имя типа в формате движка оценки
func (f FloorType) WireName() string {
	switch f {
	case FloorNormal:
		return "Normal"
	case FloorDuplex:
		return "Dubleks"
	case FloorTriplex:
		return "Tripleks"
	}
	return ""
}

func (f FloorType) String() string {
	return f.WireName()
}

var floorAliases = map[string]FloorType{
	"normal":   FloorNormal,
	"dubleks":  FloorDuplex,
	"duplex":   FloorDuplex,
	"tripleks": FloorTriplex,
	"triplex":  FloorTriplex,
}

// ParseFloorType принимает как имена движка (Dubleks), так и английские (Duplex), без учета регистра
func ParseFloorType(value string) (FloorType, bool) {
	f, ok := floorAliases[strings.ToLower(strings.TrimSpace(value))]
	return f, ok
}
