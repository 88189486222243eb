package location

import (
	"errors"
)

// ErrParentNotSelected возвращается при выборе дочернего уровня без выбранного родителя
var ErrParentNotSelected = errors.New("parent location is not selected")

// Selection состояние каскадного выбора город -> район -> микрорайон.
// Переходы не меняют исходное значение и возвращают новое состояние.
type Selection struct {
	hierarchy *Hierarchy

	city         string
	district     string
	neighborhood string

	availableDistricts     []string
	availableNeighborhoods []string
}

// NewSelection создает пустое состояние выбора.
// Если в справочнике один город, он выбирается сразу.
func NewSelection(h *Hierarchy) Selection {
	s := Selection{hierarchy: h}
	if city, ok := h.SoleCity(); ok {
		s = s.SetCity(city)
	}
	return s
}

// SetCity выбирает город и сбрасывает район и микрорайон
func (s Selection) SetCity(city string) Selection {
	next := Selection{hierarchy: s.hierarchy, city: city}
	if city != "" {
		next.availableDistricts = s.hierarchy.ListDistricts(city)
	}
	return next
}

// SetDistrict выбирает район и сбрасывает микрорайон.
// Без выбранного города состояние не меняется.
func (s Selection) SetDistrict(district string) (Selection, error) {
	if s.city == "" {
		return s, ErrParentNotSelected
	}

	next := s
	next.district = district
	next.neighborhood = ""
	next.availableNeighborhoods = nil
	if district != "" {
		next.availableNeighborhoods = s.hierarchy.ListNeighborhoods(s.city, district)
	}
	return next, nil
}

// SetNeighborhood выбирает микрорайон.
// Без выбранного района состояние не меняется.
func (s Selection) SetNeighborhood(neighborhood string) (Selection, error) {
	if s.district == "" {
		return s, ErrParentNotSelected
	}

	next := s
	next.neighborhood = neighborhood
	return next, nil
}

func (s Selection) City() string         { return s.city }
func (s Selection) District() string     { return s.district }
func (s Selection) Neighborhood() string { return s.neighborhood }

// AvailableDistricts районы выбранного города
func (s Selection) AvailableDistricts() []string {
	return copyNames(s.availableDistricts)
}

// AvailableNeighborhoods микрорайоны выбранного района
func (s Selection) AvailableNeighborhoods() []string {
	return copyNames(s.availableNeighborhoods)
}

// Hierarchy справочник, на котором построено состояние
func (s Selection) Hierarchy() *Hierarchy {
	return s.hierarchy
}

// Complete true, если выбраны все три уровня и путь существует в справочнике
func (s Selection) Complete() bool {
	if s.city == "" || s.district == "" || s.neighborhood == "" {
		return false
	}
	return s.hierarchy.IsValidPath(s.city, s.district, s.neighborhood)
}

// FromPath применяет последовательно SetCity, SetDistrict и SetNeighborhood.
// Пустые уровни пропускаются, поэтому результат может быть неполным.
func FromPath(h *Hierarchy, city, district, neighborhood string) Selection {
	s := Selection{hierarchy: h}.SetCity(city)
	if district == "" {
		return s
	}
	s, _ = s.SetDistrict(district)
	if neighborhood == "" {
		return s
	}
	s, _ = s.SetNeighborhood(neighborhood)
	return s
}
