package location

import (
	"fmt"
)

// District район города со списком микрорайонов (mahalle)
type District struct {
	Name          string
	Neighborhoods []string
}

// City город со списком районов
type City struct {
	Name      string
	Districts []District
}

// Hierarchy неизменяемый справочник город -> район -> микрорайоны.
// Безопасен для конкурентного чтения: после создания не меняется.
type Hierarchy struct {
	cities        []string
	districts     map[string][]string
	neighborhoods map[string]map[string][]string
}

// NewHierarchy строит справочник, сохраняя порядок городов, районов и микрорайонов.
// Имена должны быть непустыми и уникальными в пределах своего родителя.
func NewHierarchy(cities []City) (*Hierarchy, error) {
	h := &Hierarchy{
		cities:        make([]string, 0, len(cities)),
		districts:     make(map[string][]string, len(cities)),
		neighborhoods: make(map[string]map[string][]string, len(cities)),
	}

	for _, city := range cities {
		if city.Name == "" {
			return nil, fmt.Errorf("empty city name")
		}
		if _, exists := h.districts[city.Name]; exists {
			return nil, fmt.Errorf("duplicate city %q", city.Name)
		}

		districtNames := make([]string, 0, len(city.Districts))
		byDistrict := make(map[string][]string, len(city.Districts))
		for _, district := range city.Districts {
			if district.Name == "" {
				return nil, fmt.Errorf("empty district name in city %q", city.Name)
			}
			if _, exists := byDistrict[district.Name]; exists {
				return nil, fmt.Errorf("duplicate district %q in city %q", district.Name, city.Name)
			}

			seen := make(map[string]struct{}, len(district.Neighborhoods))
			names := make([]string, 0, len(district.Neighborhoods))
			for _, n := range district.Neighborhoods {
				if n == "" {
					return nil, fmt.Errorf("empty neighborhood name in %q/%q", city.Name, district.Name)
				}
				if _, exists := seen[n]; exists {
					return nil, fmt.Errorf("duplicate neighborhood %q in %q/%q", n, city.Name, district.Name)
				}
				seen[n] = struct{}{}
				names = append(names, n)
			}

			districtNames = append(districtNames, district.Name)
			byDistrict[district.Name] = names
		}

		h.cities = append(h.cities, city.Name)
		h.districts[city.Name] = districtNames
		h.neighborhoods[city.Name] = byDistrict
	}

	return h, nil
}

// ListCities возвращает города в порядке загрузки
func (h *Hierarchy) ListCities() []string {
	return copyNames(h.cities)
}

// ListDistricts возвращает районы города; для неизвестного города пустой список
func (h *Hierarchy) ListDistricts(city string) []string {
	return copyNames(h.districts[city])
}

// ListNeighborhoods возвращает микрорайоны района; для неизвестного пути пустой список
func (h *Hierarchy) ListNeighborhoods(city, district string) []string {
	return copyNames(h.neighborhoods[city][district])
}

// HasCity проверяет наличие города
func (h *Hierarchy) HasCity(city string) bool {
	_, ok := h.districts[city]
	return ok
}

// HasDistrict проверяет, что район принадлежит городу
func (h *Hierarchy) HasDistrict(city, district string) bool {
	_, ok := h.neighborhoods[city][district]
	return ok
}

// IsValidPath проверяет, что микрорайон принадлежит району, а район городу
func (h *Hierarchy) IsValidPath(city, district, neighborhood string) bool {
	for _, n := range h.neighborhoods[city][district] {
		if n == neighborhood {
			return true
		}
	}
	return false
}

// SoleCity возвращает единственный город, если в справочнике ровно один город
func (h *Hierarchy) SoleCity() (string, bool) {
	if len(h.cities) != 1 {
		return "", false
	}
	return h.cities[0], true
}

func copyNames(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}
