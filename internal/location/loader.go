package location

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// defaultTable справочник, поставляемый вместе с сервисом
//
//go:embed data/locations.json
var defaultTable []byte

// LoadDefault загружает встроенный справочник
func LoadDefault() (*Hierarchy, error) {
	return Parse(defaultTable)
}

// LoadFile загружает справочник из JSON файла
func LoadFile(path string) (*Hierarchy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read locations file %s: %w", path, err)
	}

	h, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse locations file %s: %w", path, err)
	}
	return h, nil
}

// Parse разбирает JSON вида {"город": {"район": ["микрорайон", ...]}}.
// gjson обходит ключи объекта в порядке документа, поэтому порядок районов сохраняется.
func Parse(data []byte) (*Hierarchy, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("top level must be an object of cities")
	}

	var (
		cities []City
		err    error
	)
	root.ForEach(func(cityKey, cityValue gjson.Result) bool {
		if !cityValue.IsObject() {
			err = fmt.Errorf("city %q: districts must be an object", cityKey.String())
			return false
		}

		city := City{Name: cityKey.String()}
		cityValue.ForEach(func(districtKey, districtValue gjson.Result) bool {
			if !districtValue.IsArray() {
				err = fmt.Errorf("district %q/%q: neighborhoods must be an array", city.Name, districtKey.String())
				return false
			}

			district := District{Name: districtKey.String()}
			for _, n := range districtValue.Array() {
				if n.Type != gjson.String {
					err = fmt.Errorf("district %q/%q: neighborhood must be a string, got %s", city.Name, district.Name, n.Raw)
					return false
				}
				district.Neighborhoods = append(district.Neighborhoods, n.String())
			}

			city.Districts = append(city.Districts, district)
			return true
		})
		if err != nil {
			return false
		}

		cities = append(cities, city)
		return true
	})
	if err != nil {
		return nil, err
	}

	return NewHierarchy(cities)
}
