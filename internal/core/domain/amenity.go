package domain

import "strings"

// Amenity - удобство объекта (парковка, бассейн и т.п.).
type Amenity struct {
	ID   string
	Name string
	Icon string
	Tags []string
}

// ParseTags разбирает теги, хранимые строкой через запятую.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// PropertyDetails - карточка объекта для страницы просмотра.
type PropertyDetails struct {
	Property  Property
	Amenities []Amenity
	// Favorite - объект в избранном вошедшего пользователя
	Favorite bool
	// Warning заполняется, если удобства загрузить не удалось
	Warning string
}
