package domain

// Matches проверяет объект по всем активным фильтрам.
// Неактивные поля ("all", "any", пустая цена) не влияют на результат.
// Сравнение категории и типа сделки - точное, без приведения регистра.
func Matches(p Property, c FilterCriteria) bool {
	if c.categoryActive() && p.Category != c.Category {
		return false
	}
	if c.listingKindActive() && p.ListingKind != c.ListingKind {
		return false
	}
	if c.MinPrice != nil && p.Price.LessThan(*c.MinPrice) {
		return false
	}
	if c.MaxPrice != nil && p.Price.GreaterThan(*c.MaxPrice) {
		return false
	}
	return c.Bedrooms.Matches(p.Bedrooms)
}

// DeriveView строит отображаемый список: сохраняет исходный порядок
// и всегда возвращает новый срез, не трогая properties.
func DeriveView(properties []Property, c FilterCriteria) []Property {
	view := make([]Property, 0, len(properties))
	for _, p := range properties {
		if Matches(p, c) {
			view = append(view, p)
		}
	}
	return view
}
