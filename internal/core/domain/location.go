package domain

// PopularLocation - подсказка для быстрого поиска.
type PopularLocation struct {
	Name    string
	State   string
	Country string
}

// FallbackPopularLocations - встроенный список на случай, если бэкенд недоступен.
func FallbackPopularLocations() []PopularLocation {
	return []PopularLocation{
		{Name: "New York", State: "NY", Country: "USA"},
		{Name: "Los Angeles", State: "CA", Country: "USA"},
		{Name: "Chicago", State: "IL", Country: "USA"},
		{Name: "Miami", State: "FL", Country: "USA"},
		{Name: "Seattle", State: "WA", Country: "USA"},
	}
}
