package address

import "strings"

const maxFallbackResults = 8

// fallbackData covers the most common Swiss cities so suggestions keep
// working when the OpenPLZ API is unreachable.
var fallbackData = []Locality{
	{PostalCode: "8001", Name: "Zürich", State: "Zürich"},
	{PostalCode: "8002", Name: "Zürich", State: "Zürich"},
	{PostalCode: "8003", Name: "Zürich", State: "Zürich"},
	{PostalCode: "8004", Name: "Zürich", State: "Zürich"},
	{PostalCode: "8005", Name: "Zürich", State: "Zürich"},
	{PostalCode: "3001", Name: "Bern", State: "Bern"},
	{PostalCode: "3002", Name: "Bern", State: "Bern"},
	{PostalCode: "3003", Name: "Bern", State: "Bern"},
	{PostalCode: "4001", Name: "Basel", State: "Basel-Stadt"},
	{PostalCode: "4002", Name: "Basel", State: "Basel-Stadt"},
	{PostalCode: "4003", Name: "Basel", State: "Basel-Stadt"},
	{PostalCode: "1201", Name: "Genève", State: "Genève"},
	{PostalCode: "1202", Name: "Genève", State: "Genève"},
	{PostalCode: "1203", Name: "Genève", State: "Genève"},
	{PostalCode: "1000", Name: "Lausanne", State: "Vaud"},
	{PostalCode: "1001", Name: "Lausanne", State: "Vaud"},
	{PostalCode: "1002", Name: "Lausanne", State: "Vaud"},
	{PostalCode: "6900", Name: "Lugano", State: "Ticino"},
	{PostalCode: "9000", Name: "St. Gallen", State: "St. Gallen"},
	{PostalCode: "7000", Name: "Chur", State: "Graubünden"},
	{PostalCode: "6000", Name: "Luzern", State: "Luzern"},
	{PostalCode: "2000", Name: "Neuchâtel", State: "Neuchâtel"},
	{PostalCode: "5000", Name: "Aarau", State: "Aargau"},
}

func fallbackLocalities(query string) []Locality {
	lower := strings.ToLower(query)
	matches := make([]Locality, 0, maxFallbackResults)
	for _, loc := range fallbackData {
		if strings.HasPrefix(loc.PostalCode, query) ||
			strings.Contains(strings.ToLower(loc.Name), lower) ||
			strings.Contains(strings.ToLower(loc.State), lower) {
			matches = append(matches, loc)
			if len(matches) == maxFallbackResults {
				break
			}
		}
	}
	return matches
}
