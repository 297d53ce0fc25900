package enrich

import "strings"

var countryNames = map[string]string{
	"AR": "argentina",
	"AT": "austria",
	"AU": "australia",
	"BE": "belgium",
	"BR": "brazil",
	"CA": "canada",
	"CH": "switzerland",
	"CL": "chile",
	"CN": "china",
	"CO": "colombia",
	"CZ": "czech republic",
	"DE": "germany",
	"DK": "denmark",
	"EG": "egypt",
	"ES": "spain",
	"FI": "finland",
	"FR": "france",
	"GB": "united kingdom",
	"GE": "georgia",
	"GR": "greece",
	"HK": "hong kong",
	"HU": "hungary",
	"ID": "indonesia",
	"IE": "ireland",
	"IL": "israel",
	"IN": "india",
	"IR": "iran",
	"IS": "iceland",
	"IT": "italy",
	"JP": "japan",
	"KR": "south korea",
	"KZ": "kazakhstan",
	"MX": "mexico",
	"NL": "netherlands",
	"NO": "norway",
	"NZ": "new zealand",
	"PH": "philippines",
	"PL": "poland",
	"PT": "portugal",
	"RO": "romania",
	"RS": "serbia",
	"RU": "russia",
	"SE": "sweden",
	"SU": "soviet union",
	"TH": "thailand",
	"TR": "turkey",
	"TW": "taiwan",
	"UA": "ukraine",
	"US": "united states",
	"VN": "vietnam",
	"XC": "czechoslovakia",
	"ZA": "south africa",
}

// CountryTag maps an ISO 3166-1 code to a lowercase English country name.
// Unknown codes come back lowercased.
func CountryTag(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if name, ok := countryNames[code]; ok {
		return name
	}
	return strings.ToLower(code)
}
