package visitor

// continents maps the country codes a CDN country header may carry to their
// continent, for requests that never touch the GeoIP database.
var continents = map[string]string{
	// Europe
	"AD": "EU", "AL": "EU", "AT": "EU", "BA": "EU", "BE": "EU", "BG": "EU", "BY": "EU",
	"CH": "EU", "CY": "EU", "CZ": "EU", "DE": "EU", "DK": "EU", "EE": "EU", "ES": "EU",
	"FI": "EU", "FR": "EU", "GB": "EU", "GR": "EU", "HR": "EU", "HU": "EU", "IE": "EU",
	"IS": "EU", "IT": "EU", "LI": "EU", "LT": "EU", "LU": "EU", "LV": "EU", "MC": "EU",
	"MD": "EU", "ME": "EU", "MK": "EU", "MT": "EU", "NL": "EU", "NO": "EU", "PL": "EU",
	"PT": "EU", "RO": "EU", "RS": "EU", "RU": "EU", "SE": "EU", "SI": "EU", "SK": "EU",
	"SM": "EU", "UA": "EU", "VA": "EU",
	// North America
	"US": "NA", "CA": "NA", "MX": "NA", "GT": "NA", "CU": "NA", "DO": "NA", "HT": "NA",
	"HN": "NA", "NI": "NA", "SV": "NA", "CR": "NA", "PA": "NA", "JM": "NA", "PR": "NA",
	"BS": "NA", "TT": "NA", "BZ": "NA", "BB": "NA", "GL": "NA",
	// South America
	"AR": "SA", "BO": "SA", "BR": "SA", "CL": "SA", "CO": "SA", "EC": "SA", "GY": "SA",
	"PE": "SA", "PY": "SA", "SR": "SA", "UY": "SA", "VE": "SA",
	// Asia
	"AE": "AS", "AF": "AS", "AM": "AS", "AZ": "AS", "BD": "AS", "BH": "AS", "BN": "AS",
	"BT": "AS", "CN": "AS", "GE": "AS", "HK": "AS", "ID": "AS", "IL": "AS", "IN": "AS",
	"IQ": "AS", "IR": "AS", "JO": "AS", "JP": "AS", "KG": "AS", "KH": "AS", "KR": "AS",
	"KW": "AS", "KZ": "AS", "LA": "AS", "LB": "AS", "LK": "AS", "MM": "AS", "MN": "AS",
	"MO": "AS", "MV": "AS", "MY": "AS", "NP": "AS", "OM": "AS", "PH": "AS", "PK": "AS",
	"QA": "AS", "SA": "AS", "SG": "AS", "SY": "AS", "TH": "AS", "TJ": "AS", "TM": "AS",
	"TR": "AS", "TW": "AS", "UZ": "AS", "VN": "AS", "YE": "AS",
	// Africa
	"AO": "AF", "BF": "AF", "BI": "AF", "BJ": "AF", "BW": "AF", "CD": "AF", "CI": "AF",
	"CM": "AF", "DZ": "AF", "EG": "AF", "ET": "AF", "GA": "AF", "GH": "AF", "GN": "AF",
	"KE": "AF", "LY": "AF", "MA": "AF", "MG": "AF", "ML": "AF", "MU": "AF", "MW": "AF",
	"MZ": "AF", "NA": "AF", "NE": "AF", "NG": "AF", "RW": "AF", "SD": "AF", "SN": "AF",
	"SO": "AF", "TN": "AF", "TZ": "AF", "UG": "AF", "ZA": "AF", "ZM": "AF", "ZW": "AF",
	// Oceania
	"AU": "OC", "FJ": "OC", "NZ": "OC", "PG": "OC", "WS": "OC", "TO": "OC", "VU": "OC",
	// Antarctica
	"AQ": "AN",
}

// ContinentOf returns the continent code for an ISO country code, or ""
func ContinentOf(country string) string {
	return continents[country]
}
