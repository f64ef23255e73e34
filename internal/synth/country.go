package synth

// countryNames maps ISO-3166-1 alpha-2 codes to the library-folder-safe
// display name used in the "{COUNTRY}_{COUNTRY_NAME}" top-level segment.
// A deliberately small map covering the major film/TV-producing
// markets; codes outside it keep their alpha-2 prefix with an Unknown
// display name.
var countryNames = map[string]string{
	"US": "UnitedStates",
	"GB": "UnitedKingdom",
	"CA": "Canada",
	"AU": "Australia",
	"FR": "France",
	"DE": "Germany",
	"IT": "Italy",
	"ES": "Spain",
	"JP": "Japan",
	"KR": "SouthKorea",
	"CN": "China",
	"TW": "Taiwan",
	"HK": "HongKong",
	"IN": "India",
	"RU": "Russia",
	"BR": "Brazil",
	"MX": "Mexico",
	"SE": "Sweden",
	"NO": "Norway",
	"DK": "Denmark",
	"NL": "Netherlands",
	"BE": "Belgium",
	"NZ": "NewZealand",
	"IE": "Ireland",
	"TH": "Thailand",
	"PH": "Philippines",
	"ID": "Indonesia",
	"TR": "Turkey",
	"PL": "Poland",
	"AR": "Argentina",
	"ZA": "SouthAfrica",
}

const unknownCountryCode = "XX"
const unknownCountryName = "Unknown"

// countrySegment returns the "{CODE}_{Name}" top-level library folder
// segment for an ISO-3166-1 alpha-2 code: "XX_Unknown" when the code is
// empty, and "{CODE}_Unknown" when the code is not in the table.
func countrySegment(code string) string {
	if code == "" {
		return unknownCountryCode + "_" + unknownCountryName
	}
	name, ok := countryNames[code]
	if !ok {
		name = unknownCountryName
	}
	return code + "_" + name
}
