package textscan

import "regexp"

// Pattern tables are declarative data interpreted by Extract. Keep entries
// lowercase (cities) or case-insensitive regexes (events, civilizations).

// Historical city names matched by substring containment. Cities are listed
// under the modern country holding the site.
var cityCountries = map[string][]string{
	"rome":           {"IT"},
	"pompeii":        {"IT"},
	"venice":         {"IT"},
	"florence":       {"IT"},
	"syracuse":       {"IT"},
	"athens":         {"GR"},
	"sparta":         {"GR"},
	"thebes":         {"GR", "EG"},
	"delphi":         {"GR"},
	"constantinople": {"TR"},
	"byzantium":      {"TR"},
	"troy":           {"TR"},
	"ephesus":        {"TR"},
	"alexandria":     {"EG"},
	"cairo":          {"EG"},
	"memphis":        {"EG"},
	"luxor":          {"EG"},
	"giza":           {"EG"},
	"babylon":        {"IQ"},
	"baghdad":        {"IQ"},
	"nineveh":        {"IQ"},
	"jerusalem":      {"IL"},
	"jericho":        {"PS"},
	"damascus":       {"SY"},
	"palmyra":        {"SY"},
	"mecca":          {"SA"},
	"medina":         {"SA"},
	"persepolis":     {"IR"},
	"isfahan":        {"IR"},
	"samarkand":      {"UZ"},
	"bukhara":        {"UZ"},
	"carthage":       {"TN"},
	"timbuktu":       {"ML"},
	"london":         {"GB"},
	"york":           {"GB"},
	"hastings":       {"GB"},
	"edinburgh":      {"GB"},
	"dublin":         {"IE"},
	"paris":          {"FR"},
	"marseille":      {"FR"},
	"avignon":        {"FR"},
	"orleans":        {"FR"},
	"madrid":         {"ES"},
	"cordoba":        {"ES"},
	"granada":        {"ES"},
	"toledo":         {"ES"},
	"lisbon":         {"PT"},
	"amsterdam":      {"NL"},
	"bruges":         {"BE"},
	"vienna":         {"AT"},
	"prague":         {"CZ"},
	"krakow":         {"PL"},
	"warsaw":         {"PL"},
	"moscow":         {"RU"},
	"novgorod":       {"RU"},
	"kiev":           {"UA"},
	"kyiv":           {"UA"},
	"stalingrad":     {"RU"},
	"leningrad":      {"RU"},
	"berlin":         {"DE"},
	"nuremberg":      {"DE"},
	"cologne":        {"DE"},
	"stockholm":      {"SE"},
	"uppsala":        {"SE"},
	"copenhagen":     {"DK"},
	"oslo":           {"NO"},
	"reykjavik":      {"IS"},
	"beijing":        {"CN"},
	"xian":           {"CN"},
	"nanjing":        {"CN"},
	"kyoto":          {"JP"},
	"edo":            {"JP"},
	"hiroshima":      {"JP"},
	"delhi":          {"IN"},
	"agra":           {"IN"},
	"angkor":         {"KH"},
	"tenochtitlan":   {"MX"},
	"cuzco":          {"PE"},
	"machu picchu":   {"PE"},
	"karakorum":      {"MN"},
}

type patternRule struct {
	re        *regexp.Regexp
	countries []string
}

// Named events and battles. Every matching rule contributes its countries.
var eventPatterns = []patternRule{
	{regexp.MustCompile(`(?i)\bwaterloo\b`), []string{"BE", "FR", "GB", "NL"}},
	{regexp.MustCompile(`(?i)\bstalingrad\b`), []string{"RU", "DE"}},
	{regexp.MustCompile(`(?i)\bbattle of hastings\b`), []string{"GB", "FR"}},
	{regexp.MustCompile(`(?i)\bnorman conquest\b`), []string{"GB", "FR"}},
	{regexp.MustCompile(`(?i)\bd-?day\b|\bnormandy landings?\b`), []string{"FR", "US", "GB", "CA", "DE"}},
	{regexp.MustCompile(`(?i)\btrafalgar\b`), []string{"ES", "GB", "FR"}},
	{regexp.MustCompile(`(?i)\bagincourt\b`), []string{"FR", "GB"}},
	{regexp.MustCompile(`(?i)\bthermopylae\b`), []string{"GR", "IR"}},
	{regexp.MustCompile(`(?i)\bmarathon\b`), []string{"GR", "IR"}},
	{regexp.MustCompile(`(?i)\bsalamis\b`), []string{"GR", "IR"}},
	{regexp.MustCompile(`(?i)\bgettysburg\b`), []string{"US"}},
	{regexp.MustCompile(`(?i)\bpearl harbor\b`), []string{"US", "JP"}},
	{regexp.MustCompile(`(?i)\bmidway\b`), []string{"US", "JP"}},
	{regexp.MustCompile(`(?i)\bverdun\b|\bsomme\b`), []string{"FR", "DE", "GB"}},
	{regexp.MustCompile(`(?i)\bgallipoli\b`), []string{"TR", "GB", "AU", "NZ"}},
	{regexp.MustCompile(`(?i)\bfall of constantinople\b`), []string{"TR", "GR"}},
	{regexp.MustCompile(`(?i)\breconquista\b`), []string{"ES", "PT", "MA"}},
	{regexp.MustCompile(`(?i)\bspanish armada\b`), []string{"ES", "GB"}},
	{regexp.MustCompile(`(?i)\bfrench revolution\b`), []string{"FR"}},
	{regexp.MustCompile(`(?i)\bamerican revolution\b`), []string{"US", "GB"}},
	{regexp.MustCompile(`(?i)\bcivil rights movement\b`), []string{"US"}},
	{regexp.MustCompile(`(?i)\bberlin wall\b`), []string{"DE"}},
	{regexp.MustCompile(`(?i)\bcuban missile crisis\b`), []string{"CU", "US", "RU"}},
	{regexp.MustCompile(`(?i)\bopium wars?\b`), []string{"CN", "GB"}},
	{regexp.MustCompile(`(?i)\bmeiji restoration\b`), []string{"JP"}},
	{regexp.MustCompile(`(?i)\bpunic wars?\b`), []string{"IT", "TN", "ES"}},
	{regexp.MustCompile(`(?i)\bhundred years'? war\b`), []string{"FR", "GB"}},
	{regexp.MustCompile(`(?i)\bthirty years'? war\b`), []string{"DE", "CZ", "AT", "SE", "FR"}},
	{regexp.MustCompile(`(?i)\bcrusades?\b`), []string{"IL", "TR", "SY", "FR", "GB", "DE"}},
	{regexp.MustCompile(`(?i)\bblack death\b`), []string{"IT", "FR", "GB", "DE", "ES"}},
}

// Civilization and ethnonym terms.
var civilizationPatterns = []patternRule{
	{regexp.MustCompile(`(?i)\bmongols?\b`), []string{"MN", "CN"}},
	{regexp.MustCompile(`(?i)\bvikings?\b|\bnorse(?:men)?\b`), []string{"NO", "SE", "DK"}},
	{regexp.MustCompile(`(?i)\bromans?\b`), []string{"IT"}},
	{regexp.MustCompile(`(?i)\bgreeks?\b|\bhellenic\b`), []string{"GR"}},
	{regexp.MustCompile(`(?i)\bspartans?\b`), []string{"GR"}},
	{regexp.MustCompile(`(?i)\begyptians?\b|\bpharaohs?\b`), []string{"EG"}},
	{regexp.MustCompile(`(?i)\bpersians?\b|\bachaemenid\b|\bsasanian\b`), []string{"IR"}},
	{regexp.MustCompile(`(?i)\bottomans?\b`), []string{"TR"}},
	{regexp.MustCompile(`(?i)\bbyzantines?\b`), []string{"TR", "GR"}},
	{regexp.MustCompile(`(?i)\bcelts?\b|\bceltic\b`), []string{"IE", "GB", "FR"}},
	{regexp.MustCompile(`(?i)\bgauls?\b`), []string{"FR"}},
	{regexp.MustCompile(`(?i)\bsaxons?\b|\banglo-saxons?\b`), []string{"GB", "DE"}},
	{regexp.MustCompile(`(?i)\bfranks?\b|\bfrankish\b`), []string{"FR", "DE"}},
	{regexp.MustCompile(`(?i)\bgoths?\b|\bvisigoths?\b|\bostrogoths?\b`), []string{"ES", "IT"}},
	{regexp.MustCompile(`(?i)\bhuns?\b`), []string{"HU"}},
	{regexp.MustCompile(`(?i)\bmoors?\b|\bmoorish\b`), []string{"ES", "MA"}},
	{regexp.MustCompile(`(?i)\baztecs?\b`), []string{"MX"}},
	{regexp.MustCompile(`(?i)\bmaya(?:ns?)?\b`), []string{"MX", "GT"}},
	{regexp.MustCompile(`(?i)\bincas?\b`), []string{"PE"}},
	{regexp.MustCompile(`(?i)\bsamurai\b|\bshogunate?\b`), []string{"JP"}},
	{regexp.MustCompile(`(?i)\bmughals?\b`), []string{"IN", "PK"}},
	{regexp.MustCompile(`(?i)\bbabylonians?\b|\bassyrians?\b|\bsumerians?\b`), []string{"IQ"}},
	{regexp.MustCompile(`(?i)\bphoenicians?\b`), []string{"LB", "TN"}},
	{regexp.MustCompile(`(?i)\bcarthaginians?\b`), []string{"TN"}},
	{regexp.MustCompile(`(?i)\bslavs?\b|\bslavic\b`), []string{"RU", "PL", "UA"}},
	{regexp.MustCompile(`(?i)\brus\b|\bkievan\b`), []string{"RU", "UA"}},
	{regexp.MustCompile(`(?i)\bzulus?\b`), []string{"ZA"}},
	{regexp.MustCompile(`(?i)\bkhmers?\b`), []string{"KH"}},
	{regexp.MustCompile(`(?i)\bconquistadors?\b`), []string{"ES", "MX", "PE"}},
	{regexp.MustCompile(`(?i)\bsoviets?\b`), []string{"RU"}},
}
