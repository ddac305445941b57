package temporal

// The period table. Keys are lowercase; Resolve folds input case before
// lookup. Slice order is significant: first match wins, so narrower or
// earlier rules come first.
//
// Country sets name modern ISO codes for territory the period actually
// controlled in that span, not areas of mere influence.

func yr(y int) *int { return &y }

func rng(a, b int) *[2]int { return &[2]int{a, b} }

var mappings = map[string]Mapping{
	"roman empire": {
		Default: []string{"IT", "FR", "ES", "GR", "TR", "EG", "GB"},
		Slices: []Slice{
			{Before: yr(-500), Countries: []string{"IT"}, Note: "Early Rome, Italian peninsula only"},
			{Range: rng(-500, -27), Countries: []string{"IT", "FR", "ES", "TN"}, Note: "Roman Republic, western Mediterranean"},
			{Range: rng(-27, 117), Add: []string{"DE", "AT", "CH", "BE", "NL", "HU", "RO", "BG", "SY", "IL", "TN", "DZ", "MA", "PT"}, Note: "Imperial expansion to greatest extent under Trajan"},
			{After: yr(395), Remove: []string{"GB", "FR", "ES"}, Add: []string{"BG", "RS"}, Note: "Eastern empire after the division"},
		},
	},
	"viking age": {
		Default: []string{"NO", "SE", "DK"},
		Slices: []Slice{
			{Range: rng(793, 850), Countries: []string{"NO", "SE", "DK", "GB", "IE"}, Note: "Early raids on the British Isles"},
			{Range: rng(851, 999), Add: []string{"GB", "IE", "IS", "FR"}, Note: "Settlement era: Danelaw, Normandy, Iceland"},
			{Range: rng(1000, 1066), Add: []string{"GB", "IS", "GL"}, Note: "Late expeditions and North Atlantic settlement"},
		},
	},
	"byzantine empire": {
		Default: []string{"TR", "GR"},
		Slices: []Slice{
			{Range: rng(527, 565), Add: []string{"IT", "TN", "ES", "EG", "IL", "SY"}, Note: "Justinian's reconquest of the western provinces"},
			{Range: rng(566, 1203), Add: []string{"BG", "CY"}, Note: "Medieval core in Anatolia and the Balkans"},
			{After: yr(1204), Countries: []string{"TR", "GR"}, Note: "Rump states after the Fourth Crusade"},
		},
	},
	"ottoman empire": {
		Default: []string{"TR"},
		Slices: []Slice{
			{Before: yr(1453), Countries: []string{"TR", "GR", "BG"}, Note: "Early emirate before the fall of Constantinople"},
			{Range: rng(1453, 1683), Add: []string{"GR", "BG", "RS", "RO", "HU", "EG", "SY", "IQ", "IL", "SA"}, Note: "Classical age to the height at Vienna"},
			{After: yr(1683), Add: []string{"GR", "BG", "RS", "EG", "SY", "IQ"}, Note: "Long contraction before dissolution"},
		},
	},
	"mongol empire": {
		Default: []string{"MN", "CN"},
		Slices: []Slice{
			{Before: yr(1206), Countries: []string{"MN"}, Note: "Steppe tribes before unification under Genghis Khan"},
			{Range: rng(1206, 1259), Add: []string{"RU", "KZ", "UZ", "TM", "KG", "IR", "IQ", "AF"}, Note: "Unified empire at continental scale"},
			{After: yr(1260), Add: []string{"RU", "KZ", "IR"}, Note: "Successor khanates after the imperial split"},
		},
	},
	"ancient egypt": {
		Default: []string{"EG"},
		Slices: []Slice{
			{Range: rng(-1550, -1070), Add: []string{"SD", "IL", "SY"}, Note: "New Kingdom empire into Nubia and the Levant"},
			{After: yr(-332), Add: []string{}, Note: "Ptolemaic period under Hellenistic rule"},
		},
	},
	"british empire": {
		Default: []string{"GB"},
		Slices: []Slice{
			{Range: rng(1607, 1783), Add: []string{"US", "CA", "IN", "IE"}, Note: "First empire, Atlantic colonies"},
			{Range: rng(1784, 1913), Add: []string{"CA", "IN", "AU", "NZ", "ZA", "IE", "EG"}, Note: "Second empire toward its territorial peak"},
			{After: yr(1914), Add: []string{"CA", "IN", "AU", "NZ", "ZA"}, Note: "Dominions era and decolonization"},
		},
	},
	"holy roman empire": {
		Default: []string{"DE", "AT", "CZ"},
		Slices: []Slice{
			{Range: rng(962, 1250), Add: []string{"IT", "CH", "NL", "BE"}, Note: "Ottonian to Hohenstaufen extent"},
			{After: yr(1648), Add: []string{}, Note: "Loose confederation after Westphalia"},
		},
	},
	"persian empire": {
		Default: []string{"IR"},
		Slices: []Slice{
			{Range: rng(-550, -330), Add: []string{"IQ", "TR", "EG", "AF", "PK", "UZ"}, Note: "Achaemenid empire from the Nile to the Indus"},
			{Range: rng(224, 651), Add: []string{"IQ", "AF", "TM"}, Note: "Sasanian era"},
		},
	},
	"aztec empire": {
		Default: []string{"MX"},
		Slices: []Slice{
			{Range: rng(1428, 1521), Countries: []string{"MX"}, Note: "Triple Alliance until the Spanish conquest"},
		},
	},
}
