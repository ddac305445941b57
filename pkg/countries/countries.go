// Package countries validates ISO 3166-1 alpha-2 country codes. The allowlist
// is the contract boundary for anything AI-sourced: a code that is two
// uppercase letters but not on the list is still rejected.
package countries

import (
	"regexp"
	"strings"
)

var codePattern = regexp.MustCompile(`^[A-Z]{2}$`)

// IsCodeShaped reports whether s is two uppercase ASCII letters. It does not
// consult the allowlist; use IsValid for that.
func IsCodeShaped(s string) bool {
	return codePattern.MatchString(s)
}

// IsValid reports whether s is a known ISO 3166-1 alpha-2 code.
func IsValid(s string) bool {
	_, ok := allowlist[s]
	return ok
}

// Normalize trims and uppercases a candidate code. It does not validate.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Filter returns the subset of codes that are shape-valid and on the
// allowlist, deduplicated, preserving first-seen order.
func Filter(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = Normalize(c)
		if !IsCodeShaped(c) || !IsValid(c) {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

var allowlist = map[string]struct{}{}

func init() {
	for _, c := range strings.Fields(allCodes) {
		allowlist[c] = struct{}{}
	}
}

// ISO 3166-1 alpha-2 assigned codes.
const allCodes = `
AD AE AF AG AI AL AM AO AQ AR AS AT AU AW AX AZ
BA BB BD BE BF BG BH BI BJ BL BM BN BO BQ BR BS BT BV BW BY BZ
CA CC CD CF CG CH CI CK CL CM CN CO CR CU CV CW CX CY CZ
DE DJ DK DM DO DZ
EC EE EG EH ER ES ET
FI FJ FK FM FO FR
GA GB GD GE GF GG GH GI GL GM GN GP GQ GR GS GT GU GW GY
HK HM HN HR HT HU
ID IE IL IM IN IO IQ IR IS IT
JE JM JO JP
KE KG KH KI KM KN KP KR KW KY KZ
LA LB LC LI LK LR LS LT LU LV LY
MA MC MD ME MF MG MH MK ML MM MN MO MP MQ MR MS MT MU MV MW MX MY MZ
NA NC NE NF NG NI NL NO NP NR NU NZ
OM
PA PE PF PG PH PK PL PM PN PR PS PT PW PY
QA
RE RO RS RU RW
SA SB SC SD SE SG SH SI SJ SK SL SM SN SO SR SS ST SV SX SY SZ
TC TD TF TG TH TJ TK TL TM TN TO TR TT TV TW TZ
UA UG UM US UY UZ
VA VC VE VG VI VN VU
WF WS
YE YT
ZA ZM ZW
`
