// Package refdata holds the static lookup tables used by the parse engine:
// country names and aliases, umbrella category rules, dosage form synonyms,
// and canonical-field header synonyms.
//
// The tables are plain package-level maps and slices so they can be shared
// by every engine component without allocation or locking. They are treated
// as read-only after init.
package refdata

// CountryNames maps lowercase English country names to ISO-3166 alpha-2 codes.
var CountryNames = map[string]string{
	"afghanistan":                      "AF",
	"albania":                          "AL",
	"algeria":                          "DZ",
	"andorra":                          "AD",
	"angola":                           "AO",
	"argentina":                        "AR",
	"armenia":                          "AM",
	"australia":                        "AU",
	"austria":                          "AT",
	"azerbaijan":                       "AZ",
	"bahamas":                          "BS",
	"bahrain":                          "BH",
	"bangladesh":                       "BD",
	"barbados":                         "BB",
	"belarus":                          "BY",
	"belgium":                          "BE",
	"belize":                           "BZ",
	"benin":                            "BJ",
	"bhutan":                           "BT",
	"bolivia":                          "BO",
	"bosnia and herzegovina":           "BA",
	"botswana":                         "BW",
	"brazil":                           "BR",
	"brunei":                           "BN",
	"bulgaria":                         "BG",
	"burkina faso":                     "BF",
	"burundi":                          "BI",
	"cambodia":                         "KH",
	"cameroon":                         "CM",
	"canada":                           "CA",
	"cape verde":                       "CV",
	"central african republic":         "CF",
	"chad":                             "TD",
	"chile":                            "CL",
	"china":                            "CN",
	"colombia":                         "CO",
	"comoros":                          "KM",
	"congo":                            "CG",
	"costa rica":                       "CR",
	"croatia":                          "HR",
	"cuba":                             "CU",
	"cyprus":                           "CY",
	"czech republic":                   "CZ",
	"czechia":                          "CZ",
	"democratic republic of the congo": "CD",
	"denmark":                          "DK",
	"djibouti":                         "DJ",
	"dominica":                         "DM",
	"dominican republic":               "DO",
	"ecuador":                          "EC",
	"egypt":                            "EG",
	"el salvador":                      "SV",
	"eritrea":                          "ER",
	"estonia":                          "EE",
	"eswatini":                         "SZ",
	"ethiopia":                         "ET",
	"fiji":                             "FJ",
	"finland":                          "FI",
	"france":                           "FR",
	"gabon":                            "GA",
	"gambia":                           "GM",
	"georgia":                          "GE",
	"germany":                          "DE",
	"ghana":                            "GH",
	"greece":                           "GR",
	"grenada":                          "GD",
	"guatemala":                        "GT",
	"guinea":                           "GN",
	"guinea-bissau":                    "GW",
	"guyana":                           "GY",
	"haiti":                            "HT",
	"honduras":                         "HN",
	"hungary":                          "HU",
	"iceland":                          "IS",
	"india":                            "IN",
	"indonesia":                        "ID",
	"iran":                             "IR",
	"iraq":                             "IQ",
	"ireland":                          "IE",
	"israel":                           "IL",
	"italy":                            "IT",
	"ivory coast":                      "CI",
	"jamaica":                          "JM",
	"japan":                            "JP",
	"jordan":                           "JO",
	"kazakhstan":                       "KZ",
	"kenya":                            "KE",
	"kiribati":                         "KI",
	"kuwait":                           "KW",
	"kyrgyzstan":                       "KG",
	"laos":                             "LA",
	"latvia":                           "LV",
	"lebanon":                          "LB",
	"lesotho":                          "LS",
	"liberia":                          "LR",
	"libya":                            "LY",
	"liechtenstein":                    "LI",
	"lithuania":                        "LT",
	"luxembourg":                       "LU",
	"madagascar":                       "MG",
	"malawi":                           "MW",
	"malaysia":                         "MY",
	"maldives":                         "MV",
	"mali":                             "ML",
	"malta":                            "MT",
	"marshall islands":                 "MH",
	"mauritania":                       "MR",
	"mauritius":                        "MU",
	"mexico":                           "MX",
	"micronesia":                       "FM",
	"moldova":                          "MD",
	"monaco":                           "MC",
	"mongolia":                         "MN",
	"montenegro":                       "ME",
	"morocco":                          "MA",
	"mozambique":                       "MZ",
	"myanmar":                          "MM",
	"namibia":                          "NA",
	"nauru":                            "NR",
	"nepal":                            "NP",
	"netherlands":                      "NL",
	"new zealand":                      "NZ",
	"nicaragua":                        "NI",
	"niger":                            "NE",
	"nigeria":                          "NG",
	"north korea":                      "KP",
	"north macedonia":                  "MK",
	"norway":                           "NO",
	"oman":                             "OM",
	"pakistan":                         "PK",
	"palau":                            "PW",
	"palestine":                        "PS",
	"panama":                           "PA",
	"papua new guinea":                 "PG",
	"paraguay":                         "PY",
	"peru":                             "PE",
	"philippines":                      "PH",
	"poland":                           "PL",
	"portugal":                         "PT",
	"qatar":                            "QA",
	"romania":                          "RO",
	"russia":                           "RU",
	"russian federation":               "RU",
	"rwanda":                           "RW",
	"saint kitts and nevis":            "KN",
	"saint lucia":                      "LC",
	"samoa":                            "WS",
	"san marino":                       "SM",
	"saudi arabia":                     "SA",
	"senegal":                          "SN",
	"serbia":                           "RS",
	"seychelles":                       "SC",
	"sierra leone":                     "SL",
	"singapore":                        "SG",
	"slovakia":                         "SK",
	"slovenia":                         "SI",
	"solomon islands":                  "SB",
	"somalia":                          "SO",
	"south africa":                     "ZA",
	"south korea":                      "KR",
	"south sudan":                      "SS",
	"spain":                            "ES",
	"sri lanka":                        "LK",
	"sudan":                            "SD",
	"suriname":                         "SR",
	"sweden":                           "SE",
	"switzerland":                      "CH",
	"syria":                            "SY",
	"taiwan":                           "TW",
	"tajikistan":                       "TJ",
	"tanzania":                         "TZ",
	"thailand":                         "TH",
	"timor-leste":                      "TL",
	"togo":                             "TG",
	"tonga":                            "TO",
	"trinidad and tobago":              "TT",
	"tunisia":                          "TN",
	"turkey":                           "TR",
	"turkmenistan":                     "TM",
	"tuvalu":                           "TV",
	"uganda":                           "UG",
	"ukraine":                          "UA",
	"united arab emirates":             "AE",
	"united kingdom":                   "GB",
	"united states":                    "US",
	"united states of america":         "US",
	"uruguay":                          "UY",
	"uzbekistan":                       "UZ",
	"vanuatu":                          "VU",
	"vatican city":                     "VA",
	"venezuela":                        "VE",
	"vietnam":                          "VN",
	"yemen":                            "YE",
	"zambia":                           "ZM",
	"zimbabwe":                         "ZW",
}

// CountryAliases maps informal, abbreviated, or historical country spellings
// to ISO-3166 alpha-2 codes. Keys are lowercase with punctuation stripped.
// These are checked before the full-name table so the common import
// vocabulary (POS exports, handwritten origin columns) wins.
var CountryAliases = map[string]string{
	"usa":           "US",
	"us":            "US",
	"america":       "US",
	"united state":  "US",
	"uk":            "GB",
	"britain":       "GB",
	"great britain": "GB",
	"england":       "GB",
	"scotland":      "GB",
	"wales":         "GB",
	"bharat":        "IN",
	"hindustan":     "IN",
	"ksa":           "SA",
	"saudi":         "SA",
	"uae":           "AE",
	"emirates":      "AE",
	"deutschland":   "DE",
	"holland":       "NL",
	"burma":         "MM",
	"prc":           "CN",
	"roc":           "TW",
	"korea":         "KR",
	"swiss":         "CH",
	"turkiye":       "TR",
	"viet nam":      "VN",
	"drc":           "CD",
	"czech":         "CZ",
	"slovak":        "SK",
	"bosnia":        "BA",
	"macedonia":     "MK",
	"ceylon":        "LK",
	"persia":        "IR",
	"siam":          "TH",
	"eire":          "IE",
}

// ISOCodes is the set of valid ISO-3166 alpha-2 codes, derived from
// CountryNames. Used for direct code validation.
var ISOCodes = func() map[string]bool {
	set := make(map[string]bool, len(CountryNames))
	for _, code := range CountryNames {
		set[code] = true
	}
	return set
}()
