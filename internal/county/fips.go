package county

// StateFIPS is the Indiana state FIPS prefix used to filter national
// boundary datasets down to the 92 counties handled here.
const StateFIPS = "18"

// fipsToName maps 5-digit county FIPS codes to canonical county names.
var fipsToName = map[string]string{
	"18001": "ADAMS", "18003": "ALLEN", "18005": "BARTHOLOMEW", "18007": "BENTON",
	"18009": "BLACKFORD", "18011": "BOONE", "18013": "BROWN", "18015": "CARROLL",
	"18017": "CASS", "18019": "CLARK", "18021": "CLAY", "18023": "CLINTON",
	"18025": "CRAWFORD", "18027": "DAVIESS", "18029": "DEARBORN", "18031": "DECATUR",
	"18033": "DEKALB", "18035": "DELAWARE", "18037": "DUBOIS", "18039": "ELKHART",
	"18041": "FAYETTE", "18043": "FLOYD", "18045": "FOUNTAIN", "18047": "FRANKLIN",
	"18049": "FULTON", "18051": "GIBSON", "18053": "GRANT", "18055": "GREENE",
	"18057": "HAMILTON", "18059": "HANCOCK", "18061": "HARRISON", "18063": "HENDRICKS",
	"18065": "HENRY", "18067": "HOWARD", "18069": "HUNTINGTON", "18071": "JACKSON",
	"18073": "JASPER", "18075": "JAY", "18077": "JEFFERSON", "18079": "JENNINGS",
	"18081": "JOHNSON", "18083": "KNOX", "18085": "KOSCIUSKO", "18087": "LAGRANGE",
	"18089": "LAKE", "18091": "LA_PORTE", "18093": "LAWRENCE", "18095": "MADISON",
	"18097": "MARION", "18099": "MARSHALL", "18101": "MARTIN", "18103": "MIAMI",
	"18105": "MONROE", "18107": "MONTGOMERY", "18109": "MORGAN", "18111": "NEWTON",
	"18113": "NOBLE", "18115": "OHIO", "18117": "ORANGE", "18119": "OWEN",
	"18121": "PARKE", "18123": "PERRY", "18125": "PIKE", "18127": "PORTER",
	"18129": "POSEY", "18131": "PULASKI", "18133": "PUTNAM", "18135": "RANDOLPH",
	"18137": "RIPLEY", "18139": "RUSH", "18141": "ST_JOSEPH", "18143": "SCOTT",
	"18145": "SHELBY", "18147": "SPENCER", "18149": "STARKE", "18151": "STEUBEN",
	"18153": "SULLIVAN", "18155": "SWITZERLAND", "18157": "TIPPECANOE", "18159": "TIPTON",
	"18161": "UNION", "18163": "VANDERBURGH", "18165": "VERMILLION", "18167": "VIGO",
	"18169": "WABASH", "18171": "WARREN", "18173": "WARRICK", "18175": "WASHINGTON",
	"18177": "WAYNE", "18179": "WELLS", "18181": "WHITE", "18183": "WHITLEY",
}

// fipsByName is the inverse of fipsToName, built at init.
var fipsByName = make(map[string]string, len(fipsToName))

func init() {
	for code, name := range fipsToName {
		fipsByName[name] = code
	}
}

// NameForFIPS returns the canonical county name for a 5-digit county
// FIPS code, or Unknown when the code is not an Indiana county.
func NameForFIPS(code string) string {
	if name, ok := fipsToName[code]; ok {
		return name
	}
	return Unknown
}

// FIPSForName returns the county FIPS code for a canonical name, or
// "" when the name is not recognized.
func FIPSForName(name string) string {
	return fipsByName[Normalize(name)]
}
