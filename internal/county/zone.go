package county

// Zone is an Indiana State Plane zone.
type Zone int

const (
	ZoneWest Zone = iota
	ZoneEast
)

// State Plane zone EPSG codes (NAD83, US survey feet).
const (
	EastEPSG = 2965
	WestEPSG = 2966
)

// eastCounties is the fixed State Plane East membership set. Any name
// outside this set, including unrecognized names, is West. That
// default is intentional fallback behavior and must not change.
var eastCounties = map[string]struct{}{
	"ADAMS": {}, "ALLEN": {}, "BARTHOLOMEW": {}, "BLACKFORD": {}, "BROWN": {},
	"CASS": {}, "CLARK": {}, "DEKALB": {}, "DEARBORN": {}, "DECATUR": {},
	"DELAWARE": {}, "ELKHART": {}, "FAYETTE": {}, "FLOYD": {}, "FRANKLIN": {},
	"FULTON": {}, "GRANT": {}, "HAMILTON": {}, "HANCOCK": {}, "HARRISON": {},
	"HENRY": {}, "HOWARD": {}, "HUNTINGTON": {}, "JACKSON": {}, "JAY": {},
	"JEFFERSON": {}, "JENNINGS": {}, "JOHNSON": {}, "KOSCIUSKO": {}, "LAGRANGE": {},
	"MADISON": {}, "MARION": {}, "MARSHALL": {}, "MIAMI": {}, "NOBLE": {},
	"OHIO": {}, "RANDOLPH": {}, "RIPLEY": {}, "RUSH": {}, "SCOTT": {},
	"SHELBY": {}, "ST_JOSEPH": {}, "STEUBEN": {}, "SWITZERLAND": {}, "TIPTON": {},
	"UNION": {}, "WABASH": {}, "WASHINGTON": {}, "WAYNE": {}, "WELLS": {},
	"WHITLEY": {},
}

// ZoneFor returns the State Plane zone for a county name. Total
// function: unknown names resolve to West.
func ZoneFor(name string) Zone {
	if _, ok := eastCounties[Normalize(name)]; ok {
		return ZoneEast
	}
	return ZoneWest
}

// EPSG returns the zone's CRS code.
func (z Zone) EPSG() int {
	if z == ZoneEast {
		return EastEPSG
	}
	return WestEPSG
}

// String returns the zone display name used in output column names.
func (z Zone) String() string {
	if z == ZoneEast {
		return "East"
	}
	return "West"
}
