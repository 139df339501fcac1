package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for session storage.
	DatabaseBackend string

	// SessionType represents the label given to a single run by the session model.
	SessionType string

	// WeekCharacter represents the label given to a training week by the week model.
	WeekCharacter string

	// RiskLevel represents the bucketed overload risk.
	RiskLevel string

	// LogFormat represents the handler used for structured logs.
	LogFormat string
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All session types produced by the session model.
const (
	EasySession      SessionType = "easy"
	EnduranceSession SessionType = "endurance"
	IntensitySession SessionType = "intensity"
)

// All week characters produced by the week model.
const (
	ControlledWeek WeekCharacter = "controlled"
	IntensiveWeek  WeekCharacter = "intensive"
	ShortWeek      WeekCharacter = "short"
	UnknownWeek    WeekCharacter = "unknown"
)

// All risk levels.
const (
	LowRisk      RiskLevel = "low"
	ModerateRisk RiskLevel = "moderate"
	HighRisk     RiskLevel = "high"
)

// All log formats supported.
const (
	TextLog LogFormat = "text" // default
	JSONLog LogFormat = "json"
)

// SessionLabels maps a session cluster id to its session type.
var SessionLabels = map[int]SessionType{
	0: IntensitySession,
	1: EasySession,
	2: EnduranceSession,
}

// WeekCharacters maps a week cluster id to its character.
var WeekCharacters = map[int]WeekCharacter{
	0: ControlledWeek,
	1: IntensiveWeek,
	2: ShortWeek,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	CSVOut:  {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidLogFormats lists all valid log formats.
var ValidLogFormats = map[LogFormat]struct{}{
	TextLog: {},
	JSONLog: {},
}

// CharacterOf returns the week character for a cluster id.
func CharacterOf(cluster int) WeekCharacter {
	if c, ok := WeekCharacters[cluster]; ok {
		return c
	}
	return UnknownWeek
}
