package bridge

// Role identifies the capability set granted to an account.
type Role string

const (
	RoleDeveloper  Role = "developer"
	RoleResearcher Role = "researcher"
	RoleAdmin      Role = "admin"
)

// Built-in activity event identifiers materialized by the server at
// participant creation.
const (
	EventEnrollment     = "enrollment"
	EventCreatedOn      = "created_on"
	EventStudyStartDate = "study_start_date"
)

// CustomEventPrefix is the namespace prefix under which custom and
// automatic events are surfaced.
const CustomEventPrefix = "custom:"

// App is the tenant-level configuration ("app config" in the UI sense is a
// separate resource, see AppConfig). ActivityEventKeys declares the custom
// event identifiers participants may submit; AutomaticCustomEvents maps an
// event key to a recipe of the form "<anchor-event>:P<duration>".
type App struct {
	Identifier            string            `json:"identifier"`
	Name                  string            `json:"name,omitempty"`
	ActivityEventKeys     []string          `json:"activityEventKeys"`
	AutomaticCustomEvents map[string]string `json:"automaticCustomEvents"`
	Version               int64             `json:"version"`
}

// Study describes the study a signed-in account belongs to.
type Study struct {
	Identifier string   `json:"identifier"`
	Name       string   `json:"name,omitempty"`
	DataGroups []string `json:"dataGroups"`
	Version    int64    `json:"version"`
}

// StudyParticipant is an account's participant record.
type StudyParticipant struct {
	ID         string   `json:"id"`
	Email      string   `json:"email,omitempty"`
	Roles      []Role   `json:"roles,omitempty"`
	DataGroups []string `json:"dataGroups"`
	CreatedOn  DateTime `json:"createdOn"`
	Consented  bool     `json:"consented"`
}

// ActivityEvent is a named, timestamped milestone on a participant's
// timeline.
type ActivityEvent struct {
	EventID   string   `json:"eventId"`
	Timestamp DateTime `json:"timestamp"`
}

// ActivityEventList is the paged response wrapper for activity events.
type ActivityEventList struct {
	Items []ActivityEvent `json:"items"`
}

// CustomActivityEventRequest submits or overwrites a custom event. The
// timestamp must originate in UTC for round-trip equality to hold.
type CustomActivityEventRequest struct {
	EventKey  string   `json:"eventKey"`
	Timestamp DateTime `json:"timestamp"`
}

// SchemaReference points an AppConfig at an upload schema revision.
type SchemaReference struct {
	ID       string `json:"id"`
	Revision int64  `json:"revision"`
}

// SurveyReference points an AppConfig at a published survey.
type SurveyReference struct {
	GUID       string   `json:"guid"`
	Identifier string   `json:"identifier,omitempty"`
	CreatedOn  DateTime `json:"createdOn"`
}

// Criteria gates AppConfig selection against a participant's data groups.
// NoneOfGroups carries no omitempty tag: a nil slice marshals as null,
// which the server treats as "no exclusion", and the null/empty distinction
// is preserved on the wire.
type Criteria struct {
	AllOfGroups  []string `json:"allOfGroups,omitempty"`
	NoneOfGroups []string `json:"noneOfGroups"`
}

// Matches reports whether a participant with the given data groups
// satisfies the criteria: the participant's set must be disjoint from
// NoneOfGroups, and nil means no exclusion.
func (c *Criteria) Matches(dataGroups []string) bool {
	if c == nil || len(c.NoneOfGroups) == 0 {
		return true
	}
	excluded := make(map[string]struct{}, len(c.NoneOfGroups))
	for _, g := range c.NoneOfGroups {
		excluded[g] = struct{}{}
	}
	for _, g := range dataGroups {
		if _, ok := excluded[g]; ok {
			return false
		}
	}
	return true
}

// AppConfig is a selectable bundle of schema and survey references plus an
// opaque clientData payload, gated by Criteria.
type AppConfig struct {
	GUID             string            `json:"guid,omitempty"`
	Label            string            `json:"label,omitempty"`
	Criteria         *Criteria         `json:"criteria,omitempty"`
	SchemaReferences []SchemaReference `json:"schemaReferences"`
	SurveyReferences []SurveyReference `json:"surveyReferences"`
	ClientData       any               `json:"clientData,omitempty"`
	Version          int64             `json:"version,omitempty"`
}

// AppConfigList is the list response wrapper for app configs.
type AppConfigList struct {
	Items []AppConfig `json:"items"`
}

// GuidVersionHolder is the create/update response for versioned resources.
type GuidVersionHolder struct {
	GUID    string `json:"guid"`
	Version int64  `json:"version"`
}

// SignIn carries sign-in credentials.
type SignIn struct {
	AppID    string `json:"appId"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp is the admin-side account creation request. Consent marks the new
// account as consented, which triggers enrollment-anchored event
// materialization server-side.
type SignUp struct {
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Roles      []Role   `json:"roles,omitempty"`
	Consent    bool     `json:"consent"`
	DataGroups []string `json:"dataGroups,omitempty"`
}

// UserSessionInfo is returned by sign-in and account creation.
type UserSessionInfo struct {
	ID            string   `json:"id"`
	Email         string   `json:"email"`
	SessionToken  string   `json:"sessionToken,omitempty"`
	Authenticated bool     `json:"authenticated"`
	Consented     bool     `json:"consented"`
	Roles         []Role   `json:"roles,omitempty"`
	DataGroups    []string `json:"dataGroups,omitempty"`
}
