package roles

//Role represents user role in the workflow
type Role int

const (
	// Admin manages audio records and reads reports
	Admin Role = iota + 1
	// Transcriber claims audio and submits transcripts
	Transcriber
	// Controller reviews submitted transcripts
	Controller
)

var (
	roleName = map[Role]string{Admin: "admin", Transcriber: "transcriber", Controller: "controller"}
	nameRole = map[string]Role{"admin": Admin, "transcriber": Transcriber, "controller": Controller}
)

func (r Role) String() string {
	return roleName[r]
}

// From returns role obj from string, zero value for unknown
func From(s string) Role {
	return nameRole[s]
}

// Allowed is a set membership check
func Allowed(r Role, allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
