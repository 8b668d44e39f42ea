package status

//Status represents audio workflow status
type Status int

const (
	// NotStarted - audio waits for a transcriber to claim it
	NotStarted Status = iota + 1
	// InProgress - claimed by a transcriber
	InProgress
	// TranscriberVerified - transcript submitted, waits for control
	TranscriberVerified
	// ControllerVerified - final step
	ControllerVerified
	// Unsuitable - terminal absorbing state
	Unsuitable
)

var (
	statusName = map[Status]string{NotStarted: "not_started", InProgress: "in_progress",
		TranscriberVerified: "transcriber_verified", ControllerVerified: "controller_verified",
		Unsuitable: "unsuitable"}
	nameStatus = map[string]Status{"not_started": NotStarted, "in_progress": InProgress,
		"transcriber_verified": TranscriberVerified, "controller_verified": ControllerVerified,
		"unsuitable": Unsuitable}
)

func (st Status) String() string {
	return statusName[st]
}

// From returns status obj from string
func From(st string) Status {
	return nameStatus[st]
}

// AtLeastTranscribed returns true if audio passed the transcriber stage.
// Unsuitable counts - it is reachable only after a claim.
func AtLeastTranscribed(st Status) bool {
	return st == TranscriberVerified || st == ControllerVerified || st == Unsuitable
}
