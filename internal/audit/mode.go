package audit

// Mode selects the action applied to every record of a run.
type Mode string

const (
	ModeStatus   Mode = "status"
	ModeRegister Mode = "register"
)

// Result labels and column headers.
const (
	ResultError      = "error"
	ResultInProgress = "in progress"
	ResultRegistered = "register"
	ResultDryRun     = "would register"

	LabelStatus   = "STATUS"
	LabelRegister = "REGISTER"
)

// ParseMode maps the CLI action argument to a Mode. Only the exact string
// "register" selects register mode; anything else, including an empty action
// or one with surrounding whitespace, is status mode.
func ParseMode(action string) Mode {
	if action == string(ModeRegister) {
		return ModeRegister
	}
	return ModeStatus
}

// Label returns the result column header for the mode.
func (m Mode) Label() string {
	if m == ModeRegister {
		return LabelRegister
	}
	return LabelStatus
}
