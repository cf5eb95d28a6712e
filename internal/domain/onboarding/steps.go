package onboarding

// Setup steps 1-7. Steps 1-3 gate activation; 4-6 only advance the
// progress counter. Step 7 is activation itself.
const (
	StepProfile      = 1
	StepIntegrations = 2
	StepServices     = 3
	StepInventory    = 4
	StepForms        = 5
	StepTeam         = 6
	StepActivated    = 7
)

type StepState struct {
	Completed bool `json:"completed"`
	Required  bool `json:"required"`
}

// Progress holds the live-computed view. Completed flags come from
// existence checks, not from the stored counter: the two can diverge
// (delete your only service and step 3 reads incomplete while the
// counter stays put). That split is intentional — the counter is a
// high-water progress mark, the flags are current state.
type Progress struct {
	CurrentStep int               `json:"current_step"`
	IsActive    bool              `json:"is_active"`
	ActivatedAt *string           `json:"activated_at"`
	Steps       map[int]StepState `json:"steps"`
}

// Advance returns the new high-water mark. Never regresses.
func Advance(current, completed int) int {
	if completed > current {
		return completed
	}
	return current
}
