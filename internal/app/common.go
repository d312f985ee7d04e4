package app

type ScoreReasonCode string

const (
	ReasonUrgency           ScoreReasonCode = "URGENCY"
	ReasonDeadlineProximity ScoreReasonCode = "DEADLINE_PROXIMITY"
	ReasonEffortFit         ScoreReasonCode = "EFFORT_FIT"
	ReasonEnergyFit         ScoreReasonCode = "ENERGY_FIT"
	ReasonFocusArea         ScoreReasonCode = "FOCUS_AREA"
	ReasonUnrecognizedValue ScoreReasonCode = "UNRECOGNIZED_VALUE"
)

type ScoreReason struct {
	Code        ScoreReasonCode `json:"code"`
	Message     string          `json:"message"`
	WeightDelta float64         `json:"weight_delta"`
}

type RejectionCode string

const (
	RejectBudgetExceeded RejectionCode = "BUDGET_EXCEEDED"
	RejectTaskCapReached RejectionCode = "TASK_CAP_REACHED"
)

type Rejection struct {
	TaskID  string        `json:"task_id"`
	Code    RejectionCode `json:"code"`
	Message string        `json:"message"`
}
