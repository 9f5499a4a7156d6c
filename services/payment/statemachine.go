package payment

import "studyspace/models"

// Outcome is what a gateway event says happened to a payment.
type Outcome string

const (
	OutcomeCompleted  Outcome = "completed"
	OutcomeFailed     Outcome = "failed"
	OutcomeAuthorized Outcome = "authorized"
)

// Decision classifies a (current status, outcome) pair.
type Decision int

const (
	// DecisionApply moves the transaction forward.
	DecisionApply Decision = iota
	// DecisionRedelivery repeats an outcome that is already recorded.
	DecisionRedelivery
	// DecisionStale is an out-of-order event that no longer matters.
	DecisionStale
	// DecisionIllegal would overwrite a different terminal state.
	DecisionIllegal
)

func (d Decision) String() string {
	switch d {
	case DecisionApply:
		return "apply"
	case DecisionRedelivery:
		return "redelivery"
	case DecisionStale:
		return "stale"
	default:
		return "illegal"
	}
}

// Transition is the row of the transition table for one (status, outcome) pair.
type Transition struct {
	Decision Decision
	// Next is the status to store; for authorized it equals the current status.
	Next models.TransactionStatus
	// SyncBooking tells whether the booking synchronizer runs afterwards.
	SyncBooking bool
}

// Writes reports whether the transaction document is updated.
func (t Transition) Writes() bool {
	return t.Decision == DecisionApply || t.Decision == DecisionRedelivery
}

type transitionKey struct {
	from    models.TransactionStatus
	outcome Outcome
}

var transitions = map[transitionKey]Transition{
	{models.TransactionPending, OutcomeCompleted}:  {DecisionApply, models.TransactionCompleted, true},
	{models.TransactionPending, OutcomeFailed}:     {DecisionApply, models.TransactionFailed, true},
	{models.TransactionPending, OutcomeAuthorized}: {DecisionApply, models.TransactionPending, false},

	// Redelivery re-runs the booking sync so a sync that failed after the
	// transaction write gets completed on the gateway's retry.
	{models.TransactionCompleted, OutcomeCompleted}: {DecisionRedelivery, models.TransactionCompleted, true},
	{models.TransactionFailed, OutcomeFailed}:       {DecisionRedelivery, models.TransactionFailed, true},

	{models.TransactionCompleted, OutcomeAuthorized}: {DecisionStale, models.TransactionCompleted, false},
	{models.TransactionFailed, OutcomeAuthorized}:    {DecisionStale, models.TransactionFailed, false},

	{models.TransactionCompleted, OutcomeFailed}: {DecisionIllegal, models.TransactionCompleted, false},
	{models.TransactionFailed, OutcomeCompleted}: {DecisionIllegal, models.TransactionFailed, false},
}

// Decide looks up the transition for the current status and outcome. Pairs not
// in the table, including anything from cancelled, are illegal.
func Decide(current models.TransactionStatus, outcome Outcome) Transition {
	if t, ok := transitions[transitionKey{current, outcome}]; ok {
		return t
	}
	return Transition{Decision: DecisionIllegal, Next: current}
}
