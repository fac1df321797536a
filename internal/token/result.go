package token

// ResultStatus is the outcome category of one interaction.
type ResultStatus string

const (
	// StatusSuccess: the action executed; Data carries the outcome and
	// WitnessID references the captured trace (empty if capture was off).
	StatusSuccess ResultStatus = "success"

	// StatusFailure: validation failed or the handler errored. Message
	// explains why. Failures are values, never propagated exceptions.
	StatusFailure ResultStatus = "failure"

	// StatusNotAvailable: the requested action does not exist on the token
	// or is disabled for this observer. No side effects occurred.
	StatusNotAvailable ResultStatus = "not_available"
)

// InteractionResult is the structured outcome of on-interact. Callers
// inspect and render it; the core never panics out of an interaction.
type InteractionResult struct {
	Status    ResultStatus `json:"status"`
	Data      Object       `json:"data,omitempty"`
	Message   string       `json:"message,omitempty"`
	WitnessID string       `json:"witness_id,omitempty"`
}

// Success builds a success result carrying outcome data and the witness ID.
func Success(data Object, witnessID string) InteractionResult {
	return InteractionResult{Status: StatusSuccess, Data: data, WitnessID: witnessID}
}

// Failure builds a failure result with an explanatory message.
func Failure(message string) InteractionResult {
	return InteractionResult{Status: StatusFailure, Message: message}
}

// NotAvailable builds a no-side-effect result for an absent or disabled action.
func NotAvailable(message string) InteractionResult {
	return InteractionResult{Status: StatusNotAvailable, Message: message}
}

// OK reports whether the interaction succeeded.
func (r InteractionResult) OK() bool {
	return r.Status == StatusSuccess
}

// ToMap converts the result to a plain key/value structure.
func (r InteractionResult) ToMap() map[string]any {
	m := map[string]any{"status": string(r.Status)}
	if r.Data != nil {
		m["data"] = ToAny(r.Data)
	}
	if r.Message != "" {
		m["message"] = r.Message
	}
	if r.WitnessID != "" {
		m["witness_id"] = r.WitnessID
	}
	return m
}
