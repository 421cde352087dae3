package lifecycle

import (
	"errors"
	"fmt"

	"docport/internal/model"
)

// Reason names the guard that rejected an operation.
type Reason string

const (
	ReasonExpired    Reason = "expired"
	ReasonInvalidKey Reason = "invalid-key"
	ReasonWrongState Reason = "wrong-state"
	ReasonCancelled  Reason = "cancelled"
	ReasonTerminal   Reason = "terminal"
	ReasonWrongParty Reason = "wrong-party"

	ReasonSelfAddressed    Reason = "self-addressed"
	ReasonBadType          Reason = "bad-type"
	ReasonMissingRecipient Reason = "missing-recipient"
	ReasonUnknownRecipient Reason = "unknown-recipient"
	ReasonUnknownSender    Reason = "unknown-sender"
	ReasonMissingPayload   Reason = "missing-payload"
	ReasonMissingActor     Reason = "missing-actor"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrValidation      = errors.New("validation error")
	ErrPolicyViolation = errors.New("policy violation")
	ErrConflict        = errors.New("conflict")
	ErrCollaborator    = errors.New("collaborator failure")
	ErrOrphanedObject  = errors.New("orphaned object")
)

// ValidationError rejects malformed Create input before anything is mutated.
type ValidationError struct {
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Reason, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// PolicyViolation is a failed transition guard. Nothing was written.
type PolicyViolation struct {
	Action     model.Action
	DocumentID string
	Reason     Reason
}

func (e *PolicyViolation) Error() string {
	return fmt.Sprintf("policy violation: %s on document %s: %s", e.Action, e.DocumentID, e.Reason)
}

func (e *PolicyViolation) Is(target error) bool { return target == ErrPolicyViolation }

// ConflictError means the conditional status write kept losing to concurrent writers.
// The caller may re-fetch and retry.
type ConflictError struct {
	Action     model.Action
	DocumentID string
	Expected   model.Status
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s on document %s: status moved away from %s", e.Action, e.DocumentID, e.Expected)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// CollaboratorError wraps a failed call to the store or to object storage.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("collaborator failure: %s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

func (e *CollaboratorError) Is(target error) bool { return target == ErrCollaborator }

// OrphanedObjectError reports bytes that reached object storage under Key while
// the document record could not be registered. The object is left in place for
// reconciliation.
type OrphanedObjectError struct {
	Key string
	Err error
}

func (e *OrphanedObjectError) Error() string {
	return fmt.Sprintf("orphaned object %s: registration failed: %v", e.Key, e.Err)
}

func (e *OrphanedObjectError) Unwrap() error { return e.Err }

func (e *OrphanedObjectError) Is(target error) bool {
	return target == ErrOrphanedObject || target == ErrCollaborator
}

// AuditGapWarning is attached to a Result when the status write succeeded but
// the event could not be appended. It is never returned as an error.
type AuditGapWarning struct {
	Action     model.Action
	DocumentID string
	Err        error
}

func (w *AuditGapWarning) Error() string {
	return fmt.Sprintf("audit gap: %s on document %s not recorded: %v", w.Action, w.DocumentID, w.Err)
}

func (w *AuditGapWarning) Unwrap() error { return w.Err }

// ReasonOf extracts the guard reason from a validation or policy error.
func ReasonOf(err error) (Reason, bool) {
	var pv *PolicyViolation
	if errors.As(err, &pv) {
		return pv.Reason, true
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason, true
	}
	return "", false
}

func notFound(id string) error {
	return fmt.Errorf("document %s: %w", id, ErrNotFound)
}
