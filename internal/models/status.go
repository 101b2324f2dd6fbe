package models

// ApprovalStatus is the outcome of an approval stage.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "PENDING"
	StatusApproved ApprovalStatus = "APPROVED"
	StatusRejected ApprovalStatus = "REJECTED"
)

// outcome returns the status for the boolean approval decision of a
// verify or approve call.
func outcome(approved bool) ApprovalStatus {
	if approved {
		return StatusApproved
	}
	return StatusRejected
}
