package v1

import (
	ef_uuid "github.com/expenseflow/backend/internal/uuid"
)

type URIID struct {
	ID ef_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

// Pagination contains information about the pagination for collection endpoint responses.
type Pagination struct {
	Count  int   `json:"count"`  // The amount of records returned in this response
	Offset uint  `json:"offset"` // The offset for the first record returned
	Limit  int   `json:"limit"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total"`  // The total number of resources matching the query
}

// DecisionRequest is the request body for the verify and approve
// endpoints of claims and allocations.
type DecisionRequest struct {
	Approved *bool  `json:"approved" binding:"required" example:"true"` // Whether the stage approves or rejects
	Notes    string `json:"notes" example:"insufficient docs"`          // Notes for the decision, stored as rejection reason on rejection
}
