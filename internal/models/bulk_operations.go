package models

import (
	"strconv"
	"time"

	"assetdesk/internal/listing"

	"github.com/google/uuid"
)

// BulkDeleteRequest is the body of POST /v1/{kind}/bulk-delete.
type BulkDeleteRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,max=1000"`
}

// BulkOperationResult represents the result of a bulk operation
type BulkOperationResult struct {
	OperationID    string               `json:"operation_id"`
	Status         string               `json:"status"` // "completed", "partial" or "failed"
	TotalItems     int                  `json:"total_items"`
	ProcessedItems int                  `json:"processed_items"`
	FailedItems    int                  `json:"failed_items"`
	Message        string               `json:"message"`
	StartTime      time.Time            `json:"start_time"`
	CompletionTime time.Time            `json:"completion_time"`
	Errors         []BulkOperationError `json:"errors,omitempty"`
}

// BulkOperationError represents an error for a specific item in bulk operation
type BulkOperationError struct {
	ItemIndex int    `json:"item_index"`
	ItemID    string `json:"item_id"`
	Code      string `json:"code"`
	Error     string `json:"error"`
}

// NewBulkOperationResult summarises a listing.BulkResult for the API.
func NewBulkOperationResult(plural string, ids []int64, res listing.BulkResult, started time.Time) *BulkOperationResult {
	out := &BulkOperationResult{
		OperationID:    uuid.NewString(),
		TotalItems:     res.Total,
		ProcessedItems: res.Succeeded,
		FailedItems:    len(res.Failed),
		StartTime:      started.UTC(),
		CompletionTime: time.Now().UTC(),
	}
	switch {
	case res.Succeeded == res.Total:
		out.Status = "completed"
	case res.Succeeded == 0:
		out.Status = "failed"
	default:
		out.Status = "partial"
	}
	out.Message = "Deleted " + strconv.Itoa(res.Succeeded) + " of " + strconv.Itoa(res.Total) + " " + plural

	index := make(map[int64]int, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		index[ids[i]] = i
	}
	for _, f := range res.Failed {
		out.Errors = append(out.Errors, BulkOperationError{
			ItemIndex: index[f.ID],
			ItemID:    strconv.FormatInt(f.ID, 10),
			Code:      string(f.Failure),
			Error:     f.Error,
		})
	}
	return out
}
