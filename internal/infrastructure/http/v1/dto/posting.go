package dto

import "tradecore/internal/domain/posting"

// PostingResponse returns the refreshed document together with the posting
// outcome, including per-poster downstream results (AR, COGS, commission).
type PostingResponse struct {
	Document any             `json:"document"`
	Posting  *posting.Result `json:"posting,omitempty"`
}
