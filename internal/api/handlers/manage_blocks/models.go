package manage_blocks

import (
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// CreateBlockRequest HTTP request model
type CreateBlockRequest struct {
	AdminID int64   `json:"adminId"`
	StartAt string  `json:"startAt"` // RFC3339
	EndAt   string  `json:"endAt"`   // RFC3339
	Note    *string `json:"note,omitempty"`
}

// BlockResponse HTTP response model
type BlockResponse struct {
	ID        int64   `json:"id"`
	StartAt   string  `json:"startAt"`
	EndAt     string  `json:"endAt"`
	IsActive  bool    `json:"isActive"`
	Note      *string `json:"note,omitempty"`
	CreatedBy *int64  `json:"createdBy,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

// FromDomainBlock конвертирует domain.BlockedRange в BlockResponse
func FromDomainBlock(b *domain.BlockedRange) *BlockResponse {
	return &BlockResponse{
		ID:        b.ID,
		StartAt:   b.StartAt.Format(time.RFC3339),
		EndAt:     b.EndAt.Format(time.RFC3339),
		IsActive:  b.IsActive,
		Note:      b.Note,
		CreatedBy: b.CreatedBy,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
}

// FromDomainBlockList конвертирует список блокировок
func FromDomainBlockList(blocks []*domain.BlockedRange) []*BlockResponse {
	result := make([]*BlockResponse, len(blocks))
	for i, b := range blocks {
		result[i] = FromDomainBlock(b)
	}
	return result
}
