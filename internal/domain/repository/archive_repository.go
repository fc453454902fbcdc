package repository

import (
	"context"

	"farewatch/internal/domain/entity"
)

// OfferArchive mirrors collected offers into long-term relational storage for
// ad-hoc querying. Writes are best-effort and happen after the file store has
// committed; an archive failure never affects the run.
type OfferArchive interface {
	ArchiveRun(ctx context.Context, timestamp string, offers []entity.Offer) error
}
