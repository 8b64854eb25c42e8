package usecase

import "context"

// CommunityMaintainer is the slice of the community service that background
// workers depend on.
type CommunityMaintainer interface {
	// PurgeExpired removes posts older than the retention window and returns
	// how many were deleted.
	PurgeExpired(ctx context.Context) (int64, error)
}
