package storage

import (
	"context"

	"github.com/poiesic/commatch/core"
)

// MaxSearchKeywords bounds how many of a profile's keywords participate in
// one keyword search. Keywords are frequency-ranked, so the first ones
// carry the most signal.
const MaxSearchKeywords = 5

// ProfileRepository provides operations for managing member profiles and
// their archived history.
// Implementations must be thread-safe and support concurrent access.
type ProfileRepository interface {
	// UpsertProfile inserts or replaces the profile for profile.Id.
	// When a profile already exists, its previous version is archived to
	// history, CreatedAt is preserved, and UpdatedAt is set to now.
	// Returns the stored profile with timestamps populated.
	UpsertProfile(ctx context.Context, profile *core.Profile) (*core.Profile, error)

	// GetProfile retrieves a profile by user id.
	// Returns ErrNotFound if the profile doesn't exist.
	GetProfile(ctx context.Context, id core.UserID) (*core.Profile, error)

	// FindByKeywords returns active profiles whose answers contain at least
	// one of the given keywords as a case-insensitive substring. At most the
	// first MaxSearchKeywords keywords are considered. The excluded user is
	// never returned. Results are ordered by UpdatedAt descending and capped
	// at limit (non-positive limit means no cap).
	FindByKeywords(ctx context.Context, keywords []string, exclude core.UserID, limit int) ([]*core.Profile, error)

	// AllActiveProfiles returns all active profiles except the excluded
	// user, ordered by UpdatedAt descending and capped at limit
	// (non-positive limit means no cap).
	AllActiveProfiles(ctx context.Context, exclude core.UserID, limit int) ([]*core.Profile, error)

	// ProfileHistory returns the archived versions of a user's profile,
	// most recently archived first. A user with no archived versions yields
	// an empty result, not an error.
	ProfileHistory(ctx context.Context, id core.UserID) ([]*core.HistoryEntry, error)

	// DeleteProfile removes a profile together with all of its history.
	// Returns ErrNotFound if no profile exists for the id.
	DeleteProfile(ctx context.Context, id core.UserID) error

	// Close closes the storage backend and releases resources.
	Close() error
}
