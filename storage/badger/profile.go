package badger

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/commatch/core"
	"github.com/poiesic/commatch/storage"
)

// ProfileRepository implements storage.ProfileRepository for BadgerDB.
type ProfileRepository struct {
	backend *Backend
}

var _ storage.ProfileRepository = (*ProfileRepository)(nil)

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(backend *Backend) (storage.ProfileRepository, error) {
	return &ProfileRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database lifecycle.
func (r *ProfileRepository) Close() error {
	return nil
}

// UpsertProfile inserts or replaces a profile. An existing version is
// archived to history before being overwritten; its CreatedAt carries over.
func (r *ProfileRepository) UpsertProfile(ctx context.Context, profile *core.Profile) (*core.Profile, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeProfileKey(profile.Id)

		old, err := r.readProfile(tx, key)
		if err != nil {
			return err
		}

		// Truncate to the serialization precision so the returned profile
		// equals its stored form.
		now := time.Now().UTC().Truncate(time.Microsecond)
		if old != nil {
			entry := &core.HistoryEntry{
				Id:         core.HistoryID(old.Id, old.Field, old.Seeking, old.Offering, now),
				UserId:     old.Id,
				Field:      old.Field,
				Seeking:    old.Seeking,
				Offering:   old.Offering,
				Keywords:   old.Keywords,
				ArchivedAt: now,
			}
			historyKey := makeHistoryKey(old.Id, now)
			if err := tx.Set(historyKey, storage.MarshalHistoryEntry(entry)); err != nil {
				return err
			}
			profile.CreatedAt = old.CreatedAt
		} else if profile.CreatedAt.IsZero() {
			profile.CreatedAt = now
		}
		profile.UpdatedAt = now

		if err := tx.Set(key, storage.MarshalProfile(profile)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return profile, err
}

// GetProfile retrieves a profile by user id.
func (r *ProfileRepository) GetProfile(ctx context.Context, id core.UserID) (*core.Profile, error) {
	var result *core.Profile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readProfile(tx, makeProfileKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// FindByKeywords scans active profiles for case-insensitive substring
// matches of the first storage.MaxSearchKeywords keywords.
func (r *ProfileRepository) FindByKeywords(ctx context.Context, keywords []string, exclude core.UserID, limit int) ([]*core.Profile, error) {
	if len(keywords) == 0 {
		return nil, nil
	}
	if len(keywords) > storage.MaxSearchKeywords {
		keywords = keywords[:storage.MaxSearchKeywords]
	}
	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}

	matches, err := r.scanProfiles(func(p *core.Profile) bool {
		if !p.Active || p.Id == exclude {
			return false
		}
		haystack := strings.ToLower(p.Field + "\n" + p.Seeking + "\n" + p.Offering)
		for _, kw := range lowered {
			if strings.Contains(haystack, kw) {
				return true
			}
		}
		return false
	})
	if err != nil {
		return nil, err
	}

	sortByUpdatedDesc(matches)
	return capProfiles(matches, limit), nil
}

// AllActiveProfiles returns active profiles except the excluded user.
func (r *ProfileRepository) AllActiveProfiles(ctx context.Context, exclude core.UserID, limit int) ([]*core.Profile, error) {
	matches, err := r.scanProfiles(func(p *core.Profile) bool {
		return p.Active && p.Id != exclude
	})
	if err != nil {
		return nil, err
	}

	sortByUpdatedDesc(matches)
	return capProfiles(matches, limit), nil
}

// ProfileHistory returns archived profile versions, most recent first.
func (r *ProfileRepository) ProfileHistory(ctx context.Context, id core.UserID) ([]*core.HistoryEntry, error) {
	var entries []*core.HistoryEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialHistoryKey(id)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry *core.HistoryEntry
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalHistoryEntry(val)
				return err
			}); err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Keys sort by archive time ascending; callers want newest first.
	slices.Reverse(entries)
	return entries, nil
}

// DeleteProfile removes a profile and all of its archived versions.
func (r *ProfileRepository) DeleteProfile(ctx context.Context, id core.UserID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeProfileKey(id)

		profile, err := r.readProfile(tx, key)
		if err != nil {
			return err
		}
		if profile == nil {
			return storage.ErrNotFound
		}

		// Collect history keys first; deleting while iterating is unsafe.
		var historyKeys [][]byte
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialHistoryKey(id)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			historyKeys = append(historyKeys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, hk := range historyKeys {
			if err := tx.Delete(hk); err != nil {
				return err
			}
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Helper methods

// readProfile reads a profile from the transaction. Missing keys yield
// (nil, nil).
func (r *ProfileRepository) readProfile(tx *badger.Txn, key []byte) (*core.Profile, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var profile *core.Profile
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		profile, unmarshalErr = storage.UnmarshalProfile(val)
		return unmarshalErr
	})
	return profile, err
}

// scanProfiles iterates all profile records and returns those accepted by
// the filter.
func (r *ProfileRepository) scanProfiles(accept func(*core.Profile) bool) ([]*core.Profile, error) {
	var results []*core.Profile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(profilePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var profile *core.Profile
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				profile, err = storage.UnmarshalProfile(val)
				return err
			}); err != nil {
				return err
			}
			if profile != nil && accept(profile) {
				results = append(results, profile)
			}
		}
		return nil
	}, false)
	return results, err
}

func sortByUpdatedDesc(profiles []*core.Profile) {
	slices.SortFunc(profiles, func(a, b *core.Profile) int {
		if a.UpdatedAt.After(b.UpdatedAt) {
			return -1
		}
		if a.UpdatedAt.Before(b.UpdatedAt) {
			return 1
		}
		return 0
	})
}

func capProfiles(profiles []*core.Profile, limit int) []*core.Profile {
	if limit > 0 && len(profiles) > limit {
		return profiles[:limit]
	}
	return profiles
}
