package match

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/poiesic/commatch/core"
	"github.com/poiesic/commatch/storage"
)

// fakeStore is a map-backed storage.ProfileRepository with injectable
// failures. Tests for the retrieval path need to fail individual store
// operations, which the real badger repository cannot do.
type fakeStore struct {
	profiles map[core.UserID]*core.Profile

	findErr error
	allErr  error
	getErr  error

	lastKeywords []string
}

var _ storage.ProfileRepository = (*fakeStore)(nil)

func newFakeStore(profiles ...*core.Profile) *fakeStore {
	s := &fakeStore{profiles: make(map[core.UserID]*core.Profile)}
	for _, p := range profiles {
		s.profiles[p.Id] = p
	}
	return s
}

func (s *fakeStore) UpsertProfile(_ context.Context, profile *core.Profile) (*core.Profile, error) {
	s.profiles[profile.Id] = profile
	return profile, nil
}

func (s *fakeStore) GetProfile(_ context.Context, id core.UserID) (*core.Profile, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	p, ok := s.profiles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return p, nil
}

func (s *fakeStore) FindByKeywords(_ context.Context, keywords []string, exclude core.UserID, limit int) ([]*core.Profile, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if len(keywords) > storage.MaxSearchKeywords {
		keywords = keywords[:storage.MaxSearchKeywords]
	}
	s.lastKeywords = keywords
	var out []*core.Profile
	for _, p := range s.profiles {
		if !p.Active || p.Id == exclude {
			continue
		}
		text := strings.ToLower(p.Field + "\n" + p.Seeking + "\n" + p.Offering)
		for _, kw := range keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				out = append(out, p)
				break
			}
		}
	}
	sortByUpdated(out)
	return capped(out, limit), nil
}

func (s *fakeStore) AllActiveProfiles(_ context.Context, exclude core.UserID, limit int) ([]*core.Profile, error) {
	if s.allErr != nil {
		return nil, s.allErr
	}
	var out []*core.Profile
	for _, p := range s.profiles {
		if p.Active && p.Id != exclude {
			out = append(out, p)
		}
	}
	sortByUpdated(out)
	return capped(out, limit), nil
}

func (s *fakeStore) ProfileHistory(_ context.Context, _ core.UserID) ([]*core.HistoryEntry, error) {
	return nil, nil
}

func (s *fakeStore) DeleteProfile(_ context.Context, id core.UserID) error {
	if _, ok := s.profiles[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.profiles, id)
	return nil
}

func (s *fakeStore) Close() error { return nil }

func sortByUpdated(profiles []*core.Profile) {
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].UpdatedAt.Equal(profiles[j].UpdatedAt) {
			return profiles[i].Id < profiles[j].Id
		}
		return profiles[i].UpdatedAt.After(profiles[j].UpdatedAt)
	})
}

func capped(profiles []*core.Profile, limit int) []*core.Profile {
	if limit > 0 && len(profiles) > limit {
		return profiles[:limit]
	}
	return profiles
}

func memberProfile(id core.UserID, field, seeking, offering string, keywords ...string) *core.Profile {
	return &core.Profile{
		Id:       id,
		Username: fmt.Sprintf("user%d", id),
		Field:    field,
		Seeking:  seeking,
		Offering: offering,
		Keywords: keywords,
		Active:   true,
	}
}
