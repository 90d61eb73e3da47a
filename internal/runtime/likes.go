package runtime

import (
	"context"
	"slices"

	"github.com/aretw0/stylist/pkg/domain"
)

// ToggleLike flips the membership of id in the liked set and persists it.
// It returns whether id is liked after the toggle. IDs are not checked against the catalog.
func (s *Session) ToggleLike(ctx context.Context, id domain.OutfitID) (bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, domain.ErrSessionClosed
	}

	liked := true
	if i := slices.Index(s.liked, id); i >= 0 {
		s.liked = slices.Delete(s.liked, i, i+1)
		liked = false
	} else {
		s.liked = append(s.liked, id)
	}
	s.persistLiked(ctx)
	s.mu.Unlock()

	s.logger.Debug("outfit toggled", "session_id", s.id, "outfit_id", int(id), "liked", liked)
	if s.hooks.OnLikeToggle != nil {
		s.hooks.OnLikeToggle(ctx, &domain.LikeEvent{
			EventBase: s.base(domain.EventLikeToggle),
			OutfitID:  id,
			Liked:     liked,
		})
	}
	return liked, nil
}

// Liked returns the liked outfit IDs in insertion order.
func (s *Session) Liked() []domain.OutfitID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.likedCopy()
}

// IsLiked reports whether id is in the liked set.
func (s *Session) IsLiked(id domain.OutfitID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.liked, id)
}

func (s *Session) likedCopy() []domain.OutfitID {
	out := make([]domain.OutfitID, len(s.liked))
	copy(out, s.liked)
	return out
}
