package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wxllspace/wxllspace-backend/internal/apperr"
)

const (
	draftKeyPrefix = "wizard:draft:"  // wizard:draft:{draft_id} -> State JSON
	ownerSetPrefix = "wizard:owner:"  // wizard:owner:{owner_id} -> set of draft ids
	lockKeyPrefix  = "wizard:submit:" // wizard:submit:{draft_id} held while submitting
	draftTTL       = 24 * time.Hour
	submitLockTTL  = 2 * time.Minute
)

var ErrDraftNotFound = apperr.New(apperr.KindNotFound, "wizard", "draft not found")

// DraftStore keeps wizard state in Redis between requests.
type DraftStore struct {
	client redis.UniversalClient
}

func NewDraftStore(client redis.UniversalClient) *DraftStore {
	return &DraftStore{client: client}
}

// Save writes the state and refreshes its expiry.
func (s *DraftStore) Save(ctx context.Context, st State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, draftKeyPrefix+st.ID, data, draftTTL)
	pipe.SAdd(ctx, ownerSetPrefix+st.OwnerID, st.ID)
	pipe.Expire(ctx, ownerSetPrefix+st.OwnerID, draftTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (s *DraftStore) Load(ctx context.Context, id string) (State, error) {
	data, err := s.client.Get(ctx, draftKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, ErrDraftNotFound
	}
	if err != nil {
		return State{}, fmt.Errorf("failed to load draft: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return st, nil
}

// ListByOwner returns the owner's open drafts. Ids whose draft expired are
// pruned from the owner set.
func (s *DraftStore) ListByOwner(ctx context.Context, ownerID string) ([]State, error) {
	ids, err := s.client.SMembers(ctx, ownerSetPrefix+ownerID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}

	out := make([]State, 0, len(ids))
	for _, id := range ids {
		st, err := s.Load(ctx, id)
		if errors.Is(err, ErrDraftNotFound) {
			s.client.SRem(ctx, ownerSetPrefix+ownerID, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func (s *DraftStore) Delete(ctx context.Context, st State) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, draftKeyPrefix+st.ID)
	pipe.SRem(ctx, ownerSetPrefix+st.OwnerID, st.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// Lock takes the submit lock for a draft. It returns false when another
// submission holds it.
func (s *DraftStore) Lock(ctx context.Context, id string) (bool, error) {
	ok, err := s.client.SetNX(ctx, lockKeyPrefix+id, "1", submitLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to lock draft: %w", err)
	}
	return ok, nil
}

func (s *DraftStore) Unlock(ctx context.Context, id string) error {
	return s.client.Del(ctx, lockKeyPrefix+id).Err()
}
