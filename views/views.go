// Package views remembers the dashboard tab each user had open last.
package views

import (
	"context"
	"errors"
	"fmt"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/redis/go-redis/v9"
)

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func key(userID int) string {
	return fmt.Sprintf("views:active:%d", userID)
}

// Active returns the stored tab, or the actor's default tab when nothing is stored
// or the stored tab is no longer allowed (for example after a judge type change).
func (s *Store) Active(ctx context.Context, actor domain.Actor) (domain.View, error) {
	allowed := domain.ViewsFor(actor.Role, actor.JudgeType)
	if len(allowed) == 0 {
		return "", domain.Forbiddenf("no views available for %s", actor.Role)
	}

	stored, err := s.rdb.Get(ctx, key(actor.UserID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		logging.Log.Errorf("VIEWS: failed to read active view for %d: %v", actor.UserID, err)
		return "", err
	}
	v := domain.View(stored)
	if stored == "" || !domain.CanOpenView(actor.Role, actor.JudgeType, v) {
		return allowed[0], nil
	}
	return v, nil
}

func (s *Store) SetActive(ctx context.Context, actor domain.Actor, v domain.View) error {
	if !domain.CanOpenView(actor.Role, actor.JudgeType, v) {
		return domain.Forbiddenf("view %s is not available to %s", v, actor.Role)
	}
	if err := s.rdb.Set(ctx, key(actor.UserID), string(v), 0).Err(); err != nil {
		logging.Log.Errorf("VIEWS: failed to store active view for %d: %v", actor.UserID, err)
		return err
	}
	return nil
}
