// file: service/user_service.go

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"go-user-api/logger"
	"go-user-api/model"
	"go-user-api/repository"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// listPageSize is the fixed page size for user listings.
const listPageSize = 10

// UserService serves profile reads through a cache-aside path and keeps
// the cache consistent with the database on writes. The database commit is
// the durability boundary; the cache delete after it is a freshness hint.
type UserService struct {
	userRepo repository.IUserRepository
	cache    ICacheClient
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.IUserRepository, cache ICacheClient) *UserService {
	return &UserService{userRepo: userRepo, cache: cache}
}

// GetProfile returns the profile projection for a user, consulting the
// cache first. On a miss the profile is read from the database and written
// through; a cache failure on either side never fails the read.
func (s *UserService) GetProfile(ctx context.Context, userID int) (*model.UserProfile, error) {
	key := cacheKey(userID)

	cached, err := s.cache.Get(ctx, key).Result()
	if err == nil {
		var entry model.CachedProfile
		if jsonErr := json.Unmarshal([]byte(cached), &entry); jsonErr == nil &&
			entry.Version == model.CachedProfileVersion && entry.Profile != nil {
			return entry.Profile, nil
		}
		// An undecodable or old-version entry counts as a miss and gets
		// overwritten below.
		logger.Log.WithField("user_id", userID).Warn("Discarding unreadable cache entry")
	} else if err != redis.Nil {
		logger.Log.WithError(err).WithField("user_id", userID).Warn("Cache read failed, falling back to database")
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	profile := user.Profile()
	s.storeInCache(ctx, key, profile)
	return profile, nil
}

// UpdateProfile applies the non-nil fields of the patch, commits, and then
// deletes the cache entry. The delete runs after the commit and on its own
// context, so an abandoned request cannot leave a committed row with a
// stale cache entry behind. Entries are deleted, never updated in place.
func (s *UserService) UpdateProfile(ctx context.Context, userID int, patch model.UpdateUserRequest) (*model.UserProfile, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}

	if err := s.userRepo.UpdateProfile(user); err != nil {
		if errors.Is(err, repository.ErrDuplicatePhone) {
			return nil, ErrDuplicatePhone
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := s.cache.Del(context.Background(), cacheKey(userID)).Err(); err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Warn("Cache invalidation failed")
	}

	logger.Log.WithField("user_id", userID).Info("User profile updated")
	return user.Profile(), nil
}

// ListUsers returns one page of user profiles, skipping the given number
// of rows. The listing always reads the database directly.
func (s *UserService) ListUsers(offset int) ([]*model.UserProfile, error) {
	if offset < 0 {
		offset = 0
	}

	users, err := s.userRepo.List(offset, listPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	profiles := make([]*model.UserProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Profile())
	}
	return profiles, nil
}

// storeInCache writes a profile into the cache with no TTL. Freshness is
// maintained by explicit invalidation on writes, not by expiry.
func (s *UserService) storeInCache(ctx context.Context, key string, profile *model.UserProfile) {
	data, err := json.Marshal(model.CachedProfile{
		Version: model.CachedProfileVersion,
		Profile: profile,
	})
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, 0).Err(); err != nil {
		logger.Log.WithError(err).WithField("cache_key", key).Warn("Cache write failed")
	}
}

func cacheKey(userID int) string {
	return strconv.Itoa(userID)
}
