package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// ErrSelfFollow rejects following oneself.
var ErrSelfFollow = apperrors.NewDomainError("SELF_FOLLOW", "you cannot follow yourself", http.StatusBadRequest, nil)

// UserService coordinates the user directory and the follow graph.
type UserService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
	tx      repository.Transactor
	logger  *zap.Logger
}

// UserDependencies bundles repositories for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	FollowRepo repository.FollowRepository
	Transactor repository.Transactor
	Logger     *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: deps.UserRepo, follows: deps.FollowRepo, tx: deps.Transactor, logger: logger}
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Followers lists followers of userID; pending requests only when asked.
func (s *UserService) Followers(ctx context.Context, userID int64, includeNotConfirmed bool) ([]domain.Follower, error) {
	return s.follows.ListFollowers(ctx, userID, includeNotConfirmed)
}

// Follow creates an unconfirmed follow request from followerID to followingID.
func (s *UserService) Follow(ctx context.Context, followerID, followingID int64) error {
	if followerID == followingID {
		return ErrSelfFollow
	}
	if _, err := s.users.GetByID(ctx, followingID); err != nil {
		return notFound(err, "user")
	}
	return s.follows.Create(ctx, followerID, followingID)
}

// ConfirmFollow accepts followerID's request to follow me and updates both
// counters in one transaction. Confirming twice is a no-op.
func (s *UserService) ConfirmFollow(ctx context.Context, followerID, me int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		edge, err := s.follows.Get(ctx, followerID, me)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("follow request", nil)
			}
			return err
		}
		if edge.IsConfirmed {
			return nil
		}
		if err := s.follows.Confirm(ctx, edge.ID); err != nil {
			return err
		}
		if err := s.users.IncrementFollowerCount(ctx, me, 1); err != nil {
			return err
		}
		return s.users.IncrementFollowingCount(ctx, followerID, 1)
	})
}

// Unfollow removes the edge from me to followingID. Counters move only
// when the edge had been confirmed.
func (s *UserService) Unfollow(ctx context.Context, me, followingID int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		edge, err := s.follows.Get(ctx, me, followingID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("follow", nil)
			}
			return err
		}
		if _, err := s.follows.Delete(ctx, me, followingID); err != nil {
			return err
		}
		if !edge.IsConfirmed {
			return nil
		}
		if err := s.users.IncrementFollowerCount(ctx, followingID, -1); err != nil {
			return err
		}
		if err := s.users.IncrementFollowingCount(ctx, me, -1); err != nil {
			return err
		}
		s.logger.Debug("follow removed", zap.Int64("follower_id", me), zap.Int64("following_id", followingID))
		return nil
	})
}
