package crud

import (
	"errors"

	"gorm.io/gorm"

	"chirp/domain"
	"chirp/errs"
)

// FollowService manages Follows.
// It implements the domain.FollowService interface.
type FollowService struct {
	followValidator
}

// followValidator runs validations on incoming Follow data.
// On success, it passes the data on to followGorm.
// Otherwise, it returns the error of the validation that has failed.
type followValidator struct {
	followGorm
}

// followGorm runs CRUD operations on the database using incoming Follow data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type followGorm struct {
	db *gorm.DB
}

// NewFollowService returns an instance of FollowService.
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{
		followValidator{
			followGorm{
				db: db,
			},
		},
	}
}

// Ensure the FollowService struct properly implements the domain.FollowService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.FollowService = &FollowService{}

// Toggle runs validations needed for flipping whether one user follows another.
func (fv *followValidator) Toggle(followerID, followedID int) (bool, error) {
	follow := &domain.Follow{FollowerID: followerID, FollowedID: followedID}
	err := runFollowValFns(follow,
		fv.followerIdValid,
		fv.followedIsNotFollower,
		fv.followedUserExists)
	if err != nil {
		return false, err
	}
	return fv.followGorm.Toggle(follow)
}

// runFollowValFns runs any number of functions of type followValFn on the passed in Follow object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runFollowValFns(follow *domain.Follow, fns ...followValFn) error {
	for _, fn := range fns {
		if err := fn(follow); err != nil {
			return err
		}
	}
	return nil
}

// A followValFn is any function that takes in a pointer to a domain.Follow object and returns an error.
type followValFn func(follow *domain.Follow) error

// followedIsNotFollower makes sure that users don't follow themselves.
func (fv *followValidator) followedIsNotFollower(follow *domain.Follow) error {
	if follow.FollowerID == follow.FollowedID {
		return errs.Errorf(errs.EINVALID, "You cannot follow yourself.")
	}
	return nil
}

// followedUserExists makes sure that the user to be followed actually exists.
func (fv *followValidator) followedUserExists(follow *domain.Follow) error {
	err := fv.db.First(&domain.User{}, "id = ?", follow.FollowedID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.Errorf(errs.ENOTFOUND, "The user to be followed does not exist.")
		} else {
			return err
		}
	}
	return nil
}

// followerIdValid ensures that the followerId is not empty.
func (fv *followValidator) followerIdValid(follow *domain.Follow) error {
	if follow.FollowerID <= 0 {
		return errs.Errorf(errs.EINVALID, "User ID is invalid.")
	}
	return nil
}

// Toggle flips the follow state: it connects the edge if it's absent and
// disconnects it if it's present. Same transactional shape as the like
// toggle, with the composite unique index on (follower_id, followed_id)
// as the backstop against racing toggles.
func (fg *followGorm) Toggle(follow *domain.Follow) (bool, error) {
	var following bool
	err := fg.db.Transaction(func(tx *gorm.DB) error {
		var existing domain.Follow
		err := tx.First(&existing, "follower_id = ? AND followed_id = ?", follow.FollowerID, follow.FollowedID).Error
		if err == nil {
			following = false
			return tx.Delete(&existing).Error
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		following = true
		if err := tx.Create(follow).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errs.Errorf(errs.ECONFLICT, "You already follow this user.")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return following, nil
}
