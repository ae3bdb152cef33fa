package crud

import (
	"errors"

	"gorm.io/gorm"

	"chirp/domain"
	"chirp/errs"
)

// LikeService manages Likes.
// It implements the domain.LikeService interface.
type LikeService struct {
	likeValidator
}

// likeValidator runs validations on incoming Like data.
// On success, it passes the data on to likeGorm.
// Otherwise, it returns the error of the validation that has failed.
type likeValidator struct {
	likeGorm
}

// likeGorm runs CRUD operations on the database using incoming Like data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type likeGorm struct {
	db *gorm.DB
}

// NewLikeService returns an instance of LikeService.
func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{
		likeValidator{
			likeGorm{
				db: db,
			},
		},
	}
}

// Ensure the LikeService struct properly implements the domain.LikeService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.LikeService = &LikeService{}

// Toggle runs validations needed for flipping the like state of a (user, tweet) pair.
func (lv *likeValidator) Toggle(userID, tweetID int) (bool, int, error) {
	like := &domain.Like{UserID: userID, TweetID: tweetID}
	err := runLikeValFns(like,
		lv.userIdValid,
		lv.likedTweetExists)
	if err != nil {
		return false, 0, err
	}
	return lv.likeGorm.Toggle(like)
}

// runLikeValFns runs any number of functions of type likeValFn on the passed in Like object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runLikeValFns(like *domain.Like, fns ...likeValFn) error {
	for _, fn := range fns {
		if err := fn(like); err != nil {
			return err
		}
	}
	return nil
}

// A likeValFn is any function that takes in a pointer to a domain.Like object and returns an error.
type likeValFn func(like *domain.Like) error

// likedTweetExists makes sure that the tweet to be liked actually exists.
func (lv *likeValidator) likedTweetExists(like *domain.Like) error {
	err := lv.db.First(&domain.Tweet{}, "id = ?", like.TweetID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.Errorf(errs.ENOTFOUND, "The liked tweet does not exist.")
		} else {
			return err
		}
	}
	return nil
}

// userIdValid ensures that the userId is not empty.
func (lv *likeValidator) userIdValid(like *domain.Like) error {
	if like.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "User ID is invalid.")
	}
	return nil
}

// Toggle flips the like state: if no Like row exists for the pair, one is
// created, otherwise the existing row is deleted. The existence check and the
// write run in one transaction; the composite unique index on
// (user_id, tweet_id) is the backstop if two toggles race past the check,
// in which case the loser surfaces a conflict instead of a second row.
func (lg *likeGorm) Toggle(like *domain.Like) (bool, int, error) {
	var liked bool
	err := lg.db.Transaction(func(tx *gorm.DB) error {
		var existing domain.Like
		err := tx.First(&existing, "user_id = ? AND tweet_id = ?", like.UserID, like.TweetID).Error
		if err == nil {
			liked = false
			return tx.Delete(&existing).Error
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		liked = true
		if err := tx.Create(like).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errs.Errorf(errs.ECONFLICT, "You already like that tweet.")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return false, 0, err
	}

	count, err := lg.CountByTweet(like.TweetID)
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

// CountByTweet returns the total number of likes of a tweet.
func (lg *likeGorm) CountByTweet(tweetID int) (int, error) {
	var count int64
	err := lg.db.Model(&domain.Like{}).Where("tweet_id = ?", tweetID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
