package crud

import (
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"chirp/domain"
	"chirp/errs"
)

// TweetService manages Tweets and produces the paginated feeds.
// It implements the domain.TweetService interface.
type TweetService struct {
	tweetValidator
}

// tweetValidator runs validations on incoming Tweet data and feed parameters.
// On success, it passes the data on to tweetGorm.
// Otherwise, it returns the error of the validation that has failed.
type tweetValidator struct {
	tweetGorm
}

// tweetGorm runs queries on the database using incoming Tweet data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type tweetGorm struct {
	db *gorm.DB
}

// NewTweetService returns an instance of TweetService.
func NewTweetService(db *gorm.DB) *TweetService {
	return &TweetService{
		tweetValidator{
			tweetGorm{
				db: db,
			},
		},
	}
}

// Ensure the TweetService struct properly implements the domain.TweetService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.TweetService = &TweetService{}

// Create runs validations needed for creating new Tweet database records.
func (tv *tweetValidator) Create(tweet *domain.Tweet) error {
	err := runTweetValFns(tweet,
		tv.userIdValid,
		tv.contentMinLength,
		tv.contentMaxLength)
	if err != nil {
		return err
	}
	return tv.tweetGorm.Create(tweet)
}

// Feed validates the page parameters before handing the query to tweetGorm.
// A limit outside [1, MaxFeedLimit] is rejected up front, before any store
// access. The following-only filter needs a known viewer.
func (tv *tweetValidator) Feed(filter domain.FeedFilter, cursor *domain.Cursor, limit, viewerID int) (*domain.FeedPage, error) {
	if limit < 1 || limit > domain.MaxFeedLimit {
		return nil, errs.Errorf(errs.EINVALID, "Limit must be between 1 and %d.", domain.MaxFeedLimit)
	}
	if filter.OnlyFollowing && viewerID <= 0 {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "You must be logged in to view your following feed.")
	}
	return tv.tweetGorm.Feed(filter, cursor, limit, viewerID)
}

// runTweetValFns runs any number of functions of type tweetValFn on the passed in Tweet object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runTweetValFns(tweet *domain.Tweet, fns ...tweetValFn) error {
	for _, fn := range fns {
		if err := fn(tweet); err != nil {
			return err
		}
	}
	return nil
}

// A tweetValFn is any function that takes in a pointer to a domain.Tweet object and returns an error.
type tweetValFn = func(tweet *domain.Tweet) error

// contentMinLength makes sure that the Tweet's content is not empty.
func (tv *tweetValidator) contentMinLength(tweet *domain.Tweet) error {
	contentStripped := strings.ReplaceAll(tweet.Content, " ", "")
	if contentStripped == "" {
		return errs.Errorf(errs.EINVALID, "Tweet content must not be empty.")
	}
	return nil
}

// contentMaxLength makes sure that the Tweet's content does not exceed the maximum content length.
func (tv *tweetValidator) contentMaxLength(tweet *domain.Tweet) error {
	if utf8.RuneCountInString(tweet.Content) > 280 {
		return errs.Errorf(errs.EINVALID, "Tweet content max length is 280 characters.")
	}
	return nil
}

// userIdValid ensures that the userId is not empty.
func (tv *tweetValidator) userIdValid(tweet *domain.Tweet) error {
	if tweet.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "User ID is invalid.")
	}
	return nil
}

// ByID retrieves a single Tweet by ID, along with its author.
func (tg *tweetGorm) ByID(id int) (*domain.Tweet, error) {
	var tweet domain.Tweet
	err := tg.db.
		Preload("User").
		First(&tweet, "id = ?", id).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.Errorf(errs.ENOTFOUND, "The tweet does not exist.")
		} else {
			return nil, err
		}
	}
	return &tweet, nil
}

// Feed returns one page of tweets matching the filter, newest first, using
// keyset pagination on (created_at, id) rather than row offsets. That keeps
// the page-fetch cost independent of how deep the feed has been paged, and
// the pages stable under concurrent inserts.
//
// It fetches limit+1 rows: the overflow row only signals that another page
// exists. The cursor handed back is the last row actually returned, and the
// next page resumes strictly after it. The row-value comparison doesn't care
// whether the anchor row still exists, so cursors survive deletions.
func (tg *tweetGorm) Feed(filter domain.FeedFilter, cursor *domain.Cursor, limit, viewerID int) (*domain.FeedPage, error) {
	query := tg.db.
		Model(&domain.Tweet{}).
		Preload("User").
		Order("tweets.created_at DESC, tweets.id DESC").
		Limit(limit + 1)
	if filter.OnlyFollowing {
		query = query.
			Joins("JOIN follows ON follows.followed_id = tweets.user_id").
			Where("follows.follower_id = ?", viewerID)
	} else if filter.AuthorID > 0 {
		query = query.Where("tweets.user_id = ?", filter.AuthorID)
	}
	if cursor != nil {
		query = query.Where("(tweets.created_at, tweets.id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []domain.Tweet
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	var nextCursor *domain.Cursor
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[limit-1]
		nextCursor = &domain.Cursor{
			ID:        last.ID,
			CreatedAt: last.CreatedAt,
		}
	}

	tweets, err := tg.project(rows, viewerID)
	if err != nil {
		return nil, err
	}
	return &domain.FeedPage{
		Tweets:     tweets,
		NextCursor: nextCursor,
	}, nil
}

// project shapes raw tweet rows into view records annotated for the viewer.
// Like counts come from a single grouped aggregate over the page's tweet IDs.
// The isLiked lookup only ever fetches the viewer's own like rows, never a
// tweet's full like list, and is skipped entirely for anonymous viewers.
func (tg *tweetGorm) project(rows []domain.Tweet, viewerID int) ([]domain.TweetView, error) {
	tweets := make([]domain.TweetView, 0, len(rows))
	if len(rows) == 0 {
		return tweets, nil
	}

	ids := make([]int, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	type likeCount struct {
		TweetID int
		Count   int
	}
	var counts []likeCount
	err := tg.db.
		Model(&domain.Like{}).
		Select("tweet_id, COUNT(*) AS count").
		Where("tweet_id IN ?", ids).
		Group("tweet_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	countByID := make(map[int]int, len(counts))
	for _, c := range counts {
		countByID[c.TweetID] = c.Count
	}

	likedByID := make(map[int]bool)
	if viewerID > 0 {
		var likedIDs []int
		err := tg.db.
			Model(&domain.Like{}).
			Where("user_id = ? AND tweet_id IN ?", viewerID, ids).
			Pluck("tweet_id", &likedIDs).Error
		if err != nil {
			return nil, err
		}
		for _, id := range likedIDs {
			likedByID[id] = true
		}
	}

	for _, row := range rows {
		tweets = append(tweets, domain.TweetView{
			ID:        row.ID,
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
			LikeCount: countByID[row.ID],
			IsLiked:   likedByID[row.ID],
			User: domain.UserSummary{
				ID:    row.User.ID,
				Name:  row.User.Name,
				Image: row.User.Image,
			},
		})
	}
	return tweets, nil
}

// Create stores the data from the Tweet object in a new database record.
// On success it preloads the author, so the created tweet can be rendered
// (and prepended to cached feed pages) without a second round trip.
func (tg *tweetGorm) Create(tweet *domain.Tweet) error {
	if err := tg.db.Create(tweet).Error; err != nil {
		return err
	}
	if err := tg.db.Preload("User").First(tweet, "id = ?", tweet.ID).Error; err != nil {
		return err
	}
	return nil
}
