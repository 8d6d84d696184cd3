package service

import (
	"encoding/csv"
	"fmt"
	"mime/multipart"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inkwell-hq/inkwell/internal/apperrors"
	"github.com/inkwell-hq/inkwell/internal/cache"
	"github.com/inkwell-hq/inkwell/internal/events"
	"github.com/inkwell-hq/inkwell/internal/models"
	"github.com/inkwell-hq/inkwell/internal/repository"
	"github.com/inkwell-hq/inkwell/internal/storage"
	"github.com/inkwell-hq/inkwell/pkg/logger"
	"go.uber.org/zap"
)

// sortFields maps API sort names to database columns. Anything else
// falls back to creation time.
var sortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
}

type PostService struct {
	posts *repository.PostRepository
	cache *cache.Cache
	bus   events.Bus
	files *storage.FileStore
}

func NewPostService(posts *repository.PostRepository, postCache *cache.Cache, bus events.Bus, files *storage.FileStore) *PostService {
	return &PostService{
		posts: posts,
		cache: postCache,
		bus:   bus,
		files: files,
	}
}

// ListParams are the raw list query inputs before normalization.
type ListParams struct {
	Page     int
	Limit    int
	SortBy   string
	Order    string
	Category string
	Search   string
}

// PostPage is a cached unit: one page of posts plus its metadata.
type PostPage struct {
	Posts      []models.Post `json:"posts"`
	Pagination Pagination    `json:"pagination"`
}

// List serves a page of posts cache-aside: the cache is consulted under
// a key derived from the normalized parameter tuple, and misses populate
// it with a 5-minute expiry.
func (s *PostService) List(params ListParams) (*PostPage, error) {
	page, limit := normalizePage(params.Page, params.Limit)

	sortField, ok := sortFields[params.SortBy]
	if !ok {
		sortField = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(params.Order, "asc") {
		order = "ASC"
	}

	key := cache.ListKey(page, limit, sortField, params.Category, params.Search)

	var cached PostPage
	if s.cache.GetJSON(key, &cached) {
		return &cached, nil
	}

	posts, total, err := s.posts.List(
		repository.PostFilter{Category: params.Category, Search: params.Search},
		page, limit, sortField, order,
	)
	if err != nil {
		logger.Log.Error("Failed to list posts", zap.Error(err))
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}

	result := &PostPage{
		Posts:      posts,
		Pagination: paginate(page, limit, total),
	}

	s.cache.SetJSON(key, result, cache.ListTTL)

	return result, nil
}

// GetByID serves a single post cache-aside with a 10-minute expiry.
func (s *PostService) GetByID(id uuid.UUID) (*models.Post, error) {
	key := cache.DetailKey(id.String())

	var cached models.Post
	if s.cache.GetJSON(key, &cached) {
		return &cached, nil
	}

	post, err := s.posts.GetByID(id)
	if err != nil {
		logger.Log.Error("Failed to load post",
			zap.String("post_id", id.String()),
			zap.Error(err),
		)
		return nil, err
	}
	if post == nil {
		return nil, apperrors.ErrPostNotFound
	}

	s.cache.SetJSON(key, post, cache.DetailTTL)

	return post, nil
}

// CreateInput carries the multipart form fields for a new post.
type CreateInput struct {
	Title     string
	Content   string
	Category  string
	Thumbnail *multipart.FileHeader
}

// Create persists a post for the authenticated author, emits the
// creation event, and clears every cached list page. The detail cache is
// untouched: the new id was never cached.
func (s *PostService) Create(author *models.User, in CreateInput) (*models.Post, error) {
	if err := validatePostFields(in.Title, in.Content, in.Category, true); err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:       uuid.New(),
		Title:    strings.TrimSpace(in.Title),
		Content:  in.Content,
		Category: models.Category(in.Category),
		AuthorID: author.ID,
	}

	if in.Thumbnail != nil {
		path, err := s.files.SaveThumbnail(in.Thumbnail)
		if err != nil {
			logger.Log.Error("Failed to store thumbnail", zap.Error(err))
			return nil, apperrors.Validation("could not store thumbnail: " + err.Error())
		}
		post.Thumbnail = &path
	}

	if err := s.posts.Create(post); err != nil {
		logger.Log.Error("Failed to create post",
			zap.String("author_id", author.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	post.Author = models.Author{ID: author.ID, Username: author.Username}

	s.publish(events.NewPostEvent(events.PostCreated, post))
	s.cache.DeleteByPrefix(cache.ListKeyPrefix)

	logger.Log.Info("Post created",
		zap.String("post_id", post.ID.String()),
		zap.String("author", author.Username),
		zap.String("category", string(post.Category)),
	)

	return post, nil
}

// PostPatch applies provided fields only; a nil field means "leave as
// is", which keeps partial multipart updates honest.
type PostPatch struct {
	Title     *string
	Content   *string
	Category  *string
	Thumbnail *multipart.FileHeader
}

// Update mutates a post owned by caller and invalidates both the list
// pages and the detail entry for this id.
func (s *PostService) Update(postID uuid.UUID, caller *models.User, patch PostPatch) (*models.Post, error) {
	post, err := s.posts.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperrors.ErrPostNotFound
	}
	if post.AuthorID != caller.ID {
		return nil, apperrors.ErrNotPostAuthor
	}

	fields := map[string]interface{}{}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" || len(title) > 200 {
			return nil, apperrors.Validation("title must be 1-200 characters")
		}
		fields["title"] = title
	}
	if patch.Content != nil {
		if *patch.Content == "" {
			return nil, apperrors.Validation("content cannot be empty")
		}
		fields["content"] = *patch.Content
	}
	if patch.Category != nil {
		if !models.ValidCategory(*patch.Category) {
			return nil, apperrors.Validation("invalid category")
		}
		fields["category"] = *patch.Category
	}
	if patch.Thumbnail != nil {
		if post.Thumbnail != nil {
			s.files.Remove(*post.Thumbnail)
		}
		path, err := s.files.SaveThumbnail(patch.Thumbnail)
		if err != nil {
			logger.Log.Error("Failed to store thumbnail", zap.Error(err))
			return nil, apperrors.Validation("could not store thumbnail: " + err.Error())
		}
		fields["thumbnail"] = path
	}

	if len(fields) == 0 {
		return post, nil
	}

	updated, err := s.posts.UpdateFields(postID, fields)
	if err != nil {
		logger.Log.Error("Failed to update post",
			zap.String("post_id", postID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.publish(events.NewPostEvent(events.PostUpdated, updated))
	s.cache.DeleteByPrefix(cache.ListKeyPrefix)
	s.cache.Delete(cache.DetailKey(postID.String()))

	return updated, nil
}

// Delete removes a post owned by caller along with its thumbnail file,
// emits the deletion event, and invalidates list and detail caches.
func (s *PostService) Delete(postID uuid.UUID, caller *models.User) error {
	post, err := s.posts.GetByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return apperrors.ErrPostNotFound
	}
	if post.AuthorID != caller.ID {
		return apperrors.ErrNotPostAuthor
	}

	if post.Thumbnail != nil {
		s.files.Remove(*post.Thumbnail)
	}

	if err := s.posts.Delete(postID); err != nil {
		logger.Log.Error("Failed to delete post",
			zap.String("post_id", postID.String()),
			zap.Error(err),
		)
		return err
	}

	s.publish(events.NewPostEvent(events.PostDeleted, post))
	s.cache.DeleteByPrefix(cache.ListKeyPrefix)
	s.cache.Delete(cache.DetailKey(postID.String()))

	logger.Log.Info("Post deleted",
		zap.String("post_id", postID.String()),
		zap.String("author", caller.Username),
	)

	return nil
}

// ExportQuery are the raw export filters from the query string. Dates
// are inclusive bounds in YYYY-MM-DD form.
type ExportQuery struct {
	Author   string
	Category string
	Search   string
	From     string
	To       string
}

// csvCleaner keeps multi-line content on a single CSV row.
var csvCleaner = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", ",", ";")

// ExportCSV writes the matching posts to a temporary CSV file and
// returns its path and download name. Non-admin callers are always
// restricted to their own posts, whatever filters they request.
func (s *PostService) ExportCSV(caller *models.User, q ExportQuery) (string, string, error) {
	filter := repository.ExportFilter{
		Category: q.Category,
		Search:   q.Search,
	}

	if caller.Role != models.RoleAdmin {
		id := caller.ID
		filter.AuthorID = &id
	} else if q.Author != "" {
		id, err := uuid.Parse(q.Author)
		if err != nil {
			return "", "", apperrors.Validation("invalid author id")
		}
		filter.AuthorID = &id
	}

	if q.From != "" {
		from, err := time.Parse("2006-01-02", q.From)
		if err != nil {
			return "", "", apperrors.Validation("invalid from date, expected YYYY-MM-DD")
		}
		filter.From = &from
	}
	if q.To != "" {
		to, err := time.Parse("2006-01-02", q.To)
		if err != nil {
			return "", "", apperrors.Validation("invalid to date, expected YYYY-MM-DD")
		}
		// Inclusive upper bound: cover the whole day.
		end := to.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}

	posts, err := s.posts.FindForExport(filter)
	if err != nil {
		logger.Log.Error("Failed to query posts for export", zap.Error(err))
		return "", "", err
	}
	if len(posts) == 0 {
		return "", "", apperrors.NotFound("no posts match the export filters")
	}

	fileName := fmt.Sprintf("posts_export_%d.csv", time.Now().Unix())
	path := s.files.TempFile(fileName)

	f, err := os.Create(path)
	if err != nil {
		logger.Log.Error("Failed to create export file", zap.Error(err))
		return "", "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"id", "title", "content", "category",
		"author_username", "author_fullname", "author_email",
		"thumbnail", "created_at", "updated_at",
	}); err != nil {
		return "", "", err
	}

	for _, post := range posts {
		thumbnail := ""
		if post.Thumbnail != nil {
			thumbnail = *post.Thumbnail
		}

		record := []string{
			post.ID.String(),
			post.Title,
			csvCleaner.Replace(post.Content),
			string(post.Category),
			post.Author.Username,
			post.Author.FullName,
			post.Author.Email,
			thumbnail,
			post.CreatedAt.Format(time.RFC3339),
			post.UpdatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return "", "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", "", err
	}

	logger.Log.Info("CSV export generated",
		zap.String("caller", caller.Username),
		zap.Int("rows", len(posts)),
	)

	return path, fileName, nil
}

// publish emits an event without letting bus failures reach the caller;
// side effects must never fail the request.
func (s *PostService) publish(ev events.PostEvent) {
	if err := s.bus.Publish(ev); err != nil {
		logger.Log.Error("Failed to publish post event",
			zap.String("kind", string(ev.Kind)),
			zap.String("post_id", ev.PostID.String()),
			zap.Error(err),
		)
	}
}

func validatePostFields(title, content, category string, required bool) error {
	title = strings.TrimSpace(title)
	if required && title == "" {
		return apperrors.Validation("title is required")
	}
	if len(title) > 200 {
		return apperrors.Validation("title must be at most 200 characters")
	}
	if required && content == "" {
		return apperrors.Validation("content is required")
	}
	if required && category == "" {
		return apperrors.Validation("category is required")
	}
	if category != "" && !models.ValidCategory(category) {
		return apperrors.Validation("invalid category")
	}
	return nil
}
