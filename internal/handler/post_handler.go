package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/inkwell-hq/inkwell/internal/apperrors"
	"github.com/inkwell-hq/inkwell/internal/middleware"
	"github.com/inkwell-hq/inkwell/internal/service"
	"github.com/inkwell-hq/inkwell/internal/storage"
	"github.com/inkwell-hq/inkwell/internal/utils"
)

// exportCleanupDelay is how long a generated CSV lingers on disk after
// the response has been streamed.
const exportCleanupDelay = 5 * time.Second

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// List handles GET /api/posts
func (h *PostHandler) List(c *gin.Context) {
	params := service.ListParams{
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 10),
		SortBy:   c.Query("sortBy"),
		Order:    c.Query("order"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	page, err := h.postService.List(params)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Respond(c, http.StatusOK, "posts retrieved successfully", page)
}

// Get handles GET /api/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, apperrors.Validation("invalid post id"))
		return
	}

	post, err := h.postService.GetByID(id)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Respond(c, http.StatusOK, "post retrieved successfully", gin.H{
		"post": post,
	})
}

// Create handles POST /api/posts (multipart form)
func (h *PostHandler) Create(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	in := service.CreateInput{
		Title:    c.PostForm("title"),
		Content:  c.PostForm("content"),
		Category: c.PostForm("category"),
	}
	if file, err := c.FormFile("thumbnail"); err == nil {
		in.Thumbnail = file
	}

	post, err := h.postService.Create(caller, in)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Respond(c, http.StatusCreated, "post created successfully", gin.H{
		"post": post,
	})
}

// Update handles PUT /api/posts/:id (partial multipart form). A form
// field being absent is different from it being empty: only provided
// fields touch the post.
func (h *PostHandler) Update(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, apperrors.Validation("invalid post id"))
		return
	}

	var patch service.PostPatch
	if v, ok := c.GetPostForm("title"); ok {
		patch.Title = &v
	}
	if v, ok := c.GetPostForm("content"); ok {
		patch.Content = &v
	}
	if v, ok := c.GetPostForm("category"); ok {
		patch.Category = &v
	}
	if file, err := c.FormFile("thumbnail"); err == nil {
		patch.Thumbnail = file
	}

	post, err := h.postService.Update(id, caller, patch)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Respond(c, http.StatusOK, "post updated successfully", gin.H{
		"post": post,
	})
}

// Delete handles DELETE /api/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, apperrors.Validation("invalid post id"))
		return
	}

	if err := h.postService.Delete(id, caller); err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Respond(c, http.StatusOK, "post deleted successfully", nil)
}

// Export handles GET /api/posts/export, streaming a CSV attachment. The
// temp file is removed shortly after the response completes.
func (h *PostHandler) Export(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	q := service.ExportQuery{
		Author:   c.Query("author"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		From:     c.Query("from"),
		To:       c.Query("to"),
	}

	path, name, err := h.postService.ExportCSV(caller, q)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	c.FileAttachment(path, name)
	storage.RemoveAfter(path, exportCleanupDelay)
}

func queryInt(c *gin.Context, key string, defaultVal int) int {
	valStr := c.Query(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}
