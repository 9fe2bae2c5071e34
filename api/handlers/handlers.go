package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"blogscope/dto"
	"blogscope/feeder"
	"blogscope/relay"
	"blogscope/repositories"
	"blogscope/services"
)

type addBlogRequest struct {
	URL string `json:"url" binding:"required"`
}

// AddBlogHandler tracks a new blog: analyzes its feed, classifies it and
// stores the record.
func AddBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addBlogRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
			return
		}

		blog, err := svc.Add(c.Request.Context(), req.URL)
		if err != nil {
			status := statusForError(err)
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, dto.NewBlogDetailDTO(*blog))
	}
}

// ListBlogsHandler lists tracked blogs with optional favorite filter,
// sorting and pagination.
func ListBlogsHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var opts repositories.ListBlogsOptions
		opts.FavoriteOnly = c.Query("favorite") == "true"
		opts.SortBy = c.DefaultQuery("sort", "added")
		opts.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
		opts.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

		blogs, err := svc.List(c.Request.Context(), opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		out := make([]dto.BlogDTO, 0, len(blogs))
		for _, b := range blogs {
			out = append(out, dto.NewBlogDTO(b))
		}
		c.JSON(http.StatusOK, out)
	}
}

// GetBlogHandler returns one tracked blog with its post list.
func GetBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		blog, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, dto.NewBlogDetailDTO(*blog))
	}
}

// DeleteBlogHandler removes a tracked blog.
func DeleteBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// RefreshBlogHandler re-analyzes one blog. A failed refresh leaves the
// stored record unchanged and reports the error.
func RefreshBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		blog, err := svc.Refresh(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, dto.NewBlogDetailDTO(*blog))
	}
}

// RefreshAllHandler refreshes every blog sequentially and reports
// per-blog outcomes.
func RefreshAllHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		outcomes, err := svc.RefreshAll(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": outcomes})
	}
}

// ToggleFavoriteHandler flips a blog's favorite flag.
func ToggleFavoriteHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		fav, err := svc.ToggleFavorite(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"is_favorite": fav})
	}
}

func statusForError(err error) int {
	var exhausted *relay.ExhaustedError
	switch {
	case errors.Is(err, services.ErrDuplicateBlog):
		return http.StatusConflict
	case errors.Is(err, feeder.ErrNotABlogFeed):
		return http.StatusUnprocessableEntity
	case errors.As(err, &exhausted):
		return http.StatusBadGateway
	case errors.Is(err, repositories.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
