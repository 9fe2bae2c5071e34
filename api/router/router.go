package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blogscope/api/handlers"
	"blogscope/repositories"
	"blogscope/services"
)

func New(svc *services.BlogService, repo repositories.BlogRepository) *gin.Engine {
	r := gin.Default()

	// Health check
	r.GET("/health", func(c *gin.Context) {
		if err := repo.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "storage": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// v1 routes
	api := r.Group("/api/v1")
	{
		api.POST("/blogs", handlers.AddBlogHandler(svc))
		api.GET("/blogs", handlers.ListBlogsHandler(svc))
		api.POST("/blogs/refresh", handlers.RefreshAllHandler(svc))
		api.GET("/blogs/:id", handlers.GetBlogHandler(svc))
		api.DELETE("/blogs/:id", handlers.DeleteBlogHandler(svc))
		api.POST("/blogs/:id/refresh", handlers.RefreshBlogHandler(svc))
		api.POST("/blogs/:id/favorite", handlers.ToggleFavoriteHandler(svc))
	}

	return r
}
