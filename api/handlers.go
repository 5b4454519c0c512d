package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cmorgan-dev/go-dict-engine/config"
	"github.com/cmorgan-dev/go-dict-engine/internal/history"
	"github.com/cmorgan-dev/go-dict-engine/internal/jobs"
	"github.com/cmorgan-dev/go-dict-engine/internal/session"
)

// API holds dependencies for API handlers: the search session (which owns
// the catalog), the background job manager and the history store.
type API struct {
	session  *session.Session
	jobs     *jobs.Manager
	history  *history.Store
	settings *config.Settings
}

// NewAPI creates a new API handler structure.
func NewAPI(sess *session.Session, jobManager *jobs.Manager, historyStore *history.Store, settings *config.Settings) *API {
	return &API{
		session:  sess,
		jobs:     jobManager,
		history:  historyStore,
		settings: settings,
	}
}

// SetupRoutes defines all the API routes for the dictionary engine.
func SetupRoutes(router *gin.Engine, api *API) {
	// Health check route
	router.GET("/health", api.HealthCheckHandler)

	// Library (catalog) routes
	libraryRoutes := router.Group("/library")
	{
		libraryRoutes.GET("", api.GetLibraryHandler)                 // Full profile tree
		libraryRoutes.POST("/refresh", api.RefreshLibraryHandler)    // Rescan roots (async with ?async=true)
		libraryRoutes.POST("/open", api.OpenProfileHandler)          // Open a profile as the main database
		libraryRoutes.GET("/current", api.GetCurrentProfileHandler)  // Currently open profile
		libraryRoutes.POST("/groups", api.CreateGroupHandler)        // Create a new union group
		libraryRoutes.POST("/groups/order", api.ReorderGroupHandler) // Move a group within the top level

		groupRoutes := libraryRoutes.Group("/groups/:groupId")
		{
			groupRoutes.POST("/rename", api.RenameGroupHandler)                              // Retitle a group
			groupRoutes.POST("/profiles/order", api.ReorderProfileHandler)                   // Move a leaf within a group
			groupRoutes.POST("/profiles/:profileId/disabled", api.SetProfileDisabledHandler) // Toggle a leaf
		}

		libraryRoutes.DELETE("/profiles/:profileId", api.RemoveProfileHandler) // Remove a group or leaf
		libraryRoutes.GET("/profiles/:profileId/icon", api.GetProfileIconHandler)
	}

	// Search routes (operate on the open main database)
	searchRoutes := router.Group("/search")
	{
		searchRoutes.POST("/incremental", api.IncrementalSearchHandler)
		searchRoutes.POST("/fulltext", api.FulltextSearchHandler)
		searchRoutes.POST("/find", api.FindIndexHandler)
		searchRoutes.GET("/results", api.GetResultKeyListHandler)
		searchRoutes.GET("/results/:indexNo", api.GetGroupIndexesHandler)
		searchRoutes.GET("/count", api.GetResultCountHandler)
	}

	// Entry content routes
	router.GET("/content/:profileId/:entryNo", api.GetEntryHTMLHandler)
	router.GET("/data/:profileId/*file", api.GetDataHandler)

	// History and favorites routes
	historyRoutes := router.Group("/history")
	{
		historyRoutes.GET("", api.ListHistoryHandler)
		historyRoutes.POST("", api.AddHistoryHandler)
		historyRoutes.DELETE("", api.ClearHistoryHandler)
		historyRoutes.DELETE("/:id", api.DeleteHistoryHandler)
	}
	favoriteRoutes := router.Group("/favorites")
	{
		favoriteRoutes.GET("", api.ListFavoritesHandler)
		favoriteRoutes.POST("", api.AddFavoriteHandler)
		favoriteRoutes.DELETE("/:id", api.DeleteFavoriteHandler)
	}

	// Job management routes
	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("", api.ListJobsHandler)
		jobRoutes.GET("/:jobId", api.GetJobHandler)
		jobRoutes.GET("/metrics", api.GetJobMetricsHandler)
	}
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "go-dict-engine",
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
	})
}
