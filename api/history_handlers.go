package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cmorgan-dev/go-dict-engine/model"
)

// HistoryRequest records one lookup or favorite.
type HistoryRequest struct {
	Keyword     string          `json:"keyword" binding:"required"`
	ProfileID   model.ProfileID `json:"profile_id"`
	ProfileName string          `json:"profile_name"`
}

// ListHistoryHandler returns lookup history, newest first.
func (api *API) ListHistoryHandler(c *gin.Context) {
	limit, ok := intQuery(c, "limit", 100)
	if !ok {
		return
	}
	entries, err := api.history.ListHistory(limit)
	if err != nil {
		SendInternalError(c, "history listing", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

// AddHistoryHandler records a lookup.
func (api *API) AddHistoryHandler(c *gin.Context) {
	var req HistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	entry, err := api.history.AddHistory(req.Keyword, req.ProfileID, req.ProfileName)
	if err != nil {
		SendInternalError(c, "history insertion", err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// DeleteHistoryHandler removes one history entry.
func (api *API) DeleteHistoryHandler(c *gin.Context) {
	id := c.Param("id")
	removed, err := api.history.DeleteHistory(id)
	if err != nil {
		SendInternalError(c, "history deletion", err)
		return
	}
	if !removed {
		SendError(c, http.StatusNotFound, ErrorCodeNotFound, "History entry '"+id+"' not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "History entry deleted", "id": id})
}

// ClearHistoryHandler removes all history entries.
func (api *API) ClearHistoryHandler(c *gin.Context) {
	if err := api.history.ClearHistory(); err != nil {
		SendInternalError(c, "history clearing", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "History cleared"})
}

// ListFavoritesHandler returns favorites, newest first.
func (api *API) ListFavoritesHandler(c *gin.Context) {
	limit, ok := intQuery(c, "limit", 100)
	if !ok {
		return
	}
	entries, err := api.history.ListFavorites(limit)
	if err != nil {
		SendInternalError(c, "favorites listing", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

// AddFavoriteHandler saves a keyword as a favorite. Re-adding an existing
// keyword refreshes its timestamp.
func (api *API) AddFavoriteHandler(c *gin.Context) {
	var req HistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	entry, err := api.history.AddFavorite(req.Keyword, req.ProfileID, req.ProfileName)
	if err != nil {
		SendInternalError(c, "favorite insertion", err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// DeleteFavoriteHandler removes one favorite.
func (api *API) DeleteFavoriteHandler(c *gin.Context) {
	id := c.Param("id")
	removed, err := api.history.DeleteFavorite(id)
	if err != nil {
		SendInternalError(c, "favorite deletion", err)
		return
	}
	if !removed {
		SendError(c, http.StatusNotFound, ErrorCodeNotFound, "Favorite '"+id+"' not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Favorite deleted", "id": id})
}
