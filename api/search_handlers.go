package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SearchRequest carries the query for incremental and full-text searches.
type SearchRequest struct {
	Query string `json:"query"`
}

// IncrementalSearchHandler runs a prefix/partial search against the open
// database. Single mode responds with the anchor position in the
// dictionary's key index and the total entry count; group mode rebuilds the
// merged result cache and responds with its length. No match yields
// start_index -1 and count 0.
func (api *API) IncrementalSearchHandler(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if result := ValidateQuery(req.Query); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	start, total, err := api.session.IncrementalSearch(req.Query, api.settings.PerLibLimit)
	if err != nil {
		SendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"start_index": start,
		"count":       total,
	})
}

// FulltextSearchHandler searches entry bodies and replaces the result cache
// with the hits.
func (api *API) FulltextSearchHandler(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if result := ValidateQuery(req.Query); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	count, err := api.session.FulltextSearch(req.Query, api.settings.FulltextLimit)
	if err != nil {
		SendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// FindIndexRequest carries the key for an exact lookup.
type FindIndexRequest struct {
	Key string `json:"key"`
}

// FindIndexHandler looks up a key in every open dictionary without
// disturbing the result cache.
func (api *API) FindIndexHandler(c *gin.Context) {
	var req FindIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if result := ValidateQuery(req.Key); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	groups, err := api.session.FindIndex(req.Key)
	if err != nil {
		SendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups, "count": len(groups)})
}

// GetResultKeyListHandler pages the current results as (key, count) pairs.
// Query parameters: start (default 0) and max (default 50).
func (api *API) GetResultKeyListHandler(c *gin.Context) {
	start, ok := intQuery(c, "start", 0)
	if !ok {
		return
	}
	maxCount, ok := intQuery(c, "max", 50)
	if !ok {
		return
	}

	keys, err := api.session.ResultKeyList(int64(start), maxCount)
	if err != nil {
		SendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"keys": keys, "count": len(keys)})
}

// GetGroupIndexesHandler returns the per-dictionary breakdown of one result
// row.
func (api *API) GetGroupIndexesHandler(c *gin.Context) {
	indexNo, ok := intPathParam(c, "indexNo")
	if !ok {
		return
	}

	groups, err := api.session.GroupIndexes(indexNo)
	if err != nil {
		SendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups, "count": len(groups)})
}

// GetResultCountHandler returns the size of the current result set.
func (api *API) GetResultCountHandler(c *gin.Context) {
	count, err := api.session.EntryCount()
	if err != nil {
		SendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
