package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cmorgan-dev/go-dict-engine/model"
)

// GetEntryHTMLHandler renders one entry's HTML body, routed to the owning
// open dictionary.
func (api *API) GetEntryHTMLHandler(c *gin.Context) {
	profileID, ok := profileIDParam(c, "profileId")
	if !ok {
		return
	}
	entryNo, err := strconv.ParseInt(c.Param("entryNo"), 10, 64)
	if err != nil {
		result := &ValidationResult{Valid: true}
		result.AddError("entryNo", "must be an integer entry number")
		SendStructuredValidationError(c, result)
		return
	}

	html, err := api.session.EntryHTML(model.IndexRecord{
		ProfileID: profileID,
		EntryNo:   entryNo,
	})
	if err != nil {
		SendDomainError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// GetDataHandler serves an embedded dictionary resource (images, styles,
// pronunciation audio) referenced from entry HTML.
func (api *API) GetDataHandler(c *gin.Context) {
	profileID, ok := profileIDParam(c, "profileId")
	if !ok {
		return
	}
	file := strings.TrimPrefix(c.Param("file"), "/")

	data, mimeType, err := api.session.Data(profileID, file)
	if err != nil {
		SendDomainError(c, err)
		return
	}
	if data == nil {
		SendError(c, http.StatusNotFound, ErrorCodeNotFound, "Resource '"+file+"' not found")
		return
	}
	c.Data(http.StatusOK, mimeType, data)
}
