package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cmorgan-dev/go-dict-engine/internal/catalog"
	"github.com/cmorgan-dev/go-dict-engine/model"
)

// GetLibraryHandler returns the full profile tree with derived flags.
func (api *API) GetLibraryHandler(c *gin.Context) {
	activeID := api.session.CurrentProfileID()

	var views []ProfileView
	err := api.session.ReadCatalog(func(m *catalog.Manager) error {
		views = newLibraryView(m.Groups(), activeID)
		return nil
	})
	if err != nil {
		SendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": views, "count": len(views)})
}

// RefreshLibraryHandler rescans the configured library roots and merges the
// result into every group. With ?async=true the scan runs as a background
// job and the response carries its id.
func (api *API) RefreshLibraryHandler(c *gin.Context) {
	roots := api.settings.LibraryRoots

	refresh := func(m *catalog.Manager) error {
		if err := m.RefreshLibrary(roots); err != nil {
			return err
		}
		return m.Save()
	}

	if c.Query("async") == "true" {
		jobID := api.jobs.CreateJob(model.JobTypeRefreshLibrary, map[string]string{
			"roots": strings.Join(roots, ","),
		})
		err := api.jobs.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
			return api.session.UpdateCatalog(refresh)
		})
		if err != nil {
			SendInternalError(c, "library refresh", err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{
			"status":  "accepted",
			"message": "Library refresh started",
			"job_id":  jobID,
		})
		return
	}

	if err := api.session.UpdateCatalog(refresh); err != nil {
		SendDomainError(c, err)
		return
	}
	api.GetLibraryHandler(c)
}

// OpenProfileRequest selects the profile to open as the main database.
type OpenProfileRequest struct {
	ProfileID model.ProfileID `json:"profile_id"`
}

// OpenProfileHandler opens a profile (group or leaf) as the main database.
func (api *API) OpenProfileHandler(c *gin.Context) {
	var req OpenProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if err := api.session.OpenMainDB(req.ProfileID); err != nil {
		SendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Profile opened",
		"profile_id": req.ProfileID,
	})
}

// GetCurrentProfileHandler returns the currently open profile, or an
// invalid-id marker when nothing is open.
func (api *API) GetCurrentProfileHandler(c *gin.Context) {
	profile := api.session.CurrentProfile()
	if profile == nil {
		c.JSON(http.StatusOK, gin.H{"profile_id": model.InvalidProfileID})
		return
	}
	view := newProfileView(profile, profile.ProfileID)
	c.JSON(http.StatusOK, view)
}

// CreateGroupRequest names a new union group.
type CreateGroupRequest struct {
	Title string `json:"title" binding:"required"`
}

// CreateGroupHandler creates a union group seeded with the default group's
// leaves.
func (api *API) CreateGroupHandler(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	var created *model.Profile
	err := api.session.UpdateCatalog(func(m *catalog.Manager) error {
		created = m.CreateGroup(req.Title)
		return m.Save()
	})
	if err != nil {
		SendDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newProfileView(created, api.session.CurrentProfileID()))
}

// RenameGroupRequest carries the new group title.
type RenameGroupRequest struct {
	Title string `json:"title" binding:"required"`
}

// RenameGroupHandler retitles a group.
func (api *API) RenameGroupHandler(c *gin.Context) {
	groupID, ok := profileIDParam(c, "groupId")
	if !ok {
		return
	}
	var req RenameGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	err := api.session.UpdateCatalog(func(m *catalog.Manager) error {
		if err := m.RenameGroup(groupID, req.Title); err != nil {
			return err
		}
		return m.Save()
	})
	if err != nil {
		SendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Group renamed", "profile_id": groupID, "title": req.Title})
}

// ReorderRequest moves a profile to a new position.
type ReorderRequest struct {
	ProfileID model.ProfileID `json:"profile_id"`
	NewIndex  int             `json:"new_index"`
}

// ReorderGroupHandler moves a top-level group.
func (api *API) ReorderGroupHandler(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	err := api.session.UpdateCatalog(func(m *catalog.Manager) error {
		if err := m.AdjustGroupOrder(req.ProfileID, req.NewIndex); err != nil {
			return err
		}
		return m.Save()
	})
	if err != nil {
		SendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Group moved", "profile_id": req.ProfileID, "new_index": req.NewIndex})
}

// ReorderProfileHandler moves a leaf within its group. Sub-result order in
// merged searches follows this order, so moving a leaf reorders results.
func (api *API) ReorderProfileHandler(c *gin.Context) {
	groupID, ok := profileIDParam(c, "groupId")
	if !ok {
		return
	}
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	err := api.session.UpdateCatalog(func(m *catalog.Manager) error {
		if err := m.AdjustProfileOrder(groupID, req.ProfileID, req.NewIndex); err != nil {
			return err
		}
		return m.Save()
	})
	if err != nil {
		SendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile moved", "profile_id": req.ProfileID, "new_index": req.NewIndex})
}

// SetProfileDisabledRequest toggles a leaf within a group.
type SetProfileDisabledRequest struct {
	Disabled bool `json:"disabled"`
}

// SetProfileDisabledHandler enables or disables a leaf. Disabled leaves are
// skipped when the group is opened; reopening applies the change.
func (api *API) SetProfileDisabledHandler(c *gin.Context) {
	groupID, ok := profileIDParam(c, "groupId")
	if !ok {
		return
	}
	profileID, ok := profileIDParam(c, "profileId")
	if !ok {
		return
	}
	var req SetProfileDisabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	err := api.session.UpdateCatalog(func(m *catalog.Manager) error {
		if err := m.SetProfileDisabled(groupID, profileID, req.Disabled); err != nil {
			return err
		}
		return m.Save()
	})
	if err != nil {
		SendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "profile_id": profileID, "disabled": req.Disabled})
}

// RemoveProfileHandler removes a group or leaf from the catalog. Removing a
// profile that does not exist is a no-op, reported as removed=false. The
// open database is closed first when it is the one being removed.
func (api *API) RemoveProfileHandler(c *gin.Context) {
	profileID, ok := profileIDParam(c, "profileId")
	if !ok {
		return
	}

	if api.session.CurrentProfileID() == profileID {
		api.session.Close()
	}

	removed := false
	err := api.session.UpdateCatalog(func(m *catalog.Manager) error {
		removed = m.RemoveProfile(profileID)
		if !removed {
			return nil
		}
		return m.Save()
	})
	if err != nil {
		SendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile_id": profileID, "removed": removed})
}

// GetProfileIconHandler serves a leaf profile's icon image.
func (api *API) GetProfileIconHandler(c *gin.Context) {
	profileID, ok := profileIDParam(c, "profileId")
	if !ok {
		return
	}

	var icon *catalog.Icon
	err := api.session.ReadCatalog(func(m *catalog.Manager) error {
		found, err := m.IconForProfile(profileID)
		icon = found
		return err
	})
	if err != nil {
		SendDomainError(c, err)
		return
	}
	if icon == nil {
		SendError(c, http.StatusNotFound, ErrorCodeNotFound, "Profile has no icon")
		return
	}
	c.Data(http.StatusOK, icon.Mime, icon.Data)
}
