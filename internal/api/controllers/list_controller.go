package controllers

import (
	"github.com/gin-gonic/gin"

	"colabora/internal/models/request_models"
	"colabora/internal/services"
	"colabora/pkg/utils"
)

type ListController struct {
	listService services.ListServiceInterface
}

func NewListController(listService services.ListServiceInterface) *ListController {
	return &ListController{
		listService: listService,
	}
}

// CreateList godoc
// @Summary Create a list
// @Description Create an event list; each item is split into parcels of quantity_per_portion
// @Tags Lists
// @Accept json
// @Produce json
// @Param request body request_models.CreateListRequest true "List payload"
// @Success 201 {object} utils.APIResponse{data=response_models.ListDetail}
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /lists [post]
func (l *ListController) CreateList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	list, err := l.listService.CreateList(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, list, "List created successfully")
}

// CreateFromTemplate godoc
// @Summary Create a list from a template
// @Description Copy one of your lists, same items and parcel counts, no claims, event tomorrow
// @Tags Lists
// @Accept json
// @Produce json
// @Param request body request_models.CreateFromTemplateRequest true "Template payload"
// @Success 201 {object} utils.APIResponse{data=response_models.ListDetail}
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /lists/from-template [post]
func (l *ListController) CreateFromTemplate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.CreateFromTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	list, err := l.listService.CreateFromTemplate(c.Request.Context(), userID, req.TemplateListID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, list, "List created successfully")
}

// GetUserLists godoc
// @Summary List your lists
// @Tags Lists
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]response_models.ListSummary}
// @Security BearerAuth
// @Router /lists [get]
func (l *ListController) GetUserLists(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	lists, err := l.listService.GetUserLists(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, lists, "Lists fetched successfully")
}

// EditList godoc
// @Summary Edit a list
// @Description mode=continue edits in place keeping claims, mode=reset archives the list and starts a fresh one
// @Tags Lists
// @Accept json
// @Produce json
// @Param listId path string true "List ID"
// @Param request body request_models.EditListRequest true "Edit payload"
// @Success 200 {object} utils.APIResponse{data=response_models.ListDetail}
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /lists/{listId} [put]
func (l *ListController) EditList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := uuidParam(c, "listId")
	if !ok {
		return
	}

	var req request_models.EditListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	list, err := l.listService.EditList(c.Request.Context(), userID, listID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, list, "List updated successfully")
}

// ToggleStatus godoc
// @Summary Archive or reactivate a list
// @Tags Lists
// @Produce json
// @Param listId path string true "List ID"
// @Success 200 {object} utils.APIResponse{data=response_models.ListSummary}
// @Failure 402 {object} utils.APIResponse
// @Security BearerAuth
// @Router /lists/{listId}/status [patch]
func (l *ListController) ToggleStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := uuidParam(c, "listId")
	if !ok {
		return
	}

	list, err := l.listService.ToggleStatus(c.Request.Context(), userID, listID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, list, "List status updated")
}

// DeleteList godoc
// @Summary Delete a list
// @Tags Lists
// @Param listId path string true "List ID"
// @Success 204
// @Security BearerAuth
// @Router /lists/{listId} [delete]
func (l *ListController) DeleteList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := uuidParam(c, "listId")
	if !ok {
		return
	}

	if err := l.listService.DeleteList(c.Request.Context(), userID, listID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondNoContent(c)
}

// GetPublicList godoc
// @Summary Public view of a list
// @Description Items with their parcels in order; claimant CPFs are masked
// @Tags Guests
// @Produce json
// @Param listId path string true "List ID"
// @Success 200 {object} utils.APIResponse{data=response_models.ListDetail}
// @Failure 404 {object} utils.APIResponse
// @Router /lists/{listId} [get]
func (l *ListController) GetPublicList(c *gin.Context) {
	listID, ok := uuidParam(c, "listId")
	if !ok {
		return
	}

	list, err := l.listService.GetPublicList(c.Request.Context(), listID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, list, "List fetched successfully")
}

// RegisterMember godoc
// @Summary Claim a parcel
// @Tags Guests
// @Accept json
// @Produce json
// @Param listId path string true "List ID"
// @Param request body request_models.RegisterMemberRequest true "Claim payload"
// @Success 200 {object} utils.APIResponse{data=response_models.ParcelResponse}
// @Failure 409 {object} utils.APIResponse
// @Router /lists/{listId}/register [post]
func (l *ListController) RegisterMember(c *gin.Context) {
	listID, ok := uuidParam(c, "listId")
	if !ok {
		return
	}

	var req request_models.RegisterMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	parcel, err := l.listService.RegisterMember(c.Request.Context(), listID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, parcel, "Registered successfully")
}

// UnregisterMember godoc
// @Summary Release a claimed parcel
// @Tags Guests
// @Produce json
// @Param listId path string true "List ID"
// @Param itemId path string true "Parcel ID"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /lists/{listId}/items/{itemId}/register [delete]
func (l *ListController) UnregisterMember(c *gin.Context) {
	listID, ok := uuidParam(c, "listId")
	if !ok {
		return
	}
	parcelID, ok := uuidParam(c, "itemId")
	if !ok {
		return
	}

	if err := l.listService.UnregisterMember(c.Request.Context(), listID, parcelID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Registration removed")
}
