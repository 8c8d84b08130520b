package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AnndyBrock/real-estate-app/internal/transport/http/middleware"
	"github.com/AnndyBrock/real-estate-app/internal/usecase"
)

// UploadHandler authorizes direct-to-storage photo uploads for listings.
type UploadHandler struct {
	uploads *usecase.UploadService
}

// NewUploadHandler constructs the upload handler.
func NewUploadHandler(uploads *usecase.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Presign handles POST /posts/:id/photos/presign.
func (h *UploadHandler) Presign(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	ticket, err := h.uploads.PresignUpload(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPostNotFound, Status: http.StatusNotFound, Message: "post not found"},
		}, http.StatusInternalServerError, "failed to authorize upload")
		return
	}

	c.JSON(http.StatusOK, UploadTicketResponse{
		Key:       ticket.Key,
		URL:       ticket.URL,
		ExpiresAt: ticket.ExpiresAt,
	})
}

// Attach handles PUT /posts/:id/photos.
func (h *UploadHandler) Attach(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req AttachPhotosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid photo payload"))
		return
	}

	if err := h.uploads.AttachPhotos(c.Request.Context(), c.Param("id"), userID, req.Keys); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPostNotFound, Status: http.StatusNotFound, Message: "post not found"},
			{Err: usecase.ErrInvalidPhotoKey, Status: http.StatusBadRequest, Message: "photo keys must belong to this post"},
		}, http.StatusInternalServerError, "failed to attach photos")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Photos attached"})
}

// Photos handles GET /posts/:id/photos.
func (h *UploadHandler) Photos(c *gin.Context) {
	viewerID, _ := middleware.GetAuthenticatedUserID(c)

	links, err := h.uploads.PhotoLinks(c.Request.Context(), c.Param("id"), viewerID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPostNotFound, Status: http.StatusNotFound, Message: "post not found"},
		}, http.StatusInternalServerError, "failed to load photos")
		return
	}

	payload := make([]PhotoLinkPayload, 0, len(links))
	for _, link := range links {
		payload = append(payload, PhotoLinkPayload{Key: link.Key, URL: link.URL})
	}
	c.JSON(http.StatusOK, PhotoListResponse{Photos: payload})
}

// RemovePhoto handles DELETE /posts/:id/photos.
func (h *UploadHandler) RemovePhoto(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "photo key is required"))
		return
	}

	if err := h.uploads.RemovePhoto(c.Request.Context(), c.Param("id"), userID, key); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPostNotFound, Status: http.StatusNotFound, Message: "post not found"},
			{Err: usecase.ErrInvalidPhotoKey, Status: http.StatusBadRequest, Message: "photo key is not attached to this post"},
		}, http.StatusInternalServerError, "failed to remove photo")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Photo removed"})
}
