package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AnndyBrock/real-estate-app/internal/core/domain"
	"github.com/AnndyBrock/real-estate-app/internal/core/port"
	"github.com/AnndyBrock/real-estate-app/internal/transport/http/middleware"
	"github.com/AnndyBrock/real-estate-app/internal/usecase"
)

const (
	defaultPostPageSize = 20
	maxPostPageSize     = 100
)

// PostHandler manages the listing endpoints. Listing browse and single-post
// reads are public; everything else requires the owner.
type PostHandler struct {
	posts *usecase.PostService
}

// NewPostHandler constructs the post handler.
func NewPostHandler(posts *usecase.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// Create handles POST /posts.
func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid listing payload"))
		return
	}

	post, err := h.posts.CreateDraft(c.Request.Context(), usecase.CreatePostInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Type:        domain.PropertyType(req.Type),
		Price:       req.Price,
		Address: domain.Address{
			Street:  req.Address.Street,
			City:    req.Address.City,
			State:   req.Address.State,
			Country: req.Address.Country,
			Zip:     req.Address.Zip,
		},
		Bedrooms:  req.Bedrooms,
		Bathrooms: req.Bathrooms,
		Area:      req.Area,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrListingExists, Status: http.StatusConflict, Message: "a listing already exists at this address"},
		}, http.StatusInternalServerError, "failed to create listing")
		return
	}

	c.JSON(http.StatusCreated, newPostPayload(*post))
}

// Publish handles POST /posts/:id/publish.
func (h *PostHandler) Publish(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	post, err := h.posts.Publish(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPostNotFound, Status: http.StatusNotFound, Message: "post not found"},
			{Err: usecase.ErrAlreadyPublished, Status: http.StatusConflict, Message: "post is already published"},
		}, http.StatusInternalServerError, "failed to publish listing")
		return
	}

	c.JSON(http.StatusOK, newPostPayload(*post))
}

// Get handles GET /posts/:id. Anonymous viewers only see published listings.
func (h *PostHandler) Get(c *gin.Context) {
	viewerID, _ := middleware.GetAuthenticatedUserID(c)

	post, err := h.posts.Get(c.Request.Context(), c.Param("id"), viewerID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPostNotFound, Status: http.StatusNotFound, Message: "post not found"},
		}, http.StatusInternalServerError, "failed to load listing")
		return
	}

	c.JSON(http.StatusOK, newPostPayload(*post))
}

// List handles GET /posts with optional type, city, price, and paging filters.
func (h *PostHandler) List(c *gin.Context) {
	filter := port.PostFilter{Limit: defaultPostPageSize}

	if t := c.Query("propertyType"); t != "" {
		filter.Type = domain.PropertyType(t)
	}
	if city := c.Query("city"); city != "" {
		filter.City = city
	}
	if raw := c.Query("minPrice"); raw != "" {
		if price, err := strconv.ParseFloat(raw, 64); err == nil && price >= 0 {
			filter.MinPrice = &price
		}
	}
	if raw := c.Query("maxPrice"); raw != "" {
		if price, err := strconv.ParseFloat(raw, 64); err == nil && price >= 0 {
			filter.MaxPrice = &price
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			if limit > maxPostPageSize {
				limit = maxPostPageSize
			}
			filter.Limit = limit
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	posts, err := h.posts.ListPublished(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list posts"))
		return
	}

	payloads := make([]PostPayload, 0, len(posts))
	for _, post := range posts {
		payloads = append(payloads, newPostPayload(post))
	}

	c.JSON(http.StatusOK, PostListResponse{Posts: payloads, Total: len(payloads)})
}

// Delete handles DELETE /posts/:id.
func (h *PostHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.posts.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPostNotFound, Status: http.StatusNotFound, Message: "post not found"},
		}, http.StatusInternalServerError, "failed to delete listing")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Post deleted"})
}
