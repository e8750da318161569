package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/id"
	"tradecore/internal/domain/posting"
	"tradecore/internal/infrastructure/http/v1/dto"
)

// DocumentService defines the interface that services must implement for BaseDocumentHandler.
// Posting is deliberately not part of it: not every document posts (sales orders
// only change status), and the ones that do expose it under domain names
// (Post, Approve, Receive). Posting endpoints are wired via config functions.
type DocumentService[T any] interface {
	GetByID(ctx context.Context, id id.ID) (T, error)
	Create(ctx context.Context, entity T) error
	Update(ctx context.Context, entity T) error
	Delete(ctx context.Context, id id.ID) error
}

// PostFunc executes a posting-engine operation for a document and returns the result.
type PostFunc func(ctx context.Context, docID id.ID) (*posting.Result, error)

// BaseDocumentHandler provides generic HTTP handlers for document entities.
// In Database-per-Tenant architecture, tenantID is not needed (isolation is physical).
type BaseDocumentHandler[T any, CreateDTO any, UpdateDTO any] struct {
	*BaseHandler
	service    DocumentService[T]
	entityName string

	// Mapper functions
	mapCreateDTO      func(dto CreateDTO) T
	mapUpdateDTO      func(dto UpdateDTO, existing T) T
	mapToDTO          func(entity T) any
	isPostImmediately func(dto CreateDTO) bool

	// Posting operations, nil when the document type has none
	post        PostFunc
	unpost      PostFunc
	postAndSave func(ctx context.Context, doc T) (*posting.Result, error)
}

// BaseDocumentHandlerConfig configures the document handler.
type BaseDocumentHandlerConfig[T any, CreateDTO any, UpdateDTO any] struct {
	Service           DocumentService[T]
	EntityName        string
	MapCreateDTO      func(dto CreateDTO) T
	MapUpdateDTO      func(dto UpdateDTO, existing T) T
	MapToDTO          func(entity T) any
	IsPostImmediately func(dto CreateDTO) bool
	Post              PostFunc
	Unpost            PostFunc
	PostAndSave       func(ctx context.Context, doc T) (*posting.Result, error)
}

// NewBaseDocumentHandler creates a new base document handler.
func NewBaseDocumentHandler[T any, CreateDTO any, UpdateDTO any](
	base *BaseHandler,
	cfg BaseDocumentHandlerConfig[T, CreateDTO, UpdateDTO],
) *BaseDocumentHandler[T, CreateDTO, UpdateDTO] {
	return &BaseDocumentHandler[T, CreateDTO, UpdateDTO]{
		BaseHandler:       base,
		service:           cfg.Service,
		entityName:        cfg.EntityName,
		mapCreateDTO:      cfg.MapCreateDTO,
		mapUpdateDTO:      cfg.MapUpdateDTO,
		mapToDTO:          cfg.MapToDTO,
		isPostImmediately: cfg.IsPostImmediately,
		post:              cfg.Post,
		unpost:            cfg.Unpost,
		postAndSave:       cfg.PostAndSave,
	}
}

// Get handles GET /{entity}/:id
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Get(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, h.mapToDTO(doc))
}

// Create handles POST /{entity}
// When the DTO requests postImmediately and the document type supports posting,
// create and post happen in one call.
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	// In Database-per-Tenant, no tenantID needed (isolation is physical)
	doc := h.mapCreateDTO(req)

	if h.isPostImmediately != nil && h.isPostImmediately(req) && h.postAndSave != nil {
		result, err := h.postAndSave(ctx, doc)
		if err != nil {
			h.Error(c, err)
			return
		}
		response := dto.PostingResponse{Document: h.mapToDTO(doc), Posting: result}
		h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
		c.JSON(http.StatusCreated, response)
		return
	}

	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	response := h.mapToDTO(doc)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// Update handles PUT /{entity}/:id
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req UpdateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	doc = h.mapUpdateDTO(req, doc)

	if err := h.service.Update(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	response := h.mapToDTO(doc)
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}

// Delete handles DELETE /{entity}/:id
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Post handles POST /{entity}/:id/post
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Post(c *gin.Context) {
	h.PostingAction(c, h.post)
}

// Unpost handles POST /{entity}/:id/unpost
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Unpost(c *gin.Context) {
	h.PostingAction(c, h.unpost)
}

// HasPosting reports whether posting endpoints are configured.
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) HasPosting() bool {
	return h.post != nil && h.unpost != nil
}

// PostingAction runs a posting operation and returns the refreshed document
// together with the posting result. Concrete handlers reuse it for
// domain-named posting transitions (approve, receive).
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) PostingAction(c *gin.Context, fn PostFunc) {
	ctx := c.Request.Context()

	if fn == nil {
		h.Error(c, apperror.NewBusinessRule("POSTING_NOT_SUPPORTED", h.entityName+" does not support posting"))
		return
	}

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	result, err := fn(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	// Return updated document
	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.PostingResponse{Document: h.mapToDTO(doc), Posting: result}
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}

// StatusAction runs a status transition that does not touch registers
// (confirm, dispatch, submit for approval) and returns the updated document.
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) StatusAction(c *gin.Context, fn func(ctx context.Context, docID id.ID) (T, error)) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := fn(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := h.mapToDTO(doc)
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}
