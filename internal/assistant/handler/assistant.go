// Package handler provides the HTTP handlers for the clinical notes
// assistant.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/WaliBandawu/Clinical-Notes-Assistant/internal/assistant/biz"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/internal/pkg/httputils"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/component/storage"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/utils/errors"
)

// askTimeout bounds the full retrieve-and-generate chain.
const askTimeout = 60 * time.Second

// Handler handles assistant HTTP requests.
type Handler struct {
	service    biz.Service
	storageMgr *storage.Manager
	corpusPath string
}

// NewHandler creates a Handler.
func NewHandler(service biz.Service, storageMgr *storage.Manager, corpusPath string) *Handler {
	return &Handler{
		service:    service,
		storageMgr: storageMgr,
		corpusPath: corpusPath,
	}
}

// AskRequest is the ask endpoint payload.
type AskRequest struct {
	Question      string   `json:"question" binding:"required"`
	TopK          int      `json:"top_k,omitempty"`
	MinSimilarity *float64 `json:"min_similarity,omitempty"`
	APIKey        string   `json:"api_key,omitempty"`
}

// Ask answers a question over the stored clinical notes.
func (h *Handler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputils.WriteResponse(c, errors.ErrBadRequest.WithMessage(err.Error()), nil)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		httputils.WriteResponse(c, errors.ErrEmptyQuery, nil)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), askTimeout)
	defer cancel()

	answer, err := h.service.Ask(ctx, req.Question, &biz.CallOptions{
		TopK:          req.TopK,
		MinSimilarity: req.MinSimilarity,
		APIKey:        req.APIKey,
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			httputils.WriteResponse(c, errors.ErrProviderTimeout, nil)
			return
		}
		httputils.WriteResponse(c, err, nil)
		return
	}

	httputils.WriteResponse(c, nil, answer)
}

// UploadRequest is the document upload payload.
type UploadRequest struct {
	Content    string `json:"content" binding:"required"`
	DocumentID string `json:"document_id,omitempty"`
	APIKey     string `json:"api_key,omitempty"`
}

// Upload stores a new document as embedded chunks.
func (h *Handler) Upload(c *gin.Context) {
	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputils.WriteResponse(c, errors.ErrBadRequest.WithMessage(err.Error()), nil)
		return
	}

	result, err := h.service.UploadDocument(c.Request.Context(), req.Content, req.DocumentID, &biz.CallOptions{
		APIKey: req.APIKey,
	})
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	httputils.WriteResponse(c, nil, result)
}

// ReloadRequest is the corpus reload payload.
type ReloadRequest struct {
	ClearExisting bool   `json:"clear_existing,omitempty"`
	APIKey        string `json:"api_key,omitempty"`
}

// Reload re-reads the configured corpus file into the store.
func (h *Handler) Reload(c *gin.Context) {
	var req ReloadRequest
	// An empty body means reload with defaults.
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		httputils.WriteResponse(c, errors.ErrBadRequest.WithMessage(err.Error()), nil)
		return
	}

	stored, err := h.service.LoadCorpus(c.Request.Context(), h.corpusPath, req.ClearExisting, &biz.CallOptions{
		APIKey: req.APIKey,
	})
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	httputils.WriteResponse(c, nil, gin.H{"document_count": stored})
}

// ListDocuments returns stored chunks with content previews.
func (h *Handler) ListDocuments(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httputils.WriteResponse(c, errors.ErrInvalidParam.WithMessage("limit must be a positive integer"), nil)
			return
		}
		limit = parsed
	}

	previews, err := h.service.ListDocuments(c.Request.Context(), limit)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	httputils.WriteResponse(c, nil, gin.H{"documents": previews, "count": len(previews)})
}

// DeleteDocument removes a single chunk by key.
func (h *Handler) DeleteDocument(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		httputils.WriteResponse(c, errors.ErrMissingParam.WithMessage("key is required"), nil)
		return
	}

	if err := h.service.DeleteChunk(c.Request.Context(), key); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	httputils.WriteResponse(c, nil, gin.H{"deleted": key})
}

// Clear removes every stored chunk.
func (h *Handler) Clear(c *gin.Context) {
	if err := h.service.ClearAll(c.Request.Context()); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	httputils.WriteResponse(c, nil, gin.H{"cleared": true})
}

// Count returns the number of stored chunks.
func (h *Handler) Count(c *gin.Context) {
	count, err := h.service.Count(c.Request.Context())
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	httputils.WriteResponse(c, nil, gin.H{"count": count})
}

// Health reports service health. A failing store is reported as
// degraded, not as a request failure.
func (h *Handler) Health(c *gin.Context) {
	status := "healthy"
	components := gin.H{}

	if h.storageMgr != nil {
		for _, hs := range h.storageMgr.HealthCheckAll(c.Request.Context()) {
			components[hs.Name] = gin.H{
				"healthy":    hs.Healthy,
				"latency_ms": hs.Latency.Milliseconds(),
			}
			if !hs.Healthy {
				status = "degraded"
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     status,
		"components": components,
	})
}
