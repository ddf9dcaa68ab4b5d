package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"vocabgraph/backend/internal/services"
	apperrors "vocabgraph/backend/pkg/errors"
)

type handlers struct {
	vocab  *services.VocabularyService
	logger *zap.Logger
}

type invertRequest struct {
	Category1 string `json:"category1" binding:"required"`
	Category2 string `json:"category2" binding:"required"`
	Relation  string `json:"relation"`
}

type combineTwoRequest struct {
	Category    string `json:"category" binding:"required"`
	Rel1        string `json:"rel1" binding:"required"`
	Rel2        string `json:"rel2" binding:"required"`
	NewRelation string `json:"new_relation"`
}

type combineSpecificRequest struct {
	Category    string            `json:"category" binding:"required"`
	ToCombine   map[string]string `json:"to_combine" binding:"required"`
	NewRelation string            `json:"new_relation"`
}

func (h *handlers) health(c *gin.Context) {
	stats, err := h.vocab.Stats()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"categories": stats.Categories,
		"relations":  stats.Relations,
		"pairs":      stats.Pairs,
		"loaded_at":  h.vocab.LoadedAt(),
	})
}

func (h *handlers) getCategory(c *gin.Context) {
	view, err := h.vocab.Category(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handlers) listRelations(c *gin.Context) {
	relations, err := h.vocab.Relations()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"relations": relations})
}

func (h *handlers) getRelation(c *gin.Context) {
	view, err := h.vocab.Relation(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handlers) getTargets(c *gin.Context) {
	targets, err := h.vocab.Targets(c.Param("id"), c.Param("category"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"targets": targets})
}

func (h *handlers) invert(c *gin.Context) {
	var req invertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.vocab.Invert(req.Category1, req.Category2, req.Relation)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) combineTwo(c *gin.Context) {
	var req combineTwoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.vocab.CombineTwo(req.Category, req.Rel1, req.Rel2, req.NewRelation)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *handlers) combineSpecific(c *gin.Context) {
	var req combineSpecificRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.vocab.CombineSpecific(req.Category, req.ToCombine, req.NewRelation)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *handlers) reload(c *gin.Context) {
	if err := h.vocab.Load(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	stats, err := h.vocab.Stats()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reloaded", "stats": stats})
}

// fail maps the error taxonomy onto HTTP status codes
func (h *handlers) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"type":  string(apperrors.TypeOf(err)),
	})
}

func statusFor(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeArgument:
		return http.StatusBadRequest
	case apperrors.ErrorTypeReference:
		return http.StatusNotFound
	case apperrors.ErrorTypeParse, apperrors.ErrorTypeConstruction:
		return http.StatusUnprocessableEntity
	case apperrors.ErrorTypeContext:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
