package httpapi

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/roach88/housingjson/internal/housing"
	"github.com/roach88/housingjson/internal/jsonval"
	"github.com/roach88/housingjson/internal/queryir"
	"github.com/roach88/housingjson/internal/querysql"
	"github.com/roach88/housingjson/internal/store"
)

// MaxBodyBytes caps POST and PUT bodies. Larger bodies get 413.
const MaxBodyBytes int64 = 1 << 20

// Handler serves the housing routes.
type Handler struct {
	svc *housing.Service
}

// NewHandler creates a Handler over svc.
func NewHandler(svc *housing.Service) *Handler {
	return &Handler{svc: svc}
}

// Query returns a handler running projection queries with strategy.
//
// Query parameters: select (comma-separated paths, may repeat), where,
// value, string ("true" selects pattern matching) and limit.
func (h *Handler) Query(strategy querysql.Strategy) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := parseQueryRequest(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid query",
				"details": err.Error(),
			})
			return
		}

		resp, err := h.svc.Query(c.Request.Context(), strategy, req)
		if err != nil {
			if queryir.IsValidationError(err) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Invalid query",
					"details": err.Error(),
				})
				return
			}
			failure(c, http.StatusInternalServerError, "Failed to query housing records", err)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// parseQueryRequest reads the projection query parameters.
func parseQueryRequest(c *gin.Context) (queryir.Request, error) {
	var req queryir.Request

	// An absent or empty select means the whole document. Any other value
	// is split as-is so blank entries reach queryir.Parse and are rejected.
	for _, sel := range c.QueryArray("select") {
		if sel == "" {
			continue
		}
		req.Select = append(req.Select, strings.Split(sel, ",")...)
	}

	req.Where = c.Query("where")
	req.Value = c.Query("value")
	req.Pattern = strings.EqualFold(c.Query("string"), "true")

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return queryir.Request{}, fmt.Errorf("limit %q is not an integer", raw)
		}
		req.Limit = limit
	}

	return req, nil
}

// List returns every record.
func (h *Handler) List(c *gin.Context) {
	records, err := h.svc.List(c.Request.Context())
	if err != nil {
		failure(c, http.StatusInternalServerError, "Failed to retrieve housing records", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(records),
		"data":    records,
	})
}

// Get returns one record.
func (h *Handler) Get(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}

	rec, err := h.svc.Get(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		failure(c, http.StatusInternalServerError, "Failed to retrieve housing record", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rec})
}

// Create stores the request body as a new record.
func (h *Handler) Create(c *gin.Context) {
	doc, ok := readBody(c)
	if !ok {
		return
	}

	rec, err := h.svc.Create(c.Request.Context(), doc)
	if errors.Is(err, housing.ErrEmptyDocument) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Housing data is required"})
		return
	}
	if err != nil {
		failure(c, http.StatusInternalServerError, "Failed to create housing record", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Housing record created successfully",
		"data":    rec,
	})
}

// CreateBulk stores a JSON array of records in one transaction.
func (h *Handler) CreateBulk(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	docs, isArray := body.(jsonval.Array)
	if !isArray || len(docs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Array of housing data is required"})
		return
	}

	n, err := h.svc.CreateBulk(c.Request.Context(), docs)
	if errors.Is(err, housing.ErrEmptyDocument) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Housing data is required",
			"details": err.Error(),
		})
		return
	}
	if err != nil {
		failure(c, http.StatusInternalServerError, "Failed to create housing records", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": fmt.Sprintf("%d housing records created successfully", n),
		"data":    gin.H{"inserted": n},
	})
}

// Update replaces a record's document.
func (h *Handler) Update(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	doc, ok := readBody(c)
	if !ok {
		return
	}

	err := h.svc.Update(c.Request.Context(), id, doc)
	switch {
	case errors.Is(err, housing.ErrEmptyDocument):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Housing data is required"})
	case errors.Is(err, store.ErrNotFound):
		notFound(c)
	case err != nil:
		failure(c, http.StatusInternalServerError, "Failed to update housing record", err)
	default:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Housing record updated successfully",
			"data":    store.Record{ID: id, Document: doc},
		})
	}
}

// Delete removes a record.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}

	err := h.svc.Delete(c.Request.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		notFound(c)
	case err != nil:
		failure(c, http.StatusInternalServerError, "Failed to delete housing record", err)
	default:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Housing record deleted successfully",
		})
	}
}

// Health reports whether the store is reachable.
func (h *Handler) Health(c *gin.Context) {
	if err := h.svc.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func recordID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid numeric ID is required"})
		return 0, false
	}
	return id, true
}

func readBody(c *gin.Context) (jsonval.Value, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error":   "Request body too large",
				"details": fmt.Sprintf("limit is %d bytes", tooLarge.Limit),
			})
			return nil, false
		}
		failure(c, http.StatusBadRequest, "Failed to read request body", err)
		return nil, false
	}
	v, err := jsonval.Parse(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid JSON body",
			"details": err.Error(),
		})
		return nil, false
	}
	return v, true
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Housing record not found"})
}

// failure logs err and writes the {error, details} envelope.
func failure(c *gin.Context, status int, message string, err error) {
	slog.Error(message,
		"request_id", RequestID(c),
		"error", err,
	)
	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}
