package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/YoderBy/gil-bot/internal/storage"
	"github.com/YoderBy/gil-bot/internal/syllabus"
	"github.com/YoderBy/gil-bot/internal/syllabus/service"
	"github.com/YoderBy/gil-bot/internal/syllabus/store"
)

// allowed content types for uploaded syllabus source files
var allowedSourceTypes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"image/jpeg": true,
	"image/png":  true,
}

type updateRequest struct {
	SyllabusData  map[string]any `json:"syllabus_data" binding:"required"`
	ChangeSummary string         `json:"change_summary"`
}

type createRequest struct {
	ID            string         `json:"id" binding:"required"`
	SyllabusData  map[string]any `json:"syllabus_data" binding:"required"`
	ChangeSummary string         `json:"change_summary"`
}

// RegisterSyllabusRoutes mounts the syllabus API on rg. files may be nil when
// object storage is not configured; the source upload route then responds 503.
func RegisterSyllabusRoutes(rg *gin.RouterGroup, svc *service.Service, files *storage.MinIOStorage) {
	g := rg.Group("/syllabus")

	g.GET("", func(c *gin.Context) {
		f := store.Filter{
			Search:   c.Query("search"),
			Year:     c.Query("year"),
			Semester: c.Query("semester"),
		}
		list, err := svc.ListSummaries(c.Request.Context(), f)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.POST("", func(c *gin.Context) {
		var req createRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed input", "details": err.Error()})
			return
		}
		res, err := svc.CreateDocument(c.Request.Context(), req.ID, req.SyllabusData, editorFrom(c), req.ChangeSummary)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": "Syllabus created successfully",
			"id":      req.ID,
			"version": res.Version,
			"changes": res.Changes,
		})
	})

	g.GET("/:id", func(c *gin.Context) {
		version := 0
		if raw := c.Query("version"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "malformed input", "details": "version must be a positive integer"})
				return
			}
			version = n
		}
		doc, err := svc.GetDocument(c.Request.Context(), c.Param("id"), version)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	})

	g.GET("/:id/versions", func(c *gin.Context) {
		metas, err := svc.ListVersions(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, metas)
	})

	g.PUT("/:id", func(c *gin.Context) {
		var req updateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed input", "details": err.Error()})
			return
		}
		res, err := svc.UpdateDocument(c.Request.Context(), c.Param("id"), req.SyllabusData, editorFrom(c), req.ChangeSummary)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Syllabus updated successfully",
			"version": res.Version,
			"changes": res.Changes,
		})
	})

	g.GET("/:id/diff/:version1/:version2", func(c *gin.Context) {
		v1, err1 := strconv.Atoi(c.Param("version1"))
		v2, err2 := strconv.Atoi(c.Param("version2"))
		if err1 != nil || err2 != nil || v1 < 1 || v2 < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed input", "details": "version numbers must be positive integers"})
			return
		}
		diff, err := svc.VersionDiff(c.Request.Context(), c.Param("id"), v1, v2)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, diff)
	})

	g.POST("/:id/source", func(c *gin.Context) {
		if files == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "object storage not configured"})
			return
		}
		// the course must exist before a source file can be attached
		if _, err := svc.ListVersions(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed input", "details": "multipart field 'file' is required"})
			return
		}
		contentType := fh.Header.Get("Content-Type")
		if !allowedSourceTypes[contentType] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file type", "details": "supported types: pdf, docx, jpeg, png"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
			return
		}
		defer f.Close()
		key := fmt.Sprintf("sources/%s/%d_%s", c.Param("id"), time.Now().UTC().Unix(), fh.Filename)
		if err := files.UploadFile(c.Request.Context(), key, f, fh.Size, contentType); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file", "details": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"key": key})
	})
}

// editorFrom pulls the authenticated subject set by the auth middleware.
func editorFrom(c *gin.Context) string {
	if v, ok := c.Get("claims"); ok {
		if cm, ok2 := v.(map[string]interface{}); ok2 {
			if sub, ok3 := cm["sub"].(string); ok3 && sub != "" {
				return sub
			}
		}
	}
	return "unknown"
}

func writeError(c *gin.Context, err error) {
	var verr *syllabus.ValidationError
	switch {
	case errors.Is(err, syllabus.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "details": err.Error()})
	case errors.Is(err, syllabus.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "version conflict", "details": err.Error()})
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": verr.Fields, "details": verr.Error()})
	case errors.Is(err, syllabus.ErrMalformedInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed input", "details": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
