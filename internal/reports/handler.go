package reports

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"creditdispute-backend/internal/shared/server/middleware"
	"creditdispute-backend/internal/shared/server/respond"
)

const maxUploadSize = 20 << 20 // 20MB per request

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches report routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reports", h.upload)
	rg.GET("/reports", h.list)
	rg.GET("/reports/:id", h.get)
	rg.GET("/reports/:id/text", h.text)
}

// upload accepts one file per bureau: form fields "transunion", "equifax",
// "experian", at least one required.
func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "multipart form with at least one bureau file is required", nil)
		return
	}

	var inputs []UploadInput
	for _, bureau := range []string{"transunion", "equifax", "experian"} {
		files := form.File[bureau]
		if len(files) == 0 {
			continue
		}
		data, fileName, mimeType, err := readUpload(files[0])
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read "+bureau+" file", nil)
			return
		}
		inputs = append(inputs, UploadInput{
			Bureau:   bureau,
			FileName: fileName,
			MimeType: mimeType,
			Data:     data,
		})
	}
	if len(inputs) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "at least one bureau file is required", nil)
		return
	}

	results, err := h.Svc.UploadAll(c.Request.Context(), userID, inputs)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process report", nil)
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{"results": results})
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	reports, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list reports", nil)
		return
	}
	respond.OK(c, gin.H{"reports": reports})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	report, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "report not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load report", nil)
		return
	}
	respond.OK(c, report)
}

func (h *Handler) text(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	text, err := h.Svc.ExtractedText(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "report not found", nil)
		case errors.Is(err, ErrNoText):
			respond.Error(c, http.StatusUnprocessableEntity, "extraction_exhausted",
				"no text could be extracted, please upload a clearer file", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load text", nil)
		}
		return
	}
	respond.OK(c, gin.H{"text": text})
}

func readUpload(fh *multipart.FileHeader) (data []byte, fileName, mimeType string, err error) {
	f, err := fh.Open()
	if err != nil {
		return nil, "", "", err
	}
	defer f.Close()
	data, err = io.ReadAll(f)
	if err != nil {
		return nil, "", "", err
	}
	return data, fh.Filename, fh.Header.Get("Content-Type"), nil
}
