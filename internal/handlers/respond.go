package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"bitacora-backend/internal/apperr"
	"bitacora-backend/internal/assets"
	"bitacora-backend/internal/logger"
	"bitacora-backend/internal/models"
)

// respondError writes err with the status of its kind. Internal failures are
// logged in full and reach the client only as their kind.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	e := apperr.From(err)
	resp := models.ErrorResponse{Error: e.Kind.String()}
	if e.Public() {
		resp.Message = e.Message
	} else {
		log.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"kind", e.Kind.String(),
			"error", err,
		)
	}
	_ = c.Error(err)
	c.JSON(e.Status(), resp)
}

func badRequest(c *gin.Context, msg string, err error) {
	resp := models.ErrorResponse{Error: msg}
	if err != nil {
		resp.Message = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+strings.ReplaceAll(name, "_", " "), nil)
		return uuid.Nil, false
	}
	return id, true
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// parseMultipart caps the request body at maxBytes before parsing.
func parseMultipart(c *gin.Context, maxBytes int64) (*multipart.Form, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		return nil, err
	}
	if c.Request.MultipartForm == nil {
		return nil, fmt.Errorf("multipart form is nil")
	}
	return c.Request.MultipartForm, nil
}

// multipartFailed reports a form that could not be parsed. A body over the
// upload limit is 413, anything else 400.
func multipartFailed(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Error:   "request too large",
			Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
		})
		return
	}
	badRequest(c, "failed to parse multipart form", err)
}

func readPayload(fh *multipart.FileHeader) (assets.Payload, error) {
	src, err := fh.Open()
	if err != nil {
		return assets.Payload{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return assets.Payload{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return assets.Payload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// formFile returns the first file under any of names, or nil.
func formFile(form *multipart.Form, names ...string) (*assets.Payload, error) {
	for _, name := range names {
		if files := form.File[name]; len(files) > 0 {
			p, err := readPayload(files[0])
			if err != nil {
				return nil, err
			}
			return &p, nil
		}
	}
	return nil, nil
}

// formFiles returns every file under the first of names that has any.
func formFiles(form *multipart.Form, names ...string) ([]assets.Payload, error) {
	for _, name := range names {
		files := form.File[name]
		if len(files) == 0 {
			continue
		}
		out := make([]assets.Payload, 0, len(files))
		for _, fh := range files {
			p, err := readPayload(fh)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
		return out, nil
	}
	return nil, nil
}
