// Package assets turns uploaded payloads into durable public URLs in an
// external object store.
package assets

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Classification selects the key prefix an object is stored under.
type Classification string

const (
	ClassCover    Classification = "covers"
	ClassGallery  Classification = "gallery"
	ClassClassLog Classification = "class-media"
	ClassPlanFile Classification = "plan-files"
)

type Payload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Object is a stored payload. Key identifies it for removal.
type Object struct {
	Key string
	URL string
}

// Uploader is at-least-once: a successful Upload whose caller later fails
// leaves the object in place unless the caller calls Remove.
type Uploader interface {
	Upload(ctx context.Context, payload Payload, class Classification) (Object, error)
	Remove(ctx context.Context, key string) error
}

// ObjectKey builds "<class>/<yyyy>/<mm>/<uuid><ext>" for a payload.
func ObjectKey(class Classification, filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, "\\", "/"))))
	if len(ext) > 10 || strings.ContainsAny(ext, " ?#%") {
		ext = ""
	}
	return fmt.Sprintf("%s/%04d/%02d/%s%s", class, now.Year(), int(now.Month()), uuid.New().String(), ext)
}

// ContentType returns the payload's declared type, falling back to the
// filename extension and then to sniffing the data.
func ContentType(p Payload) string {
	if ct := strings.TrimSpace(p.ContentType); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	if ct := contentTypeForKey(p.Filename); ct != "" {
		return ct
	}
	if len(p.Data) > 0 {
		return http.DetectContentType(p.Data)
	}
	return "application/octet-stream"
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".gif"):
		return "image/gif"
	case strings.HasSuffix(s, ".heic"):
		return "image/heic"
	case strings.HasSuffix(s, ".mp4"), strings.HasSuffix(s, ".m4v"):
		return "video/mp4"
	case strings.HasSuffix(s, ".webm"):
		return "video/webm"
	case strings.HasSuffix(s, ".mov"):
		return "video/quicktime"
	case strings.HasSuffix(s, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(s, ".docx"):
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return ""
	}
}
