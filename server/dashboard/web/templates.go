package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gin-contrib/multitemplate"
	"github.com/yeti47/vidfolio/server/core/media"
	"github.com/yeti47/vidfolio/server/core/videos"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// pages are rendered inside templates/layout.html
var pages = []string{
	"login",
	"setup",
	"password",
	"gallery",
	"admin",
	"edit",
	"delete",
	"profile-images",
	"error",
}

// StaticFiles returns the embedded assets served under /static
func StaticFiles() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// NewRenderer parses the embedded page templates
func NewRenderer() (multitemplate.Renderer, error) {
	layout, err := templateFS.ReadFile("templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to read layout template: %w", err)
	}

	r := multitemplate.NewRenderer()
	funcMap := FuncMap()

	for _, page := range pages {
		content, err := templateFS.ReadFile(path.Join("templates", page+".html"))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s template: %w", page, err)
		}
		r.AddFromStringsFuncs(page, funcMap, string(layout), string(content))
	}
	return r, nil
}

// FuncMap holds the helpers available to every page
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"thumbnailSrc": func(v videos.Video) string {
			return mediaSrc(v, videos.RoleThumbnail, v.Thumbnail)
		},
		"videoSrc": func(v videos.Video) string {
			return mediaSrc(v, videos.RoleVideo, v.VideoURL)
		},
		"youtubeEmbed": func(id string) string {
			return "https://www.youtube.com/embed/" + url.PathEscape(id)
		},
		"categoryLabel": func(c videos.Category) string {
			switch c {
			case videos.CategoryYouTube:
				return "YouTube"
			case "":
				return ""
			}
			return strings.ToUpper(string(c[:1])) + string(c[1:])
		},
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.Local().Format("2006-01-02 15:04")
		},
	}
}

// mediaSrc links embedded media through /media so pages never inline data URIs
func mediaSrc(v videos.Video, role videos.MediaRole, reference string) string {
	if reference == "" {
		if role == videos.RoleThumbnail {
			return "/placeholder.svg?height=400&width=600"
		}
		return ""
	}
	if media.IsDataURI(reference) {
		return "/media/" + url.PathEscape(v.ID) + "/" + string(role)
	}
	return reference
}
