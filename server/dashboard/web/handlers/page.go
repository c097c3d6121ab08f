package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yeti47/vidfolio/server/core/videos"
	"github.com/yeti47/vidfolio/server/dashboard/sessions"
)

// pageData adds the layout values every page needs: title, login state and pending banners.
// Extra banners are shown after the ones queued in the session.
func pageData(c *gin.Context, sessionFactory sessions.AuthSessionFactory, title string, data gin.H, extra ...videos.Banner) gin.H {
	if data == nil {
		data = gin.H{}
	}

	session := sessionFactory(c)
	data["Title"] = title
	data["Authenticated"] = session.IsAuthenticated()
	data["Banners"] = append(session.Banners(), extra...)
	return data
}
