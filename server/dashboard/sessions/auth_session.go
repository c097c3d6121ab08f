package sessions

import (
	"encoding/gob"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/yeti47/vidfolio/server/core/videos"
)

const (
	sessionName      = "vidfolio-dashboard-session"
	authenticatedKey = "authenticated"
	bannerFlashKey   = "banner"
)

func init() {
	gob.Register(videos.Banner{})
}

// AuthSession is the dashboard login state of one request
type AuthSession interface {
	IsAuthenticated() bool
	SetAuthenticated() error
	Clear() error
	// AddBanner queues a banner for the next rendered page
	AddBanner(banner videos.Banner) error
	// Banners returns and removes the queued banners
	Banners() []videos.Banner
}

// GorillaAuthSession implements AuthSession using gorilla sessions
type GorillaAuthSession struct {
	store   sessions.Store
	request *gin.Context
}

// NewGorillaAuthSession creates a new GorillaAuthSession for a specific request
func NewGorillaAuthSession(store sessions.Store, c *gin.Context) AuthSession {
	return &GorillaAuthSession{
		store:   store,
		request: c,
	}
}

func (s *GorillaAuthSession) session() (*sessions.Session, error) {
	return s.store.Get(s.request.Request, sessionName)
}

func (s *GorillaAuthSession) IsAuthenticated() bool {
	session, err := s.session()
	if err != nil {
		return false
	}

	authenticated, ok := session.Values[authenticatedKey].(bool)
	return ok && authenticated
}

func (s *GorillaAuthSession) SetAuthenticated() error {
	// an undecodable cookie, e.g. after a key change, still yields a fresh session
	session, err := s.session()
	if session == nil {
		return err
	}

	session.Values[authenticatedKey] = true
	return session.Save(s.request.Request, s.request.Writer)
}

func (s *GorillaAuthSession) Clear() error {
	session, err := s.session()
	if err != nil {
		return err
	}

	delete(session.Values, authenticatedKey)
	session.Options.MaxAge = -1
	return session.Save(s.request.Request, s.request.Writer)
}

func (s *GorillaAuthSession) AddBanner(banner videos.Banner) error {
	session, err := s.session()
	if session == nil {
		return err
	}

	session.AddFlash(banner, bannerFlashKey)
	return session.Save(s.request.Request, s.request.Writer)
}

func (s *GorillaAuthSession) Banners() []videos.Banner {
	session, err := s.session()
	if err != nil {
		return nil
	}

	flashes := session.Flashes(bannerFlashKey)
	if len(flashes) == 0 {
		return nil
	}
	// flashes are consumed only once the session is saved
	session.Save(s.request.Request, s.request.Writer)

	banners := make([]videos.Banner, 0, len(flashes))
	for _, flash := range flashes {
		if banner, ok := flash.(videos.Banner); ok {
			banners = append(banners, banner)
		}
	}
	return banners
}
