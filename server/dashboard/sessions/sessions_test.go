package sessions

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/yeti47/vidfolio/server/core/videos"
)

func TestGetOrCreateSessionKey_IsStable(t *testing.T) {
	dir := t.TempDir()

	first, err := GetOrCreateSessionKey(dir)
	if err != nil {
		t.Fatalf("GetOrCreateSessionKey failed: %v", err)
	}
	if len(first) != sessionKeyLength {
		t.Errorf("Expected %d byte key, got %d", sessionKeyLength, len(first))
	}

	second, err := GetOrCreateSessionKey(dir)
	if err != nil {
		t.Fatalf("Second GetOrCreateSessionKey failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("Expected the stored key to be reused")
	}
}

func newContext(cookies []*http.Cookie) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	// a response may save the session twice; the last cookie wins
	latest := map[string]*http.Cookie{}
	for _, cookie := range cookies {
		latest[cookie.Name] = cookie
	}
	for _, cookie := range latest {
		c.Request.AddCookie(cookie)
	}
	return c, w
}

func TestAuthSession_AuthenticationAndBanners(t *testing.T) {
	gin.SetMode(gin.TestMode)
	factory := NewAuthSessionFactory(sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef")))

	c, w := newContext(nil)
	session := factory(c)
	if session.IsAuthenticated() {
		t.Fatal("New session must not be authenticated")
	}
	if err := session.SetAuthenticated(); err != nil {
		t.Fatalf("SetAuthenticated failed: %v", err)
	}
	if err := session.AddBanner(videos.Banner{Kind: videos.BannerSuccess, Text: "saved"}); err != nil {
		t.Fatalf("AddBanner failed: %v", err)
	}

	// next request carries the cookie
	c, w = newContext(w.Result().Cookies())
	session = factory(c)
	if !session.IsAuthenticated() {
		t.Error("Expected session to be authenticated")
	}
	banners := session.Banners()
	if len(banners) != 1 || banners[0].Text != "saved" {
		t.Fatalf("Expected one banner, got %v", banners)
	}

	// banners are consumed
	c, _ = newContext(w.Result().Cookies())
	if got := factory(c).Banners(); len(got) != 0 {
		t.Errorf("Expected banners to be consumed, got %v", got)
	}

	if err := factory(c).Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if factory(c).IsAuthenticated() {
		t.Error("Expected cleared session to be unauthenticated")
	}
}
