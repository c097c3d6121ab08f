package sessions

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

// AuthSessionFactory is a function that creates an AuthSession for a given request context.
type AuthSessionFactory func(c *gin.Context) AuthSession

// NewAuthSessionFactory creates a new AuthSessionFactory.
func NewAuthSessionFactory(store sessions.Store) AuthSessionFactory {
	return func(c *gin.Context) AuthSession {
		return NewGorillaAuthSession(store, c)
	}
}
