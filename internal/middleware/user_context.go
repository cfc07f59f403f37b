package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/Rendyzzx/jawa/internal/models"
	"github.com/Rendyzzx/jawa/internal/store"
)

const currentUserKey = "CurrentUser"

// InjectUser resolves the session's user id to a live record on every
// request. A session pointing at a user that no longer exists is deleted
// instead of serving stale identity. A valid session is re-saved so its
// idle expiry rolls forward with activity.
func InjectUser(st *store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		if uidRaw := sess.Get("user_id"); uidRaw != nil {
			if uid, ok := uidRaw.(int64); ok && uid > 0 {
				if user := st.FindByID(uid); user != nil {
					c.Set(currentUserKey, *user)
					sess.Set("user_id", uid)
					_ = sess.Save()
				} else {
					sess.Clear()
					sess.Options(sessions.Options{Path: "/", MaxAge: -1})
					_ = sess.Save()
				}
			}
		}

		c.Next()
	}
}

// CurrentUser returns the authenticated user attached by InjectUser.
func CurrentUser(c *gin.Context) (models.User, bool) {
	if v, ok := c.Get(currentUserKey); ok {
		if u, ok := v.(models.User); ok {
			return u, true
		}
	}
	return models.User{}, false
}
