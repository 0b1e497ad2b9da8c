package webserver

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Wraptron/incubation-backend/src/api/apperr"
	"github.com/Wraptron/incubation-backend/src/api/review"
)

type Auth struct {
	users       review.UserRepo
	jwtSecret   []byte
	loginSecret string
}

func NewAuth(users review.UserRepo, jwtSecret []byte, loginSecret string) Auth {
	return Auth{users: users, jwtSecret: jwtSecret, loginSecret: loginSecret}
}

// Login exchanges a known profile email for a bearer token carrying the
// user's id and role. Account verification (magic link, SSO) sits in front
// of this service; when LOGIN_SHARED_SECRET is set, that fronting layer
// must prove itself with the X-Login-Secret header.
func (a Auth) Login(c *gin.Context) {
	if a.loginSecret != "" {
		got := c.GetHeader("X-Login-Secret")
		if subtle.ConstantTimeCompare([]byte(got), []byte(a.loginSecret)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "detail": "missing or invalid login secret"})
			return
		}
	}

	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	u, err := a.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, apperr.New(apperr.NotFound, "")) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "detail": "unknown account"})
			return
		}
		fail(c, err)
		return
	}

	token, err := issueJWT(u.ID, u.Role, a.jwtSecret)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "role": u.Role, "userId": u.ID})
}
