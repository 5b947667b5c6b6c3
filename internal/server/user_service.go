// file: internal/server/user_service.go
// version: 2.0.0
// guid: 3f4a5b6c-7d8e-9f0a-1b2c-3d4e5f6a7b80

package server

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/obodeflix/obodeflix/internal/database"
	"github.com/obodeflix/obodeflix/internal/models"
	"github.com/obodeflix/obodeflix/internal/server/middleware"
)

type signupPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string              `json:"token"`
	User  models.UserSummary  `json:"user"`
}

const minPasswordLength = 8

func validateSignup(p *signupPayload) []string {
	reasons := []string{}
	if strings.TrimSpace(p.Name) == "" {
		reasons = append(reasons, "name is required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(p.Email)); err != nil {
		reasons = append(reasons, "email is invalid")
	}
	if len(p.Password) < minPasswordLength {
		reasons = append(reasons, "password must be at least 8 characters")
	}
	return reasons
}

// createUser registers a new account. The very first account becomes the
// admin so a fresh install can be bootstrapped from the signup form.
func (s *Server) createUser(c *gin.Context) {
	var payload signupPayload
	if HandleBindError(c, c.ShouldBindJSON(&payload)) {
		return
	}
	if reasons := validateSignup(&payload); len(reasons) > 0 {
		RespondWithBadRequest(c, reasons...)
		return
	}

	email := strings.TrimSpace(payload.Email)
	existing, err := s.store.GetUserByEmail(email)
	if err != nil {
		RespondWithInternalError(c, "failed to check email")
		return
	}
	if existing != nil {
		RespondWithConflict(c, "email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondWithInternalError(c, "failed to hash password")
		return
	}

	userType := models.UserCommon
	count, err := s.store.CountUsers()
	if err != nil {
		RespondWithInternalError(c, "failed to check user count")
		return
	}
	if count == 0 {
		userType = models.UserAdmin
	}

	user, err := s.store.CreateUser(strings.TrimSpace(payload.Name), email, string(hash), userType)
	if err != nil {
		RespondWithInternalError(c, "failed to create user")
		return
	}

	session, err := s.store.CreateSession(user.ID, s.sessionTTL)
	if err != nil {
		RespondWithInternalError(c, "failed to create session")
		return
	}

	s.setSessionCookie(c, session)
	c.JSON(http.StatusCreated, sessionResponse{
		Token: session.Token,
		User:  models.UserSummary{ID: user.ID, Name: user.Name, Type: user.Type},
	})
}

func (s *Server) login(c *gin.Context) {
	var payload loginPayload
	if HandleBindError(c, c.ShouldBindJSON(&payload)) {
		return
	}

	user, err := s.store.GetUserByEmail(strings.TrimSpace(payload.Email))
	if err != nil {
		RespondWithInternalError(c, "failed to look up user")
		return
	}
	// Same response for unknown email and wrong password.
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)) != nil {
		RespondWithUnauthorized(c, "invalid credentials")
		return
	}

	session, err := s.store.CreateSession(user.ID, s.sessionTTL)
	if err != nil {
		RespondWithInternalError(c, "failed to create session")
		return
	}

	s.setSessionCookie(c, session)
	c.JSON(http.StatusOK, sessionResponse{
		Token: session.Token,
		User:  models.UserSummary{ID: user.ID, Name: user.Name, Type: user.Type},
	})
}

func (s *Server) logout(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if ok {
		if err := s.store.RevokeSession(session.Token); err != nil {
			RespondWithInternalError(c, "failed to revoke session")
			return
		}
	}
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

func (s *Server) currentUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		RespondWithUnauthorized(c, "authentication required")
		return
	}
	c.JSON(http.StatusOK, models.UserSummary{ID: user.ID, Name: user.Name, Type: user.Type})
}

func (s *Server) listUsers(c *gin.Context) {
	q, ok := parseListQuery(c, database.UserOrderColumns)
	if !ok {
		return
	}
	page, err := s.store.ListUsers(q)
	if err != nil {
		RespondWithInternalError(c, "failed to list users")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) setSessionCookie(c *gin.Context, session *database.Session) {
	maxAge := int(s.sessionTTL.Seconds())
	c.SetCookie(middleware.SessionCookieName, session.Token, maxAge, "/", "", false, true)
}
