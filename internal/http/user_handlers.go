package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tazhibayda/recipe-service/internal/domain"
	"github.com/tazhibayda/recipe-service/internal/helper"
	"github.com/tazhibayda/recipe-service/internal/images"
	"github.com/tazhibayda/recipe-service/internal/log"
	"github.com/tazhibayda/recipe-service/internal/metrics"
	"github.com/tazhibayda/recipe-service/internal/queue"
	"github.com/tazhibayda/recipe-service/internal/repo"
	"github.com/tazhibayda/recipe-service/internal/security"
)

type signupReq struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Signup godoc
// @Summary Register user
// @Tags users
// @Accept json
// @Produce json
// @Param payload body signupReq true "signup"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var in signupReq
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	password := strings.TrimSpace(in.Password)

	switch {
	case first == "":
		fail(c, http.StatusBadRequest, "Please enter valid first name!")
		return
	case last == "":
		fail(c, http.StatusBadRequest, "Please enter valid last name!")
		return
	case !strings.Contains(email, "@"):
		fail(c, http.StatusBadRequest, "Please enter valid email!")
		return
	case len(password) <= 6:
		fail(c, http.StatusBadRequest, "Password need to have more than 6 characters")
		return
	}

	ex, err := h.Users.FindUserByEmail(c.Request.Context(), email)
	if err != nil {
		fail(c, http.StatusBadRequest, "User lookup failed.")
		return
	}
	if ex != nil {
		fail(c, http.StatusBadRequest, "Email adress already registered.")
		return
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		fail(c, http.StatusBadRequest, "Password creation failed.")
		return
	}

	u := &domain.User{
		FirstName:    first,
		LastName:     last,
		Email:        email,
		PasswordHash: hash,
	}
	if err := h.Users.CreateUser(c.Request.Context(), u); err != nil {
		fail(c, http.StatusBadRequest, "Email adress already registered.")
		return
	}

	token, err := security.MakeToken(h.JWTSecret, u.ID.Hex())
	if err != nil {
		fail(c, http.StatusBadRequest, "Token creation failed.")
		return
	}
	if err := h.Users.AddToken(c.Request.Context(), u.ID, token); err != nil {
		fail(c, http.StatusBadRequest, "Token creation failed.")
		return
	}
	u.Tokens = []string{token}

	reqID := c.GetString(requestIDKey)
	go func() {
		if err := h.Events.Publish(context.Background(), queue.Exchange, "user.registered",
			queue.UserRegistered{UserID: u.ID, Email: u.Email}, reqID); err != nil {
			log.L().Warn("event publish failed",
				zap.String("key", "user.registered"), zap.Error(err))
		}
	}()

	c.JSON(http.StatusCreated, gin.H{"result": "User Created.", "user": u, "token": token})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login godoc
// @Summary Login
// @Tags users
// @Accept json
// @Produce json
// @Param payload body loginReq true "login"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /login [post]
func (h *Handler) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	u, err := h.Users.FindUserByEmail(c.Request.Context(), email)
	if err != nil {
		fail(c, http.StatusBadRequest, "User lookup failed.")
		return
	}
	if u == nil {
		fail(c, http.StatusBadRequest, "User not found with this email.")
		return
	}
	if !security.CheckPassword(u.PasswordHash, in.Password) {
		fail(c, http.StatusBadRequest, "Password not matched.")
		return
	}

	token, err := security.MakeToken(h.JWTSecret, u.ID.Hex())
	if err != nil {
		fail(c, http.StatusBadRequest, "Token creation failed.")
		return
	}
	// appended, not replaced: concurrent sessions stay valid
	if err := h.Users.AddToken(c.Request.Context(), u.ID, token); err != nil {
		fail(c, http.StatusBadRequest, "Token creation failed.")
		return
	}

	reqID := c.GetString(requestIDKey)
	go func() {
		if err := h.Events.Publish(context.Background(), queue.Exchange, "user.loggedin",
			queue.UserLoggedIn{UserID: u.ID, Email: u.Email}, reqID); err != nil {
			log.L().Warn("event publish failed",
				zap.String("key", "user.loggedin"), zap.Error(err))
		}
	}()

	c.JSON(http.StatusOK, gin.H{"result": "Login successfully.", "user": u, "token": token})
}

// UserData godoc
// @Summary Profile projection of the current user
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Router /userData [get]
func (h *Handler) UserData(c *gin.Context) {
	u, _ := authUser(c)
	c.JSON(http.StatusOK, gin.H{"status": 200, "result": "User found.", "user": u.Profile()})
}

// UpdateUser godoc
// @Summary Update profile
// @Tags users
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]string
// @Router /updateUser [post]
func (h *Handler) UpdateUser(c *gin.Context) {
	u, _ := authUser(c)

	first := strings.TrimSpace(c.PostForm("firstName"))
	last := strings.TrimSpace(c.PostForm("lastName"))
	oldPassword := strings.TrimSpace(c.PostForm("oldPassword"))
	newPassword := strings.TrimSpace(c.PostForm("newPassword"))

	switch {
	case first == "":
		fail(c, http.StatusServiceUnavailable, "Please enter valid first name!")
		return
	case last == "":
		fail(c, http.StatusServiceUnavailable, "Please enter valid last name!")
		return
	case oldPassword == "":
		fail(c, http.StatusServiceUnavailable, "Old password must be long enough!")
		return
	}
	// empty means "keep the current password"; 1-5 chars is rejected
	if newPassword != "" && len(newPassword) < 6 {
		fail(c, http.StatusServiceUnavailable, "New password atleast have 6 characters!")
		return
	}

	if !security.CheckPassword(u.PasswordHash, oldPassword) {
		fail(c, http.StatusServiceUnavailable, "Old password not matched.")
		return
	}

	hash := u.PasswordHash
	if newPassword != "" {
		var err error
		hash, err = security.HashPassword(newPassword)
		if err != nil {
			fail(c, http.StatusServiceUnavailable, "New password creation failed.")
			return
		}
	}

	image := u.Image
	if fh, err := c.FormFile("image"); err == nil {
		if !images.AllowedType(fh.Filename) {
			fail(c, http.StatusServiceUnavailable, "Only jpg, jpeg and png images are allowed.")
			return
		}
		f, err := fh.Open()
		if err != nil {
			fail(c, http.StatusServiceUnavailable, "Profile image not uploaded!")
			return
		}
		defer f.Close()

		image, err = h.Images.SaveProfile(f, fh.Filename)
		if err != nil {
			fail(c, http.StatusServiceUnavailable, "Profile image not uploaded!")
			return
		}

		// removed only after the new image is on disk; best-effort, a
		// leftover file must not fail the profile update
		if err := h.Images.Remove(u.Image); err != nil {
			metrics.ImageCleanupFailures.Inc()
			log.L().Warn("profile image cleanup failed",
				zap.String("path", u.Image), zap.Error(err))
		}
	}

	up := repo.ProfileUpdate{
		FirstName:    first,
		LastName:     last,
		Image:        image,
		PasswordHash: hash,
	}
	if err := h.Users.UpdateProfile(c.Request.Context(), u.ID, up); err != nil {
		fail(c, http.StatusServiceUnavailable, "User update failed.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "User updated successfully.", "status": 200})
}

// Logout godoc
// @Summary Logout (revoke the presented token only)
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 500 {object} map[string]string
// @Router /logout [post]
func (h *Handler) Logout(c *gin.Context) {
	u, tok := authUser(c)
	if err := h.Users.RemoveToken(c.Request.Context(), u.ID, tok); err != nil {
		fail(c, http.StatusInternalServerError, "Logout failed.")
		return
	}
	log.L().Info("session revoked",
		zap.String("uid", u.ID.Hex()), zap.String("token", helper.Hash8(tok)))
	c.JSON(http.StatusOK, gin.H{"result": "Logout successfully."})
}
