package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shelfwise/internal/apierror"
	"shelfwise/internal/dto"
	"shelfwise/internal/middleware"
	"shelfwise/internal/service"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.SignUp(c.Request.Context(), req)
	if errors.Is(err, service.ErrEmailTaken) {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Could not sign up"))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) ConfirmSignUp(c *gin.Context) {
	var req dto.ConfirmSignUpRequest
	if !bindAndValidate(c, &req) {
		return
	}

	err := h.svc.ConfirmSignUp(c.Request.Context(), req)
	if errors.Is(err, service.ErrInvalidCode) {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Could not confirm account"))
		return
	}
	// "SUCCESS" mirrors what the managed pool the web client was written
	// against returns from confirmRegistration.
	c.JSON(http.StatusOK, apierror.NewMessage("SUCCESS"))
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.SignIn(c.Request.Context(), req)
	if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrNotConfirmed) {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Could not sign in"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SignOut revokes the presented token. Requires authentication, so the
// claims are always present here.
func (h *AuthHandler) SignOut(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok || claims.ExpiresAt == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Unauthorized"))
		return
	}

	if err := h.svc.SignOut(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Could not sign out"))
		return
	}
	c.JSON(http.StatusOK, apierror.NewMessage("Signed out"))
}

func (h *AuthHandler) CurrentUser(c *gin.Context) {
	caller, _ := middleware.ResolveCaller(c)
	c.JSON(http.StatusOK, dto.CurrentUserResponse{UserID: caller.UserID, Email: caller.Email})
}
