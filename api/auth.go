package api

import (
	"net/http"

	"screen-ai/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type loginRequest struct {
	Email    string `json:"email" form:"username"`
	Password string `json:"password" form:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func setupAuthRoutes(rg *gin.RouterGroup, s *Server, limiter *loginLimiter) {
	auth := s.Services.Auth
	g := rg.Group("/auth")

	g.POST("/register", func(c *gin.Context) {
		var in services.RegisterInput
		if !bindJSON(c, &in) {
			return
		}
		user, err := auth.Register(c.Request.Context(), in)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusCreated, user)
	})

	// Login akzeptiert JSON {email, password} oder ein OAuth2-Passwortformular
	// mit username/password.
	g.POST("/login", limiter.middleware(), func(c *gin.Context) {
		var req loginRequest
		var err error
		if c.ContentType() == binding.MIMEJSON {
			err = c.ShouldBindJSON(&req)
		} else {
			err = c.ShouldBindWith(&req, binding.Form)
		}
		if err != nil || req.Email == "" || req.Password == "" {
			badRequest(c, "email and password are required")
			return
		}
		token, err := auth.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
	})

	g.GET("/me", requireAuth(auth, s.Logger), func(c *gin.Context) {
		c.JSON(http.StatusOK, currentUser(c))
	})
}
