// Package auth provides agent login: email and password verified against the
// agent directory, answered with a signed JWT access token.
package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	agentsrepo "usahudhomes_backend/internal/agents/repository"
	apphttp "usahudhomes_backend/internal/http"
	"usahudhomes_backend/platform/config"
	"usahudhomes_backend/platform/httpkit"
	"usahudhomes_backend/platform/logger"
	"usahudhomes_backend/platform/validator"
)

const invalidCredentialsMessage = "invalid email or password"

// LoginRequest is the login body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued access token and the agent's identity.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expiresAt"`
	Agent     LoginIdentity `json:"agent"`
}

// LoginIdentity is the agent view returned at login.
type LoginIdentity struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	agents agentsrepo.Repository
	cfg    config.AuthServiceConfig
	val    *validator.Validator
	log    *logger.Logger
}

// NewModule creates and initializes the auth module.
func NewModule(agents agentsrepo.Repository, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Module {
	return &Module{agents: agents, cfg: cfg, val: val, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts the login route behind the stricter auth rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/auth/login", ctx.AuthRateLimiter.RateLimit(), m.Login)
}

// Login verifies the agent's credentials and issues an access token.
// POST /api/v1/auth/login
func (m *Module) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if httpkit.HandleError(c, m.val.Struct(req)) {
		return
	}

	agent, err := m.agents.GetByEmail(c.Request.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		m.log.AuthEvent("login", req.Email, false, "unknown email")
		httpkit.Error(c, http.StatusUnauthorized, invalidCredentialsMessage, nil)
		return
	}

	if !agent.IsActive || agent.PasswordHash == "" {
		m.log.AuthEvent("login", req.Email, false, "inactive agent")
		httpkit.Error(c, http.StatusUnauthorized, invalidCredentialsMessage, nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(agent.PasswordHash), []byte(req.Password)); err != nil {
		m.log.AuthEvent("login", req.Email, false, "wrong password")
		httpkit.Error(c, http.StatusUnauthorized, invalidCredentialsMessage, nil)
		return
	}

	expiresAt := time.Now().Add(m.cfg.GetAccessTokenTTL())
	token, err := m.issueToken(agent, expiresAt)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to issue token", nil)
		return
	}

	m.log.AuthEvent("login", agent.Email, true, "")
	httpkit.Success(c, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		Agent: LoginIdentity{
			ID:      agent.ID.String(),
			Name:    agent.Name,
			Email:   agent.Email,
			IsAdmin: agent.IsAdmin,
		},
	})
}

func (m *Module) issueToken(agent agentsrepo.Agent, expiresAt time.Time) (string, error) {
	roles := []string{httpkit.RoleAgent}
	if agent.IsAdmin {
		roles = append(roles, httpkit.RoleAdmin)
	}

	claims := jwt.MapClaims{
		"sub":   agent.ID.String(),
		"type":  "access",
		"roles": roles,
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.cfg.GetJWTAccessSecret()))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
