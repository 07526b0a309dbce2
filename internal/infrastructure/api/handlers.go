package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"AINewsServer/internal/domain"
	"AINewsServer/internal/infrastructure/auth"
	"AINewsServer/internal/infrastructure/storage"
	"AINewsServer/internal/ports"
	"AINewsServer/internal/usecase"
)

const refreshSampleSize = 5

// Handler serves the public API: account flows, the news feed, and the
// manual refresh trigger.
type Handler struct {
	users      ports.UserRepository
	jwtManager *auth.JWTManager
	feed       *usecase.NewsFeed
	aiModels   []string
	logger     *slog.Logger
}

// NewHandler wires handler dependencies. aiModels is the summarization
// fallback chain reported by the ai-models endpoint.
func NewHandler(users ports.UserRepository, jwtManager *auth.JWTManager, feed *usecase.NewsFeed, aiModels []string, logger *slog.Logger) *Handler {
	return &Handler{
		users:      users,
		jwtManager: jwtManager,
		feed:       feed,
		aiModels:   aiModels,
		logger:     logger,
	}
}

type registerRequest struct {
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Categories []string `json:"categories"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID         uuid.UUID         `json:"id"`
	Email      string            `json:"email"`
	Categories []domain.Category `json:"categories"`
}

// Register creates an account and issues a token.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	categories, err := parseCategories(req.Categories)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(categories) == 0 {
		categories = domain.DefaultCategories()
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.error(c, "hash password", err)
		return
	}

	user := domain.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		Categories:   categories,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		h.error(c, "create user", err)
		return
	}

	token, err := h.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		h.error(c, "generate token", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"token":   token,
		"user":    userResponse{ID: user.ID, Email: user.Email, Categories: user.Categories},
	})
}

// Login validates credentials and issues a token.
func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
			return
		}
		h.error(c, "lookup user", err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		h.error(c, "generate token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    userResponse{ID: user.ID, Email: user.Email, Categories: user.Categories},
	})
}

// News serves the article feed. The bearer token is optional: a valid one
// selects the user's preferred categories, anything else falls back to the
// defaults. Upstream provider trouble never turns into a 5xx here.
func (h *Handler) News(c *gin.Context) {
	categories := domain.DefaultCategories()

	if token, ok := bearerToken(c); ok {
		if claims, err := h.jwtManager.ValidateToken(token); err == nil {
			if id, parseErr := uuid.Parse(claims.UserID); parseErr == nil {
				if user, lookupErr := h.users.GetByID(c.Request.Context(), id); lookupErr == nil {
					categories = user.PreferredCategories()
				}
			}
		} else {
			h.debug("token invalid, using default categories")
		}
	}

	articles := h.feed.ArticlesFor(c.Request.Context(), categories)
	c.JSON(http.StatusOK, articles)
}

// RefreshNews triggers a synchronous aggregation run.
func (h *Handler) RefreshNews(c *gin.Context) {
	articles := h.feed.Refresh(c.Request.Context())

	sample := articles
	if len(sample) > refreshSampleSize {
		sample = sample[:refreshSampleSize]
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "News refreshed successfully",
		"count":    len(articles),
		"articles": sample,
	})
}

type categoriesRequest struct {
	Categories []string `json:"categories"`
}

// UpdateCategories replaces the authenticated user's preference set.
func (h *Handler) UpdateCategories(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return
	}

	var req categoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Categories == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Categories array is required"})
		return
	}

	categories, err := parseCategories(req.Categories)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	if err := h.users.UpdateCategories(c.Request.Context(), id, categories); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.error(c, "update categories", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Categories updated successfully",
		"categories": categories,
	})
}

// Profile returns the authenticated user's account record.
func (h *Handler) Profile(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.error(c, "load profile", err)
		return
	}

	c.JSON(http.StatusOK, userResponse{ID: user.ID, Email: user.Email, Categories: user.Categories})
}

// Endpoints lists the API surface for anyone poking at the root path.
func (h *Handler) Endpoints(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"endpoints": []string{
			"GET  /api - This endpoints list",
			"GET  /api/test - Server health check",
			"GET  /api/health - Health check",
			"POST /api/register - User registration",
			"POST /api/login - User login",
			"GET  /api/news - Get news articles",
			"POST /api/news/refresh - Refresh news manually",
			"GET  /api/ai-models - List summarization models",
			"PUT  /api/user/categories - Update user categories",
			"GET  /api/user/profile - Get user profile",
		},
	})
}

// AIModels reports the configured summarization fallback chain.
func (h *Handler) AIModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": h.aiModels})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   "AI News Server is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func parseCategories(names []string) ([]domain.Category, error) {
	categories := make([]domain.Category, 0, len(names))
	for _, name := range names {
		category := domain.Category(name)
		if !domain.ValidCategory(category) {
			return nil, errors.New("unknown category: " + name)
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func (h *Handler) error(c *gin.Context, op string, err error) {
	if h.logger != nil {
		h.logger.Error(op+" failed", "error", err)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func (h *Handler) debug(msg string, args ...any) {
	if h.logger != nil {
		h.logger.Debug(msg, args...)
	}
}
