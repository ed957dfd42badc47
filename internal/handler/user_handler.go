package handler

import (
	"net/http"
	"strings"

	"internhub/internal/auth"
	"internhub/internal/model"
	"internhub/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserHandler struct {
	repo   repository.ProfileRepositoryInterface
	tokens *auth.TokenManager
}

func NewUserHandler(repo repository.ProfileRepositoryInterface, tokens *auth.TokenManager) *UserHandler {
	return &UserHandler{repo: repo, tokens: tokens}
}

// RegisterRequest представляет запрос на регистрацию студента или работодателя
type RegisterRequest struct {
	Email       string   `json:"email" binding:"required,email"`
	FullName    string   `json:"full_name" binding:"required,min=2"`
	Password    string   `json:"password" binding:"required,min=6"`
	Role        string   `json:"role" binding:"required"`
	CompanyName *string  `json:"company_name"`
	CollegeName *string  `json:"college_name"`
	Skills      []string `json:"skills"`
}

// LoginRequest представляет запрос на вход
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ProfileResponse представляет публичные данные профиля
type ProfileResponse struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FullName    string   `json:"full_name"`
	Role        string   `json:"role"`
	CompanyName *string  `json:"company_name,omitempty"`
	CollegeName *string  `json:"college_name,omitempty"`
	Skills      []string `json:"skills"`
	Bio         *string  `json:"bio,omitempty"`
	Location    *string  `json:"location,omitempty"`
}

// AuthResponse представляет ответ с токеном и профилем
type AuthResponse struct {
	Token string          `json:"token"`
	User  ProfileResponse `json:"user"`
}

func toProfileResponse(p *model.Profile) ProfileResponse {
	skills := []string(p.Skills)
	if skills == nil {
		skills = []string{}
	}
	return ProfileResponse{
		ID:          p.ID.String(),
		Email:       p.Email,
		FullName:    p.FullName,
		Role:        string(p.Role),
		CompanyName: p.CompanyName,
		CollegeName: p.CollegeName,
		Skills:      skills,
		Bio:         p.Bio,
		Location:    p.Location,
	}
}

// Register создает профиль и сразу выдает токен
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// Администраторы не регистрируются сами
	role, ok := model.ParseRole(req.Role)
	if !ok || role == model.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be student or employer"})
		return
	}

	req.Email = strings.ToLower(req.Email)

	existing, err := h.repo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Hash error"})
		return
	}

	profile := &model.Profile{
		ID:             uuid.New(),
		Email:          req.Email,
		HashedPassword: string(hash),
		FullName:       req.FullName,
		Role:           role,
		Skills:         model.NormalizeSkills(req.Skills),
	}
	if role == model.RoleEmployer {
		profile.CompanyName = req.CompanyName
	} else {
		profile.CollegeName = req.CollegeName
	}

	if err := h.repo.Create(c.Request.Context(), profile); err != nil {
		respondError(c, err)
		return
	}

	token, err := h.tokens.GenerateToken(profile.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: toProfileResponse(profile)})
}

// Login проверяет пароль и выдает токен
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	profile, err := h.repo.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.HashedPassword), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.tokens.GenerateToken(profile.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: toProfileResponse(profile)})
}

// Me возвращает профиль текущего пользователя
func (h *UserHandler) Me(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	profile, err := h.repo.GetByID(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(profile))
}
