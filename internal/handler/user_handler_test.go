package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"internhub/internal/auth"
	"internhub/internal/handler"
	"internhub/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// Мок репозитория профилей
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	args := m.Called(ctx, id)
	profile := args.Get(0)
	if profile == nil {
		return nil, args.Error(1)
	}
	return profile.(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	args := m.Called(ctx, email)
	profile := args.Get(0)
	if profile == nil {
		return nil, args.Error(1)
	}
	return profile.(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) UpdateDetailsIf(ctx context.Context, id uuid.UUID, expected time.Time, details model.ProfileDetails) error {
	args := m.Called(ctx, id, expected, details)
	return args.Error(0)
}

func setupTest() (*gin.Engine, *MockProfileRepository, *auth.TokenManager) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mockRepo := new(MockProfileRepository)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	userHandler := handler.NewUserHandler(mockRepo, tokens)

	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	return r, mockRepo, tokens
}

func postJSON(router http.Handler, path string, body any) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRegister_Success(t *testing.T) {
	router, mockRepo, tokens := setupTest()

	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, nil)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Profile")).Return(nil)

	reqBody := handler.RegisterRequest{
		FullName: "Test Student",
		Email:    "Test@Example.com",
		Password: "password123",
		Role:     "student",
		Skills:   []string{"go"},
	}

	resp := postJSON(router, "/register", reqBody)

	assert.Equal(t, http.StatusCreated, resp.Code)

	var response handler.AuthResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, reqBody.FullName, response.User.FullName)
	assert.Equal(t, "test@example.com", response.User.Email)
	assert.Equal(t, "student", response.User.Role)
	assert.Equal(t, []string{"go"}, response.User.Skills)

	// Токен должен указывать на созданный профиль
	userID, err := tokens.ParseToken(response.Token)
	assert.NoError(t, err)
	assert.Equal(t, response.User.ID, userID)

	mockRepo.AssertExpectations(t)
}

func TestRegister_AdminRoleRejected(t *testing.T) {
	router, mockRepo, _ := setupTest()

	resp := postJSON(router, "/register", handler.RegisterRequest{
		FullName: "Root",
		Email:    "root@example.com",
		Password: "password123",
		Role:     "admin",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_UserAlreadyExists(t *testing.T) {
	router, mockRepo, _ := setupTest()

	existing := &model.Profile{
		ID:             uuid.New(),
		Email:          "existing@example.com",
		HashedPassword: "hashed_password",
		FullName:       "Existing User",
		Role:           model.RoleEmployer,
	}
	mockRepo.On("FindByEmail", mock.Anything, "existing@example.com").Return(existing, nil)

	resp := postJSON(router, "/register", handler.RegisterRequest{
		FullName: "Test User",
		Email:    "existing@example.com",
		Password: "password123",
		Role:     "employer",
	})

	assert.Equal(t, http.StatusConflict, resp.Code)

	var response map[string]string
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "User with this email already exists", response["error"])

	mockRepo.AssertExpectations(t)
}

func TestLogin_Success(t *testing.T) {
	router, mockRepo, _ := setupTest()

	// Создаем хешированный пароль для тестового пользователя
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	testUser := &model.Profile{
		ID:             uuid.New(),
		Email:          "test@example.com",
		HashedPassword: string(hashedPassword),
		FullName:       "Test User",
		Role:           model.RoleStudent,
	}
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(testUser, nil)

	resp := postJSON(router, "/login", handler.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.AuthResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, testUser.FullName, response.User.FullName)
	assert.Equal(t, testUser.ID.String(), response.User.ID)
	assert.Equal(t, []string{}, response.User.Skills)

	mockRepo.AssertExpectations(t)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	router, mockRepo, _ := setupTest()

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.DefaultCost)
	testUser := &model.Profile{
		ID:             uuid.New(),
		Email:          "test@example.com",
		HashedPassword: string(hashedPassword),
		FullName:       "Test User",
		Role:           model.RoleStudent,
	}
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(testUser, nil)

	resp := postJSON(router, "/login", handler.LoginRequest{
		Email:    "test@example.com",
		Password: "wrong_password",
	})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var response map[string]string
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Invalid credentials", response["error"])

	mockRepo.AssertExpectations(t)
}

func TestLogin_UserNotFound(t *testing.T) {
	router, mockRepo, _ := setupTest()

	// Пользователь не найден
	mockRepo.On("FindByEmail", mock.Anything, "nonexistent@example.com").Return(nil, nil)

	resp := postJSON(router, "/login", handler.LoginRequest{
		Email:    "nonexistent@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var response map[string]string
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Invalid credentials", response["error"])

	mockRepo.AssertExpectations(t)
}
