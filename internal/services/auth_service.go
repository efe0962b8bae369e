// internal/services/auth_service.go
package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bytemart/bytemart-backend/internal/apperrors"
	"github.com/bytemart/bytemart-backend/internal/docstore"
	"github.com/bytemart/bytemart-backend/internal/models"
	"github.com/bytemart/bytemart-backend/internal/utils"
)

type AuthService struct {
	db *docstore.DB
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func NewAuthService(db *docstore.DB) *AuthService {
	return &AuthService{db: db}
}

func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("invalid input", utils.GetValidationErrors(err))
	}

	user := &models.User{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     req.Phone,
		Role:      models.RoleBuyer,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperrors.Internal(err)
	}

	// Uniqueness check and insert run in one transaction so two racing
	// registrations cannot both claim the email.
	err := s.db.Update(func(tx *docstore.Tx) error {
		users, err := docstore.TxAll[models.User](tx, docstore.Users)
		if err != nil {
			return err
		}
		for _, existing := range users {
			if strings.EqualFold(existing.Email, user.Email) {
				return apperrors.Conflict("user with this email already exists")
			}
		}
		return docstore.TxPut(tx, docstore.Users, user.ID, *user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password produce the same error so callers cannot enumerate accounts.
func (s *AuthService) Login(req *LoginRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Auth("invalid email or password")
	}

	users, err := docstore.All[models.User](s.db, docstore.Users)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(req.Email)
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			if err := users[i].CheckPassword(req.Password); err != nil {
				return nil, apperrors.Auth("invalid email or password")
			}
			return &users[i], nil
		}
	}
	return nil, apperrors.Auth("invalid email or password")
}

func (s *AuthService) GetUserByID(id string) (*models.User, error) {
	user, err := docstore.Get[models.User](s.db, docstore.Users, id)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, err
	}
	return &user, nil
}
