package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	PasswordMinLength = 5

	msgInvalidEmail   = "Enter a valid email address."
	msgEmailTaken     = "user with this email already exists."
	msgPasswordLength = "Ensure this field has at least 5 characters."
)

// UserFields are the optional attributes accepted when creating a user.
type UserFields struct {
	Name        string
	IsActive    *bool
	IsStaff     bool
	IsSuperuser bool
}

type AuthService struct {
	db        *gorm.DB
	jwtSecret []byte
	policy    PermissionPolicy
	validate  *validator.Validate
	cost      int
}

var _ IAuthService = (*AuthService)(nil)

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: []byte(jwtSecret),
		policy:    DefaultPolicy{},
		validate:  validator.New(),
		cost:      bcrypt.DefaultCost,
	}
}

// WithPolicy replaces the permission policy consulted on authentication.
func (s *AuthService) WithPolicy(p PermissionPolicy) *AuthService {
	s.policy = p
	return s
}

// WithBcryptCost overrides the hashing cost. Tests use bcrypt.MinCost.
func (s *AuthService) WithBcryptCost(cost int) *AuthService {
	s.cost = cost
	return s
}

// CreateUser registers a new account. The email is normalized and must be
// unique; the password is stored only as a bcrypt hash.
func (s *AuthService) CreateUser(ctx context.Context, email, password string, extra UserFields) (*models.User, error) {
	verr := &ValidationError{}
	email = s.checkEmail(verr, email)
	s.checkPassword(verr, password)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, NewValidationError("email", msgEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         strings.TrimSpace(extra.Name),
		PasswordHash: string(hash),
		IsActive:     true,
		IsStaff:      extra.IsStaff,
		IsSuperuser:  extra.IsSuperuser,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		// zero values are skipped on insert in favour of column defaults
		if extra.IsActive != nil && !*extra.IsActive {
			user.IsActive = false
			return tx.Model(user).Update("is_active", false).Error
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, NewValidationError("email", msgEmailTaken)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// CreateSuperuser creates a user with staff and superuser flags set.
func (s *AuthService) CreateSuperuser(ctx context.Context, email, password string) (*models.User, error) {
	return s.CreateUser(ctx, email, password, UserFields{IsStaff: true, IsSuperuser: true})
}

// Authenticate exchanges credentials for the user's bearer token, creating
// the backing token row on first use.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (string, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	db := s.db.WithContext(ctx)
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	if !s.policy.CanAuthenticate(&user) {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.getOrCreateToken(db, user.ID)
	if err != nil {
		return "", err
	}
	return s.sign(token)
}

func (s *AuthService) getOrCreateToken(db *gorm.DB, userID uint) (*models.Token, error) {
	var token models.Token
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&token).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		key, err := generateKey()
		if err != nil {
			return err
		}
		token = models.Token{Key: key, UserID: userID}
		return tx.Create(&token).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// a concurrent login created it first
		err = db.Where("user_id = ?", userID).First(&token).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &token, nil
}

func (s *AuthService) sign(token *models.Token) (string, error) {
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       token.Key,
			Subject:  strconv.FormatUint(uint64(token.UserID), 10),
			IssuedAt: jwt.NewNumericDate(token.CreatedAt),
		},
		UserID: token.UserID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies the signature of a bearer token and that its token
// row still exists for an active user.
func (s *AuthService) ValidateToken(ctx context.Context, bearer string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	_, err := jwt.ParseWithClaims(bearer, claims, func(*jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ID == "" || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	db := s.db.WithContext(ctx)
	var token models.Token
	err = db.Where(&models.Token{Key: claims.ID, UserID: claims.UserID}).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	user, err := s.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, ErrNotFound) || (err == nil && !s.policy.CanAuthenticate(user)) {
		return nil, ErrInactiveUser
	}
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// UpdateUser changes the caller's own account. With partial unset every
// field is required, matching a full replace.
func (s *AuthService) UpdateUser(ctx context.Context, id uint, req *types.UpdateUserRequest, partial bool) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	if !partial {
		if req.Email == nil {
			verr.Add("email", MsgRequired)
		}
		if req.Password == nil {
			verr.Add("password", MsgRequired)
		}
		if req.Name == nil {
			verr.Add("name", MsgRequired)
		}
	}
	if req.Email != nil {
		user.Email = s.checkEmail(verr, *req.Email)
	}
	if req.Password != nil {
		s.checkPassword(verr, *req.Password)
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
		if user.Name == "" && !partial {
			verr.Add("name", MsgBlank)
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if req.Email != nil {
		var count int64
		if err := db.Model(&models.User{}).Where("email = ? AND id <> ?", user.Email, user.ID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if count > 0 {
			return nil, NewValidationError("email", msgEmailTaken)
		}
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.cost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	err = db.Model(user).Select("email", "name", "password_hash").Updates(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, NewValidationError("email", msgEmailTaken)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *AuthService) checkEmail(verr *ValidationError, email string) string {
	email = models.NormalizeEmail(email)
	switch {
	case email == "":
		verr.Add("email", MsgRequired)
	case s.validate.Var(email, "email") != nil:
		verr.Add("email", msgInvalidEmail)
	}
	return email
}

func (s *AuthService) checkPassword(verr *ValidationError, password string) {
	switch {
	case password == "":
		verr.Add("password", MsgRequired)
	case len([]rune(password)) < PasswordMinLength:
		verr.Add("password", msgPasswordLength)
	}
}

// generateKey returns 40 random hex characters.
func generateKey() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token key: %w", err)
	}
	return hex.EncodeToString(b), nil
}
