package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/cropwise/fieldadvisor/pkg/errors"
)

// Service exposes authentication workflows.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (UserView, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	ValidateToken(ctx context.Context, token string) (Claims, error)
	Refresh(ctx context.Context, refreshToken string) (LoginResponse, error)
	Profile(ctx context.Context, userID int64) (UserView, error)
	AssignRoles(ctx context.Context, principal Principal, userID int64, roles []string) (UserView, error)
}

type service struct {
	cfg    Config
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// NewService constructs a Service instance.
func NewService(cfg Config, repo Repository, logger *slog.Logger) Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 15 * time.Minute
	}
	if cfg.RefreshTokenTTL <= 0 {
		cfg.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	return &service{
		cfg:    cfg,
		repo:   repo,
		logger: logger.With("component", "auth.service"),
		now:    time.Now,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (UserView, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return UserView{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid email address", err)
	}
	nickname, err := normalizeNickname(req.Nickname)
	if err != nil {
		return UserView{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	if err := validatePassword(req.Password); err != nil {
		return UserView{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	_, exists, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return UserView{}, apperrors.Wrap("auth_error", "failed to check user", err)
	}
	if exists {
		return UserView{}, apperrors.Wrap("email_exists", "email already registered", nil)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserView{}, apperrors.Wrap("auth_error", "failed to hash password", err)
	}
	// New accounts start as viewers until an admin grants more.
	user, err := s.repo.Create(ctx, email, nickname, string(hashed), []string{RoleViewer})
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return UserView{}, apperrors.Wrap("email_exists", "email already registered", err)
		}
		return UserView{}, apperrors.Wrap("auth_error", "failed to create user", err)
	}
	return toView(user), nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid email address", err)
	}
	if strings.TrimSpace(req.Password) == "" {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "password cannot be empty", nil)
	}
	user, found, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap("auth_error", "failed to fetch user", err)
	}
	if !found {
		return LoginResponse{}, apperrors.Wrap("invalid_credentials", "invalid email or password", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return LoginResponse{}, apperrors.Wrap("invalid_credentials", "invalid email or password", nil)
	}
	return s.buildLoginResponse(user)
}

func (s *service) ValidateToken(ctx context.Context, token string) (Claims, error) {
	if strings.TrimSpace(token) == "" {
		return Claims{}, apperrors.Wrap("invalid_token", "token missing", nil)
	}
	claims, err := s.parseToken(token)
	if err != nil {
		return Claims{}, err
	}
	if claims.TokenType != tokenTypeAccess {
		return Claims{}, apperrors.Wrap("invalid_token", "token type mismatch", nil)
	}
	return claims, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (LoginResponse, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return LoginResponse{}, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return LoginResponse{}, apperrors.Wrap("invalid_token", "token type mismatch", nil)
	}
	user, found, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap("auth_error", "failed to fetch user", err)
	}
	if !found {
		return LoginResponse{}, apperrors.Wrap("invalid_token", "user no longer exists", nil)
	}
	return s.buildLoginResponse(user)
}

func (s *service) Profile(ctx context.Context, userID int64) (UserView, error) {
	user, found, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return UserView{}, apperrors.Wrap("auth_error", "failed to fetch user", err)
	}
	if !found {
		return UserView{}, apperrors.Wrap(apperrors.CodeNotFound, "user not found", nil)
	}
	return toView(user), nil
}

func (s *service) AssignRoles(ctx context.Context, principal Principal, userID int64, roles []string) (UserView, error) {
	if !Authorize(principal, ActionUserManage, nil) {
		return UserView{}, apperrors.Wrap(apperrors.CodeForbidden, "role management requires admin access", nil)
	}
	for _, role := range roles {
		if _, ok := rolePermissions[role]; !ok {
			return UserView{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unknown role: %s", role), nil)
		}
	}
	user, found, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return UserView{}, apperrors.Wrap("auth_error", "failed to fetch user", err)
	}
	if !found {
		return UserView{}, apperrors.Wrap(apperrors.CodeNotFound, "user not found", nil)
	}
	if err := s.repo.SetRoles(ctx, userID, roles); err != nil {
		return UserView{}, apperrors.Wrap("auth_error", "failed to assign roles", err)
	}
	user.Roles = roles
	s.logger.Info("roles assigned", "user_id", userID, "roles", roles)
	return toView(user), nil
}

func (s *service) buildLoginResponse(user User) (LoginResponse, error) {
	access, err := s.signToken(user, tokenTypeAccess, s.cfg.TokenTTL)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap("auth_error", "failed to sign token", err)
	}
	refresh, err := s.signToken(user, tokenTypeRefresh, s.cfg.RefreshTokenTTL)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap("auth_error", "failed to sign refresh token", err)
	}
	return LoginResponse{Token: access, RefreshToken: refresh, User: toView(user)}, nil
}

func (s *service) signToken(user User, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(user.ID, 10),
		"email": user.Email,
		"roles": user.Roles,
		"typ":   tokenType,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

func (s *service) parseToken(raw string) (Claims, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return Claims{}, apperrors.Wrap("invalid_token", "failed to parse token", err)
	}
	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Claims{}, apperrors.Wrap("invalid_token", "invalid token claims", nil)
	}

	sub, _ := mapClaims["sub"].(string)
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return Claims{}, apperrors.Wrap("invalid_token", "invalid subject claim", err)
	}
	email, _ := mapClaims["email"].(string)
	tokenType, _ := mapClaims["typ"].(string)

	var roles []string
	if rawRoles, ok := mapClaims["roles"].([]any); ok {
		for _, r := range rawRoles {
			if role, ok := r.(string); ok {
				roles = append(roles, role)
			}
		}
	}

	var expires time.Time
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		expires = exp.Time
	}

	return Claims{
		UserID:    userID,
		Email:     email,
		Roles:     roles,
		TokenType: tokenType,
		ExpiresAt: expires,
	}, nil
}

func toView(user User) UserView {
	return UserView{
		ID:        user.ID,
		Email:     user.Email,
		Nickname:  user.Nickname,
		Roles:     user.Roles,
		CreatedAt: user.CreatedAt,
	}
}

func normalizeEmail(raw string) (string, error) {
	trimmed := strings.TrimSpace(strings.ToLower(raw))
	if trimmed == "" {
		return "", errors.New("email cannot be empty")
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return "", err
	}
	return addr.Address, nil
}

func normalizeNickname(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("nickname cannot be empty")
	}
	if len(trimmed) > 64 {
		return "", errors.New("nickname too long")
	}
	return trimmed, nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return errors.New("password must contain letters and digits")
	}
	return nil
}
