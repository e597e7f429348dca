package auth

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/OpenBar-api/internal/application/dto"
	"github.com/jhoicas/OpenBar-api/internal/application/usecase"
	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
	"github.com/jhoicas/OpenBar-api/pkg/jwt"
	"github.com/jhoicas/OpenBar-api/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// Prefijos aceptados en el campo username de POST /auth/token.
const (
	prefixUsername = "username:"
	prefixCard     = "card_id:"
	prefixToken    = "token:"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Principal identidad autenticada de una petición.
type Principal struct {
	UserID    int64
	LoginType entity.LoginType
	Grants    []string
}

// AuthUseCase login (usuario, tarjeta, renovación), autenticación básica e historial.
type AuthUseCase struct {
	users   repository.UserRepository
	perms   repository.PermissionRepository
	cards   *usecase.CardIndex
	history *LoginHistory
	jwtCfg  JWTConfig
	log     *logger.Logger
	now     func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	users repository.UserRepository,
	perms repository.PermissionRepository,
	cards *usecase.CardIndex,
	history *LoginHistory,
	jwtCfg JWTConfig,
	log *logger.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		users: users, perms: perms, cards: cards, history: history,
		jwtCfg: jwtCfg, log: log.Component("auth"), now: time.Now,
	}
}

// Login emite un token según el prefijo de in.Username. Credenciales incorrectas: domain.ErrUnauthorized;
// prefijo desconocido: domain.ErrInvalidInput.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error) {
	var (
		user      *entity.User
		loginType entity.LoginType
		method    string
		err       error
	)
	switch {
	case strings.HasPrefix(in.Username, prefixUsername):
		method = MethodUsername
		user, err = uc.byUsername(ctx, strings.TrimPrefix(in.Username, prefixUsername), in.Password)
		loginType = entity.LoginNormal
	case strings.HasPrefix(in.Username, prefixCard):
		method = MethodCard
		user, loginType, err = uc.byCard(ctx, strings.TrimPrefix(in.Username, prefixCard), in.Password)
	case strings.HasPrefix(in.Username, prefixToken):
		method = MethodToken
		user, loginType, err = uc.byToken(ctx, strings.TrimPrefix(in.Username, prefixToken))
	default:
		return nil, domain.ErrInvalidInput
	}
	if err != nil {
		return nil, err
	}

	resp, err := uc.issue(ctx, user, loginType)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if err := uc.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		uc.log.Warn().Err(err).Int64("user_id", user.ID).Msg("no se pudo actualizar last_login")
	}
	uc.history.Record(LoginEntry{UserID: user.ID, Method: method, LoginType: loginType, At: now})
	return resp, nil
}

// AuthenticateBasic valida usuario y contraseña de HTTP basic y devuelve los permisos PASSWORD.
func (uc *AuthUseCase) AuthenticateBasic(ctx context.Context, username, password string) (*Principal, error) {
	user, err := uc.byUsername(ctx, username, password)
	if err != nil {
		return nil, err
	}
	grants, err := uc.grants(ctx, user, entity.LoginPassword)
	if err != nil {
		return nil, err
	}
	return &Principal{UserID: user.ID, LoginType: entity.LoginPassword, Grants: grants}, nil
}

// History logins recientes.
func (uc *AuthUseCase) History() []dto.LoginHistoryEntry {
	return uc.history.Entries()
}

func (uc *AuthUseCase) byUsername(ctx context.Context, username, password string) (*entity.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.HasPassword() {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// byCard sin contraseña da un login parcial; con contraseña, uno normal.
func (uc *AuthUseCase) byCard(ctx context.Context, cardID, password string) (*entity.User, entity.LoginType, error) {
	if cardID == "" {
		return nil, 0, domain.ErrUnauthorized
	}
	user, err := uc.cards.Find(ctx, cardID)
	if err != nil {
		return nil, 0, err
	}
	if user == nil {
		return nil, 0, domain.ErrUnauthorized
	}
	if password == "" {
		return user, entity.LoginPartial, nil
	}
	if !user.HasPassword() || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, 0, domain.ErrUnauthorized
	}
	return user, entity.LoginNormal, nil
}

// byToken renueva un token con firma válida aunque haya expirado, con el mismo tipo de login.
func (uc *AuthUseCase) byToken(ctx context.Context, token string) (*entity.User, entity.LoginType, error) {
	claims, err := jwt.ParseForRenewal(uc.jwtCfg.Secret, token, uc.jwtCfg.Issuer)
	if err != nil {
		return nil, 0, domain.ErrUnauthorized
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, 0, domain.ErrUnauthorized
	}
	lt := entity.LoginType(claims.LoginType)
	if lt != entity.LoginPartial && lt != entity.LoginNormal {
		return nil, 0, domain.ErrUnauthorized
	}
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if user == nil {
		return nil, 0, domain.ErrUnauthorized
	}
	return user, lt, nil
}

func (uc *AuthUseCase) issue(ctx context.Context, user *entity.User, lt entity.LoginType) (*dto.TokenResponse, error) {
	grants, err := uc.grants(ctx, user, lt)
	if err != nil {
		return nil, err
	}
	validity := time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, grants, int(lt), uc.jwtCfg.Issuer, validity)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		Token:       token,
		UserID:      user.ID,
		LoginType:   int(lt),
		Permissions: grants,
		ExpiresIn:   int(validity / time.Second),
	}, nil
}

func (uc *AuthUseCase) grants(ctx context.Context, user *entity.User, lt entity.LoginType) ([]string, error) {
	perms, err := uc.perms.ListGranted(ctx, user.RoleID, user.ID, lt)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(perms))
	seen := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		g := p.Grant()
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out, nil
}
