package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/OpenBar-api/internal/application/auth"
	"github.com/jhoicas/OpenBar-api/internal/application/dto"
	"github.com/jhoicas/OpenBar-api/internal/application/usecase"
	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/infrastructure/memory"
	"github.com/jhoicas/OpenBar-api/pkg/jwt"
	"github.com/jhoicas/OpenBar-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jwtCfg = auth.JWTConfig{Secret: "test-secret", ExpMinutes: 50, Issuer: "OpenBar Auth"}

type authFixture struct {
	uc      *auth.AuthUseCase
	store   *memory.Store
	history *auth.LoginHistory
	userID  int64
}

// newAuth crea un usuario "ana"/"secreto123" con tarjeta "04AA" y permisos por tipo de login.
func newAuth(t *testing.T) *authFixture {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	r := &entity.Role{Name: "cliente"}
	require.NoError(t, s.Roles().Create(ctx, r))
	perms := []*entity.Permission{
		{Name: entity.PermOrderBasket, LoginType: entity.LoginPartial, RoleID: &r.ID},
		{Name: entity.PermOrderRead, LoginType: entity.LoginNormal, RoleID: &r.ID},
		{Name: entity.PermUserRead, LoginType: entity.LoginPassword, Range: entity.RangeEveryone, RoleID: &r.ID},
	}
	for _, p := range perms {
		require.NoError(t, s.Permissions().AddToRole(ctx, p))
	}

	cards := usecase.NewCardIndex(s.CardSalts(), s.Users())
	users := usecase.NewUserUseCase(s.Users(), s.Roles(), cards)
	name := "ana"
	u, err := users.Create(ctx, dto.CreateUserRequest{
		Username: &name, Password: "secreto123", FirstName: "Ana", Name: "Pérez", RoleID: r.ID, CardID: "04AA",
	})
	require.NoError(t, err)

	history := auth.NewLoginHistory(3)
	uc := auth.NewAuthUseCase(s.Users(), s.Permissions(), cards, history, jwtCfg, logger.Nop())
	return &authFixture{uc: uc, store: s, history: history, userID: u.ID}
}

func TestLogin_Username(t *testing.T) {
	f := newAuth(t)
	resp, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "username:ana", Password: "secreto123"})
	require.NoError(t, err)

	assert.Equal(t, int(entity.LoginNormal), resp.LoginType)
	assert.Equal(t, []string{"order.read.0"}, resp.Permissions)
	assert.Equal(t, 50*60, resp.ExpiresIn)

	claims, err := jwt.Parse(jwtCfg.Secret, resp.Token, jwtCfg.Issuer)
	require.NoError(t, err)
	id, _ := claims.UserID()
	assert.Equal(t, f.userID, id)

	u, _ := f.store.Users().GetByID(context.Background(), f.userID)
	assert.NotNil(t, u.LastLogin)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	f := newAuth(t)
	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "username:ana", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Username: "username:nadie", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, f.uc.History())
}

func TestLogin_Tarjeta_ParcialYNormal(t *testing.T) {
	f := newAuth(t)
	ctx := context.Background()

	partial, err := f.uc.Login(ctx, dto.LoginRequest{Username: "card_id:04AA"})
	require.NoError(t, err)
	assert.Equal(t, int(entity.LoginPartial), partial.LoginType)
	assert.Equal(t, []string{"order.basket.0"}, partial.Permissions)

	normal, err := f.uc.Login(ctx, dto.LoginRequest{Username: "card_id:04AA", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, int(entity.LoginNormal), normal.LoginType)

	_, err = f.uc.Login(ctx, dto.LoginRequest{Username: "card_id:FFFF"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_RenovacionConTokenExpirado(t *testing.T) {
	f := newAuth(t)
	old, err := jwt.Generate(jwtCfg.Secret, f.userID, nil, int(entity.LoginPartial), jwtCfg.Issuer, -time.Minute)
	require.NoError(t, err)

	resp, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "token:" + old})
	require.NoError(t, err)
	assert.Equal(t, int(entity.LoginPartial), resp.LoginType)
	assert.Equal(t, []string{"order.basket.0"}, resp.Permissions)

	forged, err := jwt.Generate("otro", f.userID, nil, 1, jwtCfg.Issuer, time.Minute)
	require.NoError(t, err)
	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Username: "token:" + forged})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_PrefijoDesconocido(t *testing.T) {
	f := newAuth(t)
	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuthenticateBasic(t *testing.T) {
	f := newAuth(t)
	p, err := f.uc.AuthenticateBasic(context.Background(), "ana", "secreto123")
	require.NoError(t, err)
	assert.Equal(t, entity.LoginPassword, p.LoginType)
	assert.Equal(t, []string{"user.read.2"}, p.Grants)

	_, err = f.uc.AuthenticateBasic(context.Background(), "ana", "x")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestHistory_MasRecientePrimeroYAcotado(t *testing.T) {
	f := newAuth(t)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		_, err := f.uc.Login(ctx, dto.LoginRequest{Username: "card_id:04AA"})
		require.NoError(t, err)
	}
	_, err := f.uc.Login(ctx, dto.LoginRequest{Username: "username:ana", Password: "secreto123"})
	require.NoError(t, err)

	h := f.uc.History()
	require.Len(t, h, 3)
	assert.Equal(t, auth.MethodUsername, h[0].Method)
	assert.Equal(t, auth.MethodCard, h[1].Method)
}
