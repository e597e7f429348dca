package usecase_test

import (
	"context"
	"math"
	"testing"

	"github.com/jhoicas/OpenBar-api/internal/application/dto"
	"github.com/jhoicas/OpenBar-api/internal/application/usecase"
	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecharge_AcreditaSaldo(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	r := &entity.Role{Name: "r"}
	require.NoError(t, s.Roles().Create(ctx, r))
	client := &entity.User{FirstName: "A", Name: "B", RoleID: r.ID}
	barman := &entity.User{FirstName: "C", Name: "D", RoleID: r.ID}
	require.NoError(t, s.Users().Create(ctx, client))
	require.NoError(t, s.Users().Create(ctx, barman))

	uc := usecase.NewRechargeUseCase(s.Recharges(), s)

	rc, err := uc.Create(ctx, barman.ID, dto.CreateRechargeRequest{ClientID: client.ID, Value: 1500})
	require.NoError(t, err)
	assert.Equal(t, int64(1500), rc.Value)
	_, err = uc.Create(ctx, barman.ID, dto.CreateRechargeRequest{ClientID: client.ID, Value: 500})
	require.NoError(t, err)

	got, _ := s.Users().GetByID(ctx, client.ID)
	assert.Equal(t, int64(2000), got.Balance)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(500), list[0].Value, "más reciente primero")

	fetched, err := uc.Get(ctx, rc.ID)
	require.NoError(t, err)
	assert.Equal(t, client.ID, fetched.ClientID)
}

func TestRecharge_Rechazos(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	uc := usecase.NewRechargeUseCase(s.Recharges(), s)

	_, err := uc.Create(ctx, 1, dto.CreateRechargeRequest{ClientID: 1, Value: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, 1, dto.CreateRechargeRequest{ClientID: 1, Value: -5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, 1, dto.CreateRechargeRequest{ClientID: 1, Value: 5})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = uc.Get(ctx, 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecharge_SaldoDesbordado(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	r := &entity.Role{Name: "r"}
	require.NoError(t, s.Roles().Create(ctx, r))
	client := &entity.User{FirstName: "A", Name: "B", RoleID: r.ID}
	require.NoError(t, s.Users().Create(ctx, client))
	require.NoError(t, s.Users().UpdateBalance(ctx, client.ID, math.MaxInt64-10))

	uc := usecase.NewRechargeUseCase(s.Recharges(), s)

	_, err := uc.Create(ctx, client.ID, dto.CreateRechargeRequest{ClientID: client.ID, Value: 11})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, _ := s.Users().GetByID(ctx, client.ID)
	assert.Equal(t, int64(math.MaxInt64-10), got.Balance)
	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = uc.Create(ctx, client.ID, dto.CreateRechargeRequest{ClientID: client.ID, Value: 10})
	require.NoError(t, err)
	got, _ = s.Users().GetByID(ctx, client.ID)
	assert.Equal(t, int64(math.MaxInt64), got.Balance)
}
