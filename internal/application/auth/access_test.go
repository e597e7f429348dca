package auth_test

import (
	"context"
	"testing"

	"github.com/jhoicas/OpenBar-api/internal/application/auth"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestRange(t *testing.T) {
	r, ok := auth.BestRange([]string{"user.read.0", "user.read.2", "order.read.1", "roto"}, entity.PermUserRead)
	require.True(t, ok)
	assert.Equal(t, entity.RangeEveryone, r)

	_, ok = auth.BestRange([]string{"user.read.0"}, entity.PermOrderRead)
	assert.False(t, ok)
}

func TestCanAccess_Rangos(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	boss := &entity.Role{Name: "jefe"}
	require.NoError(t, s.Roles().Create(ctx, boss))
	staff := &entity.Role{Name: "barman", ParentID: &boss.ID}
	require.NoError(t, s.Roles().Create(ctx, staff))

	bossUser := &entity.User{FirstName: "J", Name: "J", RoleID: boss.ID}
	staffUser := &entity.User{FirstName: "B", Name: "B", RoleID: staff.ID}
	staffUser2 := &entity.User{FirstName: "C", Name: "C", RoleID: staff.ID}
	for _, u := range []*entity.User{bossUser, staffUser, staffUser2} {
		require.NoError(t, s.Users().Create(ctx, u))
	}

	checker := auth.NewAccessChecker(s.Users(), s.Roles())
	under := []string{"user.read.1"}

	ok, err := checker.CanAccess(ctx, bossUser.ID, under, entity.PermUserRead, staffUser.ID)
	require.NoError(t, err)
	assert.True(t, ok, "jefe sobre barman")

	ok, err = checker.CanAccess(ctx, staffUser.ID, under, entity.PermUserRead, bossUser.ID)
	require.NoError(t, err)
	assert.False(t, ok, "barman sobre jefe")

	ok, err = checker.CanAccess(ctx, staffUser.ID, under, entity.PermUserRead, staffUser2.ID)
	require.NoError(t, err)
	assert.False(t, ok, "mismo rol no es inferior")

	ok, err = checker.CanAccess(ctx, staffUser.ID, []string{"user.read.0"}, entity.PermUserRead, staffUser.ID)
	require.NoError(t, err)
	assert.True(t, ok, "self")

	ok, err = checker.CanAccess(ctx, staffUser.ID, []string{"user.read.2"}, entity.PermUserRead, bossUser.ID)
	require.NoError(t, err)
	assert.True(t, ok, "everyone")

	ok, err = checker.CanAccess(ctx, bossUser.ID, nil, entity.PermUserRead, bossUser.ID)
	require.NoError(t, err)
	assert.False(t, ok, "sin permiso")
}
