package main

import (
	"context"
	"strings"
	"testing"

	"github.com/jhoicas/OpenBar-api/internal/application/role"
	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/infrastructure/memory"
	"github.com/jhoicas/OpenBar-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const rolesXML = `<?xml version="1.0" encoding="UTF-8"?>
<roles>
  <role name="admin">
    <permission name="role.write" login_type="1" range="2"/>
  </role>
  <role name="barman" parent="admin">
    <permission name="order.manage" login_type="1" range="2"/>
  </role>
  <role name="cliente" parent="barman"/>
</roles>`

func newRoleUC() *role.UseCase {
	s := memory.NewStore()
	return role.NewUseCase(s.Roles(), s.Permissions(), s, logger.Nop())
}

func TestSeedRoles_Jerarquia(t *testing.T) {
	f, err := parseRoles(strings.NewReader(rolesXML))
	require.NoError(t, err)
	require.Len(t, f.Roles, 3)

	ctx := context.Background()
	uc := newRoleUC()
	ids, err := seedRoles(ctx, uc, f)
	require.NoError(t, err)

	desc, err := uc.Descendants(ctx, ids["admin"])
	require.NoError(t, err)
	assert.Len(t, desc, 2)

	perms, err := uc.ListPermissions(ctx, ids["barman"])
	require.NoError(t, err)
	require.Len(t, perms, 1)
	assert.Equal(t, "order.manage", perms[0].Name)
}

func TestSeedRoles_CicloRechazado(t *testing.T) {
	f, err := parseRoles(strings.NewReader(`<roles>
		<role name="a" parent="b"/>
		<role name="b" parent="a"/>
	</roles>`))
	require.NoError(t, err)

	_, err = seedRoles(context.Background(), newRoleUC(), f)
	assert.ErrorIs(t, err, domain.ErrInvalidParent)
}

func TestParseRoles_ISO88591(t *testing.T) {
	body := `<?xml version="1.0" encoding="ISO-8859-1"?><roles><role name="camarero"/><role name="dueño" /></roles>`
	latin1, err := charmap.ISO8859_1.NewEncoder().String(body)
	require.NoError(t, err)

	f, err := parseRoles(strings.NewReader(latin1))
	require.NoError(t, err)
	assert.Equal(t, "dueño", f.Roles[1].Name)
}

func TestParseRoles_Errores(t *testing.T) {
	cases := map[string]string{
		"repetido":        `<roles><role name="a"/><role name="a"/></roles>`,
		"sin nombre":      `<roles><role name=" "/></roles>`,
		"padre ausente":   `<roles><role name="a" parent="x"/></roles>`,
		"xml mal formado": `<roles><role name="a">`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseRoles(strings.NewReader(body))
			assert.Error(t, err)
		})
	}
}
