package main

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/jhoicas/OpenBar-api/internal/application/dto"
	"github.com/jhoicas/OpenBar-api/internal/application/role"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// rolesFile formato del archivo de roles:
//
//	<roles>
//	  <role name="admin">
//	    <permission name="role.write" login_type="1" range="2"/>
//	  </role>
//	  <role name="barman" parent="admin"/>
//	</roles>
type rolesFile struct {
	Roles []roleEntry `xml:"role"`
}

type roleEntry struct {
	Name        string            `xml:"name,attr"`
	Parent      string            `xml:"parent,attr"`
	Permissions []permissionEntry `xml:"permission"`
}

type permissionEntry struct {
	Name      string `xml:"name,attr"`
	LoginType int    `xml:"login_type,attr"`
	Range     int    `xml:"range,attr"`
}

// parseRoles decodifica el XML; acepta UTF-8, ISO-8859-1 y cualquier charset IANA conocido.
func parseRoles(r io.Reader) (*rolesFile, error) {
	var f rolesFile
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		enc, err := ianaindex.IANA.Encoding(charset)
		if err != nil || enc == nil {
			return nil, fmt.Errorf("charset no soportado %q", charset)
		}
		return transform.NewReader(input, enc.NewDecoder()), nil
	}
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decodificar XML: %w", err)
	}

	seen := make(map[string]bool, len(f.Roles))
	for _, r := range f.Roles {
		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" {
			return nil, fmt.Errorf("rol sin nombre")
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("rol %q repetido", r.Name)
		}
		seen[r.Name] = true
	}
	for _, r := range f.Roles {
		if p := strings.TrimSpace(r.Parent); p != "" && !seen[p] {
			return nil, fmt.Errorf("rol %q: padre %q no declarado", r.Name, p)
		}
	}
	return &f, nil
}

// seedRoles crea los roles sin padre, asigna los padres con Update (que rechaza ciclos)
// y añade los permisos. Devuelve los ids por nombre.
func seedRoles(ctx context.Context, uc *role.UseCase, f *rolesFile) (map[string]int64, error) {
	ids := make(map[string]int64, len(f.Roles))
	for _, r := range f.Roles {
		name := strings.TrimSpace(r.Name)
		out, err := uc.Create(ctx, dto.CreateRoleRequest{Name: name})
		if err != nil {
			return nil, fmt.Errorf("crear rol %q: %w", name, err)
		}
		ids[name] = out.ID
	}
	for _, r := range f.Roles {
		parent := strings.TrimSpace(r.Parent)
		if parent == "" {
			continue
		}
		name := strings.TrimSpace(r.Name)
		parentID := ids[parent]
		if _, err := uc.Update(ctx, ids[name], dto.UpdateRoleRequest{Name: name, ParentID: &parentID}); err != nil {
			return nil, fmt.Errorf("rol %q bajo %q: %w", name, parent, err)
		}
	}
	for _, r := range f.Roles {
		name := strings.TrimSpace(r.Name)
		for _, p := range r.Permissions {
			in := dto.PermissionRequest{Name: p.Name, LoginType: p.LoginType, Range: p.Range}
			if _, err := uc.AddPermission(ctx, ids[name], in); err != nil {
				return nil, fmt.Errorf("permiso %q en rol %q: %w", p.Name, name, err)
			}
		}
	}
	return ids, nil
}
