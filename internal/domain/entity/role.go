package entity

// Role nodo del bosque de roles. ParentID nil indica una raíz.
// Un rol padre tiene más privilegios que sus hijos.
type Role struct {
	ID       int64
	Name     string
	ParentID *int64
}

// HasParent informa si el rol cuelga de otro rol.
func (r *Role) HasParent() bool { return r.ParentID != nil }
