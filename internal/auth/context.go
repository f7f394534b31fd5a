package auth

import (
	"github.com/avukatajanda/ajanda/internal/database/models"
	"github.com/google/uuid"
)

// Context is the resolved identity for one request: the acting user, the org
// the request operates in, and the user's current role there. It is built once
// per request by the auth middleware and never mutated afterwards. Handlers
// must treat OrgID as the single source of truth for tenant scoping and never
// trust an org id supplied in a request body or path.
type Context struct {
	User  *models.User
	OrgID uuid.UUID
	Role  models.Role
}

// HasOrg reports whether the request is bound to an org. Endpoints that
// require one reject requests without it instead of running unscoped queries.
func (c *Context) HasOrg() bool {
	return c.OrgID != uuid.Nil
}
