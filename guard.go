package content

import (
	"github.com/google/uuid"
)

// Action is something a subject wants to do to a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource is the kind of entity an action targets.
type Resource string

const (
	ResourceUser     Resource = "user"
	ResourceArticle  Resource = "article"
	ResourceCategory Resource = "category"
)

// Subject is the acting identity as seen by the guard. A nil *Subject
// means anonymous.
type Subject struct {
	ID       uuid.UUID
	Username string
	Role     UserRole
}

// IsAdmin reports whether the subject carries the admin role.
func (s *Subject) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// SubjectFromUser builds a guard subject from a stored user record.
func SubjectFromUser(user *User) *Subject {
	if user == nil {
		return nil
	}
	return &Subject{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
}

// Guard decides whether a subject may perform an action on a resource
// kind, optionally scoped by the resource owner. It performs no I/O:
// callers load the target first and hand over its owner id.
type Guard struct{}

// NewGuard returns the policy guard.
func NewGuard() *Guard {
	return &Guard{}
}

// Authorize applies the policy table, first match wins:
//
//	category  read           anyone, including anonymous
//	category  create/update/delete  admin
//	user      read/create/delete    admin
//	user      update         admin or the user itself
//	article   read           any authenticated subject
//	article   create         any authenticated subject
//	article   update/delete  admin or the recorded author
//
// Denials are ErrUnauthenticated when no subject was presented and
// ErrForbidden otherwise.
func (g *Guard) Authorize(subject *Subject, action Action, resource Resource, ownerID uuid.UUID) error {
	switch resource {
	case ResourceCategory:
		if action == ActionRead {
			return nil
		}
		return g.requireAdmin(subject)

	case ResourceUser:
		if action == ActionUpdate {
			return g.requireAdminOrOwner(subject, ownerID)
		}
		return g.requireAdmin(subject)

	case ResourceArticle:
		switch action {
		case ActionRead, ActionCreate:
			return g.requireAuthenticated(subject)
		default:
			return g.requireAdminOrOwner(subject, ownerID)
		}
	}

	return g.deny(subject)
}

func (g *Guard) requireAuthenticated(subject *Subject) error {
	if subject == nil {
		return ErrUnauthenticated
	}
	return nil
}

func (g *Guard) requireAdmin(subject *Subject) error {
	if err := g.requireAuthenticated(subject); err != nil {
		return err
	}
	if !subject.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func (g *Guard) requireAdminOrOwner(subject *Subject, ownerID uuid.UUID) error {
	if err := g.requireAuthenticated(subject); err != nil {
		return err
	}
	if subject.IsAdmin() {
		return nil
	}
	if ownerID != uuid.Nil && subject.ID == ownerID {
		return nil
	}
	return ErrForbidden
}

func (g *Guard) deny(subject *Subject) error {
	if subject == nil {
		return ErrUnauthenticated
	}
	return ErrForbidden
}
