package content

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleGuest is the role assumed for anonymous requests
	RoleGuest UserRole = "guest"
	// RoleMember is a regular authenticated user
	RoleMember UserRole = "member"
	// RoleAdmin can manage users, categories, and any article
	RoleAdmin UserRole = "admin"
)

// User is the identity model. PasswordHash never leaves the process:
// API representations go through UserDTO.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role           UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	Username       string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	FullName       string     `bun:"full_name" json:"full_name,omitempty"`
	Phone          string     `bun:"phone_number" json:"phone_number,omitempty"`
	PasswordHash   string     `bun:"password_hash" json:"-"`
	Active         bool       `bun:"is_active,notnull,default:true" json:"is_active"`
	LoginAttempts  int        `bun:"login_attempts" json:"-"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at" json:"-"`
	LoggedInAt     *time.Time `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// EnsureRole applies the default role when records come from sources
// that omit it (fixtures, registration payloads).
func (u *User) EnsureRole() {
	if u.Role == "" {
		u.Role = RoleMember
	}
}

// Article belongs to its author; only the author or an admin may change
// or delete it.
type Article struct {
	bun.BaseModel `bun:"table:articles,alias:art"`

	ID         uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title      string     `bun:"title,notnull" json:"title,omitempty"`
	Content    string     `bun:"content,notnull" json:"content,omitempty"`
	Summary    string     `bun:"summary" json:"summary,omitempty"`
	Published  bool       `bun:"is_published,notnull,default:false" json:"is_published"`
	AuthorID   uuid.UUID  `bun:"author_id,notnull,type:uuid" json:"author_id,omitempty"`
	Author     *User      `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
	CategoryID uuid.UUID  `bun:"category_id,nullzero,type:uuid" json:"category_id,omitempty"`
	Category   *Category  `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
	CreatedAt  *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt  *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Category is referenced, not owned, by articles. Admin managed.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`

	ID          uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name        string     `bun:"name,notnull,unique" json:"name,omitempty"`
	Description string     `bun:"description" json:"description,omitempty"`
	Color       string     `bun:"color,default:'#007bff'" json:"color,omitempty"`
	Active      bool       `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt   *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// UserDTO is the API representation of a user. It reintroduces the
// is_admin flag consumers expect while keeping the hash out.
type UserDTO struct {
	ID        uuid.UUID  `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name,omitempty"`
	Phone     string     `json:"phone_number,omitempty"`
	IsActive  bool       `json:"is_active"`
	IsAdmin   bool       `json:"is_admin"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// NewUserDTO maps a stored user to its API shape.
func NewUserDTO(user *User) UserDTO {
	if user == nil {
		return UserDTO{}
	}
	return UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		Phone:     user.Phone,
		IsActive:  user.Active,
		IsAdmin:   user.IsAdmin(),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// NewUserDTOs maps a result page.
func NewUserDTOs(users []*User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = NewUserDTO(u)
	}
	return out
}
