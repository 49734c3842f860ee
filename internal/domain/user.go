package domain

import "time"

// Role is a user's access level
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
	RoleUser      Role = "USER"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

// IsStaff reports whether the role may moderate other users' content
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleModerator
}

// User represents a portal account
type User struct {
	ID           uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Email        string     `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	Username     string     `gorm:"column:username;type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	DisplayName  string     `gorm:"column:display_name;type:varchar(100)" json:"display_name"`
	Role         Role       `gorm:"column:role;type:varchar(20);default:USER;index" json:"role"`
	IsActive     bool       `gorm:"column:is_active;default:true" json:"is_active"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name
func (User) TableName() string { return "users" }

// Session is a refresh-token row; TokenID is the refresh token's jti and the access tokens' sid
type Session struct {
	ID        uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    uint64     `gorm:"column:user_id;index;not null" json:"user_id"`
	TokenID   string     `gorm:"column:token_id;type:varchar(64);uniqueIndex;not null" json:"-"`
	UserAgent string     `gorm:"column:user_agent;type:varchar(255)" json:"user_agent"`
	IP        string     `gorm:"column:ip;type:varchar(45)" json:"ip"`
	ExpiresAt time.Time  `gorm:"column:expires_at;index" json:"expires_at"`
	RevokedAt *time.Time `gorm:"column:revoked_at" json:"revoked_at,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name
func (Session) TableName() string { return "sessions" }

// Active reports whether the session can still mint tokens
func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email,max=255"`
	Username    string `json:"username" binding:"required,min=3,max=50,alphanum"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"display_name" binding:"omitempty,max=100"`
}

// LoginRequest is the body of POST /auth/login; Login accepts email or username
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the body of POST /auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateRoleRequest is the body of PATCH /users/:id/role
type UpdateRoleRequest struct {
	Role Role `json:"role" binding:"required,oneof=ADMIN MODERATOR USER"`
}

// TokenPair is returned on login and refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthResponse bundles the tokens with the authenticated user
type AuthResponse struct {
	TokenPair
	User *User `json:"user"`
}
