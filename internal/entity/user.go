package entity

import "time"

const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"

	// AdminLogin 引导阶段种子化的管理员账号登录名
	AdminLogin = "admin"
)

// DbUser represents a persisted user account.
type DbUser struct {
	ID           uint        `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Login        string      `gorm:"column:login;type:varchar(50);uniqueIndex;not null" json:"login"`
	Email        string      `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	FirstName    string      `gorm:"column:first_name;type:varchar(50)" json:"first_name"`
	LastName     string      `gorm:"column:last_name;type:varchar(50)" json:"last_name"`
	ImageURL     string      `gorm:"column:image_url;type:varchar(255)" json:"image_url"`
	LangKey      string      `gorm:"column:lang_key;type:varchar(10)" json:"lang_key"`
	Activated    bool        `gorm:"column:activated;not null;default:false" json:"activated"`
	Roles        StringArray `gorm:"column:roles;type:text" json:"roles"`
}

// TableName overrides default pluralised name.
func (DbUser) TableName() string {
	return "users"
}

// HasRole 判断用户是否持有指定角色
func (u *DbUser) HasRole(role string) bool {
	if u == nil {
		return false
	}
	return u.Roles.Contains(role)
}

// UserProfile is the user representation returned to clients.
type UserProfile struct {
	ID        uint      `json:"id"`
	Login     string    `json:"login"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	ImageURL  string    `json:"image_url"`
	LangKey   string    `json:"lang_key"`
	Activated bool      `json:"activated"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ManagedUserRequest is the payload submitted to claim the admin account.
// Roles and Activated are accepted but overwritten by the setup workflow.
type ManagedUserRequest struct {
	ID        uint     `json:"id"`
	Login     string   `json:"login" binding:"required,min=1,max=50"`
	Email     string   `json:"email" binding:"required,email"`
	Password  string   `json:"password" binding:"required,min=4,max=100"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	ImageURL  string   `json:"image_url"`
	LangKey   string   `json:"lang_key"`
	Activated bool     `json:"activated"`
	Roles     []string `json:"roles"`
}

type AuthLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	IDToken   string    `json:"id_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserUpdates 用户更新字段
type UserUpdates struct {
	Login     *string
	Email     *string
	FirstName *string
	LastName  *string
	ImageURL  *string
	LangKey   *string
	Activated *bool
	Roles     *StringArray
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u UserUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Login != nil {
		updates["login"] = *u.Login
	}
	if u.Email != nil {
		updates["email"] = *u.Email
	}
	if u.FirstName != nil {
		updates["first_name"] = *u.FirstName
	}
	if u.LastName != nil {
		updates["last_name"] = *u.LastName
	}
	if u.ImageURL != nil {
		updates["image_url"] = *u.ImageURL
	}
	if u.LangKey != nil {
		updates["lang_key"] = *u.LangKey
	}
	if u.Activated != nil {
		updates["activated"] = *u.Activated
	}
	if u.Roles != nil {
		updates["roles"] = *u.Roles
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u UserUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
