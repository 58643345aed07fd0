package entity

import "time"

// DbBlog represents a persisted blog record.
type DbBlog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Handle    string    `gorm:"column:handle;type:varchar(255);not null" json:"handle"`
}

// TableName overrides default pluralised name.
func (DbBlog) TableName() string {
	return "blogs"
}

// BlogRequest is the payload for creating or updating a blog.
type BlogRequest struct {
	ID     uint   `json:"id"`
	Name   string `json:"name" binding:"required,min=3"`
	Handle string `json:"handle" binding:"required,min=2"`
}

// BlogQuery supports listing blogs with pagination.
type BlogQuery struct {
	BaseParams
}
