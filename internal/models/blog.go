package models

// BlogPostModel is a user-authored blog post. Content is markdown; the API
// renders it to HTML on single fetch. ViewCount moves on every public read.
type BlogPostModel struct {
	Base
	AuthorUsername string `json:"author_username" gorm:"index;not null"`
	Title          string `json:"title"           gorm:"not null"`
	Content        string `json:"content"         gorm:"type:longtext"`
	IsPublished    bool   `json:"is_published"    gorm:"default:false;index"`
	ViewCount      int    `json:"view_count"      gorm:"default:0"`
}

func (BlogPostModel) TableName() string { return "blog_posts" }
