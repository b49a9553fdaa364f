package models

import "time"

// UserModel is an auth identity. The public-facing fields live on the
// profile row created alongside it; this table exists for credentials and
// login bookkeeping only.
type UserModel struct {
	Base
	Username      string     `json:"username" gorm:"uniqueIndex;not null"`
	Password      string     `json:"-"        gorm:"not null"`
	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"last_login_ip"`
}

func (UserModel) TableName() string { return "users" }
