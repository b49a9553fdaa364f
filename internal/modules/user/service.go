package user

import (
	"errors"
	"strings"
	"time"

	"github.com/pindrop/core/internal/models"
	sessionpkg "github.com/pindrop/core/internal/pkg/session"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	minUsernameLen = 3
	minPasswordLen = 8
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// DB exposes the handle for middleware wiring.
func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) GetByID(id string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Register creates the auth identity and its profile row in one transaction.
// The first registered account becomes the admin.
func (s *Service) Register(dto *RegisterDTO) (*models.UserModel, error) {
	username := strings.TrimSpace(dto.Username)
	if len(username) < minUsernameLen {
		return nil, errUsernameTooShort
	}
	if models.IsGuestUsername(username) {
		return nil, errGuestUsername
	}
	if len(dto.Password) < minPasswordLen {
		return nil, errPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := models.UserModel{Username: username, Password: string(hash)}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.UserModel{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errUsernameTaken
		}

		var total int64
		if err := tx.Model(&models.UserModel{}).Count(&total).Error; err != nil {
			return err
		}
		role := models.RoleUser
		if total == 0 {
			role = models.RoleAdmin
		}

		if err := tx.Create(&u).Error; err != nil {
			return err
		}
		return tx.Create(&models.ProfileModel{Username: username, Role: role}).Error
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Login verifies credentials and issues a session-bound JWT.
func (s *Service) Login(username, password, ip, ua string) (string, *models.UserModel, error) {
	var u models.UserModel
	if err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same delay as a bcrypt mismatch so probes cannot tell the cases apart.
			time.Sleep(3 * time.Second)
			return "", nil, errUserNotFound
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", nil, errWrongPassword
	}

	now := time.Now()
	s.db.Model(&u).Updates(map[string]interface{}{
		"last_login_time": now,
		"last_login_ip":   ip,
	})
	u.LastLoginTime = &now
	u.LastLoginIP = ip

	token, _, err := sessionpkg.Issue(s.db, u.ID, u.Username, ip, ua, sessionpkg.DefaultTTL)
	return token, &u, err
}
