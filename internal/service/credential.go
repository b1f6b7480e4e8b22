package service

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Rogue-Bear-Innovations/schoolhouse-back/internal/db"
)

type (
	Credential struct {
		db       *gorm.DB
		logger   *zap.SugaredLogger
		hasher   PasswordHasher
		validate *validator.Validate
	}

	registerInput struct {
		Username string `validate:"required,min=3"`
		Password string `validate:"required,min=6"`
	}
)

func NewCredential(client *gorm.DB, l *zap.SugaredLogger, h PasswordHasher, v *validator.Validate) *Credential {
	return &Credential{
		db:       client,
		logger:   l,
		hasher:   h,
		validate: v,
	}
}

func (s *Credential) Register(username, password string) error {
	in := registerInput{Username: username, Password: password}
	if err := s.validate.Struct(&in); err != nil {
		return invalid(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	res := s.db.Create(&db.User{
		Username:     username,
		PasswordHash: hash,
	})
	if res.Error != nil {
		if db.IsDuplicate(res.Error) {
			return ErrDuplicate
		}
		return errors.Wrap(res.Error, "insert user")
	}
	s.logger.Infow("user registered", "username", username)
	return nil
}

// Verify reports whether the credentials match a stored user. Unknown
// username and wrong password are indistinguishable to the caller.
func (s *Credential) Verify(username, password string) (bool, error) {
	user := db.User{}
	res := s.db.Where("username = ?", username).First(&user)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, errors.Wrap(res.Error, "find user")
	}
	return s.hasher.Compare(user.PasswordHash, password), nil
}
