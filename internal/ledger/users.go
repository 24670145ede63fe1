package ledger

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"finance-ledger/internal/models"
	"finance-ledger/internal/util"

	"gorm.io/gorm"
)

var (
	usernameRe = regexp.MustCompile(`^[a-z0-9_]{3,32}$`)
	pincodeRe  = regexp.MustCompile(`^[0-9]{4}$`)
)

// SignupInput registers a user.
type SignupInput struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	Pincode  string `json:"pincode"`
}

// errBadCredentials is shared by both login paths so callers cannot tell an
// unknown username from a wrong secret.
var errBadCredentials = fmt.Errorf("%w: invalid username or credentials", ErrUnauthorized)

// Signup creates a user and seeds the default categories in one transaction.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if name == "" || username == "" || in.Password == "" || in.Pincode == "" {
		return nil, invalidf("all fields are required")
	}
	if err := util.ValidateName(name, 64); err != nil {
		return nil, invalidf("%v", err)
	}
	if !usernameRe.MatchString(username) {
		return nil, invalidf("username must be 3-32 letters, digits or underscores")
	}
	if !pincodeRe.MatchString(in.Pincode) {
		return nil, invalidf("pincode must be 4 digits")
	}
	if len(in.Password) < 6 || len(in.Password) > 72 {
		return nil, invalidf("password must be 6-72 characters")
	}

	passwordHash, err := util.HashSecret(in.Password, s.BcryptCost)
	if err != nil {
		return nil, storageErr("hash password", err)
	}
	pincodeHash, err := util.HashSecret(in.Pincode, s.BcryptCost)
	if err != nil {
		return nil, storageErr("hash pincode", err)
	}

	user := &models.User{
		Name:         name,
		Username:     &username,
		PasswordHash: passwordHash,
		PincodeHash:  pincodeHash,
	}
	err = s.db(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
			return storageErr("check username", err)
		}
		if n > 0 {
			return conflictf("username already exists")
		}
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflictf("username already exists")
			}
			return storageErr("create user", err)
		}
		return seedCategories(tx, user.ID)
	})
	if err != nil {
		return nil, atomicErr("signup", err)
	}
	return user, nil
}

func (s *Service) findByUsername(ctx context.Context, username string) (*models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	var user models.User
	if err := s.db(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errBadCredentials
		}
		return nil, storageErr("load user", err)
	}
	return &user, nil
}

// Login verifies a username and password.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, invalidf("username and password are required")
	}
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !util.CheckSecret(password, user.PasswordHash) {
		return nil, errBadCredentials
	}
	return user, nil
}

// LoginPincode verifies a username and 4-digit pincode.
func (s *Service) LoginPincode(ctx context.Context, username, pincode string) (*models.User, error) {
	if strings.TrimSpace(username) == "" || pincode == "" {
		return nil, invalidf("username and pincode are required")
	}
	if !pincodeRe.MatchString(pincode) {
		return nil, invalidf("invalid pincode format")
	}
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !util.CheckSecret(pincode, user.PincodeHash) {
		return nil, errBadCredentials
	}
	return user, nil
}

// GetUser loads a user by id.
func (s *Service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	if err := requireUser(id); err != nil {
		return nil, err
	}
	var user models.User
	if err := s.db(ctx).First(&user, id).Error; err != nil {
		return nil, lookupErr("user", id, err)
	}
	return &user, nil
}

// UpdateName renames the user; the name is the only mutable profile field.
func (s *Service) UpdateName(ctx context.Context, userID uint, name string) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := util.ValidateName(name, 64); err != nil {
		return nil, invalidf("%v", err)
	}
	if err := s.db(ctx).Model(user).Update("name", name).Error; err != nil {
		return nil, storageErr("update name", err)
	}
	user.Name = name
	return user, nil
}

// ChangePassword replaces the password after checking the old one.
func (s *Service) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.PasswordHash == "" {
		return invalidf("this user has no password")
	}
	if !util.CheckSecret(oldPassword, user.PasswordHash) {
		return invalidf("old password is incorrect")
	}
	if len(newPassword) < 6 || len(newPassword) > 72 {
		return invalidf("password must be 6-72 characters")
	}
	hash, err := util.HashSecret(newPassword, s.BcryptCost)
	if err != nil {
		return storageErr("hash password", err)
	}
	if err := s.db(ctx).Model(user).Update("password_hash", hash).Error; err != nil {
		return storageErr("update password", err)
	}
	return nil
}

// EnsureLocalUser returns the owner of a single-tenant deployment, creating
// it with the default categories when the store has no user yet.
func (s *Service) EnsureLocalUser(ctx context.Context, name string) (*models.User, error) {
	if strings.TrimSpace(name) == "" {
		name = "Me"
	}
	var user models.User
	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Order("id ASC").First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return storageErr("load local user", err)
		}
		user = models.User{Name: strings.TrimSpace(name)}
		if err := tx.Create(&user).Error; err != nil {
			return storageErr("create local user", err)
		}
		return seedCategories(tx, user.ID)
	})
	if err != nil {
		return nil, atomicErr("ensure local user", err)
	}
	return &user, nil
}
