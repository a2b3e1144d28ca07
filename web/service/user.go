package service

import (
	"gorm.io/gorm"

	"github.com/scorebox/scorebox/database"
	"github.com/scorebox/scorebox/database/model"
	"github.com/scorebox/scorebox/util/common"
)

// UserService handles user administration and the self-profile path.
type UserService struct{}

// UserPatch is a partial update; nil fields are left untouched.
type UserPatch struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

func (s *UserService) GetUsers(search string, limit, offset int) ([]model.User, int64, error) {
	db := database.GetDB().Model(&model.User{})
	if search != "" {
		db = db.Where("username LIKE ?", "%"+search+"%")
	}

	var count int64
	if err := db.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := db.Order("username").Limit(limit).Offset(offset).Find(&users).Error
	return users, count, err
}

func (s *UserService) GetUser(username string) (*model.User, error) {
	user := &model.User{}
	err := database.GetDB().Where("username = ?", username).First(user).Error
	if database.IsNotFound(err) {
		return nil, common.NewNotFoundf("user %q not found", username)
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUserById(id int) (*model.User, error) {
	user := &model.User{}
	err := database.GetDB().First(user, id).Error
	if database.IsNotFound(err) {
		return nil, common.NewNotFoundf("user %d not found", id)
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser is the admin-privileged create path. The same username and
// email rules as signup apply; the unique indexes decide races.
func (s *UserService) CreateUser(user *model.User) error {
	if err := ValidateUsername(user.Username); err != nil {
		return err
	}
	if err := ValidateEmail(user.Email); err != nil {
		return err
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	if !user.Role.Valid() {
		return common.NewValidationf("role %q is not valid", user.Role)
	}

	if err := database.GetDB().Create(user).Error; err != nil {
		if database.IsDuplicate(err) {
			return common.NewConflictf("username or email already taken")
		}
		return err
	}
	return nil
}

// UpdateUser applies an admin patch, role changes included.
func (s *UserService) UpdateUser(username string, patch *UserPatch) (*model.User, error) {
	user, err := s.GetUser(username)
	if err != nil {
		return nil, err
	}
	if err := s.applyPatch(user, patch, true); err != nil {
		return nil, err
	}
	return user, s.save(user)
}

// UpdateProfile applies a self-service patch. The caller's role and
// privilege flags are re-applied afterwards, so a user can never
// escalate through their own profile endpoint.
func (s *UserService) UpdateProfile(user *model.User, patch *UserPatch) (*model.User, error) {
	priorRole := user.Role
	priorSuperuser := user.IsSuperuser
	priorStaff := user.IsStaff

	if err := s.applyPatch(user, patch, false); err != nil {
		return nil, err
	}
	user.Role = priorRole
	user.IsSuperuser = priorSuperuser
	user.IsStaff = priorStaff
	return user, s.save(user)
}

func (s *UserService) applyPatch(user *model.User, patch *UserPatch, allowRoleChange bool) error {
	if patch.Username != nil {
		if err := ValidateUsername(*patch.Username); err != nil {
			return err
		}
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		if err := ValidateEmail(*patch.Email); err != nil {
			return err
		}
		user.Email = *patch.Email
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.Role != nil {
		role := model.Role(*patch.Role)
		if !role.Valid() {
			return common.NewValidationf("role %q is not valid", role)
		}
		if allowRoleChange {
			user.Role = role
		}
	}
	return nil
}

func (s *UserService) save(user *model.User) error {
	if err := database.GetDB().Save(user).Error; err != nil {
		if database.IsDuplicate(err) {
			return common.NewConflictf("username or email already taken")
		}
		return err
	}
	return nil
}

func (s *UserService) DeleteUser(username string) error {
	user, err := s.GetUser(username)
	if err != nil {
		return err
	}
	return database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("author_id = ?", user.Id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		var reviewIds []int
		if err := tx.Model(&model.Review{}).Where("author_id = ?", user.Id).Pluck("id", &reviewIds).Error; err != nil {
			return err
		}
		if len(reviewIds) > 0 {
			if err := tx.Where("review_id IN ?", reviewIds).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", reviewIds).Delete(&model.Review{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(user).Error
	})
}
