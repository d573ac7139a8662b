package store

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"library-api/models"
)

const userColumns = `id, first_name, last_name, email, password, phone, address, role, member_id, created_at, updated_at`

// CreateUser fills in the generated id, member id and timestamps. The caller
// is expected to have hashed the password already.
func (s *MySQLStore) CreateUser(user *models.User) error {
	var count int
	if err := s.db.Get(&count, "SELECT COUNT(*) FROM users WHERE email = ?", user.Email); err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailExists
	}

	user.ID = uuid.NewString()
	user.MemberID = newMemberID()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.db.Exec(
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.FirstName, user.LastName, user.Email, user.Password,
		user.Phone, user.Address, user.Role, user.MemberID, user.CreatedAt, user.UpdatedAt,
	)
	return err
}

// newMemberID builds the human-facing member code. A uuid block instead of a
// timestamp so concurrent registrations cannot collide.
func newMemberID() string {
	return "LM" + strings.ToUpper(strings.SplitN(uuid.NewString(), "-", 2)[0])
}

func (s *MySQLStore) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.db.Get(&user, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MySQLStore) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Get(&user, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MySQLStore) ListUsers() ([]models.User, error) {
	var users []models.User
	err := s.db.Select(&users, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser applies a partial update: nil fields keep their stored value.
func (s *MySQLStore) UpdateUser(id string, req *models.UserUpdateRequest) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	user.UpdatedAt = time.Now()

	_, err = s.db.Exec(
		`UPDATE users SET first_name=?, last_name=?, phone=?, address=?, role=?, updated_at=? WHERE id=?`,
		user.FirstName, user.LastName, user.Phone, user.Address, user.Role, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *MySQLStore) DeleteUser(id string) error {
	res, err := s.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
