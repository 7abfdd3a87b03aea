// file: repository/user_repository.go

package repository

import (
	"database/sql"
	"errors"
	"go-user-api/logger"
	"go-user-api/model"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// ErrDuplicatePhone is returned when an insert or update collides with the
// unique constraint on users.phone.
var ErrDuplicatePhone = errors.New("phone number already registered")

// uniqueViolation is the Postgres error code for unique_violation.
const uniqueViolation = "23505"

// IUserRepository defines the contract for user database operations.
type IUserRepository interface {
	Create(user *model.User) error
	GetByID(id int) (*model.User, error)
	GetByPhone(phone string) (*model.User, error)
	UpdateProfile(user *model.User) error
	UpdateRefreshToken(userID int, refreshToken string) error
	List(offset, limit int) ([]*model.User, error)
}

// UserRepository implements IUserRepository.
type UserRepository struct {
	DB *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// Create inserts a new user record. The new id is written back onto the
// passed user. A phone collision surfaces as ErrDuplicatePhone.
func (r *UserRepository) Create(user *model.User) error {
	log := logger.Log.WithField("phone", user.Phone)
	log.Info("Executing query to create a new user")

	query := `INSERT INTO users (name, phone, password) VALUES ($1, $2, $3) RETURNING id`
	err := r.DB.QueryRow(query, user.Name, user.Phone, user.PasswordHash).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			log.Info("Phone number already registered")
			return ErrDuplicatePhone
		}
		log.WithError(err).Error("Failed to execute create user query")
		return err
	}
	return nil
}

// GetByID retrieves a user by primary key. Returns sql.ErrNoRows if not found.
func (r *UserRepository) GetByID(id int) (*model.User, error) {
	log := logger.Log.WithField("user_id", id)
	log.Info("Executing query to get user by ID")

	user := &model.User{}
	query := `SELECT id, name, phone, password, refresh_token FROM users WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&user.ID, &user.Name, &user.Phone, &user.PasswordHash, &user.RefreshToken)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get user by ID query")
		}
		return nil, err // Return sql.ErrNoRows if not found
	}
	return user, nil
}

// GetByPhone retrieves a user by the unique phone column. Returns
// sql.ErrNoRows if not found.
func (r *UserRepository) GetByPhone(phone string) (*model.User, error) {
	log := logger.Log.WithField("phone", phone)
	log.Info("Executing query to get user by phone")

	user := &model.User{}
	query := `SELECT id, name, phone, password, refresh_token FROM users WHERE phone = $1`
	err := r.DB.QueryRow(query, phone).Scan(&user.ID, &user.Name, &user.Phone, &user.PasswordHash, &user.RefreshToken)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get user by phone query")
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile commits the user's current name and phone in a single
// statement. A phone collision surfaces as ErrDuplicatePhone.
func (r *UserRepository) UpdateProfile(user *model.User) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": user.ID,
	})
	log.Info("Executing query to update user profile")

	query := `UPDATE users SET name = $1, phone = $2 WHERE id = $3`
	res, err := r.DB.Exec(query, user.Name, user.Phone, user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			log.Info("Phone number already registered")
			return ErrDuplicatePhone
		}
		log.WithError(err).Error("Failed to execute update user profile query")
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateRefreshToken overwrites the stored refresh token for a user.
func (r *UserRepository) UpdateRefreshToken(userID int, refreshToken string) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to update refresh token")

	query := `UPDATE users SET refresh_token = $1 WHERE id = $2`
	_, err := r.DB.Exec(query, refreshToken, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update refresh token query")
		return err
	}
	return nil
}

// List retrieves a page of users ordered by id.
func (r *UserRepository) List(offset, limit int) ([]*model.User, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"offset": offset,
		"limit":  limit,
	})
	log.Info("Executing query to list users")

	query := `SELECT id, name, phone, password, refresh_token FROM users ORDER BY id OFFSET $1 LIMIT $2`
	rows, err := r.DB.Query(query, offset, limit)
	if err != nil {
		log.WithError(err).Error("Failed to execute list users query")
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Phone, &u.PasswordHash, &u.RefreshToken); err != nil {
			log.WithError(err).Error("Failed to scan user row")
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
