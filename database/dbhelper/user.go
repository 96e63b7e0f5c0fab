package dbhelper

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ray-remotestate/littlelemon/database"
	"github.com/ray-remotestate/littlelemon/models"
)

func CreateUser(tx *sql.Tx, name, email, hashedPassword string) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(`INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id`,
		name, email, hashedPassword).Scan(&id)
	return id, err
}

func IsUserExists(email string) (bool, error) {
	var count int
	err := database.LittleLemon.QueryRow(`SELECT COUNT(*) FROM users WHERE LOWER(email) = LOWER($1) AND archived_at IS NULL`, email).Scan(&count)
	return count > 0, err
}

func GetUserByEmail(email string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := database.LittleLemon.QueryRow(`
		SELECT id FROM users
		WHERE LOWER(email) = LOWER($1) AND archived_at IS NULL`, email).
		Scan(&userID)
	if err != nil {
		return uuid.Nil, err
	}
	return userID, nil
}

func GetUserByPassword(email, password string) (uuid.UUID, string, error) {
	var id uuid.UUID
	var name string
	var hashedPassword string

	err := database.LittleLemon.QueryRow(`
		SELECT id, name, password FROM users
		WHERE LOWER(email) = LOWER($1) AND archived_at IS NULL`, email).
		Scan(&id, &name, &hashedPassword)
	if err != nil {
		return uuid.Nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) != nil {
		return uuid.Nil, "", fmt.Errorf("incorrect password")
	}

	return id, name, nil
}

func IsUserExistsByID(userID uuid.UUID) (bool, error) {
	var exists bool
	err := database.LittleLemon.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM users
			WHERE id = $1 AND archived_at IS NULL
		)`, userID).Scan(&exists)
	return exists, err
}

func AssignRole(tx *sql.Tx, userID uuid.UUID, role models.Role) error {
	_, err := tx.Exec(`INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`, userID, role)
	return err
}

func GetUserRoles(userID uuid.UUID) ([]string, error) {
	rows, err := database.LittleLemon.Query(`
		SELECT role FROM user_roles
		WHERE user_id = $1 AND archived_at IS NULL`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// UserHasRole is the storage-backed role-set check; the claims-based
// models.HasRole covers the request path.
func UserHasRole(userID uuid.UUID, role models.Role) (bool, error) {
	var exists bool
	err := database.LittleLemon.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM user_roles
			WHERE user_id = $1 AND role = $2 AND archived_at IS NULL
		)`, userID, role).Scan(&exists)
	return exists, err
}

// AddUserToRole reports false when the user already held the role.
func AddUserToRole(userID uuid.UUID, role models.Role) (bool, error) {
	res, err := database.LittleLemon.Exec(`
		INSERT INTO user_roles (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role) DO NOTHING`, userID, role)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// RemoveUserFromRole reports false when the user did not hold the role.
func RemoveUserFromRole(userID uuid.UUID, role models.Role) (bool, error) {
	res, err := database.LittleLemon.Exec(`
		DELETE FROM user_roles
		WHERE user_id = $1 AND role = $2`, userID, role)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func ListUsersInRole(role models.Role) ([]models.User, error) {
	rows, err := database.LittleLemon.Query(`
		SELECT u.id, u.name, u.email
		FROM users u
		JOIN user_roles ur ON u.id = ur.user_id
		WHERE ur.role = $1 AND u.archived_at IS NULL AND ur.archived_at IS NULL
		ORDER BY u.created_at`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
