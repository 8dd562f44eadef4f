package db

import (
	"database/sql"
	"fmt"

	"github.com/richardgms/guia-enem-2026-sub000/models"
	"github.com/richardgms/guia-enem-2026-sub000/utils"
)

// CreateUser inserts a new account with a bcrypt password hash.
func (db *DB) CreateUser(req models.UserRequest) (*models.User, error) {
	utils.LogDB("Creating user: %s", req.Username)

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = "student"
	}

	res, err := db.Exec(`
        INSERT INTO users (username, email, password_hash, role) VALUES (?, ?, ?, ?)
    `, req.Username, req.Email, hash, role)
	if err != nil {
		utils.LogError("CreateUser(%s) failed: %v", req.Username, err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return db.GetUserByID(int(id))
}

// GetUserByID returns one user, or nil when unknown.
func (db *DB) GetUserByID(id int) (*models.User, error) {
	var u models.User
	err := db.QueryRow(`
        SELECT id, username, email, role, is_active, created_at, updated_at
        FROM users WHERE id = ?
    `, id).Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		utils.LogError("GetUserByID(%d) failed: %v", id, err)
		return nil, err
	}
	return &u, nil
}

// AuthenticateUser verifies credentials and returns the user on success.
func (db *DB) AuthenticateUser(username, password string) (*models.User, error) {
	var u models.User
	var hash string
	err := db.QueryRow(`
        SELECT id, username, email, password_hash, role, is_active, created_at, updated_at
        FROM users WHERE username = ?
    `, username).Scan(&u.ID, &u.Username, &u.Email, &hash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		utils.LogError("AuthenticateUser(%s) failed: %v", username, err)
		return nil, err
	}

	if !u.IsActive || !utils.CheckPassword(hash, password) {
		return nil, nil
	}
	return &u, nil
}
