package db

import (
	"database/sql"

	"github.com/richardgms/guia-enem-2026-sub000/models"
	"github.com/richardgms/guia-enem-2026-sub000/utils"
)

// ListRewards returns the catalog, available items first.
func (db *DB) ListRewards() ([]models.Reward, error) {
	rows, err := db.Query(`
        SELECT id, name, description, cost, available
        FROM rewards ORDER BY available DESC, cost
    `)
	if err != nil {
		utils.LogError("ListRewards failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	var rewards []models.Reward
	for rows.Next() {
		var r models.Reward
		var description sql.NullString
		if err := rows.Scan(&r.ID, &r.Name, &description, &r.Cost, &r.Available); err != nil {
			utils.LogError("Failed to scan reward: %v", err)
			return nil, err
		}
		r.Description = description.String
		rewards = append(rewards, r)
	}
	return rewards, rows.Err()
}

// GetReward returns one catalog item, or nil when unknown.
func (db *DB) GetReward(id int) (*models.Reward, error) {
	var r models.Reward
	var description sql.NullString
	err := db.QueryRow(`
        SELECT id, name, description, cost, available FROM rewards WHERE id = ?
    `, id).Scan(&r.ID, &r.Name, &description, &r.Cost, &r.Available)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		utils.LogError("GetReward(%d) failed: %v", id, err)
		return nil, err
	}
	r.Description = description.String
	return &r, nil
}

// CreateRedemption records coins spent on a reward.
func (db *DB) CreateRedemption(userID, rewardID int) (*models.Redemption, error) {
	res, err := db.Exec(`
        INSERT INTO redemptions (user_id, reward_id) VALUES (?, ?)
    `, userID, rewardID)
	if err != nil {
		utils.LogError("CreateRedemption(%d, %d) failed: %v", userID, rewardID, err)
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	var r models.Redemption
	err = db.QueryRow(`
        SELECT rd.id, rd.user_id, rd.reward_id, rw.name, rw.cost, rd.redeemed_at
        FROM redemptions rd JOIN rewards rw ON rd.reward_id = rw.id
        WHERE rd.id = ?
    `, id).Scan(&r.ID, &r.UserID, &r.RewardID, &r.RewardName, &r.Cost, &r.RedeemedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRedemptions returns the user's redemption history, newest first.
func (db *DB) ListRedemptions(userID int) ([]models.Redemption, error) {
	rows, err := db.Query(`
        SELECT rd.id, rd.user_id, rd.reward_id, rw.name, rw.cost, rd.redeemed_at
        FROM redemptions rd JOIN rewards rw ON rd.reward_id = rw.id
        WHERE rd.user_id = ? ORDER BY rd.redeemed_at DESC
    `, userID)
	if err != nil {
		utils.LogError("ListRedemptions(%d) failed: %v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var redemptions []models.Redemption
	for rows.Next() {
		var r models.Redemption
		if err := rows.Scan(&r.ID, &r.UserID, &r.RewardID, &r.RewardName, &r.Cost, &r.RedeemedAt); err != nil {
			utils.LogError("Failed to scan redemption: %v", err)
			return nil, err
		}
		redemptions = append(redemptions, r)
	}
	return redemptions, rows.Err()
}
