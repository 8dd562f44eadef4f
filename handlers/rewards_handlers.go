package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/richardgms/guia-enem-2026-sub000/auth"
	"github.com/richardgms/guia-enem-2026-sub000/db"
	"github.com/richardgms/guia-enem-2026-sub000/jobs"
	"github.com/richardgms/guia-enem-2026-sub000/models"
	"github.com/richardgms/guia-enem-2026-sub000/schedule"
	"github.com/richardgms/guia-enem-2026-sub000/utils"
)

type RewardsHandlers struct {
	db           *db.DB
	sessionStore *auth.SessionStore
	cfg          schedule.Config
	jobManager   *jobs.JobManager
}

func NewRewardsHandlers(database *db.DB, sessionStore *auth.SessionStore, cfg schedule.Config, jobManager *jobs.JobManager) *RewardsHandlers {
	return &RewardsHandlers{
		db:           database,
		sessionStore: sessionStore,
		cfg:          cfg,
		jobManager:   jobManager,
	}
}

func (rh *RewardsHandlers) ListRewards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session := getSessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	rewards, err := rh.db.ListRewards()
	if err != nil {
		http.Error(w, "Failed to load rewards", http.StatusInternalServerError)
		return
	}
	if rewards == nil {
		rewards = []models.Reward{}
	}

	balance, err := rh.db.CoinBalance(session.UserID, rh.cfg, time.Now())
	if err != nil {
		http.Error(w, "Failed to compute balance", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rewards": rewards,
		"balance": balance,
	})
}

// Redeem spends accrued coins on a catalog item. The balance is recomputed
// from the raw records right before the check, not read from the cache.
func (rh *RewardsHandlers) Redeem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session := getSessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req models.RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	reward, err := rh.db.GetReward(req.RewardID)
	if err != nil {
		http.Error(w, "Failed to load reward", http.StatusInternalServerError)
		return
	}
	if reward == nil {
		http.Error(w, "Unknown reward", http.StatusNotFound)
		return
	}
	if !reward.Available {
		http.Error(w, "Reward is not available", http.StatusConflict)
		return
	}

	balance, err := rh.db.CoinBalance(session.UserID, rh.cfg, time.Now())
	if err != nil {
		http.Error(w, "Failed to compute balance", http.StatusInternalServerError)
		return
	}
	if balance < reward.Cost {
		utils.LogInfo("User %d redemption rejected: balance %d < cost %d", session.UserID, balance, reward.Cost)
		writeJSON(w, http.StatusPaymentRequired, map[string]interface{}{
			"error":   "insufficient coins",
			"balance": balance,
			"cost":    reward.Cost,
		})
		return
	}

	redemption, err := rh.db.CreateRedemption(session.UserID, req.RewardID)
	if err != nil {
		http.Error(w, "Failed to redeem reward", http.StatusInternalServerError)
		return
	}

	utils.LogInfo("User %d redeemed reward %s for %d coins", session.UserID, reward.Name, reward.Cost)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"redemption": redemption,
		"balance":    balance - reward.Cost,
	})
}
