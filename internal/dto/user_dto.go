package dto

import "github.com/ahmetcoskunkizilkaya/plate-registry/internal/models"

type UserSearchResult struct {
	DiscordID     string  `json:"discord_id"`
	Username      string  `json:"username"`
	Discriminator *string `json:"discriminator"`
	Avatar        *string `json:"avatar"`
}

type UserSearchResponse struct {
	OK      bool               `json:"ok"`
	Results []UserSearchResult `json:"results"`
}

func NewUserSearch(users []models.User) UserSearchResponse {
	out := make([]UserSearchResult, 0, len(users))
	for _, u := range users {
		out = append(out, UserSearchResult{
			DiscordID:     u.DiscordID,
			Username:      u.Username,
			Discriminator: u.Discriminator,
			Avatar:        u.Avatar,
		})
	}
	return UserSearchResponse{OK: true, Results: out}
}
