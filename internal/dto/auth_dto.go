package dto

import "github.com/ahmetcoskunkizilkaya/plate-registry/internal/auth"

// MeResponse answers GET /api/me. User and IsModerator are only set when
// Logged is true.
type MeResponse struct {
	OK          bool           `json:"ok"`
	Logged      bool           `json:"logged"`
	User        *auth.Identity `json:"user,omitempty"`
	IsModerator *bool          `json:"isModerator,omitempty"`
}

func AnonymousMe() MeResponse {
	return MeResponse{OK: true}
}

func LoggedMe(id *auth.Identity, moderator bool) MeResponse {
	return MeResponse{OK: true, Logged: true, User: id, IsModerator: &moderator}
}
