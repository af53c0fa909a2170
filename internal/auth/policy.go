package auth

// Policy decides moderator status from a fixed set of Discord ids. It is
// built once at startup and never mutated.
type Policy struct {
	moderators map[string]struct{}
}

func NewPolicy(moderatorIDs []string) *Policy {
	set := make(map[string]struct{}, len(moderatorIDs))
	for _, id := range moderatorIDs {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return &Policy{moderators: set}
}

func (p *Policy) IsModerator(discordID string) bool {
	if p == nil || discordID == "" {
		return false
	}
	_, ok := p.moderators[discordID]
	return ok
}

// Size returns the number of configured moderators.
func (p *Policy) Size() int {
	if p == nil {
		return 0
	}
	return len(p.moderators)
}
