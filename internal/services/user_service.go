package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/auth"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const searchLimit = 50

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Upsert records the profile of a user who just logged in. The row is keyed
// on the Discord id; the other fields take the latest values.
func (s *UserService) Upsert(ctx context.Context, id *auth.Identity) error {
	if id == nil || id.ID == "" {
		return fmt.Errorf("%w: profile has no id", ErrValidation)
	}

	user := models.User{
		DiscordID:     id.ID,
		Username:      id.Username,
		Discriminator: id.Discriminator,
		Avatar:        id.Avatar,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "discord_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "discriminator", "avatar"}),
	}).Create(&user).Error
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// Search finds users whose "username#discriminator" contains query
// (case-insensitive) or whose Discord id equals query. At most 50 rows.
func (s *UserService) Search(ctx context.Context, query string) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrValidation)
	}

	users := make([]models.User, 0)
	err := s.db.WithContext(ctx).
		Select("discord_id", "username", "discriminator", "avatar").
		Where("(username || '#' || COALESCE(discriminator, '')) ILIKE ? OR discord_id = ?", likePattern(query), query).
		Order("username").
		Limit(searchLimit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// likePattern turns q into a substring pattern where q's own % and _ match
// literally.
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
