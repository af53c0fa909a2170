package handlers

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/auth"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/dto"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/models"
	"github.com/gofiber/fiber/v2"
)

type UserStore interface {
	Upsert(ctx context.Context, id *auth.Identity) error
	Search(ctx context.Context, query string) ([]models.User, error)
}

type UserHandler struct {
	users UserStore
}

func NewUserHandler(users UserStore) *UserHandler {
	return &UserHandler{users: users}
}

// Search matches q against "username#discriminator" or an exact Discord id.
func (h *UserHandler) Search(c *fiber.Ctx) error {
	users, err := h.users.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewUserSearch(users))
}
