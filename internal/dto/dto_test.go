package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/auth"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateVehicleRequest_Validate(t *testing.T) {
	cases := []struct {
		name    string
		req     CreateVehicleRequest
		wantErr string
	}{
		{"valid", CreateVehicleRequest{DiscordID: "222", Plate: "ABC123"}, ""},
		{"valid with extras", CreateVehicleRequest{DiscordID: "222", Plate: "ABC123", Model: "Civic", Color: "red", Notes: "n"}, ""},
		{"missing plate", CreateVehicleRequest{DiscordID: "222"}, "plate"},
		{"blank plate", CreateVehicleRequest{DiscordID: "222", Plate: "  "}, "plate"},
		{"missing owner", CreateVehicleRequest{Plate: "ABC123"}, "discord_id"},
		{"long notes", CreateVehicleRequest{DiscordID: "222", Plate: "ABC123", Notes: strings.Repeat("x", 1001)}, "notes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestMeResponse_JSON(t *testing.T) {
	b, err := json.Marshal(AnonymousMe())
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true,"logged":false}`, string(b))

	b, err = json.Marshal(LoggedMe(&auth.Identity{ID: "222", Username: "bob"}, false))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true,"logged":true,"isModerator":false,
		"user":{"id":"222","username":"bob","discriminator":null,"avatar":null}}`, string(b))
}

func TestNewVehicleList_NeverNull(t *testing.T) {
	b, err := json.Marshal(NewVehicleList(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true,"vehicles":[]}`, string(b))

	list := NewVehicleList([]models.Vehicle{{ID: 1, DiscordID: "222", Plate: "ABC123", CreatedAt: time.Unix(0, 0).UTC(), CreatedBy: "111"}})
	require.Len(t, list.Vehicles, 1)
	assert.Equal(t, "111", list.Vehicles[0].CreatedBy)
}

func TestNewUserSearch(t *testing.T) {
	disc := "0001"
	res := NewUserSearch([]models.User{{DiscordID: "111", Username: "anna", Discriminator: &disc}})
	require.Len(t, res.Results, 1)
	assert.Equal(t, "anna", res.Results[0].Username)

	b, err := json.Marshal(NewUserSearch(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true,"results":[]}`, string(b))
}
