package wa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mobibot/pkg/models"
)

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "***3456", MaskPhone("+250788123456"))
	assert.Equal(t, "***3456", MaskPhone("250 788 123-456"))
	assert.Equal(t, "***123", MaskPhone("123"))
	assert.Equal(t, "", MaskPhone(""))
	assert.NotContains(t, MaskPhone("+250788123456"), "788123")
}

func TestDecodeSelection(t *testing.T) {
	testCases := []struct {
		id   string
		want Selection
	}{
		{"MTCH::abc-123", Selection{Kind: SelMatchRow, TripID: "abc-123"}},
		{"FAV::fav-9", Selection{Kind: SelFavorite, FavoriteID: "fav-9"}},
		{"veh_moto", Selection{Kind: SelVehicle, Vehicle: models.VehicleMoto}},
		{"veh_spaceship", Selection{Kind: SelUnknown}},
		{"time::30m", Selection{Kind: SelTime, TimeChoice: "30m"}},
		{"BACK_MENU", Selection{Kind: SelAction, Action: ActionBackMenu}},
		{"SEE_DRIVERS", Selection{Kind: SelAction, Action: ActionSeeDrivers}},
		{"garbage", Selection{Kind: SelUnknown}},
	}

	for _, tc := range testCases {
		t.Run(tc.id, func(t *testing.T) {
			assert.Equal(t, tc.want, DecodeSelection(tc.id))
		})
	}
}

func TestRowIDRoundTrip(t *testing.T) {
	sel := DecodeSelection(MatchRowID("trip-42"))
	assert.Equal(t, SelMatchRow, sel.Kind)
	assert.Equal(t, "trip-42", sel.TripID)

	sel = DecodeSelection(VehicleRowID(models.VehicleCab))
	assert.Equal(t, SelVehicle, sel.Kind)
	assert.Equal(t, models.VehicleCab, sel.Vehicle)
}

func TestParseWebhook(t *testing.T) {
	payload := `{
		"entry": [{"changes": [{"value": {"messages": [
			{"from": "250788123456", "type": "location",
			 "location": {"latitude": -1.95, "longitude": 30.06}},
			{"from": "250788123456", "type": "interactive",
			 "interactive": {"type": "list_reply", "list_reply": {"id": "MTCH::t1"}}},
			{"from": "250788123456", "type": "text", "text": {"body": "hello"}},
			{"from": "250788123456", "type": "image"}
		]}}]}]
	}`

	events, err := ParseWebhook(strings.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, EventCoordinates, events[0].Type)
	assert.InDelta(t, -1.95, events[0].Lat, 1e-9)
	assert.InDelta(t, 30.06, events[0].Lng, 1e-9)

	assert.Equal(t, EventSelection, events[1].Type)
	assert.Equal(t, "MTCH::t1", events[1].ID)

	assert.Equal(t, EventFreeText, events[2].Type)
	assert.Equal(t, "hello", events[2].Value)
}

func TestChatLink(t *testing.T) {
	link := ChatLink("+250 788 123 456", "Hi, saw your trip")
	assert.True(t, strings.HasPrefix(link, "https://wa.me/250788123456?text="))
	assert.NotContains(t, link, " ")
}
