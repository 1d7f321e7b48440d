package wa

import (
	"encoding/json"
	"fmt"
	"io"
)

// webhook payload shapes, trimmed to what the matching engine consumes.

type webhookBody struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []webhookMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type webhookMessage struct {
	From string `json:"from"`
	Type string `json:"type"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text"`
	Location *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Name      string  `json:"name"`
	} `json:"location"`
	Interactive *struct {
		Type        string `json:"type"`
		ButtonReply *struct {
			ID string `json:"id"`
		} `json:"button_reply"`
		ListReply *struct {
			ID string `json:"id"`
		} `json:"list_reply"`
	} `json:"interactive"`
}

// ParseWebhook normalizes an inbound Cloud API webhook body into events.
// Unsupported message types (media, reactions) are skipped.
func ParseWebhook(r io.Reader) ([]Event, error) {
	var body webhookBody
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode webhook: %w", err)
	}

	var events []Event
	for _, entry := range body.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if ev, ok := normalizeMessage(msg); ok {
					events = append(events, ev)
				}
			}
		}
	}
	return events, nil
}

func normalizeMessage(msg webhookMessage) (Event, bool) {
	switch msg.Type {
	case "location":
		if msg.Location == nil {
			return Event{}, false
		}
		return Event{
			From: msg.From,
			Type: EventCoordinates,
			Lat:  msg.Location.Latitude,
			Lng:  msg.Location.Longitude,
			Text: msg.Location.Name,
		}, true
	case "interactive":
		if msg.Interactive == nil {
			return Event{}, false
		}
		var id string
		if msg.Interactive.ButtonReply != nil {
			id = msg.Interactive.ButtonReply.ID
		} else if msg.Interactive.ListReply != nil {
			id = msg.Interactive.ListReply.ID
		}
		if id == "" {
			return Event{}, false
		}
		return Event{From: msg.From, Type: EventSelection, ID: id}, true
	case "text":
		if msg.Text == nil {
			return Event{}, false
		}
		return Event{From: msg.From, Type: EventFreeText, Value: msg.Text.Body}, true
	}
	return Event{}, false
}
