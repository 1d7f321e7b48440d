package wa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mobibot/pkg/logger"
)

// Client talks to the WhatsApp Cloud API. Only the three message shapes the
// matching engine needs are implemented: text, reply buttons, selectable
// list.
type Client struct {
	apiBase string
	phoneID string
	token   string
	http    *http.Client
	log     logger.ILogger
}

func NewClient(apiBase, phoneID, token string, log logger.ILogger) *Client {
	return &Client{
		apiBase: apiBase,
		phoneID: phoneID,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

type waPayload struct {
	MessagingProduct string         `json:"messaging_product"`
	To               string         `json:"to"`
	Type             string         `json:"type"`
	Text             *waText        `json:"text,omitempty"`
	Interactive      *waInteractive `json:"interactive,omitempty"`
}

type waText struct {
	Body string `json:"body"`
}

type waInteractive struct {
	Type   string    `json:"type"`
	Body   waBody    `json:"body"`
	Action *waAction `json:"action,omitempty"`
}

type waBody struct {
	Text string `json:"text"`
}

type waAction struct {
	Button   string      `json:"button,omitempty"`
	Buttons  []waButton  `json:"buttons,omitempty"`
	Sections []waSection `json:"sections,omitempty"`
}

type waButton struct {
	Type  string     `json:"type"`
	Reply waBtnReply `json:"reply"`
}

type waBtnReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type waSection struct {
	Title string     `json:"title"`
	Rows  []waSecRow `json:"rows"`
}

type waSecRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func (c *Client) SendText(ctx context.Context, to, body string) error {
	return c.post(ctx, waPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             &waText{Body: body},
	})
}

func (c *Client) SendButtons(ctx context.Context, to, body string, buttons []Button) error {
	if len(buttons) > 3 {
		buttons = buttons[:3]
	}
	btns := make([]waButton, 0, len(buttons))
	for _, b := range buttons {
		btns = append(btns, waButton{Type: "reply", Reply: waBtnReply{ID: b.ID, Title: b.Title}})
	}
	return c.post(ctx, waPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "interactive",
		Interactive: &waInteractive{
			Type:   "button",
			Body:   waBody{Text: body},
			Action: &waAction{Buttons: btns},
		},
	})
}

func (c *Client) SendList(ctx context.Context, to string, list List) error {
	rows := make([]waSecRow, 0, len(list.Rows))
	for _, r := range list.Rows {
		rows = append(rows, waSecRow{ID: r.ID, Title: r.Title, Description: r.Description})
	}
	return c.post(ctx, waPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "interactive",
		Interactive: &waInteractive{
			Type: "list",
			Body: waBody{Text: list.Body},
			Action: &waAction{
				Button:   list.ButtonText,
				Sections: []waSection{{Title: list.SectionTitle, Rows: rows}},
			},
		},
	})
}

func (c *Client) post(ctx context.Context, payload waPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.apiBase, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Error("whatsapp api rejected message",
			logger.Int("status", resp.StatusCode),
			logger.String("type", payload.Type),
			logger.String("to", MaskPhone(payload.To)),
		)
		return fmt.Errorf("whatsapp send failed: status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
