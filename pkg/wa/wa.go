package wa

import (
	"context"
	"strings"
)

// Button is an interactive reply button; WhatsApp caps a message at three.
type Button struct {
	ID    string
	Title string
}

// Row is a selectable list entry.
type Row struct {
	ID          string
	Title       string
	Description string
}

// List is a one-screen selectable list message.
type List struct {
	Title        string
	Body         string
	SectionTitle string
	ButtonText   string
	Rows         []Row
}

// Sender is the outbound messaging capability the flow controllers depend
// on. The Cloud API client implements it; tests substitute a fake.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
	SendButtons(ctx context.Context, to, body string, buttons []Button) error
	SendList(ctx context.Context, to string, list List) error
}

// MaskPhone keeps only the last four digits of a contact handle. Raw numbers
// never appear in list labels or logs.
func MaskPhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	s := digits.String()
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "***" + s
	}
	return "***" + s[len(s)-4:]
}

// ChatLink builds a wa.me deep link that opens a chat with the counterpart,
// pre-filled with a greeting.
func ChatLink(phone, text string) string {
	digitsOnly := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	link := "https://wa.me/" + digitsOnly
	if text != "" {
		link += "?text=" + urlEncode(text)
	}
	return link
}

func urlEncode(s string) string {
	var b strings.Builder
	for _, r := range []byte(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.', r == '~':
			b.WriteByte(r)
		case r == ' ':
			b.WriteString("%20")
		default:
			const hex = "0123456789ABCDEF"
			b.WriteByte('%')
			b.WriteByte(hex[r>>4])
			b.WriteByte(hex[r&0xf])
		}
	}
	return b.String()
}
