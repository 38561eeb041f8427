package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/set-night/chatexport/internal/domain"
)

func TestNewConversationExported(t *testing.T) {
	id := uuid.MustParse("2f1c8a52-4f52-4c1e-9a3e-6a3c7d0f9b11")
	created := time.Date(2025, 2, 14, 12, 30, 0, 0, time.FixedZone("MSK", 3*60*60))

	ev := NewConversationExported(&domain.ExportRecord{
		ID:           id,
		UserID:       42,
		Title:        "Trip planning",
		Format:       domain.FormatPDF,
		MessageCount: 7,
		CreatedAt:    created,
	})

	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"export_id":"2f1c8a52-4f52-4c1e-9a3e-6a3c7d0f9b11","user_id":42,"title":"Trip planning","format":"pdf","message_count":7,"timestamp":"2025-02-14T09:30:00Z"}`
	if string(data) != want {
		t.Errorf("payload =\n%s\nwant\n%s", data, want)
	}
}
