package render

import (
	"encoding/json"

	"github.com/set-night/chatexport/internal/domain"
)

func JSON(conv *domain.Conversation) ([]byte, error) {
	return json.MarshalIndent(conv, "", "  ")
}
