package readers

import (
	"strings"

	"github.com/agentstation/unify/pkg/sources"
)

// Promotions loads the CSV promotion feed. Expected columns: id,
// client_email, telephone, promotion, responded.
func Promotions(path string) ([]sources.RawPromotion, error) {
	var promotions []sources.RawPromotion
	err := forEachCSVRow(path, func(get func(string) string) error {
		promotions = append(promotions, sources.RawPromotion{
			ID:        get("id"),
			Email:     get("client_email"),
			Telephone: get("telephone"),
			Promotion: get("promotion"),
			Responded: parseResponded(get("responded")),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return promotions, nil
}

// parseResponded accepts the affirmative spellings seen in the feed
// ("Yes", "Y", "true", "1"); everything else is a no.
func parseResponded(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}
