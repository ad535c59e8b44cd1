package readers

import (
	"strconv"

	"github.com/agentstation/unify/pkg/errors"
	"github.com/agentstation/unify/pkg/sources"
)

// Transfers loads the CSV transfer feed. Expected columns: sender_id,
// recipient_id, amount, date.
func Transfers(path string) ([]sources.RawTransfer, error) {
	var transfers []sources.RawTransfer
	err := forEachCSVRow(path, func(get func(string) string) error {
		amount, err := strconv.ParseFloat(get("amount"), 64)
		if err != nil && get("amount") != "" {
			return errors.WrapParse("csv", path, err)
		}
		transfers = append(transfers, sources.RawTransfer{
			SenderRef:    get("sender_id"),
			RecipientRef: get("recipient_id"),
			Amount:       amount,
			Date:         get("date"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transfers, nil
}
