package readers

import (
	"encoding/xml"
	"os"

	"github.com/agentstation/unify/pkg/errors"
	"github.com/agentstation/unify/pkg/sources"
)

// transactionFeed is the XML document root of the transaction feed.
type transactionFeed struct {
	XMLName      xml.Name                 `xml:"transactions"`
	Transactions []sources.RawTransaction `xml:"transaction"`
}

// Transactions loads the XML transaction feed.
func Transactions(path string) ([]sources.RawTransaction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer file.Close()

	var feed transactionFeed
	if err := xml.NewDecoder(file).Decode(&feed); err != nil {
		return nil, errors.WrapParse("xml", path, err)
	}
	return feed.Transactions, nil
}
