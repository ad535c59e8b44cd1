package sources

// ObjectListPerson is the raw person shape of the object-list source:
// nested location, a device name list, separate first and last names,
// and a "telephone" contact field.
type ObjectListPerson struct {
	ID        string   `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Telephone string   `json:"telephone"`
	Email     string   `json:"email"`
	Devices   []string `json:"devices"`
	Location  Location `json:"location"`
}

// Location is the nested location object of the object-list shape.
type Location struct {
	City    string `json:"City"`
	Country string `json:"Country"`
}

// FlatPerson is the raw person shape of the flat source: a combined
// full-name field, a combined "City, Country" field, and three
// independent 0/1 device flags. The id arrives as either an int or a
// string depending on how the file was produced.
type FlatPerson struct {
	ID      any    `yaml:"id"`
	Name    string `yaml:"name"`
	Email   string `yaml:"email"`
	Phone   string `yaml:"phone"`
	City    string `yaml:"city"`
	Android int    `yaml:"Android"`
	Desktop int    `yaml:"Desktop"`
	Iphone  int    `yaml:"Iphone"`
}

// RawTransaction is a not-yet-linked transaction record. The person is
// referenced by phone only.
type RawTransaction struct {
	ID    string               `xml:"id,attr"`
	Phone string               `xml:"phone"`
	Store string               `xml:"store"`
	Date  string               `xml:"date"`
	Items []RawTransactionItem `xml:"items>item"`
}

// RawTransactionItem is one line of a raw transaction. Items carry no
// ordering field; their position within the transaction is their order.
type RawTransactionItem struct {
	Name         string  `xml:"item"`
	Price        float64 `xml:"price"`
	PricePerItem float64 `xml:"price_per_item"`
	Quantity     int     `xml:"quantity"`
}

// RawTransfer is a not-yet-linked transfer record. Sender and recipient
// are referenced by external id or phone.
type RawTransfer struct {
	SenderRef    string
	RecipientRef string
	Amount       float64
	Date         string
}

// RawPromotion is a not-yet-linked promotion record. The person is
// referenced by email or phone, whichever the source filled in.
type RawPromotion struct {
	ID        string
	Email     string
	Telephone string
	Promotion string
	Responded bool
}

// ClientRef returns the promotion's person reference: email when
// present, otherwise phone.
func (p RawPromotion) ClientRef() string {
	if p.Email != "" {
		return p.Email
	}
	return p.Telephone
}
