package adscan

// AdvFilter returns true if the advertisement matches specified condition.
type AdvFilter func(a *Advertisement) bool

// Advertisement is one advertising event as delivered by the scan engine:
// the raw payload plus whatever fields the engine already decoded.
// Optional numeric fields are nil when the engine did not report them.
type Advertisement struct {
	Addr             Addr
	RSSI             *int
	TxPower          *int
	Appearance       *uint16
	Name             string
	ManufacturerData []byte
	Services         []UUID
	ServiceData      []ServiceData

	// Payload is the raw advertising data (AD structures), at most 255 bytes.
	Payload []byte
}

// ServiceData ...
type ServiceData struct {
	UUID UUID
	Data []byte
}

var AdvertisementMapKeys = struct {
	MAC         string
	RSSI        string
	TxPower     string
	Appearance  string
	Name        string
	MFG         string
	Services    string
	ServiceData string
	Payload     string
	Elements    string
	Malformed   string
}{
	MAC:         "addr",
	RSSI:        "rssi",
	TxPower:     "txPower",
	Appearance:  "appearance",
	Name:        "name",
	MFG:         "mfg",
	Services:    "services",
	ServiceData: "serviceData",
	Payload:     "payload",
	Elements:    "elements",
	Malformed:   "malformed",
}
