package adscan

import (
	"encoding/hex"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var hexReplacer = strings.NewReplacer(" ", "", "\t", "", ":", "", "-", "")

// ParseHex decodes a hex string. An optional 0x prefix and space, ':' or '-'
// separators are accepted.
func ParseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(hexReplacer.Replace(s))
	if err != nil {
		return nil, errors.Wrap(err, "hex")
	}
	return b, nil
}

type serviceDataJSON struct {
	UUID string `json:"uuid"`
	Data string `json:"data"`
}

// advJSON is the wire form of an Advertisement; keys match AdvertisementMapKeys.
type advJSON struct {
	Addr        string            `json:"addr"`
	RSSI        *int              `json:"rssi,omitempty"`
	TxPower     *int              `json:"txPower,omitempty"`
	Appearance  *uint16           `json:"appearance,omitempty"`
	Name        string            `json:"name,omitempty"`
	MFG         string            `json:"mfg,omitempty"`
	Services    []string          `json:"services,omitempty"`
	ServiceData []serviceDataJSON `json:"serviceData,omitempty"`
	Payload     string            `json:"payload"`
}

// UnmarshalJSON decodes an advertising event as emitted by a scanner, e.g.
//
//	{"addr":"a4:c1:38:e1:ea:50","rssi":-70,"payload":"020106"}
func (a *Advertisement) UnmarshalJSON(b []byte) error {
	var in advJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	out := Advertisement{
		RSSI:       in.RSSI,
		TxPower:    in.TxPower,
		Appearance: in.Appearance,
		Name:       in.Name,
	}
	if in.Addr != "" {
		out.Addr = NewAddr(in.Addr)
	}

	var err error
	if out.Payload, err = ParseHex(in.Payload); err != nil {
		return errors.Wrap(err, AdvertisementMapKeys.Payload)
	}
	if in.MFG != "" {
		if out.ManufacturerData, err = ParseHex(in.MFG); err != nil {
			return errors.Wrap(err, AdvertisementMapKeys.MFG)
		}
	}
	for _, s := range in.Services {
		u, err := Parse(s)
		if err != nil {
			return errors.Wrap(err, AdvertisementMapKeys.Services)
		}
		out.Services = append(out.Services, u)
	}
	for _, sd := range in.ServiceData {
		u, err := Parse(sd.UUID)
		if err != nil {
			return errors.Wrap(err, AdvertisementMapKeys.ServiceData)
		}
		d, err := ParseHex(sd.Data)
		if err != nil {
			return errors.Wrap(err, AdvertisementMapKeys.ServiceData)
		}
		out.ServiceData = append(out.ServiceData, ServiceData{UUID: u, Data: d})
	}

	*a = out
	return nil
}

// ToMap returns the advertisement keyed by AdvertisementMapKeys. Fields the
// scan engine did not report are left out.
func (a *Advertisement) ToMap() map[string]interface{} {
	m := make(map[string]interface{})
	keys := AdvertisementMapKeys

	if a.Addr != nil {
		m[keys.MAC] = a.Addr.String()
	}
	if a.RSSI != nil {
		m[keys.RSSI] = *a.RSSI
	}
	if a.TxPower != nil {
		m[keys.TxPower] = *a.TxPower
	}
	if a.Appearance != nil {
		m[keys.Appearance] = *a.Appearance
	}
	if a.Name != "" {
		m[keys.Name] = a.Name
	}
	if len(a.ManufacturerData) > 0 {
		m[keys.MFG] = hex.EncodeToString(a.ManufacturerData)
	}
	if len(a.Services) > 0 {
		ss := make([]string, 0, len(a.Services))
		for _, u := range a.Services {
			ss = append(ss, u.String())
		}
		m[keys.Services] = ss
	}
	if len(a.ServiceData) > 0 {
		sds := make([]serviceDataJSON, 0, len(a.ServiceData))
		for _, sd := range a.ServiceData {
			sds = append(sds, serviceDataJSON{UUID: sd.UUID.String(), Data: hex.EncodeToString(sd.Data)})
		}
		m[keys.ServiceData] = sds
	}
	m[keys.Payload] = hex.EncodeToString(a.Payload)

	return m
}
