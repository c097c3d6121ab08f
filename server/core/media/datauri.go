package media

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
)

// Asset is decoded media ready to be served
type Asset struct {
	MimeType string
	Data     []byte
}

var ErrNotDataURI = errors.New("value is not a data URI")

func IsDataURI(value string) bool {
	return strings.HasPrefix(value, "data:")
}

// ParseDataURI decodes data:<mime>[;params][;base64],<payload>
func ParseDataURI(value string) (*Asset, error) {
	if !IsDataURI(value) {
		return nil, ErrNotDataURI
	}

	header, payload, found := strings.Cut(strings.TrimPrefix(value, "data:"), ",")
	if !found {
		return nil, errors.New("data URI has no payload separator")
	}

	params := strings.Split(header, ";")
	mimeType := strings.TrimSpace(params[0])
	if mimeType == "" {
		mimeType = "text/plain"
	}

	isBase64 := false
	for _, p := range params[1:] {
		if strings.TrimSpace(p) == "base64" {
			isBase64 = true
		}
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			// some encoders drop the padding
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
			if err != nil {
				return nil, errors.New("data URI payload is not valid base64")
			}
		}
		return &Asset{MimeType: mimeType, Data: data}, nil
	}

	decoded, err := url.PathUnescape(payload)
	if err != nil {
		return nil, errors.New("data URI payload is not valid percent-encoding")
	}
	return &Asset{MimeType: mimeType, Data: []byte(decoded)}, nil
}
