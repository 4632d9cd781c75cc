package gateway

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/pkg/errors"
)

// ExtractCode returns the scannable code from a connect payload, trying
// each known shape in order: the inline code field, the nested
// qrcode.code field, and finally decoding the base64 image. An empty
// string means no code is available; the caller falls back to manual
// display.
func (q *QRPayload) ExtractCode() string {
	if q.Code != "" {
		return q.Code
	}

	if q.QRCode != nil && q.QRCode.Code != "" {
		return q.QRCode.Code
	}

	if q.Base64 != "" {
		if code, err := decodeQRImage(q.Base64); err == nil {
			return code
		}
	}

	return ""
}

// decodeQRImage reads the QR content out of a base64-encoded image,
// tolerating an optional data-URI prefix.
func decodeQRImage(encoded string) (string, error) {
	if idx := strings.Index(encoded, ","); idx >= 0 {
		encoded = encoded[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.Wrap(err, "failed to decode qr image payload")
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", errors.Wrap(err, "failed to decode qr image")
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", errors.Wrap(err, "failed to prepare qr bitmap")
	}

	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to read qr code")
	}

	return result.GetText(), nil
}
