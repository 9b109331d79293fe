package qr

import (
	"bytes"
	"encoding/base64"
	"image/png"

	"github.com/skip2/go-qrcode"
)

// GeneratePNG renders content as a QR code and returns the PNG bytes
func GeneratePNG(content string, size int) ([]byte, error) {
	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, code.Image(size)); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GenerateBase64 renders content as a QR code and returns the PNG as a
// base64 string suitable for embedding in JSON responses
func GenerateBase64(content string, size int) (string, error) {
	data, err := GeneratePNG(content, size)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
