package format

import (
	"context"
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 256

// QRDataURI encodes content as a PNG QR code and returns it as a data URI
// suitable for an <img> src attribute. This is the only step of the document
// pipeline that does real work outside string assembly, so it honors context
// cancellation.
func QRDataURI(ctx context.Context, content string) (string, error) {
	if content == "" {
		return "", fmt.Errorf("qr content must not be empty")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	png, err := qrcode.Encode(content, qrcode.Medium, qrImageSize)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
