package utils

import qrcode "github.com/skip2/go-qrcode"

// QRCodePNG renders content as a PNG QR code of the given pixel size.
// Medium error correction is plenty for a short URL scanned off a screen.
func QRCodePNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}
