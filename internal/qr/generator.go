// Package qr renders QR code images for table ordering links.
package qr

import (
	qrcode "github.com/skip2/go-qrcode"
)

// Generator produces a PNG image for the given payload.
type Generator interface {
	GeneratePNG(payload string) ([]byte, error)
}

type pngGenerator struct {
	size int
}

func NewGenerator() Generator {
	return &pngGenerator{size: 256}
}

func (g *pngGenerator) GeneratePNG(payload string) ([]byte, error) {
	return qrcode.Encode(payload, qrcode.Medium, g.size)
}
