package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultSize = 256

// Generator PNG QR кодов для адресов оплаты
type Generator struct {
	level qrcode.RecoveryLevel
}

func NewGenerator() *Generator {
	return &Generator{level: qrcode.Medium}
}

// PNG кодирует content в PNG size x size
func (g *Generator) PNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qr: empty content")
	}
	if size <= 0 {
		size = defaultSize
	}
	png, err := qrcode.Encode(content, g.level, size)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	return png, nil
}
