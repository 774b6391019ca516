package textcard

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	qrgen "github.com/skip2/go-qrcode"

	"github.com/spacedatanetwork/sdn-vcard/internal/scribe"
	"github.com/spacedatanetwork/sdn-vcard/internal/vcard"
)

// QR code errors
var (
	ErrQREncode    = errors.New("failed to encode QR code")
	ErrQRDecode    = errors.New("failed to decode QR code")
	ErrInvalidSize = errors.New("invalid QR code size")
)

// DefaultQRSize is the default QR code size in pixels.
const DefaultQRSize = 256

// MaxQRSize is the largest QR code edge accepted, in pixels.
const MaxQRSize = 4096

// TextToQR generates a QR code PNG holding text.
func TextToQR(text string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	qr, err := newQR(text, size)
	if err != nil {
		return nil, err
	}
	pngData, err := qr.PNG(size)
	if err != nil {
		return nil, errors.Join(ErrQREncode, err)
	}
	return pngData, nil
}

// TextToQRImage generates a QR code image holding text.
func TextToQRImage(text string, size int) (image.Image, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	qr, err := newQR(text, size)
	if err != nil {
		return nil, err
	}
	return qr.Image(size), nil
}

func newQR(text string, size int) (*qrgen.QRCode, error) {
	if text == "" {
		return nil, vcard.ErrEmptyCard
	}
	if size > MaxQRSize {
		return nil, ErrInvalidSize
	}
	qr, err := qrgen.New(text, qrgen.Medium)
	if err != nil {
		return nil, errors.Join(ErrQREncode, err)
	}
	return qr, nil
}

// CardToQR encodes card in the text syntax and renders it as a QR code PNG.
// A size of zero or less uses DefaultQRSize.
func CardToQR(card *vcard.Card, cfg Config, size int) ([]byte, []string, error) {
	if card == nil || card.Len() == 0 {
		return nil, nil, vcard.ErrEmptyCard
	}
	text, warnings, err := Marshal(card, cfg)
	if err != nil {
		return nil, warnings, err
	}
	pngData, err := TextToQR(text, size)
	return pngData, warnings, err
}

// QRToText scans a QR code PNG and returns the text it holds.
func QRToText(pngData []byte) (string, error) {
	if len(pngData) == 0 {
		return "", ErrQRDecode
	}
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return "", errors.Join(ErrQRDecode, err)
	}
	return QRImageToText(img)
}

// QRImageToText scans a QR code image and returns the text it holds.
func QRImageToText(img image.Image) (string, error) {
	if img == nil {
		return "", ErrQRDecode
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", errors.Join(ErrQRDecode, err)
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", errors.Join(ErrQRDecode, err)
	}
	return result.GetText(), nil
}

// QRToCards scans a QR code PNG holding text vCards and parses them.
func QRToCards(pngData []byte, registry *scribe.Registry) ([]*vcard.Card, []string, error) {
	text, err := QRToText(pngData)
	if err != nil {
		return nil, nil, err
	}
	return Parse(strings.NewReader(text), registry)
}
