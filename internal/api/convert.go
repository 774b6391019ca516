package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spacedatanetwork/sdn-vcard/internal/hcard"
	"github.com/spacedatanetwork/sdn-vcard/internal/jcard"
	"github.com/spacedatanetwork/sdn-vcard/internal/peercard"
	"github.com/spacedatanetwork/sdn-vcard/internal/scribe"
	"github.com/spacedatanetwork/sdn-vcard/internal/store"
	"github.com/spacedatanetwork/sdn-vcard/internal/textcard"
	"github.com/spacedatanetwork/sdn-vcard/internal/vcard"
	"github.com/spacedatanetwork/sdn-vcard/internal/xcard"
)

// Errors
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrNoCards           = errors.New("no vCards found in input")
)

// Content types of the output formats.
var contentTypes = map[string]string{
	store.FormatText: "text/vcard; charset=utf-8",
	store.FormatXML:  "application/vcard+xml; charset=utf-8",
	store.FormatJSON: "application/vcard+json",
	store.FormatHTML: "text/html; charset=utf-8",
	store.FormatQR:   "image/png",
}

// ConversionOptions holds options for a conversion.
type ConversionOptions struct {
	From      string        // input format, default text
	To        string        // output format, default xml
	Version   vcard.Version // text output version, zero means 4.0
	AddProdID bool
	Indent    int    // xml and json
	BaseURL   string // resolves relative links in html input
	QRSize    int
}

// DefaultConversionOptions returns text to xCard with PRODID and two-space
// indentation.
func DefaultConversionOptions() ConversionOptions {
	return ConversionOptions{
		From:      store.FormatText,
		To:        store.FormatXML,
		Version:   vcard.V4_0,
		AddProdID: true,
		Indent:    2,
		QRSize:    textcard.DefaultQRSize,
	}
}

// ConversionResult holds the result of a conversion.
type ConversionResult struct {
	Body        []byte
	ContentType string
	Format      string
	Cards       int
	Warnings    []string
}

// Converter reads vCards in one syntax and writes them in another. It is
// safe for concurrent use.
type Converter struct {
	registry *scribe.Registry
}

// NewConverter returns a converter. A nil registry means
// peercard.Registry(), so SDN peer properties keep their xCard namespace.
func NewConverter(registry *scribe.Registry) *Converter {
	if registry == nil {
		registry = peercard.Registry()
	}
	return &Converter{registry: registry}
}

// Registry returns the scribe registry in use.
func (c *Converter) Registry() *scribe.Registry { return c.registry }

// Read parses data in the given format.
func (c *Converter) Read(ctx context.Context, data []byte, format, baseURL string) ([]*vcard.Card, []string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var (
		cards    []*vcard.Card
		warnings []string
		err      error
	)
	switch normalizeFormat(format, store.FormatText) {
	case store.FormatText:
		cards, warnings, err = textcard.Parse(bytes.NewReader(data), c.registry)
	case store.FormatXML:
		cards, warnings, err = xcard.Parse(bytes.NewReader(data), c.registry)
	case store.FormatJSON:
		cards, warnings, err = jcard.Parse(data, c.registry)
	case store.FormatHTML:
		cards, warnings, err = hcard.Parse(bytes.NewReader(data), baseURL, c.registry)
	case store.FormatQR:
		cards, warnings, err = textcard.QRToCards(data, c.registry)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, warnings, err
	}
	if len(cards) == 0 {
		return nil, warnings, ErrNoCards
	}
	return cards, warnings, nil
}

// Write renders cards in opts.To.
func (c *Converter) Write(ctx context.Context, cards []*vcard.Card, opts ConversionOptions) (*ConversionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	format := normalizeFormat(opts.To, store.FormatXML)
	result := &ConversionResult{
		ContentType: contentTypes[format],
		Format:      format,
		Cards:       len(cards),
	}

	var buf bytes.Buffer
	switch format {
	case store.FormatText:
		warnings, err := textcard.Write(&buf, cards, c.textConfig(opts))
		result.Warnings = warnings
		if err != nil {
			return nil, err
		}
	case store.FormatXML:
		doc := xcard.NewDocument(xcard.Config{AddProdID: opts.AddProdID, Registry: c.registry})
		for _, card := range cards {
			doc.AddCard(card)
			result.Warnings = append(result.Warnings, doc.Warnings()...)
		}
		if _, err := doc.WriteIndent(&buf, opts.Indent); err != nil {
			return nil, fmt.Errorf("failed to write xCard: %w", err)
		}
	case store.FormatJSON:
		w := jcard.NewWriter(jcard.Config{AddProdID: opts.AddProdID, Registry: c.registry})
		for _, card := range cards {
			w.Add(card)
			result.Warnings = append(result.Warnings, w.Warnings()...)
		}
		if _, err := w.WriteIndent(&buf, opts.Indent); err != nil {
			return nil, fmt.Errorf("failed to write jCard: %w", err)
		}
	case store.FormatHTML:
		w := hcard.NewWriter(c.registry)
		for _, card := range cards {
			w.Add(card)
			result.Warnings = append(result.Warnings, w.Warnings()...)
		}
		if _, err := w.WriteTo(&buf); err != nil {
			return nil, err
		}
	case store.FormatQR:
		if len(cards) != 1 {
			return nil, fmt.Errorf("%w: a QR code holds one vCard, got %d", ErrUnsupportedFormat, len(cards))
		}
		png, warnings, err := textcard.CardToQR(cards[0], c.textConfig(opts), opts.QRSize)
		result.Warnings = warnings
		if err != nil {
			return nil, err
		}
		buf.Write(png)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, opts.To)
	}

	result.Body = buf.Bytes()
	return result, nil
}

// Convert reads data in opts.From and writes it in opts.To. Read warnings
// come first in the result.
func (c *Converter) Convert(ctx context.Context, data []byte, opts ConversionOptions) (*ConversionResult, error) {
	cards, readWarnings, err := c.Read(ctx, data, opts.From, opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to read vCards: %w", err)
	}
	result, err := c.Write(ctx, cards, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to write vCards: %w", err)
	}
	result.Warnings = append(readWarnings, result.Warnings...)
	log.Debugf("converted %d cards %s -> %s with %d warnings", result.Cards,
		normalizeFormat(opts.From, store.FormatText), result.Format, len(result.Warnings))
	return result, nil
}

func (c *Converter) textConfig(opts ConversionOptions) textcard.Config {
	return textcard.Config{Version: opts.Version, AddProdID: opts.AddProdID, Registry: c.registry}
}

func normalizeFormat(format, def string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "":
		return def
	case "vcf", "vcard":
		return store.FormatText
	case "xcard":
		return store.FormatXML
	case "jcard":
		return store.FormatJSON
	case "hcard", "htm":
		return store.FormatHTML
	case "png":
		return store.FormatQR
	}
	return format
}
