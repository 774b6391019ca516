// Package textcard reads and writes the plain-text vCard syntax (versions
// 2.1, 3.0 and 4.0) and carries text vCards in QR codes.
//
// Line folding and parameter quoting are left to the go-vcard tokenizer;
// this package maps its fields onto the card model through the scribes.
//
// # QR Codes
//
// Render a card as a 256x256 PNG and scan it back:
//
//	pngData, warnings, err := textcard.CardToQR(card, textcard.DefaultConfig(), 256)
//	cards, warnings, err := textcard.QRToCards(pngData, nil)
//
// Output order of properties follows the tokenizer, which groups fields by
// property name.
package textcard
