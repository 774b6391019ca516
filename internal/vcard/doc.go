// Package vcard holds the in-memory contact card model shared by every
// syntax: cards, properties, parameter tables, content type descriptors and
// the per-version marshaling policy.
//
// # Versions
//
// Three protocol versions are modeled. They disagree on how binary values
// travel:
//
//	Version  link value    embedded value           content type
//	-------  ----------    --------------           ------------
//	2.1      VALUE=url     ENCODING=BASE64, raw     TYPE=jpeg
//	3.0      VALUE=uri     ENCODING=b, raw          TYPE=jpeg
//	4.0      VALUE=uri     data:image/jpeg;base64,  MEDIATYPE=image/jpeg
//
// Version.Policy returns these rules as a record so marshaling code looks
// them up once instead of switching on the version.
//
// # Properties
//
// Every property embeds PropertyBase, which owns the property's parameter
// table and group tag. Binary properties (PHOTO, LOGO, SOUND, KEY) embed
// Binary, which holds a link or a payload but never both.
//
// # Thread Safety
//
// Cards and properties are plain values and must not be mutated
// concurrently. Reading them from several goroutines is safe.
package vcard
