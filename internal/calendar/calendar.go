// Package calendar renders an event as a single-event iCalendar document.
package calendar

import (
	"strings"
	"unicode/utf8"

	"github.com/BenjiKandl/apertif/internal/domain"
)

const (
	crlf = "\r\n"

	// ContentType is the MIME type of Export's output
	ContentType = "text/calendar; charset=utf-8"
	// FileName is the attachment name offered for download
	FileName = "event.ics"

	dressCodePrefix = "Dress code/theme: "
	stampLayout     = "20060102T150405"

	// maxLineOctets is the content line limit before folding, excluding CRLF
	maxLineOctets = 75
)

// Export renders the event as a VCALENDAR holding one VEVENT. The output
// depends only on the event fields: no clock, no generated UID.
func Export(event domain.Event) ([]byte, error) {
	start, err := event.Start()
	if err != nil {
		return nil, err
	}
	stamp := start.Format(stampLayout)

	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR" + crlf)
	b.WriteString("VERSION:2.0" + crlf)
	b.WriteString("BEGIN:VEVENT" + crlf)
	writeProp(&b, "DTSTART", stamp)
	writeProp(&b, "DTEND", stamp)
	writeProp(&b, "SUMMARY", escapeText(event.Title))
	writeProp(&b, "LOCATION", escapeText(event.Location()))
	if event.DressCode != "" {
		writeProp(&b, "DESCRIPTION", escapeText(dressCodePrefix+event.DressCode))
	}
	b.WriteString("END:VEVENT" + crlf)
	b.WriteString("END:VCALENDAR")

	return []byte(b.String()), nil
}

func writeProp(b *strings.Builder, name, value string) {
	writeFolded(b, name+":"+value)
}

// writeFolded writes a content line, folding it into physical lines of at
// most maxLineOctets octets. Continuation lines start with a single space and
// never split a UTF-8 sequence.
func writeFolded(b *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString(crlf + " ")
		line = line[cut:]
		limit = maxLineOctets - 1
	}
	b.WriteString(line)
	b.WriteString(crlf)
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

// escapeText applies RFC 5545 TEXT escaping
func escapeText(s string) string {
	return textEscaper.Replace(s)
}
