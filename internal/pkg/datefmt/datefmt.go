// Package datefmt converts stored roster dates and times to display strings and
// normalizes submitted date values.
package datefmt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goodsign/monday"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/domain"
	"golang.org/x/text/language"
)

// ErrInvalidDisplayDate is returned when a string is not in the formatter's long date form.
var ErrInvalidDisplayDate = errors.New("invalid display date")

type locale struct {
	name   monday.Locale
	layout string
}

var (
	ptBR = locale{name: monday.LocalePtBR, layout: "2 de January de 2006"}
	en   = locale{name: monday.LocaleEnUS, layout: "January 2, 2006"}
)

var (
	supported = []language.Tag{language.BrazilianPortuguese, language.English}
	locales   = []locale{ptBR, en}
	matcher   = language.NewMatcher(supported)
)

// Formatter renders dates in one locale. The zero value is not usable; use New.
type Formatter struct {
	tag language.Tag
	loc locale
}

// New returns a formatter for the given BCP 47 tag.
// Unknown or unparsable tags fall back to pt-BR.
func New(tag string) *Formatter {
	t, err := language.Parse(tag)
	if err != nil {
		return &Formatter{tag: language.BrazilianPortuguese, loc: ptBR}
	}
	_, idx, confidence := matcher.Match(t)
	if confidence == language.No {
		return &Formatter{tag: language.BrazilianPortuguese, loc: ptBR}
	}
	return &Formatter{tag: supported[idx], loc: locales[idx]}
}

// Locale returns the matched locale tag.
func (f *Formatter) Locale() string {
	return f.tag.String()
}

// DisplayDate renders the calendar date in long form, e.g. "5 de março de 2024".
func (f *Formatter) DisplayDate(t time.Time) string {
	return monday.Format(t, f.loc.layout, f.loc.name)
}

// DisplayTime renders a recorded time of day as HH:MM:SS and a missing one as "".
func (f *Formatter) DisplayTime(t domain.TimeOfDay) string {
	return t.String()
}

// ParseDisplayDate is the inverse of DisplayDate. The result is midnight in loc,
// the way a browser reads a date-only string in local time.
func (f *Formatter) ParseDisplayDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := monday.ParseInLocation(f.loc.layout, strings.TrimSpace(s), loc, f.loc.name)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidDisplayDate, s, err)
	}
	return t, nil
}

// TruncateDate keeps only the calendar-date part of a date or date/time input,
// so "2024-03-05T14:30" becomes "2024-03-05". The value is not validated.
func TruncateDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, "T "); i >= 0 {
		return raw[:i]
	}
	return raw
}
