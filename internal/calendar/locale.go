package calendar

import (
	"time"

	"golang.org/x/text/language"
)

// Weekday names by locale, Monday first.
type weekdayNames struct {
	long  [7]string
	short [7]string
}

var supportedLocales = []language.Tag{
	language.English, // first entry is the fallback
	language.Spanish,
}

var localeMatcher = language.NewMatcher(supportedLocales)

var monthNames = [][12]string{
	{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
	{"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre"},
}

var dayNames = []weekdayNames{
	{
		long:  [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
		short: [7]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"},
	},
	{
		long:  [7]string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"},
		short: [7]string{"Lu", "Ma", "Mi", "Ju", "Vi", "Sá", "Do"},
	},
}

// WeekdayHeader is a column header for month grids
type WeekdayHeader struct {
	ISO   int    `json:"iso"`
	Name  string `json:"name"`
	Short string `json:"short"`
}

func localeIndex(locale string) int {
	_, idx, _ := localeMatcher.Match(language.Make(locale))
	return idx
}

// MonthName returns the localized month name; unknown locales fall back to English
func MonthName(month time.Month, locale string) string {
	if month < time.January || month > time.December {
		return ""
	}
	return monthNames[localeIndex(locale)][month-1]
}

// WeekdayHeaders returns Monday..Sunday headers in the given locale
func WeekdayHeaders(locale string) []WeekdayHeader {
	names := dayNames[localeIndex(locale)]
	headers := make([]WeekdayHeader, 7)
	for i := range headers {
		headers[i] = WeekdayHeader{ISO: i + 1, Name: names.long[i], Short: names.short[i]}
	}
	return headers
}
