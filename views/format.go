package views

import (
	"fmt"

	"github.com/eringen/codorbits/wordpress"
)

var monthsGenitive = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// FormatDate renders a CMS date as "2 января 2024". Unparseable input is
// returned as is.
func FormatDate(s string) string {
	t := wordpress.ParseDate(s)
	if t.IsZero() {
		return s
	}
	return fmt.Sprintf("%d %s %d", t.Day(), monthsGenitive[t.Month()-1], t.Year())
}
