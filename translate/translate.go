// Package translate formats user-visible messages in the user's locale.
//
// The locale is taken from INTCODE_LANG (a colon separated list, as with
// LANGUAGE) when set, otherwise from the system.
package translate

import (
	"log"
	"strings"

	"github.com/jeandeaual/go-locale"
	"gitlab.com/efronlicht/enve"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales := languages(enve.StringOr("INTCODE_LANG", ""), systemLocales)
	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

func systemLocales() []string {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("intcode: locale: %v", err)
	}

	return locales
}

// languages returns the preferred languages, most preferred first.
// The system is only consulted when there is no override.
func languages(override string, system func() []string) (locales []string) {
	for tag := range strings.SplitSeq(override, ":") {
		tag = strings.TrimSpace(tag)
		if len(tag) != 0 {
			locales = append(locales, tag)
		}
	}

	if len(locales) == 0 {
		locales = system()
	}

	if len(locales) == 0 {
		locales = []string{language.AmericanEnglish.String()}
	}

	return
}

// From formats an en-US Sprintf() style key in the current locale.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
