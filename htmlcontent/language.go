package htmlcontent

import "golang.org/x/text/language"

// Languages whose readers get the content untouched.
var nativeLanguages = map[string]bool{
	"ru": true, "uk": true, "be": true, "uz": true, "kk": true,
	"ka": true, "az": true, "lt": true, "ro": true, "lv": true,
	"ky": true, "tg": true, "hy": true, "tk": true, "et": true,
}

// NativeReader reports whether the preferred language of an Accept-Language
// header is one of the native group. A missing or unparseable header counts
// as native.
func NativeReader(acceptLanguage string) bool {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return true
	}
	base, _ := tags[0].Base()
	return nativeLanguages[base.String()]
}

// OptionsFor returns the render options for a request's Accept-Language header.
func OptionsFor(acceptLanguage string) Options {
	return Options{Native: NativeReader(acceptLanguage)}
}
