package utils

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Capitalize title-cases a label for display, e.g. "bank account" -> "Bank Account".
func Capitalize(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (fn roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return fn(r)
}

// DebugRoundTripper wraps the default transport and dumps every request and
// response to stdout. Wired into HTTP clients when WEALTH_HTTP_DEBUG is set.
func DebugRoundTripper() http.RoundTripper {
	underlying := http.DefaultTransport
	return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		d, _ := httputil.DumpRequest(r, true)
		fmt.Println(string(d))
		res, err := underlying.RoundTrip(r)
		if err == nil {
			d, _ := httputil.DumpResponse(res, true)
			fmt.Println(string(d))
		}
		return res, err
	})
}
