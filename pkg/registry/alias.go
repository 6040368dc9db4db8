package registry

import (
	"regexp"
	"strings"
)

var (
	// An uppercase run followed by Capital+lowercase splits before the
	// final capital: "XMLHTTPRequest" -> "XMLHTTP_Request".
	acronymBoundary = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)

	// A lowercase letter or digit followed by an uppercase letter splits
	// between them: "SayHello" -> "Say_Hello".
	wordBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// MethodAlias converts a capitalized wire name into its lowercase-underscore
// local form: "SayHello" becomes "say_hello", "XMLHTTPRequest" becomes
// "xmlhttp_request", "GetUserByID" becomes "get_user_by_id".
func MethodAlias(wireName string) string {
	s := acronymBoundary.ReplaceAllString(wireName, "${1}_${2}")
	s = wordBoundary.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(s)
}
