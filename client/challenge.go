package client

import "strings"

// Scheme is an authentication scheme we can capture credentials for
type Scheme string

const (
	SchemeBasic  Scheme = "basic"
	SchemeBearer Scheme = "bearer"
)

// ParseChallenge picks the scheme to prompt for from a WWW-Authenticate value.
// Bearer wins when both are offered.
//
//	Bearer realm="api"            -> bearer
//	Basic realm="x", charset=utf8 -> basic
//	Negotiate                     -> unsupported
func ParseChallenge(header string) (Scheme, bool) {
	var basic bool
	for _, part := range strings.Split(header, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 || strings.Contains(fields[0], "=") {
			continue // auth-param of the previous challenge
		}
		switch strings.ToLower(fields[0]) {
		case "bearer":
			return SchemeBearer, true
		case "basic":
			basic = true
		}
	}
	if basic {
		return SchemeBasic, true
	}
	return "", false
}
