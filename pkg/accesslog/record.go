// Package accesslog parses nginx/Apache "combined" access-log lines into records.
package accesslog

import (
	"fmt"
	"math/big"
	"strings"
	"time"
)

// Record is a single parsed access-log line.
// Records are only produced by Parse, so every Record satisfies the line grammar.
type Record struct {
	remoteAddress string
	remoteUser    string
	dateTime      string
	timestamp     time.Time
	httpRequest   string
	httpStatus    string
	bodyBytesSent string
	httpReferer   string
	httpUserAgent string
}

// RemoteAddress returns the client IPv4 or IPv6 address.
func (r Record) RemoteAddress() string {
	return r.remoteAddress
}

// RemoteUser returns the authenticated user, "-" when absent.
func (r Record) RemoteUser() string {
	return r.remoteUser
}

// DateTime returns the request time as an RFC 3339 string with its original offset.
// Seconds are always present, so a time on the minute reads 2015-05-17T08:05:00Z
// and prefix filters on dateTime must include them.
func (r Record) DateTime() string {
	return r.dateTime
}

// Time returns the parsed request time.
func (r Record) Time() time.Time {
	return r.timestamp
}

// HTTPRequest returns the raw request line, e.g. "GET /index.html HTTP/1.1".
func (r Record) HTTPRequest() string {
	return r.httpRequest
}

// HTTPStatus returns the three-digit response status.
func (r Record) HTTPStatus() string {
	return r.httpStatus
}

// BodyBytesSent returns the response size as captured (decimal digits).
func (r Record) BodyBytesSent() string {
	return r.bodyBytesSent
}

// BodyBytes returns the response size as a new big integer.
func (r Record) BodyBytes() *big.Int {
	n, ok := new(big.Int).SetString(r.bodyBytesSent, 10)
	if !ok {
		return new(big.Int)
	}
	return n
}

// HTTPReferer returns the referer without the surrounding quotes.
func (r Record) HTTPReferer() string {
	return r.httpReferer
}

// HTTPUserAgent returns the user agent without the surrounding quotes.
func (r Record) HTTPUserAgent() string {
	return r.httpUserAgent
}

// Method returns the request method.
func (r Record) Method() string {
	return r.requestToken(0)
}

// RequestTarget returns the requested resource, the second token of the request line.
func (r Record) RequestTarget() string {
	return r.requestToken(1)
}

// ProtocolVersion returns the protocol token of the request line, e.g. "HTTP/1.1".
func (r Record) ProtocolVersion() string {
	return r.requestToken(2)
}

func (r Record) requestToken(i int) string {
	parts := strings.Split(r.httpRequest, " ")
	if i >= len(parts) {
		return ""
	}
	return parts[i]
}

// String renders the record back into the combined log format accepted by Parse.
func (r Record) String() string {
	return fmt.Sprintf(`%s - %s [%s] "%s" %s %s "%s" "%s"`,
		r.remoteAddress,
		r.remoteUser,
		r.timestamp.Format(inputLayout),
		r.httpRequest,
		r.httpStatus,
		r.bodyBytesSent,
		r.httpReferer,
		r.httpUserAgent)
}
