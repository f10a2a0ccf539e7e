package accesslog

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrMalformedLine is returned for any line that does not match the combined log format.
var ErrMalformedLine = errors.New("malformed log line")

// inputLayout is the $time_local layout, e.g. 17/May/2015:08:05:32 +0000.
const inputLayout = "02/Jan/2006:15:04:05 -0700"

// maxOffset bounds the zone offset accepted in $time_local.
const maxOffset = 18 * 60 * 60

// Example is a well-formed line, shown to users when their input does not parse.
const Example = `93.180.71.3 - - [17/May/2015:08:05:32 +0000] "GET /downloads/product_1 HTTP/1.1" 304 0 "-" "Debian APT-HTTP/1.3 (0.8.16~exp12ubuntu10.21)"`

const (
	ipv4Pattern     = `(((|[1-9]|1\d|2[0-4])\d|25[0-5])\.?\b){4}`
	ipv6Pattern     = `((^|:)([0-9a-fA-F]{0,4})){1,8}`
	dateTimePattern = `\d{2}/[A-Z][a-z]{2}/\d{4}:\d{2}:\d{2}:\d{2} [+-]\d{4}`
	requestPattern  = `(GET|POST|PUT|DELETE|HEAD|OPTIONS|PATCH) (/[^ ]*) HTTP/(1\.[01]|2\.0)`
	statusPattern   = `[1-5]\d{2}`
)

var linePattern = regexp.MustCompile(`^` +
	`(?P<remoteAddress>` + ipv4Pattern + `|` + ipv6Pattern + `) ` +
	`- ` +
	`(?P<remoteUser>\S*) ` +
	`\[(?P<dateTime>` + dateTimePattern + `)\] ` +
	`"(?P<httpRequest>` + requestPattern + `)" ` +
	`(?P<httpStatus>` + statusPattern + `) ` +
	`(?P<bodyBytesSent>\d+) ` +
	`"(?P<httpReferer>[^"]*)" ` +
	`"(?P<httpUserAgent>[^"]+)"` +
	`$`)

var (
	remoteAddressIdx = linePattern.SubexpIndex("remoteAddress")
	remoteUserIdx    = linePattern.SubexpIndex("remoteUser")
	dateTimeIdx      = linePattern.SubexpIndex("dateTime")
	httpRequestIdx   = linePattern.SubexpIndex("httpRequest")
	httpStatusIdx    = linePattern.SubexpIndex("httpStatus")
	bodyBytesIdx     = linePattern.SubexpIndex("bodyBytesSent")
	httpRefererIdx   = linePattern.SubexpIndex("httpReferer")
	httpUserAgentIdx = linePattern.SubexpIndex("httpUserAgent")
)

// Parse converts a combined-format access-log line into a Record:
//
//	$remote_addr - $remote_user [$time_local] "$request" $status $body_bytes_sent "$http_referer" "$http_user_agent"
//
// Every failure, including an unparsable date, wraps ErrMalformedLine.
func Parse(line string) (Record, error) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Record{}, ErrMalformedLine
	}

	ts, err := time.Parse(inputLayout, m[dateTimeIdx])
	if err != nil {
		return Record{}, fmt.Errorf("%w: date %q: %v", ErrMalformedLine, m[dateTimeIdx], err)
	}
	if _, off := ts.Zone(); off > maxOffset || off < -maxOffset {
		return Record{}, fmt.Errorf("%w: date %q: offset out of range", ErrMalformedLine, m[dateTimeIdx])
	}

	return Record{
		remoteAddress: m[remoteAddressIdx],
		remoteUser:    m[remoteUserIdx],
		dateTime:      ts.Format(time.RFC3339),
		timestamp:     ts,
		httpRequest:   m[httpRequestIdx],
		httpStatus:    m[httpStatusIdx],
		bodyBytesSent: m[bodyBytesIdx],
		httpReferer:   m[httpRefererIdx],
		httpUserAgent: m[httpUserAgentIdx],
	}, nil
}
