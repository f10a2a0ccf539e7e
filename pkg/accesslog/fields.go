package accesslog

// Field identifies one of the named fields of a Record.
type Field int

// Registered fields, in registry order.
const (
	FieldRemoteAddress Field = iota
	FieldRemoteUser
	FieldDateTime
	FieldHTTPRequest
	FieldHTTPStatus
	FieldBodyBytesSent
	FieldHTTPReferer
	FieldHTTPUserAgent
)

var fieldNames = [...]string{
	FieldRemoteAddress: "remoteAddress",
	FieldRemoteUser:    "remoteUser",
	FieldDateTime:      "dateTime",
	FieldHTTPRequest:   "httpRequest",
	FieldHTTPStatus:    "httpStatus",
	FieldBodyBytesSent: "bodyBytesSent",
	FieldHTTPReferer:   "httpReferer",
	FieldHTTPUserAgent: "httpUserAgent",
}

// String returns the registered name of the field.
func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return "unknown"
	}
	return fieldNames[f]
}

// FieldNames returns the names of all registered fields.
func FieldNames() []string {
	names := make([]string, len(fieldNames))
	copy(names, fieldNames[:])
	return names
}

// LookupField returns the field registered under name. Names are case-sensitive.
func LookupField(name string) (Field, bool) {
	for i, n := range fieldNames {
		if n == name {
			return Field(i), true
		}
	}
	return 0, false
}

// Value returns the value of field f.
func (r Record) Value(f Field) string {
	switch f {
	case FieldRemoteAddress:
		return r.remoteAddress
	case FieldRemoteUser:
		return r.remoteUser
	case FieldDateTime:
		return r.dateTime
	case FieldHTTPRequest:
		return r.httpRequest
	case FieldHTTPStatus:
		return r.httpStatus
	case FieldBodyBytesSent:
		return r.bodyBytesSent
	case FieldHTTPReferer:
		return r.httpReferer
	case FieldHTTPUserAgent:
		return r.httpUserAgent
	default:
		return ""
	}
}

// FieldValue returns the value of the field registered under name.
// The boolean is false when name is not a registered field.
func FieldValue(r Record, name string) (string, bool) {
	f, ok := LookupField(name)
	if !ok {
		return "", false
	}
	return r.Value(f), true
}
