// Package stream defines the change-notification contract between pipeline
// stages. A store write produces a Record whose NewImage is a typed-value
// attribute map; downstream stages receive Records batched per feed message.
package stream

import (
	"strconv"
	"strings"
	"time"
)

// Event kinds. Consumers act on INSERT and MODIFY only.
const (
	EventInsert = "INSERT"
	EventModify = "MODIFY"
	EventRemove = "REMOVE"
)

// Feed source identifiers carried on every batch.
const (
	SourceInstagram = "instagram"
	SourceYoutube   = "youtube"
	SourceCandidate = "candidate"
)

// AttributeValue is one typed value in a change image. Exactly one of the
// fields is set: S for strings, N for numbers in decimal text form, M for
// nested maps. Untagged values are omitted from images entirely.
type AttributeValue struct {
	S string                    `json:"S,omitempty"`
	N string                    `json:"N,omitempty"`
	M map[string]AttributeValue `json:"M,omitempty"`
}

// Record is one change notification: the event kind plus the full new image
// of the written row.
type Record struct {
	EventName string                    `json:"eventName"`
	NewImage  map[string]AttributeValue `json:"newImage"`
}

// Batch is one feed message: the source store plus its change records.
type Batch struct {
	Source  string   `json:"source"`
	Records []Record `json:"records"`
}

// String builds a string attribute.
func String(v string) AttributeValue { return AttributeValue{S: v} }

// Int builds a number attribute from an integer.
func Int(v int64) AttributeValue { return AttributeValue{N: strconv.FormatInt(v, 10)} }

// Float builds a number attribute from a float.
func Float(v float64) AttributeValue {
	return AttributeValue{N: strconv.FormatFloat(v, 'f', -1, 64)}
}

// Time builds a string attribute holding an RFC 3339 timestamp.
func Time(v time.Time) AttributeValue { return AttributeValue{S: v.UTC().Format(time.RFC3339)} }

// Map builds a nested map attribute.
func Map(v map[string]AttributeValue) AttributeValue { return AttributeValue{M: v} }

// Unmarshal flattens a typed image into plain Go values. String attributes
// pass through; number attributes parse to int64 when the text carries no
// decimal point, float64 otherwise; nested maps recurse. Attributes that
// carry no tag, an empty nested map, or unparsable number text are omitted.
func Unmarshal(image map[string]AttributeValue) map[string]any {
	data := make(map[string]any, len(image))
	for key, value := range image {
		switch {
		case value.S != "":
			data[key] = value.S
		case value.N != "":
			if strings.Contains(value.N, ".") {
				if f, err := strconv.ParseFloat(value.N, 64); err == nil {
					data[key] = f
				}
			} else {
				if n, err := strconv.ParseInt(value.N, 10, 64); err == nil {
					data[key] = n
				}
			}
		case len(value.M) > 0:
			data[key] = Unmarshal(value.M)
		}
	}
	return data
}

// GetString returns the string value for key, or "" when absent or not a
// string.
func GetString(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

// GetInt returns the integer value for key, or 0. Float values truncate.
func GetInt(data map[string]any, key string) int64 {
	switch v := data[key].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

// GetTime parses the RFC 3339 string value for key. Absent or unparsable
// values yield the zero time.
func GetTime(data map[string]any, key string) time.Time {
	s, ok := data[key].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
