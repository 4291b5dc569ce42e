package domain

import (
	"bytes"
	"encoding/json"
)

type ResultKind int

const (
	KindRecord ResultKind = iota
	KindList
	KindMessage
)

// Record is one row of business data, keyed by field name.
type Record map[string]any

// Result is the normalized answer of a data operation: a record, a list of
// records, or a message explaining why there is no data.
type Result struct {
	Kind    ResultKind
	Record  Record
	List    []Record
	Message string
}

func NewRecord(r Record) Result {
	if r == nil {
		r = Record{}
	}
	return Result{Kind: KindRecord, Record: r}
}

func NewList(rows []Record) Result {
	if rows == nil {
		rows = []Record{}
	}
	return Result{Kind: KindList, List: rows}
}

// NewMessage builds a not-found or need-more-info marker.
func NewMessage(msg string) Result {
	return Result{Kind: KindMessage, Message: msg}
}

func (r Result) IsMessage() bool { return r.Kind == KindMessage }

func (r Result) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindList:
		return json.Marshal(r.List)
	case KindMessage:
		return json.Marshal(map[string]string{"message": r.Message})
	default:
		return json.Marshal(r.Record)
	}
}

// Pretty renders the result as indented JSON with non-ASCII text kept readable.
func (r Result) Pretty() string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "{}"
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
