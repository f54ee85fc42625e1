package types

import "github.com/cyfronet-fid/eosc-analyses/constants"

// Record is one parsed research product document. Only declared fields are kept.
type Record struct {
	id     string
	fields map[string]Value
}

func NewRecord(id string) *Record {
	return &Record{
		id:     id,
		fields: map[string]Value{constants.RecordID: Scalar(id)},
	}
}

func (r *Record) ID() string {
	return r.id
}

// Type is the research product type, nil when absent
func (r *Record) Type() any {
	return r.Get(constants.RecordType).Raw()
}

// Publisher is the publisher name, nil when absent
func (r *Record) Publisher() any {
	return r.Get(constants.RecordPublisher).Raw()
}

func (r *Record) Set(name string, value Value) {
	if name == constants.RecordID {
		return
	}
	r.fields[name] = value
}

// Get returns the value of a field, NullValue when absent
func (r *Record) Get(name string) Value {
	return r.fields[name]
}

// ForeignKeys builds the rp_id / rp_type / rp_publisher triad every child row carries
func (r *Record) ForeignKeys() *Row {
	return NewRow().
		Set(constants.RPID, r.id).
		Set(constants.RPType, r.Type()).
		Set(constants.RPPublisher, r.Publisher())
}
