package blackbox

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// OwnerDescriptor identifies the instance a captured method call or object
// snapshot belongs to. It is display-only metadata: Identity is stable for the
// lifetime of the owning instance and distinct from every other live instance,
// but is never meaningful across processes, and must not be used to compare
// records for equality.
type OwnerDescriptor struct {
	ClassName string
	Identity  string
}

// Field is a single captured name/value pair. The value is a deep copy,
// exclusively owned by the record that holds it.
type Field struct {
	Name  string
	Value any
}

// Fields is an ordered collection of captured fields: declared parameters in
// declaration order, then the varargs bucket if one was declared, then
// collected keyword entries sorted by name.
type Fields []Field

// Get returns the value for the named field, if it exists.
func (fs Fields) Get(name string) (any, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Names returns the field names in capture order.
func (fs Fields) Names() []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return names
}

// Map returns the fields as a plain map, losing capture order.
func (fs Fields) Map() map[string]any {
	m := make(map[string]any, len(fs))
	for _, f := range fs {
		m[f.Name] = f.Value
	}
	return m
}

//
//
//

// Record is one captured snapshot. Once appended to a recorder it is frozen:
// neither the recorder nor later changes to the originally captured objects
// can alter its fields.
type Record struct {
	id     string
	when   time.Time
	label  string
	owner  *OwnerDescriptor
	fields Fields
}

var recordIDEntropy = ulid.DefaultEntropy()

func newRecord(label string, owner *OwnerDescriptor, fields Fields) *Record {
	now := time.Now().UTC()
	return &Record{
		id:     ulid.MustNew(ulid.Timestamp(now), recordIDEntropy).String(),
		when:   now,
		label:  label,
		owner:  owner,
		fields: fields,
	}
}

// ID returns a unique identifier for the record, assigned at capture time.
func (r *Record) ID() string {
	return r.id // immutable
}

// When returns the capture time, UTC.
func (r *Record) When() time.Time {
	return r.when // immutable
}

// Label returns the identifying string for the record, which may be empty for
// plain key/value captures.
func (r *Record) Label() string {
	return r.label // immutable
}

// Owner returns the owner descriptor, if the record originated from a bound
// method or an object snapshot.
func (r *Record) Owner() (OwnerDescriptor, bool) {
	if r.owner == nil {
		return OwnerDescriptor{}, false
	}
	return *r.owner, true
}

// Fields returns the captured fields in capture order. The returned slice is
// a fresh copy and safe for the caller to re-order or extend.
func (r *Record) Fields() Fields {
	fields := make(Fields, len(r.fields))
	copy(fields, r.fields)
	return fields
}
