package blackbox

import (
	"fmt"
	"reflect"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"
)

// Param is one declared parameter and its currently bound value. For keyword
// parameters that carry a default and were not explicitly passed, the bound
// value is the default; captures make no distinction between the two.
type Param struct {
	Name  string
	Value any
}

// Call describes the arguments bound to an active call. Go provides no way to
// enumerate another frame's parameters, so callers bind them explicitly; the
// capture engine still inspects the call stack to validate the capture site
// and derive a label.
//
// A nil Varargs means no variadic-positional parameter is declared; an empty
// but non-nil Varargs means one is declared and collected nothing. The same
// convention applies to Kwargs.
type Call struct {
	// Label overrides the record label derived from the capture site. Leave
	// empty to use the calling function's name, or the receiver's class name
	// for method captures.
	Label string

	// Receiver is the instance the captured method is bound to, or nil for
	// free functions and bare data. A parameter named "self" or "this" is
	// treated as the receiver as well.
	Receiver any

	// Params are the declared non-variadic parameters, in declaration order,
	// with their bound values (defaults included).
	Params []Param

	// Varargs holds the values collected by a declared variadic-positional
	// parameter, in call order.
	Varargs []any

	// Kwargs holds the entries collected by a declared variadic-keyword
	// parameter.
	Kwargs map[string]any
}

// VarargsField is the field name under which collected variadic-positional
// values are recorded.
const VarargsField = "varargs"

// CaptureCall builds a record snapshotting the given call. The capture site is
// the call frame skip levels above the caller of CaptureCall; skip 0 means the
// immediate caller, whose function name becomes the record's label. It returns
// a CaptureContextError when no frame exists at that depth, and a
// FieldCollisionError when a collected keyword entry shadows a declared
// parameter name.
//
// Fields are ordered: declared parameters first, in declaration order, then
// the varargs bucket if one is declared, then collected keyword entries sorted
// by name. Every value is deep-copied at capture time.
func CaptureCall(skip int, call Call) (*Record, error) {
	if skip < 0 {
		return nil, &CaptureContextError{Skip: skip}
	}
	return captureCall(skip+2, call)
}

// captureCall implements CaptureCall. rtSkip counts stack frames above
// captureCall itself, per the runtime.Caller convention.
func captureCall(rtSkip int, call Call) (*Record, error) {
	label, err := callerFuncName(rtSkip)
	if err != nil {
		return nil, err
	}

	fields, owner, err := bindCallFields(call)
	if err != nil {
		return nil, err
	}

	if owner != nil {
		label = owner.ClassName
	}
	if call.Label != "" {
		label = call.Label
	}

	return newRecord(label, owner, fields), nil
}

// bindCallFields applies the field construction policy to a bound call.
func bindCallFields(call Call) (Fields, *OwnerDescriptor, error) {
	var (
		receiver = call.Receiver
		captured = map[string]bool{}
		fields   = make(Fields, 0, len(call.Params)+len(call.Kwargs)+1)
	)

	for _, p := range call.Params {
		if p.Name == "self" || p.Name == "this" {
			if receiver == nil {
				receiver = p.Value
			}
			continue
		}
		if captured[p.Name] {
			return nil, nil, &FieldCollisionError{Name: p.Name}
		}
		captured[p.Name] = true
		fields = append(fields, Field{Name: p.Name, Value: cloneAny(p.Value)})
	}

	if call.Varargs != nil {
		if captured[VarargsField] {
			return nil, nil, &FieldCollisionError{Name: VarargsField}
		}
		captured[VarargsField] = true
		varargs := make([]any, len(call.Varargs))
		for i, v := range call.Varargs {
			varargs[i] = cloneAny(v)
		}
		fields = append(fields, Field{Name: VarargsField, Value: varargs})
	}

	if call.Kwargs != nil {
		names := make([]string, 0, len(call.Kwargs))
		for name := range call.Kwargs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if captured[name] {
				return nil, nil, &FieldCollisionError{Name: name}
			}
			captured[name] = true
			fields = append(fields, Field{Name: name, Value: cloneAny(call.Kwargs[name])})
		}
	}

	var owner *OwnerDescriptor
	if receiver != nil {
		owner = describeOwner(receiver)
	}

	return fields, owner, nil
}

// CaptureValues wraps an arbitrary key/value mapping into a record under the
// given label, deep-copying every value. It is total: any well-typed mapping
// produces a record. Fields are ordered by name for determinism.
func CaptureValues(label string, values map[string]any) *Record {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make(Fields, 0, len(names))
	for _, name := range names {
		fields = append(fields, Field{Name: name, Value: cloneAny(values[name])})
	}

	return newRecord(label, nil, fields)
}

// CaptureObject builds a record mirroring the object's own exported data
// fields at the moment of the call, deep-copied, with the owner descriptor set
// to the object's type and identity. With no names given, every exported
// field is captured in declaration order; otherwise only the named fields are,
// in the requested order, and an unknown name is an error. The object must be
// a struct or a pointer to one.
func CaptureObject(obj any, names ...string) (*Record, error) {
	if obj == nil {
		return nil, fmt.Errorf("cannot capture attributes of nil")
	}

	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, fmt.Errorf("cannot capture attributes of nil %s", v.Type())
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot capture attributes of %s: not a struct", v.Type())
	}

	var (
		t      = v.Type()
		owner  = describeOwner(obj)
		fields Fields
	)

	if len(names) == 0 {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" { // unexported
				continue
			}
			fields = append(fields, Field{Name: f.Name, Value: cloneAny(v.Field(i).Interface())})
		}
	} else {
		for _, name := range names {
			f, ok := t.FieldByName(name)
			if !ok || f.PkgPath != "" {
				return nil, fmt.Errorf("attribute %q not found on %s", name, t)
			}
			fields = append(fields, Field{Name: name, Value: cloneAny(v.FieldByIndex(f.Index).Interface())})
		}
	}

	return newRecord(owner.ClassName, owner, fields), nil
}

//
//
//

// callerFuncName returns the short name of the function rtSkip frames above
// captureCall, or a CaptureContextError when the stack isn't that deep.
func callerFuncName(rtSkip int) (string, error) {
	userSkip := rtSkip - 2 // as seen by the exported capture functions
	if rtSkip < 0 {
		return "", &CaptureContextError{Skip: userSkip}
	}

	pc, _, _, ok := runtime.Caller(rtSkip + 1)
	if !ok {
		return "", &CaptureContextError{Skip: userSkip}
	}

	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "", &CaptureContextError{Skip: userSkip}
	}

	return funcNameOnly(fn.Name()), nil
}

func funcNameOnly(name string) string {
	const pathSep = "/"
	if i := strings.LastIndex(name, pathSep); i != -1 {
		name = name[i+len(pathSep):]
	}
	const pkgSep = "."
	if i := strings.Index(name, pkgSep); i != -1 {
		name = name[i+len(pkgSep):]
	}
	return name
}

//
//
//

// valueIdentitySeq hands out identity tokens for owners that have no stable
// address, such as method values bound to non-pointer receivers.
var valueIdentitySeq uint64

func describeOwner(obj any) *OwnerDescriptor {
	return &OwnerDescriptor{
		ClassName: classNameOf(obj),
		Identity:  identityOf(obj),
	}
}

func classNameOf(obj any) string {
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}

// identityOf returns a process-local display token for the owner, stable for
// its lifetime and distinct from every other live instance. Reference-shaped
// owners use their address; value-shaped owners were copied when they were
// passed here, so each capture sees a distinct instance and gets a fresh
// token.
func identityOf(obj any) string {
	v := reflect.ValueOf(obj)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return fmt.Sprintf("%x", v.Pointer())
	case reflect.Slice:
		return fmt.Sprintf("%x", v.Pointer())
	default:
		return fmt.Sprintf("v%d", atomic.AddUint64(&valueIdentitySeq, 1))
	}
}
