package blackbox_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	blackbox "github.com/yanickc/blackbox-recorder"
)

type thing struct {
	Name  string
	Count int

	hidden int
}

// storeCompute binds this call's arguments the way a function declared as
// compute(a, b=5, *rest, **extra) would, with b left at its default.
func storeCompute(r *blackbox.Recorder, a int, rest []int, extra map[string]any) error {
	b := 5 // defaulted, not explicitly passed

	varargs := make([]any, len(rest))
	for i, v := range rest {
		varargs[i] = v
	}

	return r.StoreArgs(blackbox.Call{
		Params: []blackbox.Param{
			{Name: "a", Value: a},
			{Name: "b", Value: b},
		},
		Varargs: varargs,
		Kwargs:  extra,
	})
}

func TestStoreArgs(t *testing.T) {
	t.Parallel()

	r := blackbox.NewRecorder("test")

	if err := storeCompute(r, 1, []int{2, 3}, map[string]any{"x": 9}); err != nil {
		t.Fatalf("StoreArgs: %v", err)
	}

	if want, have := 1, r.Len(); want != have {
		t.Fatalf("Len: want %d, have %d", want, have)
	}

	rec := r.Records()[0]

	wantNames := []string{"a", "b", "varargs", "x"}
	if diff := cmp.Diff(wantNames, rec.Fields().Names()); diff != "" {
		t.Errorf("field order (-want +have):\n%s", diff)
	}

	wantFields := map[string]any{
		"a":       1,
		"b":       5,
		"varargs": []any{2, 3},
		"x":       9,
	}
	if diff := cmp.Diff(wantFields, rec.Fields().Map()); diff != "" {
		t.Errorf("fields (-want +have):\n%s", diff)
	}

	if want, have := "storeCompute", rec.Label(); want != have {
		t.Errorf("label: want %q, have %q", want, have)
	}

	if _, ok := rec.Owner(); ok {
		t.Errorf("free function capture has an owner descriptor")
	}
}

func TestStoreArgsDeclaredEmptyVarargs(t *testing.T) {
	t.Parallel()

	r := blackbox.NewRecorder("test")

	if err := r.StoreArgs(blackbox.Call{
		Params:  []blackbox.Param{{Name: "a", Value: 1}},
		Varargs: []any{}, // declared, collected nothing
	}); err != nil {
		t.Fatalf("StoreArgs: %v", err)
	}

	rec := r.Records()[0]
	value, ok := rec.Fields().Get("varargs")
	if !ok {
		t.Fatalf("declared varargs bucket was not captured")
	}
	if diff := cmp.Diff([]any{}, value); diff != "" {
		t.Errorf("varargs (-want +have):\n%s", diff)
	}
}

func TestStoreArgsNoVarargsDeclared(t *testing.T) {
	t.Parallel()

	r := blackbox.NewRecorder("test")

	if err := r.StoreArgs(blackbox.Call{
		Params: []blackbox.Param{{Name: "a", Value: 1}},
	}); err != nil {
		t.Fatalf("StoreArgs: %v", err)
	}

	rec := r.Records()[0]
	if _, ok := rec.Fields().Get("varargs"); ok {
		t.Errorf("varargs field captured without a declared variadic parameter")
	}
}

func TestStoreArgsFieldCollision(t *testing.T) {
	t.Parallel()

	r := blackbox.NewRecorder("test")

	err := r.StoreArgs(blackbox.Call{
		Params: []blackbox.Param{{Name: "a", Value: 1}},
		Kwargs: map[string]any{"a": 2},
	})

	var collision *blackbox.FieldCollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("want FieldCollisionError, have %v", err)
	}
	if want, have := "a", collision.Name; want != have {
		t.Errorf("collision name: want %q, have %q", want, have)
	}
	if want, have := 0, r.Len(); want != have {
		t.Errorf("recorder gained a record from a failed capture: want %d, have %d", want, have)
	}
}

func TestStoreArgsSelfParamBecomesOwner(t *testing.T) {
	t.Parallel()

	r := blackbox.NewRecorder("test")
	obj := &thing{Name: "t"}

	if err := r.StoreArgs(blackbox.Call{
		Params: []blackbox.Param{
			{Name: "self", Value: obj},
			{Name: "a", Value: 1},
		},
	}); err != nil {
		t.Fatalf("StoreArgs: %v", err)
	}

	rec := r.Records()[0]

	if _, ok := rec.Fields().Get("self"); ok {
		t.Errorf("self was captured as a field")
	}

	owner, ok := rec.Owner()
	if !ok {
		t.Fatalf("no owner descriptor for a self-bound capture")
	}
	if want, have := "thing", owner.ClassName; want != have {
		t.Errorf("class name: want %q, have %q", want, have)
	}
	if owner.Identity == "" {
		t.Errorf("empty owner identity")
	}
}

func TestStoreArgsDistinctInstanceIdentities(t *testing.T) {
	t.Parallel()

	r := blackbox.NewRecorder("test")
	first, second := &thing{}, &thing{}

	for _, obj := range []*thing{first, second} {
		if err := r.StoreArgs(blackbox.Call{Receiver: obj}); err != nil {
			t.Fatalf("StoreArgs: %v", err)
		}
	}

	records := r.Records()
	a, _ := records[0].Owner()
	b, _ := records[1].Owner()

	if a.ClassName != b.ClassName {
		t.Errorf("class names differ: %q vs %q", a.ClassName, b.ClassName)
	}
	if a.Identity == b.Identity {
		t.Errorf("identical identities %q for distinct instances", a.Identity)
	}
}

func TestCaptureCallSkipTooDeep(t *testing.T) {
	t.Parallel()

	for _, skip := range []int{-1, 10000} {
		_, err := blackbox.CaptureCall(skip, blackbox.Call{})
		var cerr *blackbox.CaptureContextError
		if !errors.As(err, &cerr) {
			t.Errorf("skip %d: want CaptureContextError, have %v", skip, err)
		}
	}
}

func TestCaptureValues(t *testing.T) {
	t.Parallel()

	rec := blackbox.CaptureValues("my_key", map[string]any{"b": 2, "a": 1, "c": 3})

	if want, have := "my_key", rec.Label(); want != have {
		t.Errorf("label: want %q, have %q", want, have)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, rec.Fields().Names()); diff != "" {
		t.Errorf("field order (-want +have):\n%s", diff)
	}
}

func TestCaptureObject(t *testing.T) {
	t.Parallel()

	obj := &thing{Name: "t", Count: 3, hidden: 9}

	t.Run("all exported fields", func(t *testing.T) {
		rec, err := blackbox.CaptureObject(obj)
		if err != nil {
			t.Fatalf("CaptureObject: %v", err)
		}

		want := map[string]any{"Name": "t", "Count": 3}
		if diff := cmp.Diff(want, rec.Fields().Map()); diff != "" {
			t.Errorf("fields (-want +have):\n%s", diff)
		}

		owner, ok := rec.Owner()
		if !ok {
			t.Fatalf("no owner descriptor")
		}
		if want, have := "thing", owner.ClassName; want != have {
			t.Errorf("class name: want %q, have %q", want, have)
		}
	})

	t.Run("named subset", func(t *testing.T) {
		rec, err := blackbox.CaptureObject(obj, "Count")
		if err != nil {
			t.Fatalf("CaptureObject: %v", err)
		}
		want := map[string]any{"Count": 3}
		if diff := cmp.Diff(want, rec.Fields().Map()); diff != "" {
			t.Errorf("fields (-want +have):\n%s", diff)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		if _, err := blackbox.CaptureObject(obj, "Nope"); err == nil {
			t.Errorf("want error for unknown attribute, have nil")
		}
	})

	t.Run("unexported name", func(t *testing.T) {
		if _, err := blackbox.CaptureObject(obj, "hidden"); err == nil {
			t.Errorf("want error for unexported attribute, have nil")
		}
	})

	t.Run("not a struct", func(t *testing.T) {
		if _, err := blackbox.CaptureObject(42); err == nil {
			t.Errorf("want error for non-struct, have nil")
		}
	})
}

func TestCaptureObjectCopyIndependence(t *testing.T) {
	t.Parallel()

	type holder struct {
		Items []int
	}

	obj := &holder{Items: []int{1, 2, 3}}
	rec, err := blackbox.CaptureObject(obj)
	if err != nil {
		t.Fatalf("CaptureObject: %v", err)
	}

	obj.Items[0] = 99
	obj.Items = append(obj.Items, 4)

	value, _ := rec.Fields().Get("Items")
	if diff := cmp.Diff([]int{1, 2, 3}, value); diff != "" {
		t.Errorf("stored attribute changed with the original (-want +have):\n%s", diff)
	}
}

func TestStoreArgsCopyIndependence(t *testing.T) {
	t.Parallel()

	r := blackbox.NewRecorder("test")
	arg := []int{1, 2, 3}

	if err := r.StoreArgs(blackbox.Call{
		Params: []blackbox.Param{{Name: "arg", Value: arg}},
	}); err != nil {
		t.Fatalf("StoreArgs: %v", err)
	}

	arg[1] = 99

	value, _ := r.Records()[0].Fields().Get("arg")
	if diff := cmp.Diff([]int{1, 2, 3}, value); diff != "" {
		t.Errorf("stored field changed with the original (-want +have):\n%s", diff)
	}
}
