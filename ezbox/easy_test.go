package ezbox_test

import (
	"bytes"
	"strings"
	"testing"

	blackbox "github.com/yanickc/blackbox-recorder"
	"github.com/yanickc/blackbox-recorder/ezbox"
)

func storeSomething(a int) error {
	return ezbox.StoreArgs(blackbox.Call{
		Params: []blackbox.Param{{Name: "a", Value: a}},
	})
}

func TestDefaultRecorder(t *testing.T) {
	defer ezbox.Clear()

	if err := storeSomething(7); err != nil {
		t.Fatalf("StoreArgs: %v", err)
	}

	records := ezbox.Recorder().Records()
	if want, have := 1, len(records); want != have {
		t.Fatalf("records: want %d, have %d", want, have)
	}

	// The label reflects the function that captured its arguments, not the
	// ezbox wrapper.
	if want, have := "storeSomething", records[0].Label(); want != have {
		t.Errorf("label: want %q, have %q", want, have)
	}

	var buf bytes.Buffer
	if err := ezbox.Render(&buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), `"a": 7`) {
		t.Errorf("rendered output missing captured field:\n%s", buf.String())
	}

	if want, have := 1, ezbox.Clear(); want != have {
		t.Errorf("Clear: want %d, have %d", want, have)
	}
}
