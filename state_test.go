package libcell

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestStatusStrings(t *testing.T) {
	for status, want := range map[Status]string{
		Creating:    "creating",
		Created:     "created",
		Running:     "running",
		Stopped:     "stopped",
		Status(127): "unknown",
	} {
		if status.String() != want {
			t.Errorf("status %d: expected %q, got %q", int(status), want, status.String())
		}
	}
}

func TestStateOmitsUnknownExitCode(t *testing.T) {
	data, err := json.Marshal(&State{ID: "cell1", Status: Created})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "exit_code") {
		t.Fatalf("exit code should be absent until observed: %s", data)
	}

	code := 137
	data, err = json.Marshal(&State{ID: "cell1", Status: Stopped, ExitCode: &code})
	if err != nil {
		t.Fatal(err)
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatal(err)
	}
	if state.ExitCode == nil || *state.ExitCode != 137 {
		t.Fatalf("exit code lost in the state record: %s", data)
	}
}
