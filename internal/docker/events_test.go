package docker

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/docker/docker/pkg/stdcopy"
	"github.com/rusenback/bpmmon/internal/audit"
)

func multiplexed(t *testing.T, stdout, stderr string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if _, err := stdcopy.NewStdWriter(&buf, stdcopy.Stdout).Write([]byte(stdout)); err != nil {
		t.Fatal(err)
	}
	if _, err := stdcopy.NewStdWriter(&buf, stdcopy.Stderr).Write([]byte(stderr)); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestDecodeMultiplexedStream(t *testing.T) {
	stdout := `INFO engine ready
{"kind":"node","processInstanceId":1,"nodeType":"StartNode"}
`
	stderr := `{"kind":"node","processInstanceId":1,"nodeType":"EndNode","completed":true}
`
	var got []audit.Event
	err := decodeLogStream(multiplexed(t, stdout, stderr), false, func(e audit.Event) error {
		got = append(got, e)
		return nil
	})
	if err != nil {
		t.Fatalf("decodeLogStream: %v", err)
	}
	if len(got) != 2 || got[0].NodeType != "StartNode" || got[1].NodeType != "EndNode" {
		t.Fatalf("unexpected events %+v", got)
	}
}

func TestDecodeTTYStream(t *testing.T) {
	input := `{"kind":"process-instance","processInstanceId":4,"processDefId":"hiring"}` + "\n"

	var got []audit.Event
	err := decodeLogStream(strings.NewReader(input), true, func(e audit.Event) error {
		got = append(got, e)
		return nil
	})
	if err != nil {
		t.Fatalf("decodeLogStream: %v", err)
	}
	if len(got) != 1 || got[0].ProcessDefID != "hiring" {
		t.Fatalf("unexpected events %+v", got)
	}
}

func TestDecodeStopsWhenCallbackFails(t *testing.T) {
	stdout := strings.Repeat(`{"kind":"node","processInstanceId":1,"nodeType":"Split"}`+"\n", 50)

	calls := 0
	err := decodeLogStream(multiplexed(t, stdout, ""), false, func(audit.Event) error {
		calls++
		return errStopped
	})
	if !errors.Is(err, errStopped) || calls != 1 {
		t.Fatalf("expected stop after first event, err=%v calls=%d", err, calls)
	}
}
