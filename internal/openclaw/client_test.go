package openclaw_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ssdwatch/internal/openclaw"
	"ssdwatch/internal/services"
)

type stubExecutor struct {
	outputs map[string]string
	err     error
	calls   [][]string
	binary  string
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	s.binary = binary
	s.calls = append(s.calls, append([]string(nil), args...))
	if s.err != nil {
		return nil, s.err
	}
	key := strings.Join(args[:2], " ")
	return []byte(s.outputs[key]), nil
}

func (s *stubExecutor) lastArgs() []string {
	if len(s.calls) == 0 {
		return nil
	}
	return s.calls[len(s.calls)-1]
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func TestOpenReturnsTargetID(t *testing.T) {
	exec := &stubExecutor{outputs: map[string]string{"browser open": `{"targetId":"tab-7"}`}}
	client := openclaw.New("", openclaw.WithExecutor(exec))

	id, err := client.Open(context.Background(), "https://example.test/dp/A", 60*time.Second)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if id != "tab-7" {
		t.Fatalf("unexpected target id %q", id)
	}
	if exec.binary != openclaw.DefaultBinary {
		t.Fatalf("expected default binary, got %q", exec.binary)
	}
	args := exec.lastArgs()
	if argAfter(args, "--timeout") != "60000" {
		t.Fatalf("expected timeout in milliseconds, got %v", args)
	}
	if args[len(args)-1] != "https://example.test/dp/A" {
		t.Fatalf("expected url as last arg, got %v", args)
	}
}

func TestOpenRejectsMissingTargetID(t *testing.T) {
	exec := &stubExecutor{outputs: map[string]string{"browser open": `{}`}}
	client := openclaw.New("openclaw", openclaw.WithExecutor(exec))
	if _, err := client.Open(context.Background(), "u", time.Second); err == nil {
		t.Fatal("expected error when targetId missing")
	}
}

func TestEvaluateReturnsResultPayload(t *testing.T) {
	exec := &stubExecutor{outputs: map[string]string{
		"browser evaluate": `{"ok":true,"result":{"title":"Acme","price":null,"url":"u"}}`,
	}}
	client := openclaw.New("openclaw", openclaw.WithExecutor(exec))

	raw, err := client.Evaluate(context.Background(), "tab-1", "() => 1", 5*time.Second)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if string(raw) != `{"title":"Acme","price":null,"url":"u"}` {
		t.Fatalf("unexpected raw result %s", raw)
	}
	args := exec.lastArgs()
	if argAfter(args, "--target-id") != "tab-1" || argAfter(args, "--fn") != "() => 1" {
		t.Fatalf("unexpected evaluate args %v", args)
	}
}

func TestDeadlineMapsToTimeoutMarker(t *testing.T) {
	exec := &stubExecutor{err: context.DeadlineExceeded}
	client := openclaw.New("openclaw", openclaw.WithExecutor(exec))
	_, err := client.Open(context.Background(), "u", time.Second)
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout marker, got %v", err)
	}
}

func TestSendTruncatesLongMessages(t *testing.T) {
	exec := &stubExecutor{outputs: map[string]string{}}
	client := openclaw.New("openclaw", openclaw.WithExecutor(exec))

	long := strings.Repeat("x", openclaw.MaxMessageLength+500)
	if err := client.Send(context.Background(), "telegram", "123", long); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	args := exec.lastArgs()
	if argAfter(args, "--channel") != "telegram" || argAfter(args, "--target") != "123" {
		t.Fatalf("unexpected send args %v", args[:6])
	}
	sent := argAfter(args, "--message")
	if n := len([]rune(sent)); n > openclaw.MaxMessageLength {
		t.Fatalf("message not truncated: %d runes", n)
	}
	if !strings.HasSuffix(sent, "(truncated)") {
		t.Fatalf("expected truncation marker, got %q", sent[len(sent)-20:])
	}
}

func TestSendSurfacesExecutorError(t *testing.T) {
	exec := &stubExecutor{err: errors.New("channel rejected: chat not found")}
	client := openclaw.New("openclaw", openclaw.WithExecutor(exec))
	err := client.Send(context.Background(), "telegram", "123", "hi")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("expected raw channel detail, got %v", err)
	}
}

func TestTruncateShortMessageUnchanged(t *testing.T) {
	if got := openclaw.Truncate("hello", 10); got != "hello" {
		t.Fatalf("Truncate = %q", got)
	}
}

func TestStartWrapsFailure(t *testing.T) {
	exec := &stubExecutor{err: errors.New("boom")}
	client := openclaw.New("openclaw", openclaw.WithExecutor(exec))
	if err := client.Start(context.Background()); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
}
