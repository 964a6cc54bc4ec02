package issuehound

import "testing"

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }
func boolp(b bool) *bool    { return &b }

func TestPickStringPrecedence(t *testing.T) {
	if got := pickString("cli", strp("local"), strp("global")); got != "cli" {
		t.Fatalf("cli should win, got %q", got)
	}
	if got := pickString("", strp("local"), strp("global")); got != "local" {
		t.Fatalf("local should win over global, got %q", got)
	}
	if got := pickString("", nil, strp("global")); got != "global" {
		t.Fatalf("global should apply, got %q", got)
	}
	if got := pickString("", nil, nil); got != "" {
		t.Fatalf("expected empty default, got %q", got)
	}
}

func TestPickIntPrecedence(t *testing.T) {
	if got := pickInt(4, intp(8), intp(16)); got != 4 {
		t.Fatalf("cli should win, got %d", got)
	}
	if got := pickInt(0, intp(8), intp(16)); got != 8 {
		t.Fatalf("local should win, got %d", got)
	}
	if got := pickInt(0, nil, nil); got != 0 {
		t.Fatalf("expected zero default, got %d", got)
	}
}

func TestPickBool(t *testing.T) {
	if !pickBool(true, boolp(false), nil) {
		t.Fatal("cli true should win")
	}
	if pickBool(false, boolp(false), boolp(true)) {
		t.Fatal("local false should win over global true")
	}
	if !pickBool(false, nil, boolp(true)) {
		t.Fatal("global true should apply")
	}
}

func TestPickBoolPtr(t *testing.T) {
	if got := pickBoolPtr(nil, nil); got != nil {
		t.Fatal("expected nil when neither set")
	}
	local, global := boolp(false), boolp(true)
	if got := pickBoolPtr(local, global); got != local {
		t.Fatal("local pointer should win")
	}
	if got := pickBoolPtr(nil, global); got != global {
		t.Fatal("global pointer should apply")
	}
}
