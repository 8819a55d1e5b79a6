package storage

import "testing"

func TestToValidUTF8ReplacesInvalidBytes(t *testing.T) {
	bad := string([]byte{0xff, 0xfe}) + "ok"
	if out := toValidUTF8(bad); out != "�ok" {
		t.Fatalf("unexpected sanitized string: %q", out)
	}
	if out := toValidUTF8("普通文本"); out != "普通文本" {
		t.Fatalf("valid utf-8 should pass through: %q", out)
	}
}

func TestTruncateRunesDB(t *testing.T) {
	if out := truncateRunesDB("你好世界这是测试", 4); out != "你好世界" {
		t.Fatalf("rune truncation wrong: %q", out)
	}
	if out := truncateRunesDB("short", 10); out != "short" {
		t.Fatalf("should keep original under limit: %q", out)
	}
	if out := truncateRunesDB("  padded  ", 10); out != "padded" {
		t.Fatalf("should trim whitespace: %q", out)
	}
	if out := truncateRunesDB("x", 0); out != "" {
		t.Fatalf("zero limit should return empty: %q", out)
	}
}
