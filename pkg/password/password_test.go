package password

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate_ShortPasswordUnchanged(t *testing.T) {
	if got := Truncate("password123"); string(got) != "password123" {
		t.Errorf("短口令不应被截断，实际=%q", got)
	}
}

func TestTruncate_Exactly72Bytes(t *testing.T) {
	p := strings.Repeat("a", 72)
	got := Truncate(p)
	if len(got) != 72 {
		t.Errorf("恰好 72 字节的口令应原样保留，实际长度=%d", len(got))
	}
}

func TestTruncate_73Bytes(t *testing.T) {
	p := strings.Repeat("a", 73)
	got := Truncate(p)
	if len(got) != 72 {
		t.Errorf("73 字节口令应截断为 72 字节，实际长度=%d", len(got))
	}
	if string(got) != strings.Repeat("a", 72) {
		t.Error("截断应保留前 72 字节")
	}
}

func TestTruncate_MultiByteRuneStraddlingBoundary(t *testing.T) {
	// "中" 为 3 字节：71 个 'a' + "中" = 74 字节，第 72 字节落在字符中间
	p := strings.Repeat("a", 71) + "中"
	got := Truncate(p)

	if len(got) != 71 {
		t.Errorf("不完整的尾部多字节序列应被丢弃，期望 71 字节，实际=%d", len(got))
	}
	if !utf8.Valid(got) {
		t.Error("截断结果必须是合法 UTF-8")
	}
}

func TestTruncate_AllMultiByte(t *testing.T) {
	// 24 个 "中" = 72 字节，再加一个则截断点正好在字符边界
	p := strings.Repeat("中", 25)
	got := Truncate(p)

	if len(got) != 72 {
		t.Errorf("期望截断到 72 字节（24 个完整字符），实际=%d", len(got))
	}
	if !utf8.Valid(got) {
		t.Error("截断结果必须是合法 UTF-8")
	}
}

func TestHashAndVerify_RoundTrip(t *testing.T) {
	hash, err := Hash("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("Hash 失败: %v", err)
	}

	ok, err := Verify("correct-horse-battery-staple", hash)
	if err != nil {
		t.Fatalf("Verify 不应返回内部错误: %v", err)
	}
	if !ok {
		t.Error("正确口令应通过校验")
	}

	ok, err = Verify("wrong-password", hash)
	if err != nil {
		t.Fatalf("口令不匹配不是内部错误: %v", err)
	}
	if ok {
		t.Error("错误口令不应通过校验")
	}
}

func TestHashAndVerify_OverlongRoundTrip(t *testing.T) {
	p := strings.Repeat("x", 100)
	hash, err := Hash(p)
	if err != nil {
		t.Fatalf("超长口令 Hash 失败: %v", err)
	}

	ok, _ := Verify(p, hash)
	if !ok {
		t.Error("超长口令应通过自身哈希的校验")
	}
}

func TestVerify_DiffersOnlyBeyondByte72(t *testing.T) {
	// 两个口令前 72 字节相同，差异仅在截断点之后
	base := strings.Repeat("a", 72)
	p1 := base + "tail-one"
	p2 := base + "tail-two"

	hash, err := Hash(p1)
	if err != nil {
		t.Fatalf("Hash 失败: %v", err)
	}

	ok, _ := Verify(p2, hash)
	if !ok {
		t.Error("仅在第 72 字节之后存在差异的口令应视为相同")
	}
}

func TestVerify_MalformedHashReturnsFalse(t *testing.T) {
	malformed := []string{
		"",
		"not-a-bcrypt-hash",
		"$1$legacy$abcdefghijklmnop", // 非 bcrypt 算法标识
		"$2a$xx$corrupted",
	}

	for _, h := range malformed {
		ok, err := Verify("whatever", h)
		if ok {
			t.Errorf("损坏的哈希 %q 不应通过校验", h)
		}
		if err == nil {
			t.Errorf("损坏的哈希 %q 应返回可记录的原因", h)
		}
	}
}

func TestHash_SelfDescribingFormat(t *testing.T) {
	hash, err := Hash("p")
	if err != nil {
		t.Fatalf("Hash 失败: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$12$") {
		t.Errorf("哈希应携带算法标识与 cost=12，实际前缀=%q", hash[:7])
	}
}
