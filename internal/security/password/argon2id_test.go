package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	phc, err := Hash(Default, "correct-horse")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(phc, "$argon2id$v=19$") {
		t.Fatalf("unexpected PHC prefix: %q", phc)
	}
	if !Verify("correct-horse", phc) {
		t.Fatal("expected verify ok for correct password")
	}
	if Verify("wrong", phc) {
		t.Fatal("expected verify fail for wrong password")
	}
}

func TestHashEmptyPassword(t *testing.T) {
	if _, err := Hash(Default, ""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyMalformedPHC(t *testing.T) {
	for _, phc := range []string{"", "$argon2id$", "garbage", "$argon2id$v=18$m=1,t=1,p=1$AAAA$AAAA"} {
		if Verify("whatever", phc) {
			t.Fatalf("expected false for malformed PHC %q", phc)
		}
	}
}
