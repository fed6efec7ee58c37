package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	phc, err := Hash(Default, "correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(phc, "$argon2id$") {
		t.Fatalf("expected PHC argon2id format, got %q", phc)
	}

	if !Verify("correct horse battery staple", phc) {
		t.Fatal("correct password should verify")
	}
	if Verify("wrong password", phc) {
		t.Fatal("wrong password should not verify")
	}
}

func TestHashesAreSalted(t *testing.T) {
	a, _ := Hash(Default, "same input")
	b, _ := Hash(Default, "same input")
	if a == b {
		t.Fatal("two hashes of the same password must differ (random salt)")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	for _, phc := range []string{"", "not-a-hash", "$argon2id$v=19$garbage"} {
		if Verify("anything", phc) {
			t.Errorf("garbage hash %q should not verify", phc)
		}
	}
}
