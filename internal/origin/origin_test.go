package origin

import "testing"

func TestNewWithoutOverride(t *testing.T) {
	p := New("")
	got := p.Allowed()
	if len(got) != 2 {
		t.Fatalf("expected 2 origins, got %v", got)
	}
	if got[0] != DevFrontend || got[1] != ProdFrontend {
		t.Fatalf("unexpected origins: %v", got)
	}
}

func TestNewWithOverride(t *testing.T) {
	p := New("https://staging.edustack.io")
	got := p.Allowed()
	if len(got) != 3 || got[2] != "https://staging.edustack.io" {
		t.Fatalf("override should be appended, got %v", got)
	}
}

func TestNewDeduplicatesOverride(t *testing.T) {
	p := New(DevFrontend)
	if len(p.Allowed()) != 2 {
		t.Fatalf("duplicate override should not grow the list: %v", p.Allowed())
	}

	// Trailing slash en el override tampoco duplica.
	p = New(ProdFrontend + "/")
	if len(p.Allowed()) != 2 {
		t.Fatalf("trailing-slash override should not grow the list: %v", p.Allowed())
	}
}

func TestContains(t *testing.T) {
	p := New("https://staging.edustack.io")

	cases := []struct {
		origin string
		want   bool
	}{
		{DevFrontend, true},
		{ProdFrontend, true},
		{"https://staging.edustack.io", true},
		{"HTTPS://APP.EDUSTACK.IO", true},
		{ProdFrontend + "/", true},
		{"https://evil.example.com", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := p.Contains(tc.origin); got != tc.want {
			t.Errorf("Contains(%q) = %v, want %v", tc.origin, got, tc.want)
		}
	}
}

func TestAllowedReturnsCopy(t *testing.T) {
	p := New("")
	first := p.Allowed()
	first[0] = "mutated"
	if p.Allowed()[0] == "mutated" {
		t.Fatal("mutating the returned slice must not affect the policy")
	}
}
