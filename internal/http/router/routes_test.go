package router

import (
	"net/http"
	"testing"
)

func TestPublicPathsDerivedFromTable(t *testing.T) {
	table := routes(&Controllers{
		CSRF: nil, Health: nil, Auth: nil, Courses: nil, Roadmaps: nil,
		Documents: nil, Discussions: nil, Notifications: nil,
		Feedback: nil, PDFChat: nil, Sitemap: nil,
	})
	exempt := publicPaths(table)

	// Los flujos públicos de auth y los GET de bootstrap están exentos.
	want := []string{
		"/api/csrf-token",
		"/api/health",
		"/api/auth/signup",
		"/api/auth/login",
		"/api/auth/otp/send",
		"/api/auth/otp/verify",
		"/api/auth/password/forgot",
		"/api/auth/password/reset",
		"/api/auth/oauth/google",
		"/api/auth/oauth/google/callback",
		"/sitemap.xml",
	}
	for _, p := range want {
		if _, ok := exempt[p]; !ok {
			t.Errorf("path %s should be CSRF-exempt", p)
		}
	}
	if len(exempt) != len(want) {
		t.Errorf("exempt set has %d entries, want %d: %v", len(exempt), len(want), exempt)
	}

	// Nada con estado mutable fuera de auth queda exento.
	for _, p := range []string{"/api/courses", "/api/feedback", "/api/auth/logout", "/api/pdf-chat"} {
		if _, ok := exempt[p]; ok {
			t.Errorf("path %s must NOT be CSRF-exempt", p)
		}
	}
}

func TestRouteTableShape(t *testing.T) {
	table := routes(&Controllers{})

	seen := make(map[string]struct{})
	for _, rt := range table {
		if rt.Method == "" || rt.Pattern == "" || rt.Handler == nil {
			t.Errorf("incomplete route: %+v", rt)
		}
		key := rt.Method + " " + rt.Pattern
		if _, dup := seen[key]; dup {
			t.Errorf("duplicate route: %s", key)
		}
		seen[key] = struct{}{}

		if rt.Public && rt.Auth {
			t.Errorf("route %s cannot be both public and auth-required", key)
		}
	}

	// Las rutas públicas con parámetros no existen: la exención es exacta.
	for _, rt := range table {
		if rt.Public && hasParams(rt.Pattern) {
			t.Errorf("public route %s has params; exemption is exact-path only", rt.Pattern)
		}
	}

	// Sanidad: el login es POST y público.
	found := false
	for _, rt := range table {
		if rt.Pattern == "/api/auth/login" {
			found = true
			if rt.Method != http.MethodPost || !rt.Public {
				t.Error("/api/auth/login should be a public POST")
			}
		}
	}
	if !found {
		t.Error("/api/auth/login missing from the route table")
	}
}
