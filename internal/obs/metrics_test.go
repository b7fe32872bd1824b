package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                          "/",
		"/metrics":                  "/metrics",
		"/admin/fallin/42":          "/admin/fallin/:id",
		"/admin/fallin/42/records":  "/admin/fallin/:id/records",
		"/cadet/notifications":      "/cadet/notifications",
		"/cadet/notifications/7":    "/cadet/notifications/:id",
		"/auth/login":               "/auth/login",
		"/admin/events?limit=10":    "/admin/events",
		"/administrator/manage-users/15": "/administrator/manage-users/:id",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
