package session

import "testing"

func TestScopeFromPath(t *testing.T) {
	cases := []struct {
		path string
		want Scope
	}{
		{"/admin", ScopeAdmin},
		{"/admin/contests", ScopeAdmin},
		{"/designer", ScopeDesigner},
		{"/designer/portfolio", ScopeDesigner},
		{"/client/briefs", ScopeClient},
		{"/", ScopePublic},
		{"/contests", ScopePublic},
		{"/administrator", ScopePublic},
	}

	for _, tc := range cases {
		if got := ScopeFromPath(tc.path); got != tc.want {
			t.Fatalf("ScopeFromPath(%q) = %s, want %s", tc.path, got, tc.want)
		}
	}
}
