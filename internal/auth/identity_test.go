package auth

import (
	"testing"

	"github.com/farekit/transit-service/internal/domain"
)

func TestCanAct(t *testing.T) {
	cases := []struct {
		name     string
		identity Identity
		ownerID  string
		want     bool
	}{
		{"owner acts on own resource", Identity{Subject: "u1", Role: domain.RoleUser}, "u1", true},
		{"user acts on someone else", Identity{Subject: "u1", Role: domain.RoleUser}, "u2", false},
		{"admin acts on anyone", Identity{Subject: "a1", Role: domain.RoleAdmin}, "u2", true},
		{"admin acts on self", Identity{Subject: "a1", Role: domain.RoleAdmin}, "a1", true},
		{"anonymous never matches", Identity{}, "", false},
		{"empty subject never owns", Identity{Subject: "", Role: domain.RoleUser}, "u1", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.identity.CanAct(tc.ownerID); got != tc.want {
				t.Errorf("CanAct(%q) = %v, want %v", tc.ownerID, got, tc.want)
			}
		})
	}
}
