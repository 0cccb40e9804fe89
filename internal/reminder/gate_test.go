package reminder

import (
	"testing"

	famdomain "famtask-backend/internal/family/domain"
	"famtask-backend/internal/notify"
)

func TestShouldDeliver(t *testing.T) {
	cases := []struct {
		role     famdomain.Role
		category notify.Category
		want     bool
	}{
		{famdomain.RoleMinor, notify.CategoryDue, true},
		{famdomain.RoleMinor, notify.CategoryMovement, true},
		{famdomain.RoleMinor, notify.CategoryCompletion, false},
		{famdomain.RoleGuardian, notify.CategoryCompletion, true},
		{famdomain.RoleGuardian, notify.CategoryDue, false},
		{famdomain.RoleGuardian, notify.CategoryMovement, false},
	}

	for _, tc := range cases {
		if got := ShouldDeliver(tc.role, tc.category); got != tc.want {
			t.Errorf("ShouldDeliver(%s, %s) = %v, want %v", tc.role, tc.category, got, tc.want)
		}
	}
}

func TestShouldDeliver_FailsClosed(t *testing.T) {
	if ShouldDeliver(famdomain.RoleGuardian, notify.Category("unknown")) {
		t.Error("unknown category must be suppressed")
	}
	if ShouldDeliver(famdomain.Role("visitor"), notify.CategoryDue) {
		t.Error("unknown role must be suppressed")
	}
}
