package reminder

import (
	famdomain "famtask-backend/internal/family/domain"
	"famtask-backend/internal/notify"
)

// deliveryRules is the exhaustive role x category table. Due reminders
// and movement alerts are for the assigned minor; completion summaries
// are oversight for guardians. Anything unlisted is suppressed.
var deliveryRules = map[famdomain.Role]map[notify.Category]bool{
	famdomain.RoleMinor: {
		notify.CategoryDue:      true,
		notify.CategoryMovement: true,
	},
	famdomain.RoleGuardian: {
		notify.CategoryCompletion: true,
	},
}

// ShouldDeliver decides whether a viewer with the given role should see
// a notification of the given category. Unknown roles or categories
// fail closed.
func ShouldDeliver(role famdomain.Role, category notify.Category) bool {
	return deliveryRules[role][category]
}
