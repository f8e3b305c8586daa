package constants

import "fmt"

const (
	RoleUser    = "user"
	RoleTrainer = "trainer"
	RoleAdmin   = "admin"
	RoleOwner   = "owner"
)

// Template pesan error role
const ErrOnlyTrainersCanAccess = "❌ Hanya trainer, admin, atau owner yang boleh mengakses fitur %s."

func RoleErrorTrainer(feature string) string {
	return fmt.Sprintf(ErrOnlyTrainersCanAccess, feature)
}

// TrainerAndAbove dipakai group /api/t
var TrainerAndAbove = []string{
	RoleTrainer,
	RoleAdmin,
	RoleOwner,
}
