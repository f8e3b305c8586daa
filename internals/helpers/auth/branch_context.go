// file: internals/helpers/auth/branch_context.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"trainingku_backend/internals/constants"
)

/* ============================
   Locals Keys (diisi middleware auth)
============================ */

const (
	LocUserID    = "user_id"    // string UUID
	LocRole      = "userRole"   // string
	LocUserName  = "user_name"  // string
	LocBranchIDs = "branch_ids" // []string
)

var (
	ErrUserContextMissing = fiber.NewError(fiber.StatusUnauthorized, "User tidak terautentikasi")
	ErrBranchForbidden    = fiber.NewError(fiber.StatusForbidden, "Anda tidak memiliki akses ke branch ini")
	ErrBranchIDMissing    = fiber.NewError(fiber.StatusBadRequest, "branch_id wajib diisi")
	ErrBranchIDInvalid    = fiber.NewError(fiber.StatusBadRequest, "branch_id tidak valid")
)

func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	s, _ := c.Locals(LocUserID).(string)
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrUserContextMissing
	}
	return id, nil
}

func GetRole(c *fiber.Ctx) string {
	r, _ := c.Locals(LocRole).(string)
	return strings.ToLower(strings.TrimSpace(r))
}

func GetUserName(c *fiber.Ctx) string {
	s, _ := c.Locals(LocUserName).(string)
	return s
}

func IsOwner(c *fiber.Ctx) bool { return GetRole(c) == constants.RoleOwner }

// IsStaff: trainer / admin / owner.
func IsStaff(c *fiber.Ctx) bool {
	role := GetRole(c)
	for _, r := range constants.TrainerAndAbove {
		if role == r {
			return true
		}
	}
	return false
}

func GetBranchIDs(c *fiber.Ctx) []uuid.UUID {
	raw, _ := c.Locals(LocBranchIDs).([]string)
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		if id, err := uuid.Parse(strings.TrimSpace(s)); err == nil {
			out = append(out, id)
		}
	}
	return out
}

// EnsureBranchAccess: owner global, selain itu branch harus ada di klaim token.
func EnsureBranchAccess(c *fiber.Ctx, branchID uuid.UUID) error {
	if branchID == uuid.Nil {
		return ErrBranchIDMissing
	}
	if IsOwner(c) {
		return nil
	}
	for _, id := range GetBranchIDs(c) {
		if id == branchID {
			return nil
		}
	}
	return ErrBranchForbidden
}

// BranchIDFromQuery membaca ?branch_id=, fallback ke satu-satunya branch di token.
func BranchIDFromQuery(c *fiber.Ctx) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Query("branch_id"))
	if raw == "" {
		ids := GetBranchIDs(c)
		if len(ids) == 1 {
			return ids[0], nil
		}
		return uuid.Nil, ErrBranchIDMissing
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrBranchIDInvalid
	}
	return id, nil
}
