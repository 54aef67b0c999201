package usecases

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
	"github.com/rpupo63/chantier-backend/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrSelfDemotion = errors.New("you cannot remove your own owner role")
	ErrLastOwner    = errors.New("the account must keep at least one owner")
)

const minPasswordLength = 8

type TeamUseCase struct {
	base
	dispatcher
}

type InviteInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (uc *TeamUseCase) ListMembers(ctx context.Context, a Actor) ([]models.Membership, error) {
	members, err := uc.db.MembershipRepo().ListWithUsers(ctx, a.AccountID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "memberships", err)
	}
	return members, nil
}

// UpdateRole changes the role of userID in the actor's account. Only owners may
// do it, nobody may demote themselves and the last owner stays an owner.
func (uc *TeamUseCase) UpdateRole(ctx context.Context, a Actor, userID uuid.UUID, role string) (*models.Membership, error) {
	if err := uc.requireOwner(ctx, a); err != nil {
		return nil, err
	}

	role = strings.TrimSpace(role)
	if !models.ValidRole(role) {
		return nil, errs.NewValidationError("role", "role must be owner or collaborator")
	}

	var updated *models.Membership
	err := uc.db.Transaction(ctx, func(tx database.Database) error {
		membership, err := tx.MembershipRepo().FindByUser(ctx, a.AccountID, userID)
		if err != nil {
			return errs.NewDatabaseError("find", "membership", err)
		}

		owners, err := tx.MembershipRepo().CountOwners(ctx, a.AccountID)
		if err != nil {
			return errs.NewDatabaseError("count", "owners", err)
		}
		if err := checkRoleChange(a.UserID, *membership, role, owners); err != nil {
			return err
		}

		if err := tx.MembershipRepo().UpdateColumns(ctx, a.AccountID, membership.ID, map[string]any{"role": role}); err != nil {
			return errs.NewDatabaseError("update", "membership", err)
		}
		membership.Role = role
		updated = membership
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info().Str("userID", userID.String()).Str("role", role).Msg("Membership role updated")
	return updated, nil
}

// Invite adds a person to the account, creating the user when the email is new,
// and mails them their sign-in details.
func (uc *TeamUseCase) Invite(ctx context.Context, a Actor, in InviteInput) (*models.Membership, error) {
	if err := uc.requireOwner(ctx, a); err != nil {
		return nil, err
	}

	name, err := required("name", in.Name)
	if err != nil {
		return nil, err
	}
	email, err := required("email", in.Email)
	if err != nil {
		return nil, err
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errs.NewInvalidFieldError("email", "not a valid address")
	}
	email = strings.ToLower(email)

	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = models.RoleCollaborator
	}
	if !models.ValidRole(role) {
		return nil, errs.NewValidationError("role", "role must be owner or collaborator")
	}

	account, err := uc.db.AccountRepo().FindByID(ctx, a.AccountID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "account", err)
	}
	inviter, err := uc.db.UserRepo().FindByID(ctx, a.UserID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}

	var (
		membership models.Membership
		user       *models.User
		created    bool
	)
	err = uc.db.Transaction(ctx, func(tx database.Database) error {
		user, err = tx.UserRepo().FindByEmail(ctx, email)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user, err = newInvitedUser(name, email, in.Password)
			if err != nil {
				return err
			}
			if err := tx.UserRepo().Add(ctx, user); err != nil {
				return errs.NewDatabaseError("create", "user", err)
			}
			created = true
		case err != nil:
			return errs.NewDatabaseError("find", "user", err)
		default:
			_, err := tx.MembershipRepo().FindByUser(ctx, a.AccountID, user.ID)
			if err == nil {
				return errs.NewAlreadyExists("membership")
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NewDatabaseError("find", "membership", err)
			}
		}

		membership = models.Membership{UserID: user.ID, Role: role}
		if err := tx.MembershipRepo().Create(ctx, a.AccountID, &membership); err != nil {
			return errs.NewDatabaseError("create", "membership", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	membership.User = user
	uc.deliver(ctx, pendingNotice{
		recipients: []services.Recipient{{UserID: user.ID, Name: user.Name, Email: user.Email}},
		notice:     invitationNotice(*account, *inviter, *user, created),
	})
	uc.logger.Info().Str("userID", user.ID.String()).Str("role", role).Msg("Team member invited")
	return &membership, nil
}

// checkRoleChange holds the owner invariants for moving target to role, given
// how many owners the account has.
func checkRoleChange(actorID uuid.UUID, target models.Membership, role string, owners int64) error {
	if target.Role != models.RoleOwner || role == models.RoleOwner {
		return nil
	}
	if target.UserID == actorID {
		return errs.NewFieldRuleError("role", ErrSelfDemotion)
	}
	if owners <= 1 {
		return errs.NewFieldRuleError("role", ErrLastOwner)
	}
	return nil
}

func (uc *TeamUseCase) requireOwner(ctx context.Context, a Actor) error {
	membership, err := uc.db.MembershipRepo().FindByUser(ctx, a.AccountID, a.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewInsufficientRoleError(models.RoleOwner)
		}
		return errs.NewDatabaseError("find", "membership", err)
	}
	if membership.Role != models.RoleOwner {
		return errs.NewInsufficientRoleError(models.RoleOwner)
	}
	return nil
}

func newInvitedUser(name, email, password string) (*models.User, error) {
	if password == "" {
		password = strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	}
	if len(password) < minPasswordLength {
		return nil, errs.NewValidationError("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("hash password", err)
	}
	return &models.User{Name: name, Email: email, PasswordHash: string(hash)}, nil
}

// invitationNotice mentions the temporary password only to a user created by
// the invitation.
func invitationNotice(account models.Account, inviter, invitee models.User, newUser bool) services.Notice {
	lines := []string{inviter.Name + " vous a invité à rejoindre l'équipe " + account.Name + "."}
	if newUser {
		lines = append(lines, "Un mot de passe temporaire a été créé pour vous. Pensez à le changer après connexion.")
	}
	lines = append(lines, "Si vous n'êtes pas concerné, vous pouvez ignorer cet e-mail.")

	return services.Notice{
		Type:        NoticeTeamMemberInvited,
		Subject:     "Invitation à rejoindre " + account.Name,
		Greeting:    "Bonjour " + invitee.Name + ",",
		Lines:       lines,
		ActionLabel: "Se connecter",
		ActionPath:  "/login",
		Channels:    []string{services.ChannelMail},
		Data: map[string]any{
			"account_id": account.ID,
			"user_id":    invitee.ID,
		},
	}
}
