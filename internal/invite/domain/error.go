package domain

import "errors"

var (
	ErrNotFound         = errors.New("invite_not_found")
	ErrInviteeNotFound  = errors.New("No user found with that email")
	ErrAlreadyInvited   = errors.New("User has already been invited to this organization")
	ErrAlreadyMember    = errors.New("User is already a member of this organization")
	ErrNotPending       = errors.New("Invite is no longer pending")
	ErrAlreadyCancelled = errors.New("Invite is already cancelled")
	ErrAlreadyAccepted  = errors.New("Invite has already been accepted, consider removing the user from the organization instead")
	ErrOrganizationGone = errors.New("organization_gone")
)
