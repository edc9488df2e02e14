package domain

import "errors"

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrNameTaken    = errors.New("name_taken")
	ErrNotFound     = errors.New("organization_not_found")
	ErrNotMember    = errors.New("User is not a member of this organization")
	ErrMemberExists = errors.New("member_exists")
	ErrInvalidRole  = errors.New("invalid_role")
)
