// Package authz resolves a caller's role within an organization and
// gates admin-only mutations through a casbin enforcer.
package authz

import (
	_ "embed"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectOrganization = "organization"
	ObjectMember       = "member"
	ObjectInvite       = "invite"
	ObjectEvent        = "event"
	ObjectAuditLog     = "audit_log"
)

const (
	ActionOrganizationDelete = "organization.delete"
	ActionMemberRemove       = "member.remove"
	ActionInviteCreate       = "invite.create"
	ActionInviteCancel       = "invite.cancel"
	ActionEventPublish       = "event.publish"
	ActionEventDelete        = "event.delete"
	ActionAuditLogView       = "audit_log.view"
)

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		{"role:admin", ObjectOrganization, ActionOrganizationDelete},
		{"role:admin", ObjectMember, ActionMemberRemove},
		{"role:admin", ObjectInvite, ActionInviteCreate},
		{"role:admin", ObjectInvite, ActionInviteCancel},
		{"role:admin", ObjectEvent, ActionEventPublish},
		{"role:admin", ObjectEvent, ActionEventDelete},
		{"role:admin", ObjectAuditLog, ActionAuditLogView},
	}

	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
