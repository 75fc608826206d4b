package domain

// Role is the account role carried in the JWT and stored on the profile.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
	RoleOwner      Role = "owner"
	RoleLandlord   Role = "landlord"
	RoleAgent      Role = "agent"
	RoleFSBO       Role = "fsbo"
	RoleUser       Role = "user"
)

// PrivilegeTier classifies roles into two buckets. Every "is this role
// privileged" question goes through Tier so the answer lives in one place.
type PrivilegeTier int

const (
	TierStandard PrivilegeTier = iota
	TierAdministrative
)

// Tier returns the privilege tier for the role.
func (r Role) Tier() PrivilegeTier {
	switch r {
	case RoleAdmin, RoleSuperAdmin, RoleOwner:
		return TierAdministrative
	default:
		return TierStandard
	}
}

// CanPublishDrafts reports whether the role may promote a draft to a
// property at all. Listing-owner roles plus the administrative tier qualify.
func (r Role) CanPublishDrafts() bool {
	if r.Tier() == TierAdministrative {
		return true
	}
	switch r {
	case RoleLandlord, RoleAgent, RoleFSBO:
		return true
	default:
		return false
	}
}

// CanPublishAnyDraft reports whether the role may publish drafts it does not
// own. This is the named capability behind the admin ownership-filter skip.
func (r Role) CanPublishAnyDraft() bool {
	return r.Tier() == TierAdministrative
}

// CanModerateListings gates the property approve/reject surface.
func (r Role) CanModerateListings() bool {
	return r.Tier() == TierAdministrative
}
