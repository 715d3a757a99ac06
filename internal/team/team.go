package team

import (
	"time"

	teamDatamodel "github.com/frahmantamala/team-directory/internal/core/datamodel/team"
)

// Team groups users from one department under a lead. EligibleRoles is
// the role whitelist for membership; LeadName is resolved at read time
// and never persisted.
type Team struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Department    string    `json:"department"`
	EligibleRoles []string  `json:"eligible_roles"`
	LeadID        string    `json:"lead_id"`
	LeadName      string    `json:"lead_name,omitempty"`
	MemberIDs     []string  `json:"member_ids"`
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func ToDataModel(t *Team) *teamDatamodel.Team {
	return &teamDatamodel.Team{
		ID:         t.ID,
		Name:       t.Name,
		Department: t.Department,
		LeadID:     t.LeadID,
		CreatedBy:  t.CreatedBy,
		CreatedAt:  t.CreatedAt,
	}
}

func FromDataModel(m *teamDatamodel.Team, eligibleRoles, memberIDs []string) *Team {
	return &Team{
		ID:            m.ID,
		Name:          m.Name,
		Department:    m.Department,
		EligibleRoles: eligibleRoles,
		LeadID:        m.LeadID,
		MemberIDs:     memberIDs,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}
