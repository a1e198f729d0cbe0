package domain

type Role string

const (
	RoleHost        Role = "HOST"
	RoleParticipant Role = "PARTICIPANT"
	RoleSeller      Role = "SELLER"
)

func (r Role) IsMember() bool {
	return r == RoleHost || r == RoleParticipant
}
