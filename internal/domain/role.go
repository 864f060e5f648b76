package domain

// DefaultRoleDescription is stored for roles nobody has described yet.
const DefaultRoleDescription = "No description provided yet."

// RoleInfo mirrors one guild role plus a community-maintained description.
type RoleInfo struct {
	RoleID      string `bson:"role_id" json:"role_id"`
	Name        string `bson:"name" json:"name"`
	Color       int    `bson:"color" json:"color"`
	Description string `bson:"description" json:"description"`
}
