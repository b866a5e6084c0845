package models

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionOutputFile = 0644
)
