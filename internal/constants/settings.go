package constants

const (
	// General Settings
	SettingTimezone   = "timezone"
	SettingLoginBonus = "login_bonus"

	// Default Settings Values
	DefaultTimezone   = "Local" // Use system local timezone by default
	DefaultLoginBonus = true
)
