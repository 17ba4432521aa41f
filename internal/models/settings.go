package models

import "github.com/julianstephens/arise/internal/constants"

type Settings struct {
	Timezone   string `json:"timezone"`
	LoginBonus bool   `json:"login_bonus"`
}

// DefaultSettings returns the settings used before anything was saved.
func DefaultSettings() Settings {
	return Settings{
		Timezone:   constants.DefaultTimezone,
		LoginBonus: constants.DefaultLoginBonus,
	}
}
