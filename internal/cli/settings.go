package cli

import (
	"fmt"

	"github.com/julianstephens/arise/internal/utils"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" default:"1" help:"Show current settings."`
	Set  SettingsSetCmd  `cmd:"" help:"Change settings."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *Context) error {
	if err := ctx.OpenStore(); err != nil {
		ctx.warn(err)
	}
	defer ctx.Store.Close()

	settings, err := ctx.Players().Settings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	ctx.println("Current Settings:")
	ctx.printf("  Timezone:     %s\n", settings.Timezone)
	ctx.printf("  Login Bonus:  %v\n", settings.LoginBonus)
	return nil
}

type SettingsSetCmd struct {
	Timezone   *string `help:"IANA timezone that decides when a day ends (or 'Local')."`
	LoginBonus *bool   `help:"Enable or disable the daily login bonus."`
}

func (c *SettingsSetCmd) Run(ctx *Context) error {
	if err := ctx.OpenStore(); err != nil {
		return err
	}
	defer ctx.Store.Close()

	settings, err := ctx.Players().Settings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	updated := false
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone: %s", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.LoginBonus != nil {
		settings.LoginBonus = *c.LoginBonus
		updated = true
	}

	if !updated {
		ctx.println("No changes specified. Use 'arise settings show' to view settings or flags to update them.")
		return nil
	}
	if err := ctx.Players().SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.println("Settings updated successfully.")
	return nil
}
