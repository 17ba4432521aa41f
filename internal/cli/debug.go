package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/arise/internal/constants"
	"github.com/julianstephens/arise/internal/storage"
)

type DebugCmd struct {
	DBPath      DebugDBPathCmd      `cmd:"" help:"Show database path."`
	Dump        DebugDumpCmd        `cmd:"" help:"Dump a stored key as JSON."`
	ForceNewDay DebugForceNewDayCmd `cmd:"" help:"Start a new day immediately."`
	AddXP       DebugAddXPCmd       `cmd:"" name:"add-xp" help:"Award experience."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	output := map[string]string{
		"path": ctx.Store.GetConfigPath(),
	}
	return printJSON(ctx, output)
}

type DebugDumpCmd struct {
	Key string `arg:"" optional:"" help:"Key to dump (default: player). Use 'keys' to list all keys."`
}

func (cmd *DebugDumpCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	defer ctx.Store.Close()

	key := cmd.Key
	switch key {
	case "":
		key = constants.KeyPlayer
	case "keys":
		keys, err := ctx.Store.Keys()
		if err != nil {
			return fmt.Errorf("failed to list keys: %w", err)
		}
		return printJSON(ctx, keys)
	}

	raw, err := ctx.Store.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("key not found: %s", key)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}

	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		// Not every value is JSON (last_login_date is a bare date)
		ctx.println(raw)
		return nil
	}
	return printJSON(ctx, v)
}

type DebugForceNewDayCmd struct{}

func (cmd *DebugForceNewDayCmd) Run(ctx *Context) error {
	sess, err := ctx.StartSession(false)
	if err != nil {
		return err
	}
	defer ctx.Close()

	act, err := sess.Engine.ForceNewDay()
	if err != nil {
		ctx.warn(err)
	}
	ctx.printActivation(act)
	ctx.println("Forced a new day.")
	return nil
}

type DebugAddXPCmd struct {
	Amount int `arg:"" help:"Experience to award."`
}

func (cmd *DebugAddXPCmd) Run(ctx *Context) error {
	if cmd.Amount <= 0 {
		return fmt.Errorf("amount must be positive, got %d", cmd.Amount)
	}

	sess, err := ctx.StartSession(false)
	if err != nil {
		return err
	}
	defer ctx.Close()

	gain, err := sess.Engine.AddExperience(cmd.Amount)
	if err != nil {
		ctx.warn(err)
	}
	ctx.printf("+%d XP\n", gain.Amount)
	ctx.printLevelUps(gain.LevelUps)
	ctx.printAchievements(gain.Achievements)
	return nil
}

func printJSON(ctx *Context, v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.println(string(jsonBytes))
	return nil
}
