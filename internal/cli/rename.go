package cli

import (
	"fmt"

	"github.com/julianstephens/arise/internal/engine"
)

type RenameCmd struct {
	Name string `arg:"" help:"New hunter name (1-20 characters)."`
}

func (c *RenameCmd) Run(ctx *Context) error {
	name, ok := engine.NormalizeName(c.Name)
	if !ok {
		return fmt.Errorf("invalid name %q: must be 1-20 characters", c.Name)
	}

	sess, err := ctx.StartSession(false)
	if err != nil {
		return err
	}
	defer ctx.Close()

	changed, err := sess.Engine.Rename(name)
	if err != nil {
		ctx.warn(err)
	}
	if !changed {
		ctx.printf("Name is already %q.\n", name)
		return nil
	}
	ctx.printf("Hunter renamed to %q.\n", name)
	return nil
}
