package verify

import (
	"context"
	"fmt"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sitec/state"
)

// Run is "verify" subcommand, DESTINATION defaults to configured one.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("verify")

	dir := cmd.Args().Get(0)
	if len(dir) == 0 {
		dir = env.Cfg.Build.Destination
	}
	if dir, err = filepath.Abs(dir); err != nil {
		return err
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	sum, err := Check(dir, env.Log)
	if sum == nil {
		return err
	}
	problems := multierr.Errors(err)
	for _, p := range problems {
		log.Warn("Problem", zap.Error(p))
	}
	log.Info("Site checked",
		zap.String("site", dir),
		zap.Int("documents", sum.Documents),
		zap.Int("payloads", sum.Payloads),
		zap.Int("rules", sum.Rules),
		zap.Strings("sections", sum.Sections),
		zap.Int("problems", len(problems)))
	if len(problems) > 0 {
		return fmt.Errorf("site %s has %d problem(s)", dir, len(problems))
	}
	return nil
}
