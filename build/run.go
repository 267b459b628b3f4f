package build

import (
	"context"
	"fmt"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"sitec/state"
	"sitec/utils/debug"
)

// Run is "build" subcommand. Positional SOURCE and DESTINATION override
// configured directories.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("build")
	bc := env.Cfg.Build

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		src = bc.Source
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}
	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		dst = bc.Destination
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	opts := Options{
		Source:        src,
		Destination:   dst,
		Clean:         bc.Clean && !cmd.Bool("no-clean"),
		Report:        bc.Report || cmd.Bool("report"),
		Language:      bc.Language,
		APIPrefix:     bc.APIPrefix,
		RedirectTitle: bc.RedirectTitle,
		Tablet:        bc.Breakpoints.Tablet,
		Mobile:        bc.Breakpoints.Mobile,
		Version:       env.Version(),
		BuildID:       env.BuildID,
		Now:           env.Started(),
	}
	log.Info("Building site",
		zap.String("source", src), zap.String("destination", dst),
		zap.String("version", opts.Version), zap.Bool("report", opts.Report))

	if err := env.Rpt.StoreCopy("source", src); err != nil {
		log.Warn("Unable to put source into report", zap.Error(err))
	}

	res, err := Build(ctx, opts, env.Log)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if env.Rpt != nil {
		if err := env.Rpt.StoreCopy("style.css", res.Stylesheet); err != nil {
			log.Warn("Unable to put stylesheet into report", zap.Error(err))
		}
		for name, n := range res.Configs.Raw() {
			env.Rpt.StoreData("configs/"+name+".txt", []byte(debug.Outline(name, n)))
		}
	}
	log.Info("Build completed",
		zap.Int("pages", len(res.Pages)),
		zap.Int("sections", len(res.Sections)),
		zap.Int("forms", len(res.Forms)),
		zap.Int("assets", res.Assets),
		zap.Duration("elapsed", env.Uptime()))
	return nil
}
