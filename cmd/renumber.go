package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"renumber/pkg/config"
	rerrors "renumber/pkg/errors"
	"renumber/pkg/logging"
	"renumber/pkg/report"
	"renumber/pkg/usecase"
)

func runRenumber(cmd *cobra.Command, args []string) (err error) {
	configPath, flagErr := cmd.Flags().GetString("config")
	if flagErr != nil {
		return rerrors.Wrap(flagErr, rerrors.CodeInvalidArgument, "read --config")
	}

	cfg, err := config.Load(config.LoadOptions{
		Path:        configPath,
		DefaultPath: configDefaultPath,
		Flags:       cmd.Flags(),
	})
	if err != nil {
		return err
	}

	closer, err := logging.Setup(cfg.Verbose, logging.Options{
		Out:     cmd.ErrOrStderr(),
		Color:   logging.ColorMode(cfg.Color),
		LogFile: cfg.LogFile,
	})
	if err != nil {
		return rerrors.Wrap(err, rerrors.CodeConfig, "set up logging")
	}
	defer closer.Close()
	defer func() {
		if err != nil {
			log.Debug().
				Fields(rerrors.DetailsOf(err)).
				Str("code", string(rerrors.CodeOf(err))).
				Msg("command failed")
		}
	}()

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return rerrors.Wrap(err, rerrors.CodeConfig, "invalid format")
	}

	logger := logging.Get("renumber")
	service := usecase.New(usecase.Options{
		SkipFiles: cfg.SkipFiles,
		Logger:    &logger,
	})

	if format.Machine() {
		if !cfg.DryRun {
			log.Warn().Str("format", string(format)).Msg("--format only applies with --dry-run, using text")
		} else {
			return writePlan(cmd, service, args[0], format)
		}
	}

	return writeTextReport(cmd, service, args[0], cfg)
}

// writePlan prints the plan alone so it can be piped into other tools.
func writePlan(cmd *cobra.Command, service *usecase.Service, targetDir string, format report.Format) error {
	execution, err := service.Plan(usecase.PlanRequest{TargetDir: targetDir})
	if err != nil {
		return err
	}

	if err := report.WritePlan(cmd.OutOrStdout(), format, execution.RootDir, execution.Plan); err != nil {
		return rerrors.Wrap(err, rerrors.CodeInternal, "write plan")
	}

	return nil
}

func writeTextReport(cmd *cobra.Command, service *usecase.Service, targetDir string, cfg *config.Config) error {
	out := cmd.OutOrStdout()
	styles := report.NewStyles(out, logging.ColorMode(cfg.Color))

	execution, err := service.RunRenumber(usecase.RenumberRequest{
		TargetDir: targetDir,
		DryRun:    cfg.DryRun,
		OnProgress: func(stage string, processed, total int) {
			log.Trace().Str("stage", stage).Int("processed", processed).Int("total", total).Msg("progress")
		},
	})
	if err != nil {
		return err
	}

	printDryRunBanner(out, cfg.DryRun)
	printCommandHeader(out, "RENUMBER", execution.RootDir)
	printFoundFiles(out, execution.FileCount(), execution.ScanDuration)
	printPlanOverview(out, execution.Plan)
	report.WriteWarnings(out, styles, execution.Listing)

	if execution.Plan.Empty() {
		fmt.Fprintln(out, "Nothing to renumber.")
		return nil
	}

	report.WriteOperations(out, styles, execution.Result.Operations)
	fmt.Fprintln(out)
	report.WriteSummary(out, styles, execution.Result)
	printDryRunHint(out, cfg.DryRun)

	return nil
}
