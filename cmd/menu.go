package cmd

import (
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func menuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive transcript inspection",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}

			var (
				path       string
				hosted     = settings.Mode == "hosted"
				jsonOutput = settings.Format == "json"
			)
			form := huh.NewForm(huh.NewGroup(
				huh.NewInput().
					Title("Transcript file").
					Description("JSON or JSONL conversation export").
					Value(&path),
				huh.NewSelect[bool]().
					Title("Analysis mode").
					Options(
						huh.NewOption("Offline heuristics", false).Selected(!hosted),
						huh.NewOption("Hosted model (falls back to heuristics)", true).Selected(hosted),
					).
					Value(&hosted),
				huh.NewSelect[bool]().
					Title("Output").
					Options(
						huh.NewOption("Report", false).Selected(!jsonOutput),
						huh.NewOption("JSON", true).Selected(jsonOutput),
					).
					Value(&jsonOutput),
			)).WithShowHelp(true)

			if err := form.Run(); err != nil {
				return err
			}

			return runInspect(cmd.Context(), settings, inspectOptions{
				transcriptPath: path,
				policyPath:     settings.PolicyPath,
				hosted:         hosted,
				jsonOutput:     jsonOutput,
			})
		},
	}
}
