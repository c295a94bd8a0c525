package cmd

import (
	"fmt"
	"io"
	"log"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spigell/resume-matcher/internal/matching"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List the configured jobs",
	Run: func(cmd *cobra.Command, _ []string) {
		config, err := getConfig()
		if err != nil {
			log.Fatalf("getting a config: %s", err)
		}
		if err := printJobs(cmd.OutOrStdout(), config.Jobs); err != nil {
			log.Fatalf("printing jobs: %s", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}

func printJobs(w io.Writer, jobs []*matching.Job) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tCOMPANY\tROLE\tEXPERIENCE\tHARD\tSOFT")
	for _, j := range jobs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			j.Title, j.Company, j.Role(), j.ExperienceRange(),
			strings.Join(j.HardRequiredSkills, ", "),
			strings.Join(j.SoftRequiredSkills, ", "),
		)
	}
	return tw.Flush()
}
