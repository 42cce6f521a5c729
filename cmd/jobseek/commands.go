package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/jobseek/internal/chat"
	"github.com/kalambet/jobseek/internal/config"
	"github.com/kalambet/jobseek/internal/profile"
	"github.com/kalambet/jobseek/internal/theme"
)

// --- ask ---

var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Send one query to the webhook and print the reply",
	Long: `Send one query, with your profile attached, to the configured webhook.

Examples:
  jobseek ask "remote Go backend roles in Berlin"
  jobseek ask --json "senior frontend, fintech"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		reply, ok, err := a.session.Send(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("query is required")
		}

		if asJSON {
			return writeIndentedJSON(cmd.OutOrStdout(), reply)
		}
		printReply(cmd.OutOrStdout(), reply)
		return nil
	},
}

func init() {
	askCmd.Flags().Bool("json", false, "print the reply message as JSON")
}

func printReply(w io.Writer, msg chat.Message) {
	fmt.Fprintln(w, msg.Content)
	for i, job := range msg.Jobs {
		title := job.Title
		if title == "" {
			title = "Untitled role"
		}
		fmt.Fprintf(w, "\n%d. %s\n", i+1, colorize(colorBold, title))
		if job.Company != "" || job.Location != "" {
			fmt.Fprintf(w, "   %s\n", joinNonEmpty(" · ", job.Company, job.Location))
		}
		if job.Description != "" {
			fmt.Fprintf(w, "   %s\n", job.Description)
		}
		if job.URL != "" {
			fmt.Fprintf(w, "   %s\n", colorize(colorCyan, job.URL))
		}
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func writeIndentedJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// --- profile ---

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your job-seeking profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current profile as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return writeIndentedJSON(cmd.OutOrStdout(), a.profile.Snapshot())
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set <field> <value>",
	Short: "Set a profile field (fullName, professionalSummary, desiredRole)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		field, value := args[0], args[1]
		if err := a.profile.UpdateField(field, value); err != nil {
			if errors.Is(err, profile.ErrUnknownField) {
				return fmt.Errorf("%w (valid fields: %s)", err, strings.Join(profile.Fields, ", "))
			}
			return err
		}
		printSuccess("Set %s", field)
		return nil
	},
}

var profileAddSkillCmd = &cobra.Command{
	Use:   "add-skill <skill>",
	Short: "Add a skill to your profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		added, err := a.profile.AddSkill(args[0])
		if err != nil {
			return err
		}
		if !added {
			printWarning("Skill %q is empty or already present", strings.TrimSpace(args[0]))
			return nil
		}
		printSuccess("Added skill %q", strings.TrimSpace(args[0]))
		return nil
	},
}

var profileRemoveSkillCmd = &cobra.Command{
	Use:   "remove-skill <skill>",
	Short: "Remove a skill from your profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		removed, err := a.profile.RemoveSkill(args[0])
		if err != nil {
			return err
		}
		if !removed {
			printWarning("Skill %q not in profile", args[0])
			return nil
		}
		printSuccess("Removed skill %q", args[0])
		return nil
	},
}

var profileImportResumeCmd = &cobra.Command{
	Use:   "import-resume <file.pdf>",
	Short: "Replace the professional summary with text from a PDF resume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		printStep("Reading %s", args[0])
		summary, err := a.profile.ImportResume(args[0])
		if err != nil {
			return err
		}
		printSuccess("Imported %d characters into professionalSummary", len([]rune(summary)))
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileAddSkillCmd)
	profileCmd.AddCommand(profileRemoveSkillCmd)
	profileCmd.AddCommand(profileImportResumeCmd)
}

// --- webhook ---

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Show, change or test the webhook URL",
}

var webhookShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configured webhook URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.endpoint.Configured() {
			printWarning("No webhook URL configured. Set one with: jobseek webhook set <url>")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.endpoint.URL())
		return nil
	},
}

var webhookSetCmd = &cobra.Command{
	Use:   "set <url>",
	Short: "Save the webhook URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.endpoint.Set(args[0]); err != nil {
			return err
		}
		printSuccess("Webhook URL saved")
		return nil
	},
}

var webhookClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the saved webhook URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.endpoint.Clear(); err != nil {
			return err
		}
		printSuccess("Webhook URL cleared")
		return nil
	},
}

var webhookTestCmd = &cobra.Command{
	Use:   "test [url]",
	Short: "Send a test request to the webhook",
	Long: `Send {"testConnection": true} to the given URL, or to the saved one when
no URL is given, and report whether it answered with a 2xx status.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		target := a.endpoint.URL()
		if len(args) == 1 {
			target = strings.TrimSpace(args[0])
		}

		printStep("Testing %s", target)
		res := a.client.TestConnection(cmd.Context(), target)
		if !res.Success {
			printError("%s", res.Error)
			return fmt.Errorf("connection test failed")
		}
		printSuccess("Connection successful")
		return nil
	},
}

func init() {
	webhookCmd.AddCommand(webhookShowCmd)
	webhookCmd.AddCommand(webhookSetCmd)
	webhookCmd.AddCommand(webhookClearCmd)
	webhookCmd.AddCommand(webhookTestCmd)
}

// --- appearance ---

var appearanceCmd = &cobra.Command{
	Use:   "appearance",
	Short: "Show or change the color theme and background",
}

var appearanceShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current theme and background",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ap := a.themes.Load()
		printStatus("Theme", "%s (available: %s)", ap.Palette.Key, strings.Join(theme.ThemeKeys(), ", "))
		printStatus("Background", "%s (available: %s)", ap.Background.Key, strings.Join(theme.BackgroundKeys(), ", "))
		return nil
	},
}

var appearanceThemeCmd = &cobra.Command{
	Use:   "theme <name>",
	Short: "Set the color theme",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ap, err := a.themes.SetTheme(args[0])
		if err != nil {
			return err
		}
		printSuccess("Theme set to %s", ap.Palette.Key)
		return nil
	},
}

var appearanceBackgroundCmd = &cobra.Command{
	Use:   "background <name>",
	Short: "Set the background pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ap, err := a.themes.SetBackground(args[0])
		if err != nil {
			return err
		}
		printSuccess("Background set to %s", ap.Background.Key)
		return nil
	},
}

func init() {
	appearanceCmd.AddCommand(appearanceShowCmd)
	appearanceCmd.AddCommand(appearanceThemeCmd)
	appearanceCmd.AddCommand(appearanceBackgroundCmd)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
