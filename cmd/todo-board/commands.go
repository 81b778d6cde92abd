package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"todo-board/app"
	"todo-board/export"
	"todo-board/model"
	"todo-board/version"
)

// uiCmd implements 'todo-board ui'.
func uiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd.Context())
		},
	}
}

// addCmd implements 'todo-board add'.
func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <message...>",
		Short: "Add a task in To Do",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer b.Close()

			t, err := b.svc.Create(cmd.Context(), strings.Join(args, " "))
			if errors.Is(err, app.ErrEmptyMessage) {
				b.logger.Debug("ignored blank task")
				return nil
			}
			if err != nil {
				return err
			}
			b.logger.Debug("task added", "id", t.ID)
			printOutput(formatter.FormatTask(t))
			return nil
		},
	}
}

// listCmd implements 'todo-board list'.
func listCmd() *cobra.Command {
	var filter, search string
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List visible tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := parseFilter(filter)
			if err != nil {
				return err
			}
			b, err := openBoard(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer b.Close()

			if all {
				printOutput(formatter.FormatTaskList(b.svc.Tasks()))
				return nil
			}
			printOutput(formatter.FormatTaskList(b.svc.VisibleTasks(f, search)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "Status filter (all, todo, doing, done)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive text search")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include deleted tasks and ignore filter and search")
	return cmd
}

// statusCmd implements 'todo-board status'.
func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move a task to todo, doing or done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := model.ParseStatus(args[1])
			if err != nil {
				return InvalidStatusError{Value: args[1]}
			}
			b, err := openBoard(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer b.Close()

			changed, err := b.svc.SetStatus(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			if !changed {
				return TaskNotFoundError{ID: args[0]}
			}
			t, _ := b.svc.Task(args[0])
			printOutput(formatter.FormatTask(t))
			return nil
		},
	}
}

// rmCmd implements 'todo-board rm'.
func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer b.Close()

			changed, err := b.svc.SoftDelete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !changed {
				return TaskNotFoundError{ID: args[0]}
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Deleted task %s", args[0])))
			return nil
		},
	}
}

// clearCmd implements 'todo-board clear'.
func clearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes && !confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), "Delete all tasks? [y/N] ") {
				printOutput(formatter.FormatMessage("Cancelled"))
				return nil
			}
			b, err := openBoard(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer b.Close()

			n, err := b.svc.SoftDeleteAll(cmd.Context())
			if err != nil {
				return err
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Deleted %d tasks", n)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// themeCmd implements 'todo-board theme'.
func themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [toggle|dark|light]",
		Short:     "Show or change the dark mode preference",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"toggle", "dark", "light"},
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer b.Close()

			if len(args) == 1 {
				switch strings.ToLower(args[0]) {
				case "toggle":
					_, err = b.svc.ToggleDarkMode(cmd.Context())
				case "dark":
					err = b.svc.SetDarkMode(cmd.Context(), true)
				case "light":
					err = b.svc.SetDarkMode(cmd.Context(), false)
				default:
					return InvalidThemeError{Value: args[0]}
				}
				if err != nil {
					return err
				}
			}
			printOutput(formatter.FormatTheme(b.svc.DarkMode()))
			return nil
		},
	}
}

// statsCmd implements 'todo-board stats'.
func statsCmd() *cobra.Command {
	var filter, search string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := parseFilter(filter)
			if err != nil {
				return err
			}
			b, err := openBoard(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer b.Close()

			printOutput(formatter.FormatStats(b.svc.Stats(f, search)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "Status filter used for the visible count")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Search used for the visible count")
	return cmd
}

// exportCmd implements 'todo-board export'.
func exportCmd() *cobra.Command {
	var format, out, filter, search string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export visible tasks as json, csv, markdown, yaml or pdf",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := parseFilter(filter)
			if err != nil {
				return err
			}
			b, err := openBoard(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer b.Close()

			tasks := b.svc.VisibleTasks(f, search)
			if out == "" || out == "-" {
				return export.Write(os.Stdout, format, tasks)
			}
			path := out
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				path = filepath.Join(path, "tasks"+export.Extension(format))
			}
			data, err := export.Render(format, tasks)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			b.logger.Info("exported tasks", "format", format, "file", path)
			printOutput(formatter.FormatMessage(fmt.Sprintf("Exported to %s", path)))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Format: "+strings.Join(export.Formats, ", "))
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file or directory (default stdout)")
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "Status filter")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive text search")
	return cmd
}

// versionCmd implements 'todo-board version'.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			printOutput(formatter.FormatVersion(version.Read()))
		},
	}
}

func parseFilter(v string) (model.Filter, error) {
	f, err := model.ParseFilter(v)
	if err != nil {
		return "", InvalidFilterError{Value: v}
	}
	return f, nil
}

// confirm asks a yes/no question; only y or yes proceeds.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
