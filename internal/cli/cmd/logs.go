package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/linkmark/internal/cli"
	"github.com/bnema/linkmark/internal/cli/styles"
	"github.com/bnema/linkmark/internal/infrastructure/config"
)

var (
	logsFollow bool
	logsLines  int
)

const (
	defaultLogsLines = 50
	followPoll       = 100 * time.Millisecond
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the log of live sessions",
	Long: `Show the log file written by 'linkmark open'.

Examples:
  linkmark logs            # last 50 lines
  linkmark logs -n 200
  linkmark logs -f         # follow in real-time`,
	RunE: runLogs,
}

var logsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the log file and its rotated backups",
	RunE:  runLogsClear,
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(logsClearCmd)

	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "follow log output in real-time")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", defaultLogsLines, "number of lines to show")
}

func logPath() string {
	return filepath.Join(config.GetStateDir(), cli.LogFileName)
}

func runLogs(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	path := logPath()
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(cmd.OutOrStdout(), app.Theme.Subtle.Render("No logs yet. Run 'linkmark open' to create them."))
			return nil
		}
		return fmt.Errorf("stat log file: %w", err)
	}

	out := cmd.OutOrStdout()
	if logsFollow {
		ctx, stop := signal.NotifyContext(app.Ctx(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return followLog(ctx, path, out, app.Theme)
	}
	return showLog(path, logsLines, out, app.Theme)
}

// showLog prints the last n lines of the file at path.
func showLog(path string, n int, w io.Writer, theme *styles.Theme) (retErr error) {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("close log file: %w", closeErr)
		}
	}()

	lines, err := lastLines(file, n)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Fprintln(w, colorizeLogLine(line, theme))
	}
	return nil
}

// lastLines keeps a ring of the final n lines of r.
func lastLines(r io.Reader, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(ring) == n {
			ring = append(ring[:0], ring[1:]...)
		}
		ring = append(ring, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}
	return ring, nil
}

func followLog(ctx context.Context, path string, w io.Writer, theme *styles.Theme) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	_, _ = file.Seek(0, io.SeekEnd)

	fmt.Fprintln(w, theme.Subtle.Render("Following logs... (Ctrl+C to stop)"))
	fmt.Fprintln(w)

	reader := bufio.NewReader(file)
	pending := ""
	for {
		chunk, err := reader.ReadString('\n')
		pending += chunk
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return fmt.Errorf("read log file: %w", err)
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(followPoll):
			}
			continue
		}

		line := strings.TrimSuffix(pending, "\n")
		pending = ""
		fmt.Fprintln(w, colorizeLogLine(line, theme))
	}
}

func runLogsClear(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	path := logPath()
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), base+"*"))
	if err != nil {
		return err
	}

	removed := 0
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", m, err)
		}
		removed++
	}
	fmt.Fprintln(cmd.OutOrStdout(), app.Theme.SuccessStyle.Render(fmt.Sprintf("✓ Removed %d log files", removed)))
	return nil
}

// logEntry is one JSON line written by zerolog.
type logEntry struct {
	Level   string `json:"level"`
	Time    string `json:"time"`
	Message string `json:"message"`
	Session string `json:"session_id"`
}

// colorizeLogLine adds color based on log level.
func colorizeLogLine(line string, theme *styles.Theme) string {
	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err == nil && entry.Level != "" {
		return formatJSONLogLine(entry, theme)
	}

	upper := strings.ToUpper(line)
	switch {
	case strings.Contains(upper, "ERR"):
		return theme.ErrorStyle.Render(line)
	case strings.Contains(upper, "WRN"), strings.Contains(upper, "WARN"):
		return theme.WarningStyle.Render(line)
	case strings.Contains(upper, "DBG"), strings.Contains(upper, "DEBUG"):
		return theme.Subtle.Render(line)
	default:
		return line
	}
}

func formatJSONLogLine(entry logEntry, theme *styles.Theme) string {
	var level string
	switch entry.Level {
	case "error", "fatal", "panic":
		level = theme.ErrorStyle.Render("ERR")
	case "warn":
		level = theme.WarningStyle.Render("WRN")
	case "info":
		level = theme.Highlight.Render("INF")
	case "debug":
		level = theme.Subtle.Render("DBG")
	case "trace":
		level = theme.Subtle.Render("TRC")
	default:
		level = entry.Level
	}

	parts := []string{theme.Subtle.Render(entry.Time), level}
	if entry.Session != "" {
		short := entry.Session
		if len(short) > 8 {
			short = short[:8]
		}
		parts = append(parts, theme.BadgeMuted.Render(short))
	}
	parts = append(parts, entry.Message)
	return strings.Join(parts, " ")
}
