package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matsen/genusmatch/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

With no arguments the effective configuration is shown: defaults, then the
global config, the project file, and GENUSMATCH_* environment variables.
Setting a value writes it to the project file (genusmatch.yml or --config).

Usage:
  genusmatch config                    # Show all config
  genusmatch config threshold          # Get specific value
  genusmatch config threshold 2.5      # Set value
  genusmatch config data-dir ~/data    # Set data directory

Keys:
  data-dir       Directory holding <family>_genera.txt and <family>_abstracts_full.txt
  families-file  Family list used by batch (relative to data-dir unless absolute)
  threshold      Match cutoff in percent; a document must exceed it
  mode           Vocabulary mode (pairwise, global)
  workers        Documents scored concurrently
  out-dir        Where batch charts are written
  history        Record runs to the history log (true, false)
  history-dir    Where runs.jsonl and its query cache live`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// ConfigResponse is the response for showing the effective config.
type ConfigResponse struct {
	DataDir      string  `json:"data_dir"`
	FamiliesFile string  `json:"families_file"`
	Threshold    float64 `json:"threshold"`
	Mode         string  `json:"mode"`
	Workers      int     `json:"workers"`
	OutDir       string  `json:"out_dir"`
	History      bool    `json:"history"`
	HistoryDir   string  `json:"history_dir"`
}

// UpdateResponse is the response for a config set.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// configKeys lists the settable keys in display order.
var configKeys = []string{"data-dir", "families-file", "threshold", "mode", "workers", "out-dir", "history", "history-dir"}

func runConfig(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		if humanOutput {
			for _, k := range configKeys {
				v, _ := configValue(cfg, k)
				outputHuman("%-14s %s\n", k+":", v)
			}
			return nil
		}
		return outputJSON(ConfigResponse{
			DataDir:      cfg.DataDir,
			FamiliesFile: cfg.FamiliesFile,
			Threshold:    cfg.Threshold,
			Mode:         cfg.Mode,
			Workers:      cfg.Workers,
			OutDir:       cfg.OutDir,
			History:      cfg.History,
			HistoryDir:   cfg.HistoryDir,
		})
	}

	key := normalizeKey(args[0])

	if len(args) == 1 {
		v, ok := configValue(cfg, key)
		if !ok {
			return withCode(ExitError, "unknown configuration key: %s", args[0])
		}
		if humanOutput {
			outputHuman("%s\n", v)
			return nil
		}
		return outputJSON(map[string]string{strings.ReplaceAll(key, "-", "_"): v})
	}

	// Only the project file is edited, so values from the environment or the
	// global config are not copied into it.
	project, err := config.Load(configPath)
	if err != nil {
		return withCode(ExitConfigError, "%v", err)
	}
	value := args[1]
	if err := setConfigValue(project, key, value); err != nil {
		return err
	}
	if err := project.Validate(); err != nil {
		return withCode(ExitConfigError, "%v", err)
	}
	if err := project.Save(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if humanOutput {
		outputHuman("Updated %s to %s\n", key, value)
		return nil
	}
	return outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
}

func configValue(c *config.Config, key string) (string, bool) {
	switch key {
	case "data-dir":
		return c.DataDir, true
	case "families-file":
		return c.FamiliesFile, true
	case "threshold":
		return strconv.FormatFloat(c.Threshold, 'g', -1, 64), true
	case "mode":
		return c.Mode, true
	case "workers":
		return strconv.Itoa(c.Workers), true
	case "out-dir":
		return c.OutDir, true
	case "history":
		return strconv.FormatBool(c.History), true
	case "history-dir":
		return c.HistoryDir, true
	}
	return "", false
}

func setConfigValue(c *config.Config, key, value string) error {
	switch key {
	case "data-dir":
		c.DataDir = value
	case "families-file":
		c.FamiliesFile = value
	case "threshold":
		t, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return withCode(ExitConfigError, "invalid threshold: %s", value)
		}
		c.Threshold = t
	case "mode":
		c.Mode = value
	case "workers":
		n, err := strconv.Atoi(value)
		if err != nil {
			return withCode(ExitConfigError, "invalid workers: %s", value)
		}
		c.Workers = n
	case "out-dir":
		c.OutDir = value
	case "history":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return withCode(ExitConfigError, "invalid history: %s", value)
		}
		c.History = b
	case "history-dir":
		c.HistoryDir = value
	default:
		return withCode(ExitError, "unknown configuration key: %s", key)
	}
	return nil
}

// normalizeKey converts key formats (data-dir, data_dir, DATA_DIR) to consistent format
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "-")
	return key
}
