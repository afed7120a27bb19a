package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vmunix/unzipr/internal/events"
	"github.com/vmunix/unzipr/internal/store"
)

var settingSessionID int64

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage per-session rename settings",
	Long: `Get and set per-session settings. Settings override the config file
for that session; command-line flags override both.

Known keys: template, channel, pad_width.`,
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings for a session",
	Args:  cobra.NoArgs,
	RunE:  runSettingsList,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a setting, falling back to the config file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsUnset,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.PersistentFlags().Int64Var(&settingSessionID, "session", 1, "Session ID")
	settingsCmd.AddCommand(settingsListCmd, settingsGetCmd, settingsSetCmd, settingsUnsetCmd)
}

var knownSettingKeys = map[string]bool{
	store.KeyTemplate: true,
	store.KeyChannel:  true,
	store.KeyPadWidth: true,
}

func checkSettingKey(key string) error {
	if !knownSettingKeys[key] {
		return fmt.Errorf("unknown setting %q (known: template, channel, pad_width)", key)
	}
	return nil
}

func runSettingsList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	settings, err := store.NewStore(db).Settings(settingSessionID)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(settings)
	}

	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%-12s %s\n", k, settings[k])
	}
	if len(keys) == 0 {
		fmt.Println("(no settings; config file defaults apply)")
	}
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	if err := checkSettingKey(args[0]); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	value, err := store.NewStore(db).GetSetting(settingSessionID, args[0])
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("setting %q not set for session %d", args[0], settingSessionID)
	}
	if err != nil {
		return err
	}
	fmt.Println(value)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	if err := checkSettingKey(key); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := store.NewStore(db).SetSetting(settingSessionID, key, value); err != nil {
		return err
	}

	bus := events.NewBus(events.NewEventLog(db), newLogger(cfg))
	defer func() { _ = bus.Close() }()
	_ = bus.Publish(cmd.Context(), &events.SettingsChanged{
		EventMeta: events.NewMeta(events.EventSettingsChanged, events.EntitySession, settingSessionID),
		Key:       key,
		Value:     value,
	})

	fmt.Printf("%s = %s (session %d)\n", key, value, settingSessionID)
	return nil
}

func runSettingsUnset(cmd *cobra.Command, args []string) error {
	if err := checkSettingKey(args[0]); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := store.NewStore(db).DeleteSetting(settingSessionID, args[0]); err != nil {
		return err
	}
	fmt.Printf("%s unset (session %d)\n", args[0], settingSessionID)
	return nil
}
