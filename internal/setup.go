package internal

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
)

// setupValues holds the first-run form fields as strings the form can bind to.
type setupValues struct {
	nym          string
	engine       string
	historyDB    string
	addr         string
	login        string
	password     string
	iconID       string
	useTLS       bool
	enableBell   bool
	enableSounds bool
}

func buildSetupForm(v *setupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("nym").
				Title("Nym").
				Description("Leave empty for a random one").
				Value(&v.nym),

			huh.NewSelect[string]().
				Key("engine").
				Title("Chat Network").
				Options(
					huh.NewOption("Local (history on disk)", EngineLocal),
					huh.NewOption("Hotline server", EngineHotline),
				).
				Value(&v.engine),

			huh.NewConfirm().
				Key("enableBell").
				Title("Terminal Bell on mention").
				Affirmative("On").
				Negative("Off").
				Value(&v.enableBell),

			huh.NewConfirm().
				Key("enableSounds").
				Title("Sounds").
				Affirmative("On").
				Negative("Off").
				Value(&v.enableSounds),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("historyDB").
				Title("History Database").
				Placeholder("empty keeps history in memory").
				Value(&v.historyDB),
		).WithHideFunc(func() bool { return v.engine != EngineLocal }),
		huh.NewGroup(
			huh.NewInput().
				Key("addr").
				Title("Server Address").
				Placeholder("host[:port]").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("address is required")
					}
					return nil
				}).
				Value(&v.addr),

			huh.NewInput().
				Key("login").
				Title("Login").
				Placeholder("guest").
				Value(&v.login),

			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&v.password),

			huh.NewInput().
				Key("iconID").
				Title("Icon ID").
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					_, err := strconv.Atoi(s)
					return err
				}).
				Value(&v.iconID),

			huh.NewConfirm().
				Key("tls").
				Title("Use TLS").
				Affirmative("Yes").
				Negative("No").
				Value(&v.useTLS),
		).WithHideFunc(func() bool { return v.engine != EngineHotline }),
	).
		WithWidth(50).
		WithShowHelp(false).
		WithShowErrors(true)
}

// RunSetup asks for first-run settings and saves them to cfgPath.
func RunSetup(cfgPath string) (*Settings, error) {
	defaults := DefaultSettings()
	v := &setupValues{
		engine:       defaults.Engine,
		enableBell:   defaults.EnableBell,
		enableSounds: defaults.EnableSounds,
	}

	if err := buildSetupForm(v).Run(); err != nil {
		return nil, err
	}

	prefs := v.settings()
	if err := SaveSettings(cfgPath, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func (v *setupValues) settings() *Settings {
	prefs := DefaultSettings()
	prefs.Nym = strings.TrimSpace(v.nym)
	prefs.Engine = v.engine
	prefs.EnableBell = v.enableBell
	prefs.EnableSounds = v.enableSounds

	switch v.engine {
	case EngineLocal:
		prefs.HistoryDB = strings.TrimSpace(v.historyDB)
	case EngineHotline:
		iconID, _ := strconv.Atoi(v.iconID)
		prefs.Hotline = HotlineSettings{
			Addr:     strings.TrimSpace(v.addr),
			Login:    v.login,
			Password: v.password,
			TLS:      v.useTLS,
			IconID:   iconID,
		}
	}
	return prefs
}
