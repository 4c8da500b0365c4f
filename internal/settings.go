package internal

import (
	"encoding/binary"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	EngineLocal   = "local"
	EngineHotline = "hotline"
)

type Settings struct {
	Nym          string          `yaml:"Nym"`
	Engine       string          `yaml:"Engine"`
	HistoryDB    string          `yaml:"HistoryDB"`
	FragmentFile string          `yaml:"FragmentFile"`
	EnableBell   bool            `yaml:"EnableBell"`
	EnableSounds bool            `yaml:"EnableSounds"`
	Hotline      HotlineSettings `yaml:"Hotline"`
}

// HotlineSettings describes the server whose public chat is carried as a channel.
type HotlineSettings struct {
	Addr     string `yaml:"Addr"`
	Login    string `yaml:"Login"`
	Password string `yaml:"Password"`
	TLS      bool   `yaml:"TLS"`
	IconID   int    `yaml:"IconID"`
	Channel  string `yaml:"Channel"`
}

func (hs *HotlineSettings) IconBytes() []byte {
	iconBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(iconBytes, uint16(hs.IconID))
	return iconBytes
}

// ChannelName returns the channel the server's public chat is shown as.
func (hs *HotlineSettings) ChannelName() string {
	if hs.Channel == "" {
		return "#lobby"
	}
	return hs.Channel
}

// FragmentPath returns where the last selected channel is remembered.
func (cp *Settings) FragmentPath() string {
	if cp.FragmentFile != "" {
		return cp.FragmentFile
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "nymchat", "fragment")
}

func DefaultSettings() *Settings {
	return &Settings{
		Engine:     EngineLocal,
		EnableBell: true,
	}
}

func ReadSettings(cfgPath string) (*Settings, error) {
	fh, err := os.Open(cfgPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = fh.Close()
	}()

	prefs := DefaultSettings()
	decoder := yaml.NewDecoder(fh)
	if err := decoder.Decode(prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func SaveSettings(cfgPath string, prefs *Settings) error {
	out, err := yaml.Marshal(prefs)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(cfgPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(cfgPath, out, 0666)
}
