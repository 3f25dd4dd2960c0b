package app

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds the application configuration, read from an optional
// tactics-board.yaml next to the binary or under the user config dir.
type Config struct {
	PitchLength float64
	PitchWidth  float64

	WindowWidth  int
	WindowHeight int

	SimulationInterval float64
	DemoSeconds        int

	APIEnabled bool
	APIAddr    string
}

// LoadConfig reads the configuration, falling back to defaults when no
// config file exists.
func LoadConfig() *Config {
	v := viper.New()
	v.SetConfigName("tactics-board")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/tactics-board")
	v.SetEnvPrefix("tactics")
	v.AutomaticEnv()

	v.SetDefault("pitch.length", 105.0)
	v.SetDefault("pitch.width", 68.0)
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 860)
	v.SetDefault("simulation.interval", 3.0)
	v.SetDefault("demo.seconds", 120)
	v.SetDefault("api.enabled", false)
	v.SetDefault("api.addr", ":8732")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("config: %v (using defaults)", err)
		}
	}

	return &Config{
		PitchLength:        v.GetFloat64("pitch.length"),
		PitchWidth:         v.GetFloat64("pitch.width"),
		WindowWidth:        v.GetInt("window.width"),
		WindowHeight:       v.GetInt("window.height"),
		SimulationInterval: v.GetFloat64("simulation.interval"),
		DemoSeconds:        v.GetInt("demo.seconds"),
		APIEnabled:         v.GetBool("api.enabled"),
		APIAddr:            v.GetString("api.addr"),
	}
}
