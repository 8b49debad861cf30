package stream

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the service configuration read from YAML.
type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		ClientID string `yaml:"clientID"`
		Topics   struct {
			Steps   string `yaml:"steps"`
			Updates string `yaml:"updates"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Animation AnimationConfig `yaml:"animation"`
	Deck      string          `yaml:"deck"`
	API       struct {
		Listen string `yaml:"listen"`
	} `yaml:"api"`
}

// AnimationConfig holds engine defaults. Times are in milliseconds.
type AnimationConfig struct {
	SkipThreshold   float64 `yaml:"skipThreshold"`
	DefaultDuration float64 `yaml:"defaultDuration"`
	DefaultEasing   string  `yaml:"defaultEasing"`
	Throttle        float64 `yaml:"throttle"`
	FrameInterval   float64 `yaml:"frameInterval"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Mqtt.ClientID == "" {
		c.Mqtt.ClientID = "ledstep"
	}
	if c.Mqtt.Topics.Steps == "" {
		c.Mqtt.Topics.Steps = "ledstep/steps"
	}
	if c.Mqtt.Topics.Updates == "" {
		c.Mqtt.Topics.Updates = "ledstep/updates"
	}
	if c.Animation.SkipThreshold == 0 {
		c.Animation.SkipThreshold = 300
	}
	if c.Animation.DefaultDuration == 0 {
		c.Animation.DefaultDuration = 1000
	}
	if c.Animation.DefaultEasing == "" {
		c.Animation.DefaultEasing = "inOutQuad"
	}
	if c.Animation.Throttle == 0 {
		c.Animation.Throttle = 32
	}
	if c.Animation.FrameInterval == 0 {
		c.Animation.FrameInterval = 16
	}
	if c.Deck == "" {
		c.Deck = "deck.yaml"
	}
	if c.API.Listen == "" {
		c.API.Listen = ":3000"
	}
}

// ReadConfig decodes the YAML file at path and applies defaults.
func ReadConfig(path string) (Config, error) {
	var config Config

	f, err := os.Open(path)
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&config); err != nil {
		return config, fmt.Errorf("decode config %s: %w", path, err)
	}

	config.ApplyDefaults()
	return config, nil
}
