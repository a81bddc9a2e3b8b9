package config

import (
	"fmt"
	"os"

	"ewintr.nl/ytdash/model"
	"gopkg.in/yaml.v3"
)

type channelsFile struct {
	Channels []channelEntry `yaml:"channels"`
}

type channelEntry struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// DefaultChannels is the set tracked when no channels file is given.
func DefaultChannels() model.ChannelSet {
	return model.ChannelSet{
		{ID: "UCMiJRAwDNSNzuYeN2uWa0pA", Name: "Mrwhosetheboss", Color: "#800000"},
		{ID: "UCBJycsmduvYEL83R_U4JriQ", Name: "Marques Brownlee", Color: "#008000"},
		{ID: "UCXuqSBlHAE6Xw-yeJA0Tunw", Name: "Linus Tech Tips", Color: "#000080"},
		{ID: "UCWFKCr40YwOZQx8FHU_ZqqQ", Name: "JerryRigEverything", Color: "#808000"},
		{ID: "UCXGgrKt94gR6lmN4aN3mYTg", Name: "Austin Evans", Color: "#800080"},
		{ID: "UCsTcErHg8oDvUnTzoqsYeNw", Name: "Unbox Therapy", Color: "#008080"},
	}
}

// LoadChannels reads the tracked channels from a YAML file. An empty path
// gives the default set.
func LoadChannels(path string) (model.ChannelSet, error) {
	if path == "" {
		return DefaultChannels(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read channels file: %w", err)
	}
	var cf channelsFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse channels file: %w", err)
	}
	if len(cf.Channels) == 0 {
		return nil, fmt.Errorf("no channels in %s", path)
	}

	set := make(model.ChannelSet, 0, len(cf.Channels))
	seen := map[string]bool{}
	for i, c := range cf.Channels {
		if c.ID == "" {
			return nil, fmt.Errorf("channel at index %d has no id", i)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("channel %s is listed twice", c.ID)
		}
		seen[c.ID] = true
		if c.Color == "" {
			c.Color = model.DefaultChannelColor
		}
		set = append(set, model.Channel{
			ID:    model.YoutubeChannelID(c.ID),
			Name:  c.Name,
			Color: c.Color,
		})
	}

	return set, nil
}
