package model

const DefaultChannelColor = "#808080"

type Channel struct {
	ID    YoutubeChannelID
	Name  string
	Color string
}

// ChannelSet is the configured, ordered list of tracked channels.
type ChannelSet []Channel

func (cs ChannelSet) IDs() []YoutubeChannelID {
	ids := make([]YoutubeChannelID, 0, len(cs))
	for _, c := range cs {
		ids = append(ids, c.ID)
	}

	return ids
}

// Color returns the display color for a channel name.
func (cs ChannelSet) Color(name string) string {
	for _, c := range cs {
		if c.Name == name && c.Color != "" {
			return c.Color
		}
	}

	return DefaultChannelColor
}
