package shell

import (
	"embed"
	"slices"
)

//go:embed helptext/*.txt
var helptext embed.FS

var helpTopics = []string{"play", "search", "trace", "set", "autoplay", "board"}

func usage() string {
	dat, err := helptext.ReadFile("helptext/usage.txt")
	if err != nil {
		return "Error loading helptext: " + err.Error()
	}
	return string(dat)
}

func usageTopic(topic string) string {
	if !slices.Contains(helpTopics, topic) {
		return "There is no help text for the topic " + topic
	}
	dat, err := helptext.ReadFile("helptext/" + topic + ".txt")
	if err != nil {
		return "There is no help text for the topic " + topic
	}
	return string(dat)
}
