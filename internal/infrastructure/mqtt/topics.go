package mqtt

import (
	"fmt"
	"strings"
)

// Topic layout:
//
//	rankine/request/cycle            solve requests (JSON cycle.Request)
//	rankine/cycle/{run_id}/result    solved runs (retained JSON cycle.Result)
//	rankine/system/status            online/offline status and LWT
const (
	topicRoot    = "rankine"
	topicRequest = topicRoot + "/request/cycle"
	topicStatus  = topicRoot + "/system/status"
)

// Topics builds rankine topic names. The zero value is ready to use.
type Topics struct{}

// CycleResult returns the topic a solved run is published on. Its
// signature matches the topic func cycle.NewMQTTSink takes.
func (Topics) CycleResult(runID string) string {
	return fmt.Sprintf("%s/cycle/%s/result", topicRoot, runID)
}

// CycleRequest returns the topic solve requests arrive on.
func (Topics) CycleRequest() string { return topicRequest }

// SystemStatus returns the retained status topic.
func (Topics) SystemStatus() string { return topicStatus }

// checkTopic rejects names that cannot be published to: empty names,
// wildcards and NUL.
func checkTopic(topic string) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if strings.ContainsAny(topic, "+#\x00") {
		return fmt.Errorf("%w: %q contains a wildcard or NUL", ErrInvalidTopic, topic)
	}
	return nil
}

// checkFilter rejects subscription filters with misplaced wildcards. '+'
// must fill a whole level; '#' must fill the last one.
func checkFilter(filter string) error {
	if filter == "" || strings.Contains(filter, "\x00") {
		return ErrInvalidTopic
	}
	levels := strings.Split(filter, "/")
	for i, level := range levels {
		switch {
		case level == "#" && i != len(levels)-1:
			return fmt.Errorf("%w: %q has '#' before the last level", ErrInvalidTopic, filter)
		case level == "+", level == "#":
		case strings.ContainsAny(level, "+#"):
			return fmt.Errorf("%w: %q has a wildcard inside level %d", ErrInvalidTopic, filter, i)
		}
	}
	return nil
}
