package daqmx

import "strings"

// UnflattenChannelString splits a DAQmx channel list such as
// "Dev1/ai0, Dev1/ai1" into its names.  Whitespace around each name is
// dropped, and an empty list yields no names.
//
// TODO: expand colon ranges ("Dev1/ai0:3"), the driver may return them for
// physical channel lists.  They are passed through as a single name for now.
func UnflattenChannelString(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	chunks := strings.Split(s, ",")
	names := make([]string, len(chunks))
	for i, c := range chunks {
		names[i] = strings.TrimSpace(c)
	}
	return names
}

// FlattenChannelString is the inverse of UnflattenChannelString
func FlattenChannelString(names []string) string {
	return strings.Join(names, ", ")
}
