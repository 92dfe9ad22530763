package mqtt

import "errors"

// ErrInvalidTopic is returned when a message arrives on a topic outside vehicle/{id}/energy.
var ErrInvalidTopic = errors.New("invalid energy topic")
