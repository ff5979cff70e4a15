package logging

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrorRecorder is a logrus hook remembering every record of error severity or worse.
// It is the sink used to decide whether an engine run passed.
type ErrorRecorder struct {
	mutex    sync.Mutex
	messages []string
}

var _ logrus.Hook = &ErrorRecorder{}

func NewErrorRecorder() *ErrorRecorder {
	return &ErrorRecorder{}
}

func (r *ErrorRecorder) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel}
}

func (r *ErrorRecorder) Fire(e *logrus.Entry) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.messages = append(r.messages, e.Message)
	return nil
}

func (r *ErrorRecorder) HasError() bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.messages) > 0
}

// Messages returns a copy of the recorded error messages in order of appearance.
func (r *ErrorRecorder) Messages() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	messages := make([]string, len(r.messages))
	copy(messages, r.messages)
	return messages
}
